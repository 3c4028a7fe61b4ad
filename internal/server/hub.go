// Package server streams a running simulation over a websocket. Each
// connection gets its own solver; the client configures a scenario, starts
// and stops the run, and receives downsampled field frames as JSON.
package server

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/mnowicki/heatlab/internal/config"
	"github.com/mnowicki/heatlab/internal/experiment"
	"github.com/mnowicki/heatlab/internal/viz"
)

// Msg is the request/reply envelope. Type selects the action, Content
// carries the payload: a scenario for "scenario", a frame for "frame".
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Frame is one streamed snapshot of the field.
type Frame struct {
	Step      int         `json:"step"`
	TimeS     float64     `json:"time_s"`
	MeanC     float64     `json:"mean_c"`
	EnergyKWh float64     `json:"energy_kwh"`
	Heating   bool        `json:"heating"`
	Cells     [][]float64 `json:"cells"` // degC, top row first
}

const (
	frameCols     = 64
	frameRows     = 32
	frameInterval = 100 * time.Millisecond
	stepsPerFrame = 40
)

// Hub owns one client connection and its simulation.
type Hub struct {
	cfg  config.Config
	conn *websocket.Conn
	log  *logrus.Entry

	mu      sync.Mutex
	exp     *experiment.Experiment
	stop    chan struct{}
	writeMu sync.Mutex
}

func NewHub(cfg config.Config, conn *websocket.Conn, log *logrus.Entry) *Hub {
	return &Hub{cfg: cfg, conn: conn, log: log}
}

func (h *Hub) writeJSON(v interface{}) error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	return h.conn.WriteJSON(v)
}

func (h *Hub) reply(msgType, content string) {
	if err := h.writeJSON(Msg{Type: msgType, Content: content}); err != nil {
		h.log.WithError(err).Warn("write failed")
	}
}

// Handle dispatches one client message.
func (h *Hub) Handle(msg Msg) {
	switch msg.Type {
	case "scenario":
		h.handleScenario(msg.Content)
	case "start":
		h.handleStart()
	case "stop":
		h.handleStop()
	default:
		h.log.WithField("type", msg.Type).Warn("unknown message type")
		h.reply("error", fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

// handleScenario accepts either a preset name or a JSON scenario object.
func (h *Hub) handleScenario(content string) {
	scn, err := resolveScenario(content)
	if err != nil {
		h.reply("error", err.Error())
		return
	}

	exp, err := experiment.New(h.cfg, scn)
	if err != nil {
		h.reply("error", err.Error())
		return
	}

	h.mu.Lock()
	h.stopLocked()
	h.exp = exp
	h.mu.Unlock()

	h.log.WithField("scenario", scn.Name).Info("scenario configured")
	h.reply("configured", scn.Name)
}

func resolveScenario(content string) (experiment.Scenario, error) {
	if scn, ok := experiment.Get(content); ok {
		return scn, nil
	}
	var scn experiment.Scenario
	if err := json.Unmarshal([]byte(content), &scn); err != nil {
		return experiment.Scenario{}, fmt.Errorf("no preset %q and not a scenario object", content)
	}
	return scn, nil
}

func (h *Hub) handleStart() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.exp == nil {
		exp, err := experiment.New(h.cfg, experiment.Scenario{Name: "default", WindowLeft: true, CostShare: 1})
		if err != nil {
			h.reply("error", err.Error())
			return
		}
		h.exp = exp
	}
	if h.stop != nil {
		h.reply("started", "already running")
		return
	}

	h.stop = make(chan struct{})
	go h.stream(h.exp, h.stop)
	h.reply("started", "")
}

func (h *Hub) handleStop() {
	h.mu.Lock()
	h.stopLocked()
	h.mu.Unlock()
	h.reply("stopped", "")
}

func (h *Hub) stopLocked() {
	if h.stop != nil {
		close(h.stop)
		h.stop = nil
	}
}

// Stop terminates any running stream; called when the connection drops.
func (h *Hub) Stop() {
	h.mu.Lock()
	h.stopLocked()
	h.mu.Unlock()
}

// stream advances the solver in batches and pushes a frame per tick until
// stopped or the write fails.
func (h *Hub) stream(exp *experiment.Experiment, stop chan struct{}) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			exp.Solver().Run(stepsPerFrame)
			frame := buildFrame(exp)
			data, err := json.Marshal(frame)
			if err != nil {
				h.log.WithError(err).Error("frame marshal failed")
				return
			}
			if err := h.writeJSON(Msg{Type: "frame", Content: string(data)}); err != nil {
				h.log.WithError(err).Info("client gone, stopping stream")
				return
			}
		}
	}
}

func buildFrame(exp *experiment.Experiment) Frame {
	solver := exp.Solver()
	field := solver.Field()

	cells := viz.Downsample(field, frameCols, frameRows)
	for r := range cells {
		for c := range cells[r] {
			cells[r][c] = config.KtoC(cells[r][c])
		}
	}

	return Frame{
		Step:      solver.Steps(),
		TimeS:     float64(solver.Steps()) * solver.Config().Dt,
		MeanC:     config.KtoC(field.Mean()),
		EnergyKWh: solver.TotalEnergy() / 3.6e6,
		Heating:   solver.Heating(),
		Cells:     cells,
	}
}
