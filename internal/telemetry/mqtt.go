// Package telemetry publishes simulation state over MQTT so the run can be
// watched from any broker client.
package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/mnowicki/heatlab/internal/config"
	"github.com/mnowicki/heatlab/internal/heat"
)

type Config struct {
	// Identity
	RunID string

	// MQTT connection
	BrokerURL string
	ClientID  string

	// Topics
	BaseTopic string

	// Behavior
	QoS byte
	// PublishEvery throttles publishing to one snapshot per that many
	// solver steps.
	PublishEvery int

	Username string
	Password string
}

// Publisher pushes a snapshot to the broker every PublishEvery steps.
// It implements the solver observer interface, so attaching it is
// solver.AddObserver(pub).
type Publisher struct {
	cfg    Config
	client mqtt.Client
	solver *heat.Solver
}

func New(solver *heat.Solver, cfg Config) (*Publisher, error) {
	if cfg.RunID == "" {
		return nil, errors.New("mqtt: RunID is required")
	}
	if cfg.BrokerURL == "" {
		cfg.BrokerURL = "tcp://localhost:1883"
	}
	if cfg.BaseTopic == "" {
		cfg.BaseTopic = "heatlab/" + cfg.RunID
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "heatlab-" + cfg.RunID
	}
	if cfg.PublishEvery <= 0 {
		cfg.PublishEvery = 200
	}
	if cfg.QoS > 1 {
		return nil, errors.New("mqtt: QoS must be 0 or 1")
	}
	return &Publisher{cfg: cfg, solver: solver}, nil
}

// Connect dials the broker. Must be called before the run starts.
func (p *Publisher) Connect() error {
	opts := mqtt.NewClientOptions().
		AddBroker(p.cfg.BrokerURL).
		SetClientID(p.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(2 * time.Second)

	if p.cfg.Username != "" {
		opts.SetUsername(p.cfg.Username)
		opts.SetPassword(p.cfg.Password)
	}

	p.client = mqtt.NewClient(opts)
	tok := p.client.Connect()
	tok.Wait()
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.client != nil {
		p.client.Disconnect(250)
	}
}

type snapshotDTO struct {
	Step      int     `json:"step"`
	TimeS     float64 `json:"time_s"`
	MeanC     float64 `json:"mean_c"`
	EnergyKWh float64 `json:"energy_kwh"`
	Heating   bool    `json:"heating"`
}

// OnStep publishes the current snapshot when the throttle allows.
func (p *Publisher) OnStep(step int, f *heat.Field, energy float64) {
	if p.client == nil || step%p.cfg.PublishEvery != 0 {
		return
	}

	dto := snapshotDTO{
		Step:      step,
		TimeS:     float64(step) * p.solver.Config().Dt,
		MeanC:     config.KtoC(f.Mean()),
		EnergyKWh: energy / 3.6e6,
		Heating:   p.solver.Heating(),
	}
	b, _ := json.Marshal(dto)
	p.client.Publish(p.topic("snapshot"), p.cfg.QoS, false, b)
}

func (p *Publisher) topic(suffix string) string {
	return strings.TrimRight(p.cfg.BaseTopic, "/") + "/" + suffix
}
