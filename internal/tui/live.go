// Package tui is the live terminal view: the room heatmap animating next to
// a stats panel while the solver runs.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mnowicki/heatlab/internal/config"
	"github.com/mnowicki/heatlab/internal/experiment"
	"github.com/mnowicki/heatlab/internal/viz"
)

const (
	mapCols         = 64
	mapRows         = 16
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).Width(42)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	heatOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	heatOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model steps an experiment a batch at a time and renders the field between
// batches.
type Model struct {
	cfg config.Config
	scn experiment.Scenario

	exp           *experiment.Experiment
	running       bool
	stepsPerFrame int
	meanHistory   []float64
	showHelp      bool
	err           error
}

// NewModel builds the live view. The experiment is constructed immediately
// so a bad scenario fails before the program starts.
func NewModel(cfg config.Config, scn experiment.Scenario) (Model, error) {
	exp, err := experiment.New(cfg, scn)
	if err != nil {
		return Model{}, err
	}
	return Model{
		cfg:           cfg,
		scn:           scn,
		exp:           exp,
		running:       true,
		stepsPerFrame: 40,
		meanHistory:   make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.stepsPerFrame *= 2
			if m.stepsPerFrame > 5120 {
				m.stepsPerFrame = 5120
			}
		case "-", "_":
			m.stepsPerFrame /= 2
			if m.stepsPerFrame < 1 {
				m.stepsPerFrame = 1
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.exp.Solver().Run(m.stepsPerFrame)
			m.meanHistory = append(m.meanHistory, config.KtoC(m.exp.Solver().Field().Mean()))
			if len(m.meanHistory) > historyCapacity {
				m.meanHistory = m.meanHistory[1:]
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) reset() {
	exp, err := experiment.New(m.cfg, m.scn)
	if err != nil {
		m.err = err
		return
	}
	m.exp = exp
	m.meanHistory = m.meanHistory[:0]
}

func (m Model) View() string {
	if m.err != nil {
		return "error: " + m.err.Error() + "\n"
	}

	solver := m.exp.Solver()
	field := solver.Field()
	hc := solver.Config()

	// fixed color scale anchored to outdoor and a bit above the setpoint,
	// so the palette stays put while the room warms up
	lo := hc.UOutdoor
	hi := hc.ThermostatTemp + 5
	canvas := viz.HeatmapScaled(field, mapCols, mapRows, lo, hi)
	canvas += viz.ColorBar(config.KtoC(lo), config.KtoC(hi), mapCols-14) + "\n"

	var s strings.Builder
	name := m.scn.Name
	if name == "" {
		name = "custom"
	}
	s.WriteString(headerStyle.Render(strings.ToUpper(name)) + "\n")
	if m.running {
		s.WriteString("RUNNING\n\n")
	} else {
		s.WriteString("PAUSED\n\n")
	}

	simTime := float64(solver.Steps()) * hc.Dt
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.1f s", simTime)) + "\n")
	s.WriteString(labelStyle.Render("Mean") + valueStyle.Render(fmt.Sprintf("%.2f °C", config.KtoC(field.Mean()))) + "\n")
	fmin, fmax := field.MinMax()
	s.WriteString(labelStyle.Render("Range") + valueStyle.Render(fmt.Sprintf("%.1f – %.1f °C", config.KtoC(fmin), config.KtoC(fmax))) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.3f kWh", solver.TotalEnergy()/3.6e6)) + "\n")
	if solver.Heating() {
		s.WriteString(labelStyle.Render("Radiator") + heatOnStyle.Render("● ON") + "\n")
	} else {
		s.WriteString(labelStyle.Render("Radiator") + heatOffStyle.Render("○ off") + "\n")
	}
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%d steps/frame", m.stepsPerFrame)) + "\n")

	if len(m.meanHistory) > 1 {
		s.WriteString("\n" + labelStyle.Render("Mean °C") + "\n")
		s.WriteString(viz.Sparkline(m.meanHistory, 30) + "\n")
	}

	s.WriteString(helpStyle.Render("\n──────────────────────\nSP:Pause R:Reset Q:Quit\n+/-:Speed ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(canvas),
		statsStyle.Render(s.String()),
	)

	if m.showHelp {
		return `
╔═══════════════════════════════════╗
║         KEYBOARD SHORTCUTS        ║
╠═══════════════════════════════════╣
║  Space  - Pause/Resume            ║
║  R      - Reset the room          ║
║  +/-    - Faster/slower stepping  ║
║  Q      - Quit                    ║
║  ?      - Toggle this help        ║
╚═══════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
