// Package tui drives the engine from a bubbletea program, rendering the
// flow field as character density at animation-refresh rates. The tea
// event loop guarantees non-overlapping Advance calls, so the engine
// needs no locking.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/flowsim/internal/sim"
	"github.com/san-kum/flowsim/internal/viz"
)

const (
	fieldCols = 96
	fieldRows = 28
)

var (
	fieldStyle  = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(11)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	fatalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model holds the engine and the last tick's diagnostics.
type Model struct {
	engine    *sim.Engine
	frameRate int
	last      sim.StepResult
	fatal     string
	showPress bool
}

func NewModel(engine *sim.Engine, frameRate int) Model {
	return Model{engine: engine, frameRate: frameRate}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.engine.Stop()
			return m, tea.Quit
		case " ":
			switch m.engine.Phase() {
			case sim.Running:
				m.engine.Pause()
			case sim.Paused:
				m.engine.Resume()
			}
			return m, nil
		case "p":
			m.showPress = !m.showPress
			return m, nil
		}

	case TickMsg:
		if m.engine.Phase() != sim.Running {
			if m.engine.Phase() == sim.Terminated {
				return m, nil
			}
			return m, m.tick()
		}
		res, err := m.engine.Advance()
		if err != nil {
			m.fatal = err.Error()
			return m, nil
		}
		m.last = res
		if res.Diverged {
			m.fatal = "numerical divergence: field contains NaN/Inf"
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	snap := m.engine.Snapshot()

	var values []float64
	title := "speed"
	switch {
	case m.showPress:
		values = absSlice(snap.P)
		title = "pressure"
	case snap.T != nil:
		values = snap.T
		title = "tracer"
	default:
		values = snap.Speed()
	}

	field := fieldStyle.Render(viz.RenderField(snap, values, fieldCols, fieldRows))

	stats := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("flowsim — "+title),
		row("phase", m.engine.Phase().String()),
		row("time", fmt.Sprintf("%.3f", m.last.Time)),
		row("step", fmt.Sprintf("%d", m.last.Step)),
		row("dt", fmt.Sprintf("%.2e", m.last.Dt)),
		row("residual", fmt.Sprintf("%.2e", m.last.Residual)),
		row("iters", fmt.Sprintf("%d", m.last.SolverIters)),
		m.flags(),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, field, statsStyle.Render(stats))
	help := helpStyle.Render("space pause/resume · p pressure/tracer · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, body, help)
}

func (m Model) flags() string {
	if m.fatal != "" {
		return fatalStyle.Render("FATAL " + m.fatal)
	}
	if m.last.Clamped {
		return warnStyle.Render(fmt.Sprintf("dt clamped to %.2e", m.last.Dt))
	}
	if !m.last.Converged && m.last.Step > 0 {
		return warnStyle.Render("pressure solve at iteration cap")
	}
	return ""
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func absSlice(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v < 0 {
			v = -v
		}
		out[i] = v
	}
	return out
}

// Run starts the live view and blocks until the user quits.
func Run(engine *sim.Engine, frameRate int) error {
	if frameRate <= 0 {
		frameRate = 30
	}
	if err := engine.Start(); err != nil {
		return err
	}
	_, err := tea.NewProgram(NewModel(engine, frameRate)).Run()
	return err
}
