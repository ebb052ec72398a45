// Package viz renders a terminal monitor for a running comparison. The
// driver executes in a background goroutine and streams snapshots into
// the bubbletea event loop.
package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/hitsim/internal/compute"
	"github.com/san-kum/hitsim/internal/config"
	"github.com/san-kum/hitsim/internal/driver"
)

const historyCapacity = 600

var (
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(58)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type snapMsg driver.Snapshot

type doneMsg struct {
	runID string
	err   error
}

// Model drives the live view of one comparison run.
type Model struct {
	cfg    *config.Config
	cancel context.CancelFunc

	snaps chan driver.Snapshot
	done  chan doneMsg

	latest        driver.Snapshot
	energyHistory []float64
	finalWindow   float64

	finished bool
	runID    string
	runErr   error
}

// NewModel starts the run in the background and returns the view model.
func NewModel(cfg *config.Config) Model {
	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		cfg:           cfg,
		cancel:        cancel,
		snaps:         make(chan driver.Snapshot, 64),
		done:          make(chan doneMsg, 1),
		energyHistory: make([]float64, 0, historyCapacity),
	}
	if n := len(cfg.Windows); n > 0 {
		m.finalWindow = cfg.Windows[n-1]
	}

	r := driver.New(cfg)
	r.AddObserver(func(s driver.Snapshot) {
		select {
		case m.snaps <- s:
		default: // viewer lags, drop the frame
		}
	})
	go func() {
		runID, err := r.Run(ctx)
		m.done <- doneMsg{runID: runID, err: err}
	}()

	return m
}

func (m Model) Init() tea.Cmd {
	return m.wait()
}

// wait blocks on the next event from the run goroutine.
func (m Model) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.snaps:
			return snapMsg(s)
		case d := <-m.done:
			return d
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
	case snapMsg:
		m.latest = driver.Snapshot(msg)
		m.energyHistory = append(m.energyHistory, msg.Energy)
		if len(m.energyHistory) > historyCapacity {
			m.energyHistory = m.energyHistory[1:]
		}
		return m, m.wait()
	case doneMsg:
		m.finished = true
		m.runID = msg.runID
		m.runErr = msg.err
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(fmt.Sprintf("DECAYING TURBULENCE %d³", m.cfg.Resolution)) + "\n")

	switch {
	case m.runErr != nil:
		s.WriteString(errStyle.Render("FAILED: "+m.runErr.Error()) + "\n\n")
	case m.finished:
		s.WriteString(fmt.Sprintf("DONE (%s)\n\n", m.runID))
	default:
		s.WriteString("RUNNING\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(6), asciigraph.Width(40), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", m.latest.Step)) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.4fs", m.latest.Time)) + "\n")
	s.WriteString(labelStyle.Render("CTU") + valueStyle.Render(fmt.Sprintf("%.3f / %.2f", m.latest.CTU, m.finalWindow)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.4e m²/s²", m.latest.Energy)) + "\n")

	backend := compute.GetBackend()
	if backend.Available() {
		s.WriteString(labelStyle.Render("Backend") + valueStyle.Render("⚡ "+backend.Name()) + "\n")
	} else {
		s.WriteString(labelStyle.Render("Backend") + valueStyle.Render(backend.Name()) + "\n")
	}

	s.WriteString(helpStyle.Render("Q:Quit (cancels the run)"))
	return panelStyle.Render(s.String())
}
