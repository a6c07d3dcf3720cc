// Package tui is the full-screen live dashboard: the user's profile and
// counters, recent parties and platform-wide live numbers, refreshed on a
// timer.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/controller"
	"github.com/watchparty/cli/pkg/state"
)

// Dashboard is the data the model renders. *controller.Dashboard satisfies it.
type Dashboard interface {
	Load() error
	LoadLive() error
	Data() state.Snapshot[controller.DashboardData]
	Live() state.Snapshot[api.RealtimeSnapshot]
}

type tickMsg time.Time

type loadedMsg struct {
	err error
	at  time.Time
}

type liveMsg struct {
	at time.Time
}

// Model is the Bubble Tea model of the dashboard
type Model struct {
	dash     Dashboard
	interval time.Duration
	now      func() time.Time

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	loading     bool
	err         error
	lastUpdated time.Time
	width       int
}

// New creates the model. Live numbers refresh every interval; the full
// overview reloads on r.
func New(dash Dashboard, interval time.Duration) Model {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		dash:     dash,
		interval: interval,
		now:      time.Now,
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		loading:  true,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCmd(m.dash, m.now), tickCmd(m.interval))
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, loadCmd(m.dash, m.now))
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.lastUpdated = msg.at
		}
		return m, nil

	case liveMsg:
		m.lastUpdated = msg.at
		return m, nil

	case tickMsg:
		return m, tea.Batch(liveCmd(m.dash, m.now), tickCmd(m.interval))

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func loadCmd(dash Dashboard, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		err := dash.Load()
		_ = dash.LoadLive()
		return loadedMsg{err: err, at: now()}
	}
}

func liveCmd(dash Dashboard, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		_ = dash.LoadLive()
		return liveMsg{at: now()}
	}
}

// Run shows the dashboard until the user quits or ctx is canceled
func Run(ctx context.Context, dash Dashboard, interval time.Duration) error {
	_, err := tea.NewProgram(New(dash, interval), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
