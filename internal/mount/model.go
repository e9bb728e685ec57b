package mount

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/playforge/playforge/internal/gameview"
)

// tickRate drives game time. 30 frames per second is plenty for ASCII
// playfields and keeps interpreted Update calls cheap.
const tickRate = time.Second / 30

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

var statusStyle = lipgloss.NewStyle().Faint(true)

// model adapts a gameview.View to the Bubble Tea runtime. The view's
// Update is interpreted artifact code, so every call into it is guarded:
// a panic ends the program with a run error instead of killing the host.
type model struct {
	view    gameview.View
	title   string
	started bool
	last    time.Time
	runErr  error
}

func newModel(title string, view gameview.View) model {
	return model{view: view, title: title}
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// One row is reserved for the status bar.
		height := msg.Height - 1
		if height < 1 {
			height = 1
		}
		if !m.started {
			if err := m.guard(func() { m.view.Init(msg.Width, height) }); err != nil {
				m.runErr = err
				return m, tea.Quit
			}
			m.started = true
			m.last = time.Now()
			return m, nil
		}
		return m.deliver(gameview.ResizeEvent{Width: msg.Width, Height: height})

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if !m.started {
			return m, nil
		}
		return m.deliver(gameview.KeyEvent{Key: msg.String()})

	case tickMsg:
		if !m.started {
			return m, tick()
		}
		now := time.Time(msg)
		delta := now.Sub(m.last).Seconds()
		m.last = now
		next, cmd := m.deliver(gameview.TickEvent{Delta: delta})
		if cmd != nil {
			return next, cmd
		}
		return next, tick()
	}
	return m, nil
}

// deliver forwards one event to the view and quits when the view asks to
// stop or its code panics.
func (m model) deliver(ev gameview.Event) (tea.Model, tea.Cmd) {
	var keep bool
	if err := m.guard(func() { keep = m.view.Update(ev) }); err != nil {
		m.runErr = err
		return m, tea.Quit
	}
	if !keep {
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	if !m.started || m.runErr != nil {
		return ""
	}
	var frame string
	if err := m.guard(func() { frame = m.view.Render() }); err != nil {
		return ""
	}
	return frame + "\n" + statusStyle.Render(m.title+"  ctrl+c leaves")
}

// guard runs fn and converts a panic in artifact code into an error.
func (m model) guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("game code panicked: %v", r)
		}
	}()
	fn()
	return nil
}
