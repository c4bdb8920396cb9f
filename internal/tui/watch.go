package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/airgava/gimbalctl/internal/gimbal"
	"github.com/airgava/gimbalctl/internal/protocol"
)

// DefaultSpeed is the angular speed used by the arrow keys, in deg/s.
const DefaultSpeed = 20.0

// Message types for async operations
type telemetryMsg struct {
	tel *protocol.Telemetry
	err error
}

type commandDoneMsg struct {
	label string
	err   error
}

// watchKeyMap defines key bindings for the watch screen
type watchKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Stop    key.Binding
	Center  key.Binding
	Photo   key.Binding
	Record  key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Range   key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Stop, k.Center, k.Photo, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Stop, k.Center, k.ZoomIn, k.ZoomOut},
		{k.Photo, k.Record, k.Range, k.Quit},
	}
}

func newWatchKeyMap() watchKeyMap {
	return watchKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑/↓/←/→", "move"),
		),
		Down:  key.NewBinding(key.WithKeys("down")),
		Left:  key.NewBinding(key.WithKeys("left")),
		Right: key.NewBinding(key.WithKeys("right")),
		Stop: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "stop"),
		),
		Center: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "center"),
		),
		Photo: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "photo"),
		),
		Record: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "record"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z/x", "zoom"),
		),
		ZoomOut: key.NewBinding(key.WithKeys("x")),
		Range: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "laser"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model is the live telemetry dashboard with keyboard gimbal control.
type Model struct {
	Session *gimbal.Session
	Addr    string

	// Speed used by the arrow keys in deg/s
	Speed float64

	// Latest telemetry and poll state
	Telemetry *protocol.Telemetry
	PollErr   error

	// Command feedback
	Status    string
	StatusErr bool

	// Toggled device state
	Recording bool
	Ranging   bool

	// UI state
	Width  int
	Height int

	Help help.Model
	Keys watchKeyMap
}

// NewModel creates a watch dashboard bound to a connected session.
func NewModel(session *gimbal.Session, addr string) Model {
	return Model{
		Session: session,
		Addr:    addr,
		Speed:   DefaultSpeed,
		Help:    help.New(),
		Keys:    newWatchKeyMap(),
	}
}

// Init starts the telemetry poll loop.
func (m Model) Init() tea.Cmd {
	return m.pollCmd()
}

// pollCmd runs one telemetry poll attempt off the UI goroutine.
func (m Model) pollCmd() tea.Cmd {
	session := m.Session
	return func() tea.Msg {
		tel, err := session.PollTelemetry(nil, 1)
		return telemetryMsg{tel: tel, err: err}
	}
}

// commandCmd runs a gimbal command off the UI goroutine and reports the result.
func commandCmd(label string, run func() (protocol.Response, error)) tea.Cmd {
	return func() tea.Msg {
		_, err := run()
		return commandDoneMsg{label: label, err: err}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case telemetryMsg:
		if msg.err == nil {
			m.Telemetry = msg.tel
			m.PollErr = nil
		} else if !gimbal.IsNoData(msg.err) {
			// No-data is routine between broadcasts; anything else is shown
			m.PollErr = msg.err
		}
		if gimbal.IsNotConnected(msg.err) || gimbal.IsTransport(msg.err) {
			// Link is gone; stop polling and leave the error on screen
			return m, nil
		}
		return m, m.pollCmd()

	case commandDoneMsg:
		if msg.err != nil {
			m.Status = fmt.Sprintf("%s failed: %v", msg.label, msg.err)
			m.StatusErr = true
		} else {
			m.Status = msg.label
			m.StatusErr = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.Session

	switch {
	case key.Matches(msg, m.Keys.Quit):
		// Best effort: leave the gimbal stationary on exit
		_, _ = s.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Up):
		return m, commandCmd("tilt up", func() (protocol.Response, error) {
			return s.SetSpeed(0, m.Speed)
		})

	case key.Matches(msg, m.Keys.Down):
		return m, commandCmd("tilt down", func() (protocol.Response, error) {
			return s.SetSpeed(0, -m.Speed)
		})

	case key.Matches(msg, m.Keys.Left):
		return m, commandCmd("pan left", func() (protocol.Response, error) {
			return s.SetSpeed(-m.Speed, 0)
		})

	case key.Matches(msg, m.Keys.Right):
		return m, commandCmd("pan right", func() (protocol.Response, error) {
			return s.SetSpeed(m.Speed, 0)
		})

	case key.Matches(msg, m.Keys.Stop):
		return m, commandCmd("stop", s.Stop)

	case key.Matches(msg, m.Keys.Center):
		return m, commandCmd("center", s.Center)

	case key.Matches(msg, m.Keys.Photo):
		return m, commandCmd("photo", func() (protocol.Response, error) {
			return s.TakePhoto(protocol.PhotoSingle, 0)
		})

	case key.Matches(msg, m.Keys.Record):
		start := !m.Recording
		m.Recording = start
		label := "recording started"
		if !start {
			label = "recording stopped"
		}
		return m, commandCmd(label, func() (protocol.Response, error) {
			return s.RecordVideo(start)
		})

	case key.Matches(msg, m.Keys.ZoomIn):
		return m, commandCmd("zoom in", func() (protocol.Response, error) {
			return s.Zoom(protocol.ZoomIn)
		})

	case key.Matches(msg, m.Keys.ZoomOut):
		return m, commandCmd("zoom out", func() (protocol.Response, error) {
			return s.Zoom(protocol.ZoomOut)
		})

	case key.Matches(msg, m.Keys.Range):
		enable := !m.Ranging
		m.Ranging = enable
		label := "laser ranging on"
		if !enable {
			label = "laser ranging off"
		}
		return m, commandCmd(label, func() (protocol.Response, error) {
			return s.RangeFinding(enable)
		})
	}

	return m, nil
}

// View renders the dashboard
func (m Model) View() string {
	header := TitleStyle.Render(AppName) +
		StatusBarStyle.Render(m.Addr)

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderAttitudePanel(),
		" ",
		m.renderPositionPanel(),
	)

	status := m.renderStatusLine()
	helpText := HelpStyle.Render(m.Help.View(m.Keys))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		panels,
		"",
		status,
		helpText,
	)
}

func (m Model) renderAttitudePanel() string {
	t := m.Telemetry

	lines := []string{PanelTitleStyle.Render("ATTITUDE")}
	if t == nil {
		lines = append(lines, StatusBarStyle.Render("waiting for telemetry..."))
	} else {
		lines = append(lines,
			renderValue("Yaw", fmt.Sprintf("%8.2f°", t.Yaw)),
			renderValue("Pitch", fmt.Sprintf("%8.2f°", t.Pitch)),
			renderValue("Roll", fmt.Sprintf("%8.2f°", t.Roll)),
			renderValue("Z axis", fmt.Sprintf("%8.2f°", t.ZAxisAngle)),
			renderValue("EO zoom", fmt.Sprintf("%7.1fx", t.EOZoom)),
			renderValue("IR zoom", fmt.Sprintf("%7.1fx", t.IRZoom)),
		)
	}

	return PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderPositionPanel() string {
	t := m.Telemetry

	lines := []string{PanelTitleStyle.Render("TARGET")}
	if t == nil {
		lines = append(lines, StatusBarStyle.Render("waiting for telemetry..."))
	} else {
		ranging := "off"
		if t.RangingEnabled {
			ranging = "on"
		}
		selfTest := SuccessStyle.Render("passed")
		if !t.SelfTestPassed {
			selfTest = ErrorStyle.Render("FAILED")
		}
		lines = append(lines,
			renderValue("Ranging", ranging),
			renderValue("Distance", fmt.Sprintf("%7.1f m", t.Distance)),
			renderValue("Height", fmt.Sprintf("%7.1f m", t.Height)),
			renderValue("Latitude", fmt.Sprintf("%11.7f", t.Latitude)),
			renderValue("Longitude", fmt.Sprintf("%11.7f", t.Longitude)),
			LabelStyle.Render("Self-test")+selfTest,
		)
	}

	return PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderStatusLine() string {
	var parts []string

	if m.Recording {
		parts = append(parts, RecordingStyle.Render("● REC"))
	}

	if m.PollErr != nil {
		parts = append(parts, ErrorStyle.Render(m.PollErr.Error()))
	} else if m.Status != "" {
		if m.StatusErr {
			parts = append(parts, ErrorStyle.Render(m.Status))
		} else {
			parts = append(parts, SuccessStyle.Render(m.Status))
		}
	}

	if len(parts) == 0 {
		return StatusBarStyle.Render("ready")
	}
	return StatusBarStyle.Render(lipgloss.JoinHorizontal(lipgloss.Left, joinSpaced(parts)...))
}

func renderValue(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}

func joinSpaced(parts []string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, "  ")
		}
		out = append(out, p)
	}
	return out
}
