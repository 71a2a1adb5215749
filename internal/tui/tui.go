// Package tui provides a Bubble Tea terminal user interface for vinyl-prices.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/vinyl-prices/internal/config"
	"github.com/handiism/vinyl-prices/internal/updater"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

const maxLogs = 10

var errCancelled = errors.New("cancelled by user")

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRunning
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   updater.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	updater *updater.Updater
	events  chan updater.ProgressEvent
	counts  updater.Progress

	onlyMissing bool
	verbose     bool

	width  int
	height int
}

// NewModel creates a new TUI model with settings from the environment.
func NewModel() Model {
	settings := config.DefaultSettings()
	settings.ApplyEnv(os.Getenv)
	return newModel(settings)
}

func newModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = settings.InputPath
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#F8B500"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:       StateInput,
		textInput:   ti,
		spinner:     sp,
		progress:    prog,
		settings:    settings,
		ctx:         ctx,
		cancel:      cancel,
		onlyMissing: settings.SkipFresh,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries one event from the running update.
	ProgressMsg struct {
		Event updater.ProgressEvent
	}

	// DoneMsg is sent when the update finishes.
	DoneMsg struct {
		Progress updater.Progress
		Err      error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				m.cancel()
			}

		case "enter":
			if m.state == StateInput {
				cmd := m.start()
				return m, cmd
			}

		case "tab":
			if m.state == StateInput {
				m.onlyMissing = !m.onlyMissing
			}
			return m, nil

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}
			return m, nil

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.reset()
				return m, textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m.appendLog(msg.Event)
		cmds = append(cmds, m.waitForEvent())

	case DoneMsg:
		m.counts = msg.Progress
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.updater != nil && m.state == StateRunning {
			m.counts = m.updater.Progress()
			cmds = append(cmds, m.progress.SetPercent(percentOf(m.counts)), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// start validates the settings and launches the update in the background.
func (m *Model) start() tea.Cmd {
	settings := *m.settings
	if path := strings.TrimSpace(m.textInput.Value()); path != "" {
		settings.InputPath = path
	}
	settings.SkipFresh = m.onlyMissing

	if err := settings.Validate(); err != nil {
		m.state = StateError
		m.err = err
		return nil
	}

	events := make(chan updater.ProgressEvent, 64)
	ctx := m.ctx
	m.events = events
	m.updater = updater.New(&settings, func(event updater.ProgressEvent) {
		select {
		case events <- event:
		case <-ctx.Done():
		}
	})
	m.state = StateRunning

	u := m.updater
	run := func() tea.Msg {
		p, err := u.Run(ctx)
		close(events)
		return DoneMsg{Progress: p, Err: err}
	}
	return tea.Batch(run, m.waitForEvent(), m.tickProgress(), m.spinner.Tick)
}

func (m *Model) reset() {
	m.cancel()
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.updater = nil
	m.events = nil
	m.counts = updater.Progress{}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.SetValue("")
	m.textInput.Focus()
}

func (m *Model) appendLog(event updater.ProgressEvent) {
	if event.Level == updater.LevelVerbose && !m.verbose {
		return
	}
	m.logs = append(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// waitForEvent returns a command delivering the next progress event.
// It yields nothing once the run has closed the channel.
func (m Model) waitForEvent() tea.Cmd {
	events, ctx := m.events, m.ctx
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			return ProgressMsg{Event: event}
		case <-ctx.Done():
			return nil
		}
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

func percentOf(p updater.Progress) float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Processed) / float64(p.Total)
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Vinyl Prices"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Discogs price suggestions for your records"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Records CSV:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s Only look up missing or stale records (tab)\n", checkbox(m.onlyMissing))
	fmt.Fprintf(&b, "  %s Verbose output (ctrl+v)\n", checkbox(m.verbose))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Price store: %s", m.settings.OutputPath)))
	b.WriteString("\n")
	if m.settings.DiscogsToken == "" {
		b.WriteString(warningStyle.Render("DISCOGS_TOKEN is not set"))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Updating prices..."))
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(percentOf(m.counts)))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Records: %d/%d | Priced: %d | No release: %d | No price: %d",
		m.counts.Processed,
		m.counts.Total,
		m.counts.Priced,
		m.counts.NotFound,
		m.counts.NoPrice,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	return boxStyle.Render(fmt.Sprintf(
		"Update complete\n\n"+
			"Records: %d\n"+
			"Priced: %d\n"+
			"No release found: %d\n"+
			"No price data: %d\n"+
			"Skipped: %d\n\n"+
			"Wrote %s",
		m.counts.Total,
		m.counts.Priced,
		m.counts.NotFound,
		m.counts.NoPrice,
		m.counts.Skipped+m.counts.Fresh,
		m.settings.OutputPath,
	))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		fmt.Fprintf(&b, "  %s\n\n", m.err.Error())
	}
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case updater.LevelError:
			style = errorStyle
			prefix = "✗"
		case updater.LevelWarning:
			style = warningStyle
			prefix = "!"
		case updater.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case updater.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: only missing • ctrl+v: verbose • esc: quit"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: run again • q: quit"
	}
	return ""
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

// Run starts the TUI application.
func Run() error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
