package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stigoleg/keep-moving/internal/keepalive"
	"github.com/stigoleg/keep-moving/internal/motion"
)

// state represents the different states of the TUI.
type state int

const (
	stateMenu state = iota
	stateTimedInput
	stateRunning
)

func (s state) String() string {
	switch s {
	case stateMenu:
		return "Menu"
	case stateTimedInput:
		return "TimedInput"
	case stateRunning:
		return "Running"
	default:
		return "Unknown"
	}
}

// maxLogLines bounds the activity list on the dashboard.
const maxLogLines = 6

// Options configure a Model.
type Options struct {
	// Duration starts a timed run immediately when positive.
	Duration time.Duration
	// AutoStart starts an indefinite run immediately when Duration is zero.
	AutoStart bool
	// Platform is shown in the header.
	Platform string
	// QuitOnComplete exits the program when the run stops on its own.
	QuitOnComplete bool
}

// Model holds the dashboard state. The keeper does the work; the model
// starts and stops it and renders the events it reports.
type Model struct {
	State        state
	Selected     int
	Input        string
	ErrorMessage string
	Notice       string
	ShowHelp     bool

	Keeper   *keepalive.Keeper
	Platform string

	StartTime time.Time
	Duration  time.Duration

	Width     int
	Height    int
	Area      motion.Rect
	Movements int
	Last      motion.MovementPlan
	Counters  motion.Counters
	WaitUntil time.Time
	Log       []string

	// Err is set when the run ended on an error; the caller turns it into
	// the exit status.
	Err error

	ctx      context.Context
	events   <-chan keepalive.Event
	opts     Options
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	progress progress.Model
	now      func() time.Time
	tickID   int
}

// New returns the dashboard model. events must be fed by the keeper's runner
// through a keepalive.ChannelObserver.
func New(ctx context.Context, keeper *keepalive.Keeper, events <-chan keepalive.Event, opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = Current.Active

	return Model{
		State:    stateMenu,
		Keeper:   keeper,
		Platform: opts.Platform,
		ctx:      ctx,
		events:   events,
		opts:     opts,
		keys:     DefaultKeys(),
		help:     help.New(),
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		now:      time.Now,
	}
}

// eventMsg carries one runner event into the update loop.
type eventMsg keepalive.Event

// tickMsg is sent when the countdown timer ticks. id ties it to one run so
// a stopped run's ticks die out.
type tickMsg struct {
	id int
	t  time.Time
}

// startMsg starts a run from Init.
type startMsg struct {
	duration time.Duration
}

func waitForEvent(events <-chan keepalive.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg(e)
	}
}

func tick(id int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{id: id, t: t}
	})
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForEvent(m.events), m.spinner.Tick}
	if m.opts.Duration > 0 || m.opts.AutoStart {
		d := m.opts.Duration
		cmds = append(cmds, func() tea.Msg { return startMsg{duration: d} })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return Update(msg, m)
}

// View implements tea.Model
func (m Model) View() string {
	return View(m)
}

// TimeRemaining returns the remaining duration for timed runs
func (m Model) TimeRemaining() time.Duration {
	if m.State != stateRunning || m.Duration <= 0 {
		return 0
	}
	return max(m.Duration-m.now().Sub(m.StartTime), 0)
}

// WaitRemaining returns the time until the next movement while waiting.
func (m Model) WaitRemaining() time.Duration {
	if m.WaitUntil.IsZero() {
		return 0
	}
	return max(m.WaitUntil.Sub(m.now()), 0)
}

func (m *Model) appendLog(line string) {
	m.Log = append(m.Log, line)
	if len(m.Log) > maxLogLines {
		m.Log = m.Log[len(m.Log)-maxLogLines:]
	}
}
