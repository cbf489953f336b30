package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stigoleg/keep-moving/internal/keepalive"
	"github.com/stigoleg/keep-moving/internal/util"
)

const (
	menuIndefinite = iota
	menuTimed
	menuQuit
	menuItems
)

// maxInputLen limits the duration typed in the timed input.
const maxInputLen = 8

// Update handles messages and updates the model accordingly.
func Update(msg tea.Msg, m Model) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd

	case eventMsg:
		e := keepalive.Event(msg)
		m = applyEvent(m, e)
		if m.Err != nil {
			return m, tea.Quit
		}
		if e.Kind == keepalive.EventStopped && m.opts.QuitOnComplete {
			return m, tea.Quit
		}
		return m, waitForEvent(m.events)

	case startMsg:
		return start(m, msg.duration)

	case tickMsg:
		if m.State != stateRunning || msg.id != m.tickID {
			return m, nil
		}
		return m, tick(m.tickID)

	case tea.KeyMsg:
		return handleKey(m, msg)
	}

	return m, nil
}

func handleKey(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return quit(m)
	}

	if m.State == stateTimedInput {
		return handleTimedInput(m, msg)
	}

	if key.Matches(msg, m.keys.ToggleHelp) {
		m.ShowHelp = !m.ShowHelp
		return m, nil
	}
	if m.ShowHelp && key.Matches(msg, m.keys.Back) {
		m.ShowHelp = false
		return m, nil
	}
	if key.Matches(msg, m.keys.Quit) {
		return quit(m)
	}

	switch m.State {
	case stateMenu:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.Selected > 0 {
				m.Selected--
			}
		case key.Matches(msg, m.keys.Down):
			if m.Selected < menuItems-1 {
				m.Selected++
			}
		case key.Matches(msg, m.keys.Select):
			switch m.Selected {
			case menuIndefinite:
				return start(m, 0)
			case menuTimed:
				m.State = stateTimedInput
				m.Input = ""
				m.ErrorMessage = ""
			case menuQuit:
				return quit(m)
			}
		}

	case stateRunning:
		if key.Matches(msg, m.keys.Stop) {
			if err := m.Keeper.Stop(); err != nil {
				m.ErrorMessage = err.Error()
			}
			m.State = stateMenu
			m.Notice = "Stopped"
			m.WaitUntil = time.Time{}
		}
	}
	return m, nil
}

func handleTimedInput(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if m.Input == "" {
			m.ErrorMessage = "Please enter a duration"
			return m, nil
		}
		d, err := util.ParseDuration(m.Input)
		if err != nil {
			m.ErrorMessage = "Invalid duration"
			return m, nil
		}
		if d <= 0 {
			m.ErrorMessage = "Duration must be positive"
			return m, nil
		}
		return start(m, d)

	case key.Matches(msg, m.keys.Back):
		m.State = stateMenu
		m.ErrorMessage = ""
		return m, nil

	case key.Matches(msg, m.keys.Backspace):
		if len(m.Input) > 0 {
			m.Input = m.Input[:len(m.Input)-1]
			m.ErrorMessage = ""
		}
		return m, nil
	}

	s := msg.String()
	if len(s) == 1 && strings.ContainsAny(s, "0123456789hms") && len(m.Input) < maxInputLen {
		m.Input += s
		m.ErrorMessage = ""
	}
	return m, nil
}

// start launches the keeper. A zero duration runs until stopped.
func start(m Model, d time.Duration) (Model, tea.Cmd) {
	var err error
	if d > 0 {
		err = m.Keeper.StartTimed(m.ctx, d)
	} else {
		err = m.Keeper.StartIndefinite(m.ctx)
	}
	if err != nil {
		m.ErrorMessage = err.Error()
		m.State = stateMenu
		return m, nil
	}

	m.State = stateRunning
	m.StartTime = m.now()
	m.Duration = d
	m.ErrorMessage = ""
	m.Notice = ""
	m.tickID++
	return m, tick(m.tickID)
}

func quit(m Model) (Model, tea.Cmd) {
	if m.Keeper.IsRunning() {
		if err := m.Keeper.Stop(); err != nil {
			m.ErrorMessage = err.Error()
		}
	}
	return m, tea.Quit
}

// applyEvent folds a runner event into the dashboard.
func applyEvent(m Model, e keepalive.Event) Model {
	switch e.Kind {
	case keepalive.EventStarted:
		m.Width, m.Height, m.Area = e.Width, e.Height, e.Area

	case keepalive.EventScreenChanged:
		m.Width, m.Height, m.Area = e.Width, e.Height, e.Area
		m.appendLog(fmt.Sprintf("screen changed to %dx%d", e.Width, e.Height))

	case keepalive.EventMovementStarted:
		m.Movements = e.Movement
		m.Last = e.Plan
		m.Counters = e.Counters
		m.WaitUntil = time.Time{}
		m.appendLog(fmt.Sprintf("#%d %s %s %s → %s", e.Movement, e.Plan.Size(), e.Plan.Style, e.Plan.Start, e.Plan.Target))

	case keepalive.EventWaiting:
		m.WaitUntil = e.Time.Add(e.Wait)

	case keepalive.EventRetry:
		m.appendLog("retrying: " + e.Err.Error())

	case keepalive.EventStopped:
		m.WaitUntil = time.Time{}
		if e.Err != nil {
			m.Err = e.Err
			m.ErrorMessage = e.Err.Error()
			return m
		}
		if m.State == stateRunning {
			m.State = stateMenu
			m.Notice = fmt.Sprintf("Run complete after %d movements", e.Movement)
		}
	}
	return m
}
