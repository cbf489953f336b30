package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stigoleg/keep-moving/internal/util"
)

var menuLabels = [menuItems]string{
	"Keep moving indefinitely",
	"Keep moving for a set time",
	"Quit",
}

// View renders the current state of the model to a string.
func View(m Model) string {
	if m.ShowHelp {
		return helpView(m)
	}

	var body string
	switch m.State {
	case stateMenu:
		body = menuView(m)
	case stateTimedInput:
		body = timedInputView(m)
	case stateRunning:
		body = runningView(m)
	}

	return body + "\n\n" + m.help.View(m.keys.ForState(m.State))
}

func header(m Model) string {
	title := Current.Title.Render("Keep Moving")
	if m.Platform == "" {
		return title
	}
	return title + Current.Inactive.Render(m.Platform)
}

func menuView(m Model) string {
	var b strings.Builder

	b.WriteString(header(m))
	b.WriteString("\n\n")

	for i, label := range menuLabels {
		if i == m.Selected {
			b.WriteString(Current.Selected.Render("> " + label))
		} else {
			b.WriteString(Current.Unselected.Render("  " + label))
		}
		b.WriteString("\n")
	}

	if m.Notice != "" {
		b.WriteString("\n" + Current.Active.Render(m.Notice))
	}
	if m.ErrorMessage != "" {
		b.WriteString("\n" + Current.Error.Render(m.ErrorMessage))
	}
	return b.String()
}

func timedInputView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Enter Duration"))
	b.WriteString("\n\n")
	b.WriteString(Current.Unselected.Render("Minutes, or a duration like 1h30m:"))
	b.WriteString("\n")

	input := m.Input
	if input == "" {
		input = " "
	}
	b.WriteString(Current.InputBox.Render(input))

	if m.ErrorMessage != "" {
		b.WriteString("\n\n" + Current.Error.Render(m.ErrorMessage))
	}
	return b.String()
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, Current.Label.Render(label), Current.Value.Render(value))
}

func runningView(m Model) string {
	var b strings.Builder

	b.WriteString(header(m))
	b.WriteString("\n\n")

	status := "moving"
	if wait := m.WaitRemaining(); wait > 0 {
		status = fmt.Sprintf("next movement in %ds", int(wait.Seconds()+0.5))
	}
	b.WriteString(m.spinner.View() + " " + Current.Active.Render(status))
	b.WriteString("\n\n")

	var stats []string
	if m.Width > 0 {
		stats = append(stats, row("Screen", fmt.Sprintf("%dx%d", m.Width, m.Height)))
		stats = append(stats, row("Area", m.Area.String()))
	}
	stats = append(stats, row("Movements", fmt.Sprintf("%d", m.Movements)))
	if m.Movements > 0 {
		stats = append(stats, row("Last", fmt.Sprintf("%s %s → %s", m.Last.Style, m.Last.Start, m.Last.Target)))
		stats = append(stats, row("Streak", fmt.Sprintf("linear %d · bezier %d", m.Counters.Linear, m.Counters.Curved)))
	}
	b.WriteString(Current.Panel.Render(strings.Join(stats, "\n")))
	b.WriteString("\n")

	if m.Duration > 0 {
		remaining := m.TimeRemaining()
		b.WriteString("\n" + Current.Countdown.Render(util.FormatRemaining(remaining)+" remaining"))
		b.WriteString("\n")
		percent := 1 - float64(remaining)/float64(m.Duration)
		b.WriteString(" " + m.progress.ViewAs(percent))
		b.WriteString("\n")
	}

	if len(m.Log) > 0 {
		b.WriteString("\n")
		for _, line := range m.Log {
			b.WriteString(Current.Inactive.Render(line) + "\n")
		}
	}

	if m.ErrorMessage != "" {
		b.WriteString("\n" + Current.Error.Render(m.ErrorMessage))
	}
	return strings.TrimRight(b.String(), "\n")
}

func helpView(m Model) string {
	text := `Keep Moving Help

Moves the mouse cursor to random points at random intervals, using
straight lines and Bezier curves, until stopped.

Usage:
  keepmoving [flags]

Flags:
  -d, --duration string   Run for a duration (e.g., "2h30m" or minutes)
  -u, --until string      Run until a clock time (e.g., "22:30", "10:30PM")
      --tui               Show this dashboard
      --dry-run           Move a virtual cursor instead of the real one
  -c, --config string     Config file (default ./keepmoving.yaml)

Press h or esc to close help`

	return Current.Help.Render(text) + "\n\n" + m.help.View(m.keys.ForState(m.State))
}
