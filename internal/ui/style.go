// Package ui provides the terminal dashboard for keepmoving.
package ui

import "github.com/charmbracelet/lipgloss"

// Colors defines the color scheme used throughout the application
type Colors struct {
	Subtle    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Special   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
}

var defaultColors = Colors{
	Subtle:    lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"},
	Highlight: lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"},
	Special:   lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"},
	Error:     lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF4040"},
}

// Style represents a collection of styles used in the application
type Style struct {
	Title      lipgloss.Style
	Active     lipgloss.Style
	Inactive   lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Label      lipgloss.Style
	Value      lipgloss.Style
	InputBox   lipgloss.Style
	Panel      lipgloss.Style
	Help       lipgloss.Style
	Error      lipgloss.Style
	ErrorBox   lipgloss.Style
	Countdown  lipgloss.Style
}

// DefaultStyle returns the default style configuration
func DefaultStyle() Style {
	base := lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1)

	return Style{
		Title: base.
			Bold(true).
			Foreground(defaultColors.Highlight),

		Active: base.
			Foreground(defaultColors.Special),

		Inactive: base.
			Foreground(defaultColors.Subtle),

		Selected: base.
			Bold(true).
			Foreground(defaultColors.Highlight),

		Unselected: base,

		Label: lipgloss.NewStyle().
			Width(12).
			Foreground(defaultColors.Subtle),

		Value: lipgloss.NewStyle().
			Bold(true),

		InputBox: base.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(defaultColors.Highlight).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(defaultColors.Subtle).
			Padding(0, 1),

		Help: base.
			Foreground(defaultColors.Subtle),

		Error: base.
			Foreground(defaultColors.Error),

		ErrorBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(defaultColors.Error).
			Padding(0, 1),

		Countdown: base.
			Foreground(defaultColors.Highlight).
			Bold(true),
	}
}

// Current holds the current style configuration
var Current = DefaultStyle()
