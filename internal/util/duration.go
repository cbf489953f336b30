package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const durationHelp = "\n\nValid formats:\n" +
	"• Minutes as a whole number (e.g., '90')\n" +
	"• Go duration (e.g., '1h30m', '45m', '2h')"

// ParseDuration reads a run length. A bare integer is taken as minutes.
func ParseDuration(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)

	if minutes, err := strconv.Atoi(input); err == nil {
		if minutes < 0 {
			return 0, fmt.Errorf("invalid duration: %s must not be negative%s", input, durationHelp)
		}
		return time.Duration(minutes) * time.Minute, nil
	}

	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %q%s", input, durationHelp)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid duration: %s must not be negative%s", input, durationHelp)
	}
	return d, nil
}

// FormatRemaining renders a countdown as HH:MM:SS.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
