package util

import (
	"fmt"
	"strings"
	"time"
)

var clockFormats = []string{"15:04", "3:04PM", "3:04 PM", "03:04PM", "03:04 PM"}

// ParseClock parses a wall-clock time in 24-hour ("23:30") or 12-hour
// ("11:30PM", "9:45 AM") form and places it on the day of now.
func ParseClock(timeStr string, now time.Time) (time.Time, error) {
	normalized := strings.TrimSpace(strings.ToUpper(timeStr))

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, format := range clockFormats {
		if t, err := time.Parse(format, normalized); err == nil {
			return today.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid time format: %q\n\nValid formats:\n"+
		"• 24-hour format: HH:MM (e.g., '23:30', '09:45')\n"+
		"• 12-hour format: HH:MM[AM|PM] (e.g., '11:30PM', '9:45 AM')", timeStr)
}

// UntilClock returns how long to run to reach the next occurrence of timeStr.
// A time at or before now means the same time tomorrow.
func UntilClock(timeStr string, now time.Time) (time.Duration, error) {
	target, err := ParseClock(timeStr, now)
	if err != nil {
		return 0, err
	}
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target.Sub(now), nil
}
