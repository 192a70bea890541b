package movement

import (
	"strings"
	"time"
)

// Accepted input layouts: the dotted form users type by hand and the ISO
// form datetime-local inputs produce. Time components are optional.
var inputLayouts = []string{
	"02.01.2006 15:04",
	"02.01.2006",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate accepts DD.MM.YYYY[ HH:MM] or ISO date/date-time input.
func ParseDate(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ToInputValue renders a time for a datetime-local input (minute
// precision).
func ToInputValue(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02T15:04")
}

// NormalizeInput re-renders any accepted input form as the canonical
// input value, or returns the input unchanged when unparseable.
func NormalizeInput(value string) string {
	t, ok := ParseDate(value)
	if !ok {
		return value
	}
	return ToInputValue(t)
}

// FormatDisplay renders a timestamp for tables and detail headers.
func FormatDisplay(t time.Time) string {
	if t.IsZero() {
		return missing
	}
	return t.Format("02.01.2006 15:04")
}
