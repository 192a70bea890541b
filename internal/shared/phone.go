package shared

import "strings"

// FormatPhone renders a RU phone number as +7 (999) 123-45-67. Leading
// 7 or 8 country prefixes are stripped; at most ten significant digits
// are used. Empty input renders the placeholder dash.
func FormatPhone(value string) string {
	if value == "" {
		return "—"
	}
	var digits strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if strings.HasPrefix(d, "7") || strings.HasPrefix(d, "8") {
		d = d[1:]
	}
	if len(d) > 10 {
		d = d[:10]
	}

	var b strings.Builder
	b.WriteString("+7")
	if len(d) > 0 {
		b.WriteString(" (")
		b.WriteString(d[:min(3, len(d))])
	}
	if len(d) > 3 {
		b.WriteString(") ")
		b.WriteString(d[3:min(6, len(d))])
	}
	if len(d) > 6 {
		b.WriteString("-")
		b.WriteString(d[6:min(8, len(d))])
	}
	if len(d) > 8 {
		b.WriteString("-")
		b.WriteString(d[8:min(10, len(d))])
	}
	return b.String()
}
