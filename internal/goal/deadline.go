package goal

import (
	"strings"
	"time"
)

// DisplayLayout is how deadlines are shown back to the user.
const DisplayLayout = "2006-01-02 15:04"

var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDeadline accepts RFC 3339 timestamps and the zone-less forms a
// datetime field produces. Zone-less values are read in loc (time.Local when
// nil).
func ParseDeadline(raw string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDeadline renders a stored deadline for display.
func FormatDeadline(raw string, loc *time.Location) string {
	t, ok := ParseDeadline(raw, loc)
	if !ok {
		return "no deadline set"
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DisplayLayout)
}
