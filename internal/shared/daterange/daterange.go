// Package daterange parses the start/end query parameters shared by the HTTP handlers.
package daterange

import (
	"fmt"
	"time"
)

// Layout is the accepted date format for query parameters.
const Layout = "2006-01-02"

// Defaults holds the dates used when a parameter is omitted.
type Defaults struct {
	Start time.Time
	End   time.Time
}

// ParseDate parses s as a YYYY-MM-DD calendar date in UTC.
// An empty string returns def.
func ParseDate(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Parse parses both ends of a range. Ordering is checked by the usecase.
func Parse(start, end string, def Defaults) (time.Time, time.Time, error) {
	s, err := ParseDate(start, def.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := ParseDate(end, def.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s, e, nil
}
