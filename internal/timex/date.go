package timex

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/teambition/rrule-go"

	"github.com/titansafe/timetable/internal/common"
)

const DateLayout = "2006-01-02"

// DefaultTimezone is the zone the event's wall-clock times are expressed in.
const DefaultTimezone = "Europe/Paris"

// ParseDate parses an ISO calendar date (YYYY-MM-DD) at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", common.ErrInvalidDate, s)
	}
	return t, nil
}

// AddDays shifts an ISO date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

// DateRange lists every calendar date from start to end inclusive.
func DateRange(start, end string) ([]string, error) {
	s, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	if e.Before(s) {
		return nil, fmt.Errorf("%w: range %s..%s ends before it starts", common.ErrInvalidDate, start, end)
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: s,
		Until:   e,
	})
	if err != nil {
		return nil, fmt.Errorf("daily rule: %w", err)
	}

	all := r.All()
	out := make([]string, 0, len(all))
	for _, d := range all {
		out = append(out, d.Format(DateLayout))
	}
	return out, nil
}

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseInstant parses an absolute instant and converts it to loc. Values
// without a zone offset are read as wall-clock times in loc.
func ParseInstant(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", common.ErrMalformedInstant)
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range instantLayouts[1:] {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", common.ErrMalformedInstant, s)
}

// SplitInstant returns the calendar date and HH:MM of t.
func SplitInstant(t time.Time) (date, clock string) {
	return t.Format(DateLayout), t.Format(clockLayout)
}

// LoadLocation resolves an IANA zone name, falling back to DefaultTimezone
// for an empty name.
func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}
