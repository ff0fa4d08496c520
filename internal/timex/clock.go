// Package timex holds the calendar and wall-clock helpers used by the
// compiler: HH:MM parsing, duration with overnight rollover, ISO dates,
// absolute instants and the JSON-friendly Duration used by configuration.
package timex

import (
	"fmt"
	"strings"
	"time"

	"github.com/titansafe/timetable/internal/common"
)

const (
	clockLayout   = "15:04"
	minutesPerDay = 24 * 60
)

// Clock is a wall-clock time of day, in minutes after midnight.
type Clock int

// ParseClock parses an HH:MM value.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", common.ErrInvalidClock, s)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Elapsed returns the minutes from open to close. A close at or before open
// is taken to fall on the following day, so equal values span a full day.
func Elapsed(open, close Clock) int {
	if close > open {
		return int(close - open)
	}
	return minutesPerDay - int(open) + int(close)
}

// FormatMinutes renders a minute count as HH:MM. Hours are not wrapped, so a
// full day renders as "24:00".
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ComputeDuration returns the HH:MM duration between two HH:MM values,
// rolling the close over to the next day when it is not after the open.
func ComputeDuration(open, close string) (string, error) {
	o, err := ParseClock(open)
	if err != nil {
		return "", err
	}
	c, err := ParseClock(close)
	if err != nil {
		return "", err
	}
	return FormatMinutes(Elapsed(o, c)), nil
}

// RollsOver reports whether a window closing at close falls on the day after
// it opened.
func RollsOver(open, close string) (bool, error) {
	o, err := ParseClock(open)
	if err != nil {
		return false, err
	}
	c, err := ParseClock(close)
	if err != nil {
		return false, err
	}
	return c <= o, nil
}

// ResolveClosingDate returns date when close is after open on the same day,
// and the following date otherwise.
func ResolveClosingDate(date, open, close string) (string, error) {
	roll, err := RollsOver(open, close)
	if err != nil {
		return "", err
	}
	if !roll {
		if _, err := ParseDate(date); err != nil {
			return "", err
		}
		return date, nil
	}
	return AddDays(date, 1)
}
