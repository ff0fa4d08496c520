package sections

import (
	"sort"

	"github.com/titansafe/timetable/internal/timex"
	"github.com/titansafe/timetable/internal/vignette"
)

// Skip marks the sides of a pair that are not emitted.
type Skip struct {
	Open  bool
	Close bool
}

// Neighbours tells whether the calendar days before and after an entry are
// flagged 24-hour for the same window.
type Neighbours struct {
	Prev bool
	Next bool
}

// AdjacentSkip applies the generic 24-hour adjacency rules to an
// open/close pair:
//   - an opening at 00:00 is implied by a 24-hour previous day;
//   - a closing at 23:59 is implied by a 24-hour next day;
//   - a closing at 00:00 falls on the next day, which already covers it
//     when flagged 24-hour.
func AdjacentSkip(open, close string, n Neighbours) Skip {
	o, c := canonical(open), canonical(close)
	return Skip{
		Open:  o == vignette.Midnight && n.Prev,
		Close: (c == vignette.EndOfDay || c == vignette.Midnight) && n.Next,
	}
}

// StrictSkip applies the command-post rules: a full 00:00-23:59 day has no
// boundary markers, otherwise a 00:00 opening and a 23:59 closing are
// dropped regardless of the adjacent days.
func StrictSkip(open, close string) Skip {
	o, c := canonical(open), canonical(close)
	if o == vignette.Midnight && c == vignette.EndOfDay {
		return Skip{Open: true, Close: true}
	}
	return Skip{Open: o == vignette.Midnight, Close: c == vignette.EndOfDay}
}

func canonical(s string) string {
	c, err := timex.ParseClock(s)
	if err != nil {
		return s
	}
	return c.String()
}

// dayIndex looks entries up by calendar date.
type dayIndex[T any] map[string]T

func indexDays[T any](days []T, date func(T) string) dayIndex[T] {
	idx := make(dayIndex[T], len(days))
	for _, d := range days {
		idx[date(d)] = d
	}
	return idx
}

// neighbours evaluates continuous on the calendar days adjacent to date.
// A missing day is never continuous.
func (idx dayIndex[T]) neighbours(date string, continuous func(T) bool) Neighbours {
	var n Neighbours
	if prev, err := timex.AddDays(date, -1); err == nil {
		if d, ok := idx[prev]; ok {
			n.Prev = continuous(d)
		}
	}
	if next, err := timex.AddDays(date, 1); err == nil {
		if d, ok := idx[next]; ok {
			n.Next = continuous(d)
		}
	}
	return n
}

// sortedByDate returns a copy of days in ascending date order.
func sortedByDate[T any](days []T, date func(T) string) []T {
	out := append([]T(nil), days...)
	sort.SliceStable(out, func(i, j int) bool { return date(out[i]) < date(out[j]) })
	return out
}
