// Package export renders a timetable document as an iCalendar feed so it can
// be subscribed to from any calendar client.
package export

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/titansafe/timetable/internal/common"
	"github.com/titansafe/timetable/internal/models"
	"github.com/titansafe/timetable/internal/timex"
)

const productID = "-//TitanSafe//Timetable//FR"

// Options controls the rendering. A nil Location means UTC; a zero Stamp
// means time.Now.
type Options struct {
	Location *time.Location
	Stamp    time.Time
}

// Calendar builds one VEVENT per vignette, in date order. Vignettes whose
// date or times cannot be read are left out and counted in skipped.
func Calendar(doc *models.TimetableDocument, opts Options) (cal *ical.Calendar, skipped int) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal = ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRTimezone(loc.String())
	if doc == nil {
		return cal, 0
	}
	cal.SetXWRCalName(strings.TrimSpace(doc.Event + " " + doc.Year))

	for _, date := range doc.Dates() {
		for _, v := range doc.Data[date] {
			start, end, err := span(v, loc)
			if err != nil {
				skipped++
				continue
			}
			ev := cal.AddEvent(v.ID)
			ev.SetDtStampTime(stamp)
			ev.SetStartAt(start)
			ev.SetEndAt(end)
			ev.SetSummary(v.Activity)
			if v.Place != "" {
				ev.SetLocation(v.Place)
			}
			if v.Category != "" {
				ev.AddProperty(ical.ComponentPropertyCategories, v.Category)
			}
			if d := description(v); d != "" {
				ev.SetDescription(d)
			}
		}
	}
	return cal, skipped
}

// ICS serialises the calendar of doc.
func ICS(doc *models.TimetableDocument, opts Options) (string, int) {
	cal, skipped := Calendar(doc, opts)
	return cal.Serialize(), skipped
}

// span resolves the absolute start and end of v. A closing vignette, which
// has an end but no start, and an instant without an end both get a
// zero-length event. An end at or before the start, or "24:00", falls on the
// next day.
func span(v models.Vignette, loc *time.Location) (time.Time, time.Time, error) {
	day, err := timex.ParseDate(v.Date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	startStr, endStr := strings.TrimSpace(v.Start), strings.TrimSpace(v.End)

	if startStr == "" {
		if endStr == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: no start or end", common.ErrMalformedEntry)
		}
		m, err := endMinutes(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		t := at(day, m, loc)
		return t, t, nil
	}

	open, err := timex.ParseClock(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := at(day, int(open), loc)
	if endStr == "" {
		return start, start, nil
	}

	closeMin, err := endMinutes(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if closeMin <= int(open) {
		closeMin += 24 * 60
	}
	return start, at(day, closeMin, loc), nil
}

func endMinutes(end string) (int, error) {
	if end == "24:00" {
		return 24 * 60, nil
	}
	c, err := timex.ParseClock(end)
	if err != nil {
		return 0, fmt.Errorf("%w: end %q", common.ErrMalformedEntry, end)
	}
	return int(c), nil
}

func at(day time.Time, minutes int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minutes, 0, 0, loc)
}

func description(v models.Vignette) string {
	var lines []string
	if v.Remark != "" {
		lines = append(lines, v.Remark)
	}
	for _, t := range v.Todo {
		lines = append(lines, "- "+t)
	}
	return strings.Join(lines, "\n")
}
