package models

import "sort"

// TimetableDocument is the persisted, date-indexed timetable of one
// (event, year) pair.
type TimetableDocument struct {
	Event string                `json:"event"`
	Year  string                `json:"year"`
	Data  map[string][]Vignette `json:"data"`
}

// NewTimetableDocument returns an empty document for the key.
func NewTimetableDocument(event, year string) *TimetableDocument {
	return &TimetableDocument{Event: event, Year: year, Data: map[string][]Vignette{}}
}

// Dates returns the bucket keys in ascending order.
func (d *TimetableDocument) Dates() []string {
	dates := make([]string, 0, len(d.Data))
	for k := range d.Data {
		dates = append(dates, k)
	}
	sort.Strings(dates)
	return dates
}

// Count returns the number of vignettes across all buckets.
func (d *TimetableDocument) Count() int {
	n := 0
	for _, bucket := range d.Data {
		n += len(bucket)
	}
	return n
}

// Clone returns a deep copy.
func (d *TimetableDocument) Clone() *TimetableDocument {
	c := NewTimetableDocument(d.Event, d.Year)
	for date, bucket := range d.Data {
		cp := make([]Vignette, len(bucket))
		for i, v := range bucket {
			cp[i] = v.Clone()
		}
		c.Data[date] = cp
	}
	return c
}
