// Package merge reconciles freshly compiled vignettes with the persisted
// timetable of the same event edition.
package merge

import (
	"bytes"
	"encoding/json"

	"github.com/titansafe/timetable/internal/common"
	"github.com/titansafe/timetable/internal/diagnostics"
	"github.com/titansafe/timetable/internal/models"
)

const stage = "merge"

// Stats counts what a merge did to the timetable.
type Stats struct {
	Added           int `json:"added"`
	Replaced        int `json:"replaced"`
	Unchanged       int `json:"unchanged"`
	KeptManual      int `json:"keptManual"`
	FallbackMatched int `json:"fallbackMatched"`
}

// Merge applies generated to a copy of existing and returns it. A nil
// existing is an empty timetable for (event, year). Each generated vignette
// replaces the entry of its date bucket with the same id, else the entry
// with the same source key and activity, else it is appended. An entry
// edited by hand is never replaced by generated content.
//
// A vignette whose source key and activity occur once in generated may also
// claim an entry without id from another bucket; that entry moves to the
// vignette's date.
//
// generated must hold at most one vignette per id.
func Merge(event, year string, existing *models.TimetableDocument, generated []models.Vignette, report diagnostics.Reporter) (*models.TimetableDocument, Stats) {
	if report == nil {
		report = diagnostics.Discard{}
	}

	var doc *models.TimetableDocument
	if existing == nil {
		doc = models.NewTimetableDocument(event, year)
	} else {
		doc = existing.Clone()
	}
	if doc.Event == "" {
		doc.Event = event
	}
	if doc.Year == "" {
		doc.Year = year
	}

	legacy := map[string]struct{}{}
	for date, bucket := range doc.Data {
		for i := range bucket {
			if Normalize(&bucket[i], doc.Event, doc.Year, date) {
				legacy[bucket[i].ID] = struct{}{}
			}
		}
	}

	incoming := make([]models.Vignette, len(generated))
	ids := make(map[string]struct{}, len(generated))
	sources := map[sourceRef]int{}
	for i, g := range generated {
		g = g.Clone()
		Normalize(&g, doc.Event, doc.Year, g.Date)
		incoming[i] = g
		ids[g.ID] = struct{}{}
		if g.SourceKey != "" {
			sources[sourceRef{g.SourceKey, g.Activity}]++
		}
	}

	var st Stats
	for _, g := range incoming {
		bucket := doc.Data[g.Date]

		i := indexByID(bucket, g.ID)
		fallback := false
		if i < 0 {
			i = indexBySource(bucket, g.SourceKey, g.Activity, ids)
			fallback = i >= 0
		}

		if i < 0 && sources[sourceRef{g.SourceKey, g.Activity}] == 1 {
			if moved, ok := takeLegacy(doc, g, ids, legacy); ok {
				doc.Data[g.Date] = append(bucket, combine(moved, g))
				st.FallbackMatched++
				st.Replaced++
				report.Info(stage, "legacy entry moved", "id", g.ID, "from", moved.Date, "to", g.Date)
				continue
			}
		}

		if i < 0 {
			doc.Data[g.Date] = append(bucket, g)
			st.Added++
			continue
		}

		current := bucket[i]
		if current.Origin == common.OriginManualEdit && g.Origin != common.OriginManualEdit {
			st.KeptManual++
			report.Info(stage, "manual edit kept", "id", current.ID, "date", g.Date, "activity", current.Activity)
			continue
		}

		next := combine(current, g)
		if fallback {
			st.FallbackMatched++
		}
		if sameContent(current, next) {
			st.Unchanged++
			continue
		}
		bucket[i] = next
		st.Replaced++
	}

	report.Info(stage, "timetable merged",
		"event", doc.Event, "year", doc.Year,
		"added", st.Added, "replaced", st.Replaced, "unchanged", st.Unchanged,
		"keptManual", st.KeptManual, "fallbackMatched", st.FallbackMatched)
	return doc, st
}

// combine returns g carrying what current holds that generation does not
// produce: progress on preparation and fields added through the API.
func combine(current, g models.Vignette) models.Vignette {
	next := g
	if next.PreparationStatus == common.PreparationNone && current.PreparationStatus != "" {
		next.PreparationStatus = current.PreparationStatus
	}
	if len(current.Extra) > 0 {
		extra := make(map[string]json.RawMessage, len(current.Extra)+len(g.Extra))
		for k, v := range current.Extra {
			extra[k] = v
		}
		for k, v := range g.Extra {
			extra[k] = v
		}
		next.Extra = extra
	}
	return next
}

// sameContent reports whether both vignettes encode to the same document.
func sameContent(a, b models.Vignette) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ja, jb)
}

func indexByID(bucket []models.Vignette, id string) int {
	for i, v := range bucket {
		if v.ID == id {
			return i
		}
	}
	return -1
}

// indexBySource finds an entry written before ids were content-addressed.
// Entries whose id belongs to the run are left for their own id match.
func indexBySource(bucket []models.Vignette, sourceKey, activity string, ids map[string]struct{}) int {
	if sourceKey == "" {
		return -1
	}
	for i, v := range bucket {
		if _, claimed := ids[v.ID]; claimed {
			continue
		}
		if v.SourceKey == sourceKey && v.Activity == activity {
			return i
		}
	}
	return -1
}

type sourceRef struct {
	key      string
	activity string
}

// takeLegacy removes from doc the first entry without id, in date order,
// that g would have matched by source key had it been filed under the same
// date. Entries edited by hand stay where they are.
func takeLegacy(doc *models.TimetableDocument, g models.Vignette, ids, legacy map[string]struct{}) (models.Vignette, bool) {
	for _, date := range doc.Dates() {
		if date == g.Date {
			continue
		}
		bucket := doc.Data[date]
		for i, v := range bucket {
			if _, ok := legacy[v.ID]; !ok {
				continue
			}
			if _, claimed := ids[v.ID]; claimed {
				continue
			}
			if v.SourceKey != g.SourceKey || v.Activity != g.Activity || v.Origin == common.OriginManualEdit {
				continue
			}
			if len(bucket) == 1 {
				delete(doc.Data, date)
			} else {
				doc.Data[date] = append(bucket[:i:i], bucket[i+1:]...)
			}
			return v, true
		}
	}
	return models.Vignette{}, false
}
