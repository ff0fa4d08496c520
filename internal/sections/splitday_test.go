package sections

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titansafe/timetable/internal/diagnostics"
	"github.com/titansafe/timetable/internal/models"
)

func TestGates_CombinedWindow(t *testing.T) {
	p, _ := newProcessor(t, models.TodoSet{Type: "portes", Todos: []string{"Vérifier badges"}})
	g := decode(t, &models.Gates{}, `{"3": {"dates": [{"date": "2025-06-12",
		"organisation": {"open": "08:00", "close": "20:00"},
		"public": {"open": "08:00", "close": "20:00"}}]}}`)

	out := p.Process(context.Background(), g)

	assert.Equal(t, []brief{
		{"2025-06-12", "Opening Porte 3", "08:00", "20:00"},
		{"2025-06-12", "Closing Porte 3", "", "20:00"},
	}, briefs(out))
	assert.Equal(t, "Controle", out[0].Category)
	assert.Equal(t, "3", out[0].Place)
	assert.Equal(t, "Organization", out[0].Type)
	assert.Equal(t, "3", out[0].SourceKey)
	assert.Equal(t, []string{"Vérifier badges"}, out[0].Todo)
	assert.Empty(t, out[1].Todo)
}

func TestGates_SplitWindows(t *testing.T) {
	p, _ := newProcessor(t)
	g := decode(t, &models.Gates{}, `{
		"B": {"id": "gate-b", "dates": [{"date": "2025-06-12",
			"organisation": {"open": "07:00", "close": "21:00"},
			"public": {"open": "09:00", "close": "19:00"}}]},
		"A": {"dates": [{"date": "2025-06-12",
			"organisation": {"open": "07:00", "close": "21:00"},
			"public": {"closed": true}}]}
	}`)

	out := p.Process(context.Background(), g)

	assert.Equal(t, []brief{
		{"2025-06-12", "Opening Porte A - Organisation", "07:00", "21:00"},
		{"2025-06-12", "Closing Porte A - Organisation", "", "21:00"},
		{"2025-06-12", "Opening Porte B - Organisation", "07:00", "21:00"},
		{"2025-06-12", "Closing Porte B - Organisation", "", "21:00"},
		{"2025-06-12", "Opening Porte B - Public", "09:00", "19:00"},
		{"2025-06-12", "Closing Porte B - Public", "", "19:00"},
	}, briefs(out))
	assert.Equal(t, "Controle", out[2].Category)
	assert.Equal(t, "Porte", out[4].Category)
	assert.Equal(t, "gate-b", out[4].SourceKey)
	assert.Equal(t, "A", out[0].SourceKey)
}

func TestParkings_OpeningAfter24hDayIsSuppressed(t *testing.T) {
	p, _ := newProcessor(t)
	ps := decode(t, &models.Parkings{}, `[{"name": "P1", "dates": [
		{"date": "2025-06-12", "organisation": {"open": "00:00", "close": "18:00"}, "public": {"open": "00:00", "close": "18:00"}},
		{"date": "2025-06-11", "organisation": {"is24h": true}, "public": {"is24h": true}}
	]}]`)

	out := p.Process(context.Background(), ps)

	assert.Equal(t, []brief{{"2025-06-12", "Closing Parking P1", "", "18:00"}}, briefs(out))
	assert.Equal(t, "Parking", out[0].Category)
	assert.Equal(t, "P1", out[0].SourceKey)
}

func TestParkings_SplitWindowsCheckTheirOwnNeighbours(t *testing.T) {
	p, _ := newProcessor(t)
	ps := decode(t, &models.Parkings{}, `[{"id": "pk-1", "name": "P1", "dates": [
		{"date": "2025-06-11", "organisation": {"is24h": true}, "public": {"open": "08:00", "close": "20:00"}},
		{"date": "2025-06-12", "organisation": {"open": "00:00", "close": "18:00"}, "public": {"open": "00:00", "close": "17:00"}}
	]}]`)

	out := p.Process(context.Background(), ps)

	assert.Equal(t, []brief{
		{"2025-06-11", "Opening Parking P1 - Public", "08:00", "20:00"},
		{"2025-06-11", "Closing Parking P1 - Public", "", "20:00"},
		{"2025-06-12", "Closing Parking P1 - Organisation", "", "18:00"},
		{"2025-06-12", "Opening Parking P1 - Public", "00:00", "17:00"},
		{"2025-06-12", "Closing Parking P1 - Public", "", "17:00"},
	}, briefs(out))
	for _, v := range out {
		assert.Equal(t, "Controle", v.Category)
		assert.Equal(t, "pk-1", v.SourceKey)
	}
}

func TestParkings_MidnightCloseIntoContinuousDay(t *testing.T) {
	p, _ := newProcessor(t)
	ps := decode(t, &models.Parkings{}, `[{"name": "P2", "dates": [
		{"date": "2025-06-11", "organisation": {"open": "08:00", "close": "00:00"}, "public": {"open": "08:00", "close": "00:00"}},
		{"date": "2025-06-12", "organisation": {"is24h": true}, "public": {"is24h": true}}
	]}]`)

	out := p.Process(context.Background(), ps)

	require.Len(t, out, 1)
	assert.Equal(t, brief{"2025-06-11", "Opening Parking P2", "08:00", ""}, briefs(out)[0])
	assert.Equal(t, "Planned closing: 2025-06-12 00:00", out[0].Remark)
}

func TestParkings_NeighboursMustBeAdjacent(t *testing.T) {
	p, _ := newProcessor(t)
	ps := decode(t, &models.Parkings{}, `[{"name": "P3", "dates": [
		{"date": "2025-06-10", "organisation": {"is24h": true}, "public": {"is24h": true}},
		{"date": "2025-06-12", "organisation": {"open": "00:00", "close": "18:00"}, "public": {"open": "00:00", "close": "18:00"}}
	]}]`)

	out := p.Process(context.Background(), ps)

	assert.Equal(t, []brief{
		{"2025-06-12", "Opening Parking P3", "00:00", "18:00"},
		{"2025-06-12", "Closing Parking P3", "", "18:00"},
	}, briefs(out))
}

func TestParkings_DefaultNameAndMissingDate(t *testing.T) {
	p, rec := newProcessor(t)
	ps := decode(t, &models.Parkings{}, `[{"dates": [
		{"organisation": {"open": "08:00", "close": "18:00"}},
		{"date": "2025-06-12", "organisation": {"open": "08:00", "close": "18:00"}}
	]}]`)

	out := p.Process(context.Background(), ps)

	require.Len(t, out, 2)
	assert.Equal(t, "Opening Parking Parking - Organisation", out[0].Activity)
	assert.Equal(t, "parking", out[0].SourceKey)
	assert.Len(t, rec.Events(), 2)
}

func TestGates_SkippedWindowsAreReported(t *testing.T) {
	p, rec := newProcessor(t)
	g := decode(t, &models.Gates{}, `{"7": {"dates": [
		{"date": "2025-06-11"},
		{"date": "2025-06-12", "organisation": {"open": "07:00", "close": "21:00"}, "public": {"closed": true}},
		{"date": "2025-06-13", "organisation": {"is24h": true}, "public": {"open": "", "close": "19:00"}}
	]}}`)

	out := p.Process(context.Background(), g)

	require.Len(t, out, 2)
	var warned []string
	for _, e := range rec.Events() {
		if e.Level == diagnostics.LevelWarning {
			warned = append(warned, e.Message+" "+e.Attrs[1].(string)+" "+e.Attrs[3].(string))
		}
	}
	assert.Equal(t, []string{
		"entry skipped: missing window Porte 7 2025-06-11",
		"entry skipped: closed Porte 7 - Public 2025-06-12",
		"entry skipped: missing times Porte 7 - Public 2025-06-13",
	}, warned)
}
