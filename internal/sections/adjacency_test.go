package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjacentSkip(t *testing.T) {
	tests := []struct {
		name        string
		open, close string
		n           Neighbours
		want        Skip
	}{
		{"plain day", "08:00", "18:00", Neighbours{Prev: true, Next: true}, Skip{}},
		{"midnight open after 24h day", "00:00", "18:00", Neighbours{Prev: true}, Skip{Open: true}},
		{"midnight open after normal day", "00:00", "18:00", Neighbours{}, Skip{}},
		{"end of day before 24h day", "08:00", "23:59", Neighbours{Next: true}, Skip{Close: true}},
		{"end of day before normal day", "08:00", "23:59", Neighbours{Prev: true}, Skip{}},
		{"midnight close rolls into 24h day", "08:00", "00:00", Neighbours{Next: true}, Skip{Close: true}},
		{"midnight close rolls into normal day", "08:00", "00:00", Neighbours{}, Skip{}},
		{"unpadded midnight", "0:00", "18:00", Neighbours{Prev: true}, Skip{Open: true}},
		{"between two 24h days", "00:00", "23:59", Neighbours{Prev: true, Next: true}, Skip{Open: true, Close: true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AdjacentSkip(tc.open, tc.close, tc.n))
		})
	}
}

func TestStrictSkip(t *testing.T) {
	assert.Equal(t, Skip{Open: true, Close: true}, StrictSkip("00:00", "23:59"))
	assert.Equal(t, Skip{Open: true}, StrictSkip("00:00", "20:00"))
	assert.Equal(t, Skip{Close: true}, StrictSkip("07:00", "23:59"))
	assert.Equal(t, Skip{}, StrictSkip("07:00", "20:00"))
}

func TestDayIndexNeighbours(t *testing.T) {
	type day struct {
		date string
		full bool
	}
	days := []day{{"2025-06-11", true}, {"2025-06-12", false}, {"2025-06-14", true}}
	idx := indexDays(days, func(d day) string { return d.date })
	full := func(d day) bool { return d.full }

	assert.Equal(t, Neighbours{Prev: true}, idx.neighbours("2025-06-12", full))
	// 2025-06-13 is missing, so 2025-06-14 has no continuous neighbour.
	assert.Equal(t, Neighbours{}, idx.neighbours("2025-06-14", full))
	assert.Equal(t, Neighbours{}, idx.neighbours("not-a-date", full))
}
