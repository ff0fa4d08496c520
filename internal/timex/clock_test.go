package timex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titansafe/timetable/internal/common"
)

func TestComputeDuration(t *testing.T) {
	tests := []struct {
		name        string
		open, close string
		want        string
	}{
		{"same day", "08:00", "20:00", "12:00"},
		{"overnight", "22:00", "02:00", "04:00"},
		{"close at midnight", "18:30", "00:00", "05:30"},
		{"late evening", "00:00", "23:59", "23:59"},
		{"equal is a full day", "06:00", "06:00", "24:00"},
		{"single digit hour", "8:00", "09:15", "01:15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDuration(tt.open, tt.close)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeDuration_Invalid(t *testing.T) {
	for _, pair := range [][2]string{{"", "10:00"}, {"10:00", "24:00"}, {"ab:cd", "10:00"}, {"10:00", "10:7"}} {
		got, err := ComputeDuration(pair[0], pair[1])
		assert.Empty(t, got)
		assert.True(t, errors.Is(err, common.ErrInvalidClock), "pair %v: %v", pair, err)
	}
}

func TestResolveClosingDate(t *testing.T) {
	got, err := ResolveClosingDate("2025-06-10", "22:00", "02:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-11", got)

	got, err = ResolveClosingDate("2025-06-10", "08:00", "18:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-10", got)

	got, err = ResolveClosingDate("2025-06-30", "10:00", "10:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-07-01", got)

	_, err = ResolveClosingDate("10/06/2025", "08:00", "18:00")
	assert.ErrorIs(t, err, common.ErrInvalidDate)
}

func TestClock_String(t *testing.T) {
	c, err := ParseClock("7:05")
	require.NoError(t, err)
	assert.Equal(t, Clock(425), c)
	assert.Equal(t, "07:05", c.String())
}
