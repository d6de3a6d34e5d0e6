package timecard

import (
	"testing"
	"time"

	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnchor(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	anchor, err := ParseAnchor("2024-01-07", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 7, 0, 0, 0, 0, loc), anchor)
	assert.Equal(t, time.Sunday, anchor.Weekday())

	_, err = ParseAnchor("2024-01-08", loc)
	assert.ErrorIs(t, err, ErrInvalidAnchor)
	assert.ErrorContains(t, err, "Monday")

	_, err = ParseAnchor("01/07/2024", loc)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidAnchor)
}

func TestDailyRecord_IsOpen(t *testing.T) {
	in := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)
	out := in.Add(4 * time.Hour)

	assert.True(t, DailyRecord{}.IsOpen())
	assert.True(t, DailyRecord{ClockIn: &in}.IsOpen())
	assert.False(t, DailyRecord{ClockIn: &in, ClockOut: &out}.IsOpen())
}
