package timecard

import (
	"testing"
	"time"

	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCorrection(t *testing.T) {
	out := punch(t, "out-1", timecard.EventTypeOut, "2024-06-03 23:30")
	out.AutoClockOut = true
	tl := BuildTimeline("emp-1", []timecard.Event{
		punch(t, "in-1", timecard.EventTypeIn, "2024-06-03 09:00"),
		out,
	}, newYork)
	rec, ok := tl.Record(day(t, "2024-06-03"))
	require.True(t, ok)

	c, err := BuildCorrection(rec, "17:15", "forgot to clock out", "mgr-1", newYork)

	require.NoError(t, err)
	assert.Equal(t, "out-1", c.EventID)
	assert.Equal(t, "emp-1", c.EmployeeID)
	assert.Equal(t, "mgr-1", c.ActorID)
	assert.Equal(t, at(t, "2024-06-03 17:15"), c.Timestamp)
	assert.True(t, c.Edited)
	assert.False(t, c.AutoClockOut)
	assert.Equal(t, "forgot to clock out", c.ManagerNote)
	require.NotNil(t, c.PreviousTimestamp)
	assert.Equal(t, at(t, "2024-06-03 23:30"), *c.PreviousTimestamp)
	assert.True(t, c.PreviousAutoClockOut)
}

func TestBuildCorrection_RejectsOpenRecords(t *testing.T) {
	cases := map[string][]timecard.Event{
		"clock-in only": {
			punch(t, "in-1", timecard.EventTypeIn, "2024-06-03 09:00"),
		},
		"clock-out only": {
			punch(t, "out-1", timecard.EventTypeOut, "2024-06-03 17:00"),
		},
	}

	for name, events := range cases {
		t.Run(name, func(t *testing.T) {
			rec := BuildTimeline("emp-1", events, newYork).Records[0]

			_, err := BuildCorrection(rec, "17:00", "", "mgr-1", newYork)

			assert.ErrorIs(t, err, timecard.ErrRecordNotAmendable)
		})
	}
}

func TestBuildCorrection_BadClockTime(t *testing.T) {
	rec := BuildTimeline("emp-1", workWeek(t), newYork).Records[0]

	_, err := BuildCorrection(rec, "25:00", "", "mgr-1", newYork)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, timecard.ErrRecordNotAmendable)
}

func TestApplyCorrection_ClearsWarningOnRecompute(t *testing.T) {
	out := punch(t, "out-1", timecard.EventTypeOut, "2024-06-03 21:00")
	out.AutoClockOut = true
	events := []timecard.Event{punch(t, "in-1", timecard.EventTypeIn, "2024-06-03 09:00"), out}

	rec := BuildTimeline("emp-1", events, newYork).Records[0]
	require.True(t, rec.HasWarning)

	c, err := BuildCorrection(rec, "17:00", "left at five", "mgr-1", newYork)
	require.NoError(t, err)

	corrected, found := ApplyCorrection(events, c)
	require.True(t, found)
	// snapshot passed in is not modified
	assert.True(t, events[1].AutoClockOut)

	after := BuildTimeline("emp-1", corrected, newYork).Records[0]
	assert.False(t, after.HasWarning)
	assert.True(t, after.Edited)
	require.NotNil(t, after.Note)
	assert.Equal(t, "left at five", *after.Note)
	assert.InDelta(t, 8.0, after.Hours, 1e-9)
	assert.Equal(t, "out-1", after.SourceEventID)
}

func TestApplyCorrection_UnknownEvent(t *testing.T) {
	events := workWeek(t)

	out, found := ApplyCorrection(events, timecard.Correction{EventID: "missing"})

	assert.False(t, found)
	assert.Equal(t, events, out)
}

func TestAmend_ShiftsLaterRunningTotalsOnly(t *testing.T) {
	events := workWeek(t)
	week := WeekWindowAt(day(t, "2024-06-05"), 0, newYork)

	before := Summarize(BuildTimeline("emp-1", events, newYork).Records, week, DefaultOvertimeThreshold)

	tl := BuildTimeline("emp-1", events, newYork)
	rec, ok := tl.Record(day(t, "2024-06-05"))
	require.True(t, ok)
	c, err := BuildCorrection(rec, "14:00", "early leave", "mgr-1", newYork) // 9h -> 6h
	require.NoError(t, err)
	corrected, _ := ApplyCorrection(events, c)

	after := Summarize(BuildTimeline("emp-1", corrected, newYork).Records, week, DefaultOvertimeThreshold)

	require.Len(t, before.Days, 5)
	require.Len(t, after.Days, 5)
	for i := range before.Days {
		date := before.Days[i].Record.DateKey()
		switch {
		case date < "2024-06-05":
			assert.Equal(t, before.Days[i].RunningTotal, after.Days[i].RunningTotal, date)
			assert.Equal(t, before.Days[i].Record.Duration, after.Days[i].Record.Duration, date)
		case date == "2024-06-05":
			assert.Equal(t, 6*time.Hour, after.Days[i].Record.Duration)
			assert.Equal(t, before.Days[i].RunningTotal-3*time.Hour, after.Days[i].RunningTotal)
		default:
			assert.Equal(t, before.Days[i].RunningTotal-3*time.Hour, after.Days[i].RunningTotal, date)
		}
	}
	assert.InDelta(t, 42.0, after.Stats.TotalHours, 1e-9)
	assert.InDelta(t, 2.0, after.Stats.OvertimeHours, 1e-9)
}
