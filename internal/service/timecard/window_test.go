package timecard

import (
	"testing"
	"time"

	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekWindowAt(t *testing.T) {
	ref := at(t, "2024-06-05 10:30") // Wednesday

	w := WeekWindowAt(ref, 0, newYork)

	assert.Equal(t, at(t, "2024-06-02 00:00"), w.Start)
	assert.Equal(t, time.Sunday, w.Start.Weekday())
	assert.Equal(t, time.Date(2024, 6, 8, 23, 59, 59, int(999*time.Millisecond), newYork), w.End)
	assert.Equal(t, "Jun 2 - Jun 8, 2024", w.Label)
	assert.Equal(t, 0, w.Offset)

	prev := WeekWindowAt(ref, 1, newYork)
	assert.Equal(t, at(t, "2024-05-26 00:00"), prev.Start)
	assert.Equal(t, 1, prev.Offset)
}

func TestWeekWindowAt_SundayAndSaturdayBelongToSameWeek(t *testing.T) {
	sunday := WeekWindowAt(at(t, "2024-06-02 00:00"), 0, newYork)
	saturday := WeekWindowAt(at(t, "2024-06-08 23:59"), 0, newYork)
	assert.Equal(t, sunday, saturday)
}

func TestWeekWindowAt_YearBoundaryLabel(t *testing.T) {
	w := WeekWindowAt(at(t, "2024-01-02 12:00"), 0, newYork)
	assert.Equal(t, "Dec 31, 2023 - Jan 6, 2024", w.Label)
}

func TestWeekWindowAt_DaylightSavingWeek(t *testing.T) {
	// 2024-03-10 is the spring-forward Sunday in New York.
	w := WeekWindowAt(at(t, "2024-03-13 12:00"), 0, newYork)

	assert.Equal(t, 0, w.Start.Hour())
	assert.Equal(t, 10, w.Start.Day())
	assert.Equal(t, 16, w.End.Day())
	assert.Equal(t, 23, w.End.Hour())
	// one hour short of a full week
	assert.Equal(t, 167*time.Hour-time.Millisecond, w.End.Sub(w.Start))
}

func TestWeekWindows(t *testing.T) {
	windows := WeekWindows(at(t, "2024-06-05 10:30"), 30, newYork)

	require.Len(t, windows, 30)
	for i := 1; i < len(windows); i++ {
		assert.Equal(t, windows[i-1].Start.AddDate(0, 0, -7), windows[i].Start)
		assert.Equal(t, i, windows[i].Offset)
	}
}

func TestPayPeriodFor_AnchorScenarios(t *testing.T) {
	anchor := day(t, "2024-01-07")

	cases := []struct {
		weekStart string
		wantStart string
		wantEnd   string
	}{
		{"2024-01-21", "2024-01-21", "2024-02-03"}, // offset 2
		{"2024-01-14", "2024-01-07", "2024-01-20"}, // offset 1
		{"2024-01-07", "2024-01-07", "2024-01-20"}, // offset 0
		{"2023-12-31", "2023-12-24", "2024-01-06"}, // offset -1
		{"2023-12-24", "2023-12-24", "2024-01-06"}, // offset -2
	}

	for _, tc := range cases {
		t.Run(tc.weekStart, func(t *testing.T) {
			week := WeekWindowAt(day(t, tc.weekStart), 0, newYork)
			pp := PayPeriodFor(week, anchor, newYork)

			assert.Equal(t, tc.wantStart, pp.Start.Format(timecard.DateLayout))
			assert.Equal(t, tc.wantEnd, pp.End.Format(timecard.DateLayout))
			assert.Equal(t, endOfDay(day(t, tc.wantEnd)), pp.End)
			assert.Equal(t, time.Sunday, pp.Start.Weekday())
			assert.Equal(t, 14, int(civilDays(pp.End)-civilDays(pp.Start))+1)
		})
	}
}

func TestPayPeriodFor_BothWeeksShareAPeriod(t *testing.T) {
	cases := []struct {
		name   string
		anchor string
		ref    string
	}{
		{"after anchor", "2024-01-07", "2024-09-18 12:00"},
		{"other parity", "2024-01-14", "2024-09-18 12:00"},
		{"before anchor", "2024-01-07", "2023-11-15 12:00"},
		{"years before anchor", "2024-01-14", "2020-03-04 12:00"},
		{"spans anchor", "2024-01-07", "2024-03-06 12:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			anchor := day(t, tc.anchor)
			var newer timecard.PayPeriod
			blocks := 0

			for offset := 0; offset < 60; offset++ {
				week := WeekWindowAt(at(t, tc.ref), offset, newYork)
				pp := PayPeriodFor(week, anchor, newYork)

				assert.False(t, week.Start.Before(pp.Start), week.Label)
				assert.False(t, week.End.After(pp.End), week.Label)

				first := PayPeriodFor(WeekWindowAt(pp.Start, 0, newYork), anchor, newYork)
				second := PayPeriodFor(WeekWindowAt(pp.Start.AddDate(0, 0, 7), 0, newYork), anchor, newYork)
				assert.Equal(t, pp.Start, first.Start, week.Label)
				assert.Equal(t, pp.End, first.End, week.Label)
				assert.Equal(t, pp.Start, second.Start, week.Label)
				assert.Equal(t, pp.End, second.End, week.Label)

				if offset > 0 && !pp.Start.Equal(newer.Start) {
					assert.True(t, pp.End.Before(newer.Start), "%s overlaps %s", pp.Label, newer.Label)
					assert.Equal(t, newer.Start, pp.End.Add(time.Millisecond), "%s and %s leave a gap", pp.Label, newer.Label)
				}
				if offset == 0 || !pp.Start.Equal(newer.Start) {
					blocks++
				}
				newer = pp
			}

			assert.Contains(t, []int{30, 31}, blocks)
		})
	}
}

func TestPayPeriods(t *testing.T) {
	periods := PayPeriods(at(t, "2024-01-25 09:00"), 3, day(t, "2024-01-07"), newYork)

	require.Len(t, periods, 3)
	assert.Equal(t, "Jan 21 - Feb 3, 2024", periods[0].Label)
	assert.Equal(t, "Jan 7 - Jan 20, 2024", periods[1].Label)
	assert.Equal(t, "Dec 24, 2023 - Jan 6, 2024", periods[2].Label)

	// Spring-forward and fall-back both land inside this range.
	periods = PayPeriods(at(t, "2023-12-01 09:00"), 30, day(t, "2024-01-14"), newYork)
	require.Len(t, periods, 30)
	for i := 1; i < len(periods); i++ {
		newer, older := periods[i-1], periods[i]
		assert.True(t, older.End.Before(newer.Start), older.Label)
		assert.Equal(t, newer.Start, older.End.Add(time.Millisecond), older.Label)
		assert.Equal(t, PayPeriodContaining(older.Start, day(t, "2024-01-14"), newYork).Start, older.Start, older.Label)
	}
}

func TestPayPeriodContaining(t *testing.T) {
	pp := PayPeriodContaining(at(t, "2024-01-18 15:00"), day(t, "2024-01-07"), newYork)
	assert.Equal(t, day(t, "2024-01-07"), pp.Start)
}

func TestDayAndMonthWindows(t *testing.T) {
	d := DayWindow(at(t, "2024-06-05 10:30"), newYork)
	assert.Equal(t, day(t, "2024-06-05"), d.Start)
	assert.Equal(t, endOfDay(day(t, "2024-06-05")), d.End)

	m := MonthWindow(at(t, "2024-02-14 10:30"), newYork)
	assert.Equal(t, day(t, "2024-02-01"), m.Start)
	assert.Equal(t, endOfDay(day(t, "2024-02-29")), m.End)
	assert.Equal(t, "February 2024", m.Name())

	r := DateRangeWindow(day(t, "2024-06-03"), day(t, "2024-06-09"), newYork)
	assert.Equal(t, "Jun 3 - Jun 9, 2024", r.Name())
}

func TestFloorDiv(t *testing.T) {
	cases := []struct{ a, b, want int64 }{
		{14, 7, 2},
		{13, 7, 1},
		{0, 7, 0},
		{-1, 7, -1},
		{-7, 7, -1},
		{-8, 7, -2},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, floorDiv(c.a, c.b), "floorDiv(%d, %d)", c.a, c.b)
	}
}
