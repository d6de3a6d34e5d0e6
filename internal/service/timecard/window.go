package timecard

import (
	"fmt"
	"time"

	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
)

const payPeriodDays = 14

// localDate returns local midnight of the calendar day t falls on.
func localDate(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// endOfDay returns 23:59:59.999 of the day starting at dayStart.
func endOfDay(dayStart time.Time) time.Time {
	return dayStart.AddDate(0, 0, 1).Add(-time.Millisecond)
}

// WeekWindowAt returns the Sunday-Saturday window offset weeks before the week of ref.
func WeekWindowAt(ref time.Time, offset int, loc *time.Location) timecard.WeekWindow {
	today := localDate(ref, loc)
	start := today.AddDate(0, 0, -int(today.Weekday())-7*offset)
	end := endOfDay(start.AddDate(0, 0, 6))

	return timecard.WeekWindow{
		Label:  rangeLabel(start, end),
		Offset: offset,
		Start:  start,
		End:    end,
	}
}

// WeekWindows lists n consecutive week windows starting with the week of ref
// and going back in time.
func WeekWindows(ref time.Time, n int, loc *time.Location) []timecard.WeekWindow {
	windows := make([]timecard.WeekWindow, 0, n)
	for offset := 0; offset < n; offset++ {
		windows = append(windows, WeekWindowAt(ref, offset, loc))
	}
	return windows
}

// PayPeriodFor returns the 14-day block a week belongs to. Weeks at an odd
// offset from the anchor Sunday start their block one week earlier, so both
// weeks of a block resolve to the same period for any anchor.
func PayPeriodFor(week timecard.WeekWindow, anchor time.Time, loc *time.Location) timecard.PayPeriod {
	weekStart := WeekWindowAt(week.Start, 0, loc).Start
	weekOffset := floorDiv(civilDays(weekStart)-civilDays(anchor), 7)

	start := weekStart
	if weekOffset%2 != 0 {
		start = start.AddDate(0, 0, -7)
	}
	end := endOfDay(start.AddDate(0, 0, payPeriodDays-1))

	return timecard.PayPeriod{
		Label: rangeLabel(start, end),
		Start: start,
		End:   end,
	}
}

// PayPeriodContaining returns the pay period of the week that contains t.
func PayPeriodContaining(t time.Time, anchor time.Time, loc *time.Location) timecard.PayPeriod {
	return PayPeriodFor(WeekWindowAt(t, 0, loc), anchor, loc)
}

// PayPeriods lists n consecutive pay periods, newest first, starting with the
// one that contains ref.
func PayPeriods(ref time.Time, n int, anchor time.Time, loc *time.Location) []timecard.PayPeriod {
	current := PayPeriodContaining(ref, anchor, loc)
	periods := make([]timecard.PayPeriod, 0, n)
	for i := 0; i < n; i++ {
		start := current.Start.AddDate(0, 0, -payPeriodDays*i)
		end := endOfDay(start.AddDate(0, 0, payPeriodDays-1))
		periods = append(periods, timecard.PayPeriod{
			Label: rangeLabel(start, end),
			Start: start,
			End:   end,
		})
	}
	return periods
}

// DayWindow covers one local calendar day.
func DayWindow(ref time.Time, loc *time.Location) timecard.CustomWindow {
	start := localDate(ref, loc)
	return timecard.CustomWindow{
		Label: start.Format("Mon, Jan 2, 2006"),
		Start: start,
		End:   endOfDay(start),
	}
}

// MonthWindow covers the calendar month of ref.
func MonthWindow(ref time.Time, loc *time.Location) timecard.CustomWindow {
	lt := ref.In(loc)
	start := time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, loc)
	last := start.AddDate(0, 1, -1)
	return timecard.CustomWindow{
		Label: start.Format("January 2006"),
		Start: start,
		End:   endOfDay(last),
	}
}

// DateRangeWindow covers the local dates from..to inclusive.
func DateRangeWindow(from, to time.Time, loc *time.Location) timecard.CustomWindow {
	start := localDate(from, loc)
	last := localDate(to, loc)
	return timecard.CustomWindow{
		Label: rangeLabel(start, last),
		Start: start,
		End:   endOfDay(last),
	}
}

func rangeLabel(start, end time.Time) string {
	if start.Year() != end.Year() {
		return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
}

// civilDays counts calendar days since the Unix epoch, ignoring time zone and
// DST so day arithmetic stays exact.
func civilDays(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
