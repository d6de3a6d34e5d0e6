package timecard

import (
	"time"

	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
)

// FilterRecords keeps the records whose date falls in [start, end], both inclusive.
func FilterRecords(records []timecard.DailyRecord, start, end time.Time) []timecard.DailyRecord {
	filtered := make([]timecard.DailyRecord, 0, len(records))
	for _, rec := range records {
		if rec.Date.Before(start) || rec.Date.After(end) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

// Summarize filters records to the window, orders them by date and attaches
// running totals and the regular/overtime split.
func Summarize(records []timecard.DailyRecord, window timecard.Window, threshold time.Duration) timecard.WindowSummary {
	start, end := window.Bounds()
	inWindow := SortRecords(FilterRecords(records, start, end), timecard.SortAsc)

	return timecard.WindowSummary{
		Window: window,
		Days:   RunningTotals(inWindow, threshold),
		Stats:  CalculateOvertime(inWindow, threshold),
	}
}
