package timecard

import (
	"time"

	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
)

const DefaultOvertimeThreshold = 40 * time.Hour

// CalculateOvertime splits the window total into regular and overtime hours.
// A non-positive threshold falls back to DefaultOvertimeThreshold.
func CalculateOvertime(records []timecard.DailyRecord, threshold time.Duration) timecard.WeeklyStats {
	var total time.Duration
	for _, rec := range records {
		total += rec.Duration
	}
	return splitOvertime(total, effectiveThreshold(threshold))
}

// RunningTotals returns one DaySummary per record, in input order. Callers pass
// records sorted ascending by date.
func RunningTotals(records []timecard.DailyRecord, threshold time.Duration) []timecard.DaySummary {
	threshold = effectiveThreshold(threshold)

	days := make([]timecard.DaySummary, 0, len(records))
	var running time.Duration
	for _, rec := range records {
		running += rec.Duration
		days = append(days, timecard.DaySummary{
			Record:       rec,
			RunningTotal: running,
			RunningHours: running.Hours(),
			IsOvertime:   running > threshold,
		})
	}
	return days
}

func splitOvertime(total, threshold time.Duration) timecard.WeeklyStats {
	regular := min(total, threshold)
	overtime := total - regular

	return timecard.WeeklyStats{
		Regular:       regular,
		Overtime:      overtime,
		Total:         total,
		RegularHours:  regular.Hours(),
		OvertimeHours: overtime.Hours(),
		TotalHours:    total.Hours(),
	}
}

func effectiveThreshold(threshold time.Duration) time.Duration {
	if threshold <= 0 {
		return DefaultOvertimeThreshold
	}
	return threshold
}
