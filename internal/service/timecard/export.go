package timecard

import (
	"fmt"
	"time"

	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
)

// ExportHeader is the column order of every timecard export.
var ExportHeader = []string{"Employee Name", "Date", "Day", "Clock In", "Clock Out", "Duration (hrs:min)"}

const missingPunch = "-"

// ExportRows projects daily records onto flat export rows, one per record in
// input order.
func ExportRows(records []timecard.DailyRecord, loc *time.Location) []timecard.ExportRow {
	rows := make([]timecard.ExportRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, timecard.ExportRow{
			EmployeeName: rec.EmployeeName,
			Date:         rec.DateKey(),
			Weekday:      rec.Date.Weekday().String(),
			ClockIn:      formatPunch(rec.ClockIn, loc),
			ClockOut:     formatPunch(rec.ClockOut, loc),
			Duration:     FormatDuration(rec.Duration),
		})
	}
	return rows
}

// Values returns the row in ExportHeader order.
func Values(row timecard.ExportRow) []string {
	return []string{row.EmployeeName, row.Date, row.Weekday, row.ClockIn, row.ClockOut, row.Duration}
}

// FormatDuration renders a duration as "8h 30m", truncated to the minute.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int64(d / time.Minute)
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func formatPunch(t *time.Time, loc *time.Location) string {
	if t == nil {
		return missingPunch
	}
	return clock(*t, loc)
}
