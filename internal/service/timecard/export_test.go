package timecard

import (
	"testing"
	"time"

	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0h 0m"},
		{8*time.Hour + 30*time.Minute, "8h 30m"},
		{90*time.Minute + 59*time.Second, "1h 30m"},
		{45 * time.Hour, "45h 0m"},
		{-time.Hour, "0h 0m"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatDuration(c.in), c.in.String())
	}
}

func TestExportRows(t *testing.T) {
	events := []timecard.Event{
		punch(t, "in-1", timecard.EventTypeIn, "2024-06-03 09:00"),
		punch(t, "out-1", timecard.EventTypeOut, "2024-06-03 17:30"),
		punch(t, "in-2", timecard.EventTypeIn, "2024-06-04 09:15"),
	}
	records := BuildTimeline("emp-1", events, newYork).Records

	rows := ExportRows(records, newYork)

	require.Len(t, rows, 2)
	assert.Equal(t, timecard.ExportRow{
		EmployeeName: "Dana Reyes",
		Date:         "2024-06-03",
		Weekday:      "Monday",
		ClockIn:      "09:00",
		ClockOut:     "17:30",
		Duration:     "8h 30m",
	}, rows[0])
	assert.Equal(t, "-", rows[1].ClockOut)
	assert.Equal(t, "0h 0m", rows[1].Duration)

	assert.Equal(t, []string{"Dana Reyes", "2024-06-03", "Monday", "09:00", "17:30", "8h 30m"}, Values(rows[0]))
	assert.Len(t, ExportHeader, len(Values(rows[0])))
}
