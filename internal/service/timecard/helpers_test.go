package timecard

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
)

var newYork = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// at parses "2006-01-02 15:04" in New York time.
func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", value, newYork)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return ts
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(timecard.DateLayout, value, newYork)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return d
}

func punch(t *testing.T, id string, eventType timecard.EventType, value string) timecard.Event {
	t.Helper()
	return timecard.Event{
		ID:           id,
		EmployeeID:   "emp-1",
		EmployeeName: "Dana Reyes",
		Type:         eventType,
		Timestamp:    at(t, value),
	}
}

func kinds(anomalies []timecard.Anomaly) []timecard.AnomalyKind {
	out := make([]timecard.AnomalyKind, 0, len(anomalies))
	for _, a := range anomalies {
		out = append(out, a.Kind)
	}
	return out
}

// workWeek is Monday-Friday 2024-06-03..07, 08:00-17:00 each day (45h).
func workWeek(t *testing.T) []timecard.Event {
	t.Helper()
	var events []timecard.Event
	for i, d := range []string{"2024-06-03", "2024-06-04", "2024-06-05", "2024-06-06", "2024-06-07"} {
		events = append(events,
			punch(t, "in-"+string(rune('a'+i)), timecard.EventTypeIn, d+" 08:00"),
			punch(t, "out-"+string(rune('a'+i)), timecard.EventTypeOut, d+" 17:00"),
		)
	}
	return events
}
