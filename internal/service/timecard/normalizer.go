package timecard

import (
	"fmt"
	"slices"
	"sort"

	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
)

// Normalize orders events by timestamp ascending. The sort is stable, so
// punches with identical timestamps keep their input order. Events without a
// usable timestamp or type are left out and reported as anomalies.
func Normalize(events []timecard.Event) ([]timecard.Event, []timecard.Anomaly) {
	ordered := make([]timecard.Event, 0, len(events))
	var anomalies []timecard.Anomaly

	for _, ev := range events {
		switch {
		case ev.Timestamp.IsZero():
			anomalies = append(anomalies, timecard.Anomaly{
				Kind:       timecard.AnomalyInvalidTimestamp,
				EmployeeID: ev.EmployeeID,
				EventID:    ev.ID,
				Message:    fmt.Sprintf("event %s has no valid timestamp and was skipped", ev.ID),
			})
		case !ev.Type.IsValid():
			at := ev.Timestamp
			anomalies = append(anomalies, timecard.Anomaly{
				Kind:       timecard.AnomalyUnknownEventType,
				EmployeeID: ev.EmployeeID,
				EventID:    ev.ID,
				Date:       &at,
				Message:    fmt.Sprintf("event %s has unknown type %q and was skipped", ev.ID, ev.Type),
			})
		default:
			ordered = append(ordered, ev)
		}
	}

	slices.SortStableFunc(ordered, func(a, b timecard.Event) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	return ordered, anomalies
}

// EmployeeEvents is one employee's slice of a mixed event snapshot.
type EmployeeEvents struct {
	EmployeeID   string
	EmployeeName string
	Events       []timecard.Event
}

// GroupByEmployee splits a multi-employee snapshot per employee, sorted by
// name and then id. Input order is preserved inside each group.
func GroupByEmployee(events []timecard.Event) []EmployeeEvents {
	index := make(map[string]int)
	var groups []EmployeeEvents

	for _, ev := range events {
		i, ok := index[ev.EmployeeID]
		if !ok {
			i = len(groups)
			index[ev.EmployeeID] = i
			groups = append(groups, EmployeeEvents{EmployeeID: ev.EmployeeID})
		}
		if groups[i].EmployeeName == "" && ev.EmployeeName != "" {
			groups[i].EmployeeName = ev.EmployeeName
		}
		groups[i].Events = append(groups[i].Events, ev)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		if groups[a].EmployeeName != groups[b].EmployeeName {
			return groups[a].EmployeeName < groups[b].EmployeeName
		}
		return groups[a].EmployeeID < groups[b].EmployeeID
	})

	return groups
}
