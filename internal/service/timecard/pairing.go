package timecard

import (
	"fmt"
	"slices"
	"time"

	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
)

type pairingState int

const (
	awaitingIn pairingState = iota
	clockedIn
)

// BuildTimeline runs the normalizer and the daily pairing state machine over
// one employee's raw events.
func BuildTimeline(employeeID string, events []timecard.Event, loc *time.Location) timecard.Timeline {
	ordered, skipped := Normalize(events)
	tl := pairEvents(employeeID, ordered, loc)
	tl.Anomalies = append(skipped, tl.Anomalies...)
	return tl
}

// pairEvents folds ordered events into one DailyRecord per local calendar date.
// A shift crossing midnight yields two partial records with zero hours each.
func pairEvents(employeeID string, ordered []timecard.Event, loc *time.Location) timecard.Timeline {
	tl := timecard.Timeline{EmployeeID: employeeID}

	byDate := make(map[string]*timecard.DailyRecord)
	var keys []string

	state := awaitingIn
	var lastIn timecard.Event
	var lastInKey string

	for _, ev := range ordered {
		date := localDate(ev.Timestamp, loc)
		key := date.Format(timecard.DateLayout)

		rec, ok := byDate[key]
		if !ok {
			rec = &timecard.DailyRecord{EmployeeID: employeeID, Date: date}
			byDate[key] = rec
			keys = append(keys, key)
		}
		if ev.EmployeeName != "" {
			rec.EmployeeName = ev.EmployeeName
			tl.EmployeeName = ev.EmployeeName
		}

		ts := ev.Timestamp
		switch ev.Type {
		case timecard.EventTypeIn:
			prevIn := rec.ClockIn
			switch {
			case prevIn != nil && state == clockedIn && lastInKey == key:
				flag(rec, timecard.AnomalyDoubleClockIn, ev,
					fmt.Sprintf("clock-in at %s replaced earlier clock-in at %s", clock(ts, loc), clock(*prevIn, loc)))
			case prevIn != nil && rec.ClockOut != nil:
				flag(rec, timecard.AnomalyMultipleShifts, ev,
					fmt.Sprintf("second shift started at %s, only the latest pair is counted", clock(ts, loc)))
				// The new pair starts open; the earlier clock-out belongs to the previous shift.
				rec.ClockOut = nil
				rec.SourceEventID = ""
				rec.HasWarning = false
				rec.Note = nil
				rec.Edited = false
			}

			rec.ClockIn = &ts
			settle(rec)

			state = clockedIn
			lastIn = ev
			lastInKey = key

		case timecard.EventTypeOut:
			switch {
			case rec.ClockOut != nil && state == awaitingIn:
				flag(rec, timecard.AnomalyUnmatchedClockOut, ev,
					fmt.Sprintf("clock-out at %s replaced earlier clock-out at %s without a clock-in between", clock(ts, loc), clock(*rec.ClockOut, loc)))
			case rec.ClockIn == nil && state == clockedIn:
				flag(rec, timecard.AnomalyCrossMidnightShift, ev,
					fmt.Sprintf("clock-out at %s closes a shift started on %s", clock(ts, loc), lastInKey))
			case rec.ClockIn == nil:
				flag(rec, timecard.AnomalyUnmatchedClockOut, ev,
					fmt.Sprintf("clock-out at %s has no clock-in", clock(ts, loc)))
			}

			rec.ClockOut = &ts
			rec.SourceEventID = ev.ID
			rec.HasWarning = ev.AutoClockOut
			rec.Note = ev.ManagerNote
			rec.Edited = ev.Edited
			if ev.AutoClockOut {
				flag(rec, timecard.AnomalyAutoClockOut, ev,
					fmt.Sprintf("clock-out at %s was forced by the system and needs review", clock(ts, loc)))
			}
			settle(rec)

			state = awaitingIn
		}
	}

	slices.Sort(keys)
	tl.Records = make([]timecard.DailyRecord, 0, len(keys))
	for _, key := range keys {
		rec := byDate[key]
		// Judged on the final pair only.
		if settle(rec) {
			flag(rec, timecard.AnomalyNegativeDuration, timecard.Event{ID: rec.SourceEventID},
				fmt.Sprintf("clock-out at %s precedes clock-in at %s, hours set to 0", clock(*rec.ClockOut, loc), clock(*rec.ClockIn, loc)))
		}
		tl.Records = append(tl.Records, *rec)
		tl.Anomalies = append(tl.Anomalies, rec.Anomalies...)
	}

	if state == clockedIn {
		open := lastIn
		tl.OpenShift = &open
	}

	return tl
}

// settle recomputes hours from both ends and reports a negative span, which
// is clamped to zero.
func settle(rec *timecard.DailyRecord) bool {
	rec.Duration = 0
	rec.Hours = 0
	if rec.ClockIn == nil || rec.ClockOut == nil {
		return false
	}

	d := rec.ClockOut.Sub(*rec.ClockIn)
	if d < 0 {
		return true
	}
	rec.Duration = d
	rec.Hours = d.Hours()
	return false
}

func flag(rec *timecard.DailyRecord, kind timecard.AnomalyKind, ev timecard.Event, msg string) {
	date := rec.Date
	rec.Anomalies = append(rec.Anomalies, timecard.Anomaly{
		Kind:       kind,
		EmployeeID: rec.EmployeeID,
		EventID:    ev.ID,
		Date:       &date,
		Message:    msg,
	})
}

func clock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(timecard.TimeLayout)
}

// SortRecords returns a copy of records ordered by date, asc or desc.
func SortRecords(records []timecard.DailyRecord, order string) []timecard.DailyRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b timecard.DailyRecord) int {
		if order == timecard.SortDesc {
			return b.Date.Compare(a.Date)
		}
		return a.Date.Compare(b.Date)
	})
	return sorted
}

// BuildDailyRecords is BuildTimeline for callers that only need the records.
func BuildDailyRecords(events []timecard.Event, loc *time.Location) []timecard.DailyRecord {
	var employeeID string
	if len(events) > 0 {
		employeeID = events[0].EmployeeID
	}
	return BuildTimeline(employeeID, events, loc).Records
}
