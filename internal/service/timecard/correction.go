package timecard

import (
	"fmt"
	"time"

	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
	"github.com/shifttrack/timecard-backend-go/internal/pkg/validator"
)

// BuildCorrection turns a manager edit of a daily record into the write-back
// for its "out" event. The new clock-out lands on the record's own calendar
// date in loc. Open records without a clock-out event or a clock-in cannot be
// amended.
func BuildCorrection(rec timecard.DailyRecord, clockOut, note, actorID string, loc *time.Location) (timecard.Correction, error) {
	if rec.SourceEventID == "" || rec.ClockIn == nil {
		return timecard.Correction{}, fmt.Errorf("%w: %s has no complete clock-in/clock-out pair",
			timecard.ErrRecordNotAmendable, rec.DateKey())
	}

	hm, ok := validator.IsValidClockTime(clockOut)
	if !ok {
		return timecard.Correction{}, validator.ValidationErrors{{
			Field:   "clock_out_time",
			Message: "clock_out_time must be in HH:MM format",
		}}
	}

	day := rec.Date.In(loc)
	ts := time.Date(day.Year(), day.Month(), day.Day(), hm.Hour(), hm.Minute(), 0, 0, loc)

	var previous *time.Time
	if rec.ClockOut != nil {
		prev := *rec.ClockOut
		previous = &prev
	}

	return timecard.Correction{
		EventID:              rec.SourceEventID,
		EmployeeID:           rec.EmployeeID,
		ActorID:              actorID,
		Timestamp:            ts,
		ManagerNote:          note,
		Edited:               true,
		AutoClockOut:         false,
		PreviousTimestamp:    previous,
		PreviousAutoClockOut: rec.HasWarning,
	}, nil
}

// ApplyCorrection returns a copy of events with the correction written over
// its target. The bool is false when no event carries the target id.
func ApplyCorrection(events []timecard.Event, c timecard.Correction) ([]timecard.Event, bool) {
	out := make([]timecard.Event, len(events))
	found := false
	for i, ev := range events {
		if ev.ID == c.EventID {
			ev = c.Apply(ev)
			found = true
		}
		out[i] = ev
	}
	return out, found
}
