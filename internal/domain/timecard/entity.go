package timecard

import (
	"fmt"
	"time"
)

type EventType string

const (
	EventTypeIn  EventType = "in"
	EventTypeOut EventType = "out"
)

func (t EventType) IsValid() bool {
	return t == EventTypeIn || t == EventTypeOut
}

// Event is a single clock-in or clock-out punch as stored by the event store.
// A zero Timestamp means the stored value was missing or unreadable.
type Event struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	Type         EventType
	Timestamp    time.Time
	AutoClockOut bool
	Edited       bool
	ManagerNote  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DailyRecord pairs one calendar day's punches for an employee.
// Derived on every pass, never persisted.
type DailyRecord struct {
	EmployeeID    string
	EmployeeName  string
	Date          time.Time // local midnight
	ClockIn       *time.Time
	ClockOut      *time.Time
	Duration      time.Duration
	Hours         float64
	HasWarning    bool
	Edited        bool
	Note          *string
	SourceEventID string // id of the "out" event, target of corrections
	Anomalies     []Anomaly
}

// IsOpen reports whether the record is missing one of its ends.
func (r DailyRecord) IsOpen() bool {
	return r.ClockIn == nil || r.ClockOut == nil
}

// DateKey returns the record date as YYYY-MM-DD.
func (r DailyRecord) DateKey() string {
	return r.Date.Format(DateLayout)
}

type AnomalyKind string

const (
	AnomalyInvalidTimestamp   AnomalyKind = "invalid_timestamp"
	AnomalyUnknownEventType   AnomalyKind = "unknown_event_type"
	AnomalyDoubleClockIn      AnomalyKind = "double_clock_in"
	AnomalyUnmatchedClockOut  AnomalyKind = "unmatched_clock_out"
	AnomalyCrossMidnightShift AnomalyKind = "cross_midnight_shift"
	AnomalyMultipleShifts     AnomalyKind = "multiple_shifts"
	AnomalyNegativeDuration   AnomalyKind = "negative_duration"
	AnomalyAutoClockOut       AnomalyKind = "auto_clock_out"
)

// Anomaly is a data-integrity warning. It never stops aggregation.
type Anomaly struct {
	Kind       AnomalyKind
	EmployeeID string
	EventID    string
	Date       *time.Time
	Message    string
}

// Timeline is the full pairing result for one employee.
type Timeline struct {
	EmployeeID   string
	EmployeeName string
	Records      []DailyRecord // ascending by date
	Anomalies    []Anomaly     // every anomaly, including ones attached to records
	OpenShift    *Event        // last "in" when the replay ends clocked in
}

// Record returns the record for the given local date, if any.
func (t Timeline) Record(date time.Time) (DailyRecord, bool) {
	key := date.Format(DateLayout)
	for _, rec := range t.Records {
		if rec.DateKey() == key {
			return rec, true
		}
	}
	return DailyRecord{}, false
}

// WeekWindow is a Sunday-Saturday view window, both bounds inclusive.
type WeekWindow struct {
	Label  string
	Offset int
	Start  time.Time
	End    time.Time
}

func (w WeekWindow) Bounds() (time.Time, time.Time) {
	return w.Start, w.End
}

func (w WeekWindow) Name() string {
	return w.Label
}

// PayPeriod is a 14-day payroll block aligned to the anchor Sunday.
type PayPeriod struct {
	Label string
	Start time.Time
	End   time.Time
}

func (p PayPeriod) Bounds() (time.Time, time.Time) {
	return p.Start, p.End
}

func (p PayPeriod) Name() string {
	return p.Label
}

// Window is any inclusive reporting range.
type Window interface {
	Bounds() (start time.Time, end time.Time)
	Name() string
}

// CustomWindow is a caller-supplied range such as "today" or a calendar month.
type CustomWindow struct {
	Label string
	Start time.Time
	End   time.Time
}

func (c CustomWindow) Bounds() (time.Time, time.Time) {
	return c.Start, c.End
}

func (c CustomWindow) Name() string {
	return c.Label
}

// WeeklyStats holds the regular/overtime split of a window total.
type WeeklyStats struct {
	Regular       time.Duration
	Overtime      time.Duration
	Total         time.Duration
	RegularHours  float64
	OvertimeHours float64
	TotalHours    float64
}

// DaySummary is a record positioned inside a window.
type DaySummary struct {
	Record       DailyRecord
	RunningTotal time.Duration
	RunningHours float64
	IsOvertime   bool
}

// WindowSummary is the rollup of one employee's records over one window.
type WindowSummary struct {
	Window Window
	Days   []DaySummary
	Stats  WeeklyStats
}

// Correction is the write-back for a single amended "out" event.
type Correction struct {
	EventID      string
	EmployeeID   string
	ActorID      string
	Timestamp    time.Time
	ManagerNote  string
	Edited       bool
	AutoClockOut bool

	PreviousTimestamp    *time.Time
	PreviousAutoClockOut bool
}

// CorrectionAudit is one persisted row of the correction trail.
type CorrectionAudit struct {
	ID                   string
	EventID              string
	EmployeeID           string
	ActorID              string
	PreviousTimestamp    *time.Time
	NewTimestamp         time.Time
	PreviousAutoClockOut bool
	Note                 string
	CreatedAt            time.Time
}

// ExportRow is the flat projection used by CSV/XLSX exports.
type ExportRow struct {
	EmployeeName string
	Date         string
	Weekday      string
	ClockIn      string
	ClockOut     string
	Duration     string
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ParseAnchor reads a YYYY-MM-DD pay period anchor as local midnight in loc.
// The anchor must be a Sunday.
func ParseAnchor(value string, loc *time.Location) (time.Time, error) {
	anchor, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pay period anchor %q: %w", value, err)
	}
	if anchor.Weekday() != time.Sunday {
		return time.Time{}, fmt.Errorf("%w: %s is a %s", ErrInvalidAnchor, value, anchor.Weekday())
	}
	return anchor, nil
}

// Apply returns ev with the correction written over it. Only the timestamp,
// flags and note change; identity and ownership stay as they were.
func (c Correction) Apply(ev Event) Event {
	note := c.ManagerNote
	ev.Timestamp = c.Timestamp
	ev.Edited = c.Edited
	ev.AutoClockOut = c.AutoClockOut
	ev.ManagerNote = &note
	return ev
}
