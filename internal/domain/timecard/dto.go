package timecard

import (
	"strings"
	"time"

	"github.com/shifttrack/timecard-backend-go/internal/pkg/validator"
)

// ========================================
// PUNCH DTOs
// ========================================

type PunchRequest struct {
	EmployeeID   string `json:"employee_id" validate:"required"`
	EmployeeName string `json:"employee_name" validate:"required,max=200"`
	Type         string `json:"type" validate:"required,oneof=in out"`
}

func (r *PunchRequest) Validate() error {
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.EmployeeName = strings.TrimSpace(r.EmployeeName)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	return validator.Struct(r)
}

type EventResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Type         string  `json:"type"`
	Timestamp    string  `json:"timestamp"`
	AutoClockOut bool    `json:"auto_clock_out"`
	Edited       bool    `json:"edited"`
	ManagerNote  *string `json:"manager_note,omitempty"`
}

type StatusResponse struct {
	EmployeeID  string         `json:"employee_id"`
	Status      string         `json:"status"` // in, out, none
	LastEvent   *EventResponse `json:"last_event,omitempty"`
	CanClockIn  bool           `json:"can_clock_in"`
	CanClockOut bool           `json:"can_clock_out"`
}

// ========================================
// TIMECARD DTOs
// ========================================

const (
	PeriodWeek      = "week"
	PeriodPayPeriod = "pay_period"

	SortAsc  = "asc"
	SortDesc = "desc"
)

type TimecardRequest struct {
	EmployeeID string    `json:"employee_id" validate:"required"`
	Period     string    `json:"period" validate:"omitempty,oneof=week pay_period"`
	WeekOffset int       `json:"week_offset" validate:"gte=0"`
	Date       string    `json:"date" validate:"omitempty,datetime=2006-01-02"` // overrides WeekOffset
	SortOrder  string    `json:"sort_order" validate:"omitempty,oneof=asc desc"`
	Reference  time.Time `json:"-"`
}

func (r *TimecardRequest) Validate() error {
	r.SortOrder = strings.ToLower(strings.TrimSpace(r.SortOrder))
	if err := validator.Struct(r); err != nil {
		return err
	}

	if r.Period == "" {
		r.Period = PeriodWeek
	}
	if r.SortOrder == "" {
		r.SortOrder = SortDesc // newest first, as the dashboard shows it
	}
	return nil
}

type WindowResponse struct {
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type StatsResponse struct {
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	TotalHours    float64 `json:"total_hours"`
}

type AnomalyResponse struct {
	Kind    string  `json:"kind"`
	EventID string  `json:"event_id,omitempty"`
	Date    *string `json:"date,omitempty"`
	Message string  `json:"message"`
}

type DayResponse struct {
	Date          string            `json:"date"`
	Weekday       string            `json:"weekday"`
	ClockIn       *string           `json:"clock_in,omitempty"`
	ClockOut      *string           `json:"clock_out,omitempty"`
	Hours         float64           `json:"hours"`
	RunningTotal  float64           `json:"running_total"`
	Label         string            `json:"label"` // REG or OT
	Open          bool              `json:"open"`
	HasWarning    bool              `json:"has_warning"`
	Edited        bool              `json:"edited"`
	Note          *string           `json:"note,omitempty"`
	SourceEventID string            `json:"source_event_id,omitempty"`
	Anomalies     []AnomalyResponse `json:"anomalies,omitempty"`
}

type TimecardResponse struct {
	EmployeeID   string            `json:"employee_id"`
	EmployeeName string            `json:"employee_name"`
	Window       WindowResponse    `json:"window"`
	PayPeriod    *WindowResponse   `json:"pay_period,omitempty"`
	Days         []DayResponse     `json:"days"`
	Stats        StatsResponse     `json:"stats"`
	Anomalies    []AnomalyResponse `json:"anomalies"`
	OpenShift    *EventResponse    `json:"open_shift,omitempty"`
}

type WindowsRequest struct {
	Count     int       `json:"count" validate:"gte=0,lte=104"`
	Reference time.Time `json:"-"`
}

func (r *WindowsRequest) Validate() error {
	return validator.Struct(r)
}

// ========================================
// CORRECTION DTOs
// ========================================

// AmendRequest is a manager correction of one day's clock-out.
type AmendRequest struct {
	EmployeeID   string `json:"-" validate:"required"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	ClockOutTime string `json:"clock_out_time" validate:"required,datetime=15:04"`
	Note         string `json:"note" validate:"max=500"`
	ActorID      string `json:"-"`
}

func (r *AmendRequest) Validate() error {
	r.Note = strings.TrimSpace(r.Note)
	return validator.Struct(r)
}

type CorrectionResponse struct {
	ID                   string  `json:"id"`
	EventID              string  `json:"event_id"`
	EmployeeID           string  `json:"employee_id"`
	ActorID              string  `json:"actor_id"`
	PreviousTimestamp    *string `json:"previous_timestamp,omitempty"`
	NewTimestamp         string  `json:"new_timestamp"`
	PreviousAutoClockOut bool    `json:"previous_auto_clock_out"`
	Note                 string  `json:"note"`
	CreatedAt            string  `json:"created_at"`
}

// ========================================
// TEAM SUMMARY / EXPORT DTOs
// ========================================

const (
	RangeToday     = "today"
	RangeWeek      = "week"
	RangePayPeriod = "pay_period"
	RangeMonth     = "month"
)

type TeamSummaryRequest struct {
	Range     string    `json:"range" validate:"omitempty,oneof=today week pay_period month"`
	Reference time.Time `json:"-"`
}

func (r *TeamSummaryRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.Range == "" {
		r.Range = RangeWeek
	}
	return nil
}

type EmployeeTotal struct {
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	TotalHours    float64 `json:"total_hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	Formatted     string  `json:"formatted"` // e.g. 38h 15m
	WarningDays   int     `json:"warning_days"`
	OpenDays      int     `json:"open_days"`
}

type TeamSummaryResponse struct {
	Window    WindowResponse  `json:"window"`
	Employees []EmployeeTotal `json:"employees"`
}

const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

type ExportRequest struct {
	StartDate  string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Format     string  `json:"format" validate:"omitempty,oneof=csv xlsx"`
}

func (r *ExportRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	if end.Before(start) {
		return validator.ValidationErrors{{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		}}
	}

	if r.Format == "" {
		r.Format = ExportFormatCSV
	}
	return nil
}
