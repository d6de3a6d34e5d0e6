package timecard

import (
	"context"
)

// TimecardService defines the timecard use cases exposed to handlers and jobs
type TimecardService interface {
	// Punch appends a clock-in or clock-out event for an employee
	Punch(ctx context.Context, req PunchRequest) (EventResponse, error)

	// GetStatus returns whether the employee is currently clocked in
	GetStatus(ctx context.Context, employeeID string) (StatusResponse, error)

	// GetTimecard aggregates one employee's events over the selected window
	GetTimecard(ctx context.Context, req TimecardRequest) (TimecardResponse, error)

	// ListWeekWindows returns selectable Sunday-Saturday windows, newest first
	ListWeekWindows(ctx context.Context, req WindowsRequest) ([]WindowResponse, error)

	// ListPayPeriods returns selectable 14-day pay periods, newest first
	ListPayPeriods(ctx context.Context, req WindowsRequest) ([]WindowResponse, error)

	// Amend corrects the clock-out of one daily record and returns the recomputed timecard
	Amend(ctx context.Context, req AmendRequest) (TimecardResponse, error)

	// ListCorrections returns the correction audit trail of an employee
	ListCorrections(ctx context.Context, employeeID string) ([]CorrectionResponse, error)

	// TeamSummary returns per-employee totals for a range (manager dashboard)
	TeamSummary(ctx context.Context, req TeamSummaryRequest) (TeamSummaryResponse, error)

	// Export returns the flat export projection for a date range
	Export(ctx context.Context, req ExportRequest) ([]ExportRow, error)

	// CloseStaleShifts appends forced clock-outs for shifts left open too long
	CloseStaleShifts(ctx context.Context) (int, error)
}
