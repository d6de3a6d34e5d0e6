package timecard

import (
	"context"
	"time"
)

// EventRepository is the persistent event store. The engine reads snapshots
// from it and writes back single corrected events.
type EventRepository interface {
	// Create appends a new punch
	Create(ctx context.Context, event Event) (Event, error)

	// GetByID retrieves one event
	GetByID(ctx context.Context, id string) (Event, error)

	// ListByEmployee returns every event of one employee, in no guaranteed order
	ListByEmployee(ctx context.Context, employeeID string) ([]Event, error)

	// ListByRange returns events of all employees with from <= timestamp <= to
	ListByRange(ctx context.Context, from, to time.Time) ([]Event, error)

	// Latest returns the most recent event of an employee, nil when there is none
	Latest(ctx context.Context, employeeID string) (*Event, error)

	// ListStaleClockIns returns, per employee, the latest event when it is an
	// "in" older than before
	ListStaleClockIns(ctx context.Context, before time.Time) ([]Event, error)

	// ApplyCorrection rewrites the target event in place and records the audit row
	ApplyCorrection(ctx context.Context, correction Correction) (Event, error)

	// ListCorrections returns the correction trail of an employee, newest first
	ListCorrections(ctx context.Context, employeeID string) ([]CorrectionAudit, error)
}
