package timecard

import "errors"

// Timecard domain errors
var (
	// Validation errors
	ErrRecordNotFound     = errors.New("no timecard record for that date")
	ErrRecordNotAmendable = errors.New("record has no clock-in or clock-out to correct")
	ErrEventNotFound      = errors.New("timecard event not found")
	ErrInvalidAnchor      = errors.New("pay period anchor must be a Sunday")

	// State errors
	ErrAlreadyClockedIn = errors.New("employee is already clocked in")
	ErrNotClockedIn     = errors.New("employee is not clocked in")

	// Collaborator errors
	ErrStoreUnavailable = errors.New("event store unavailable, retry the request")
)
