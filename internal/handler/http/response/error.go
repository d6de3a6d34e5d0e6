package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
	"github.com/shifttrack/timecard-backend-go/internal/pkg/jwt"
	"github.com/shifttrack/timecard-backend-go/internal/pkg/validator"
)

// retryAfterSeconds is advertised when the event store is unavailable.
const retryAfterSeconds = "5"

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, jwt.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, jwt.ErrEmployeeMismatch):
		Forbidden(w, "You can only access your own timecard")

	// Timecard domain errors
	case errors.Is(err, timecard.ErrRecordNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, timecard.ErrEventNotFound):
		NotFound(w, "Timecard event not found")
	case errors.Is(err, timecard.ErrRecordNotAmendable):
		UnprocessableEntity(w, "RECORD_NOT_AMENDABLE", err.Error())
	case errors.Is(err, timecard.ErrAlreadyClockedIn):
		Conflict(w, "Employee is already clocked in")
	case errors.Is(err, timecard.ErrNotClockedIn):
		Conflict(w, "Employee is not clocked in")

	// Collaborator errors
	case errors.Is(err, timecard.ErrStoreUnavailable):
		slog.Error("Event store unavailable", "error", err)
		w.Header().Set("Retry-After", retryAfterSeconds)
		ServiceUnavailable(w, "Timecard data is temporarily unavailable, please retry")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
