// Package memory is an in-process event store for local development and tests.
package memory

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
)

type eventRepositoryImpl struct {
	mu          sync.RWMutex
	events      []timecard.Event // insertion order
	corrections []timecard.CorrectionAudit
	now         func() time.Time
}

func NewEventRepository() timecard.EventRepository {
	return &eventRepositoryImpl{now: time.Now}
}

// Create implements timecard.EventRepository.
func (r *eventRepositoryImpl) Create(ctx context.Context, event timecard.Event) (timecard.Event, error) {
	if err := ctx.Err(); err != nil {
		return timecard.Event{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	if event.UpdatedAt.IsZero() {
		event.UpdatedAt = now
	}
	r.events = append(r.events, event)
	return event, nil
}

// GetByID implements timecard.EventRepository.
func (r *eventRepositoryImpl) GetByID(ctx context.Context, id string) (timecard.Event, error) {
	if err := ctx.Err(); err != nil {
		return timecard.Event{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ev := range r.events {
		if ev.ID == id {
			return ev, nil
		}
	}
	return timecard.Event{}, timecard.ErrEventNotFound
}

// ListByEmployee implements timecard.EventRepository.
func (r *eventRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]timecard.Event, error) {
	return r.filter(ctx, func(ev timecard.Event) bool {
		return ev.EmployeeID == employeeID
	})
}

// ListByRange implements timecard.EventRepository.
func (r *eventRepositoryImpl) ListByRange(ctx context.Context, from, to time.Time) ([]timecard.Event, error) {
	return r.filter(ctx, func(ev timecard.Event) bool {
		return !ev.Timestamp.IsZero() && !ev.Timestamp.Before(from) && !ev.Timestamp.After(to)
	})
}

// Latest implements timecard.EventRepository.
func (r *eventRepositoryImpl) Latest(ctx context.Context, employeeID string) (*timecard.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	latest, ok := latestOf(r.events, employeeID)
	if !ok {
		return nil, nil
	}
	return &latest, nil
}

// ListStaleClockIns implements timecard.EventRepository.
func (r *eventRepositoryImpl) ListStaleClockIns(ctx context.Context, before time.Time) ([]timecard.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var stale []timecard.Event
	for _, ev := range r.events {
		if seen[ev.EmployeeID] {
			continue
		}
		seen[ev.EmployeeID] = true

		latest, ok := latestOf(r.events, ev.EmployeeID)
		if ok && latest.Type == timecard.EventTypeIn && latest.Timestamp.Before(before) {
			stale = append(stale, latest)
		}
	}

	slices.SortStableFunc(stale, func(a, b timecard.Event) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return stale, nil
}

// ApplyCorrection implements timecard.EventRepository.
func (r *eventRepositoryImpl) ApplyCorrection(ctx context.Context, correction timecard.Correction) (timecard.Event, error) {
	if err := ctx.Err(); err != nil {
		return timecard.Event{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.events, func(ev timecard.Event) bool {
		return ev.ID == correction.EventID
	})
	if i < 0 {
		return timecard.Event{}, timecard.ErrEventNotFound
	}

	current := r.events[i]
	now := r.now()
	updated := correction.Apply(current)
	updated.UpdatedAt = now
	r.events[i] = updated

	var previous *time.Time
	if !current.Timestamp.IsZero() {
		prev := current.Timestamp
		previous = &prev
	}
	r.corrections = append(r.corrections, timecard.CorrectionAudit{
		ID:                   strconv.Itoa(len(r.corrections) + 1),
		EventID:              correction.EventID,
		EmployeeID:           current.EmployeeID,
		ActorID:              correction.ActorID,
		PreviousTimestamp:    previous,
		NewTimestamp:         correction.Timestamp,
		PreviousAutoClockOut: current.AutoClockOut,
		Note:                 correction.ManagerNote,
		CreatedAt:            now,
	})

	return updated, nil
}

// ListCorrections implements timecard.EventRepository.
func (r *eventRepositoryImpl) ListCorrections(ctx context.Context, employeeID string) ([]timecard.CorrectionAudit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var audits []timecard.CorrectionAudit
	for i := len(r.corrections) - 1; i >= 0; i-- {
		if r.corrections[i].EmployeeID == employeeID {
			audits = append(audits, r.corrections[i])
		}
	}
	return audits, nil
}

func (r *eventRepositoryImpl) filter(ctx context.Context, keep func(timecard.Event) bool) ([]timecard.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []timecard.Event
	for _, ev := range r.events {
		if keep(ev) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// latestOf returns the employee's most recent usable event. Among equal
// timestamps the later insert wins.
func latestOf(events []timecard.Event, employeeID string) (timecard.Event, bool) {
	var (
		latest timecard.Event
		found  bool
	)
	for _, ev := range events {
		if ev.EmployeeID != employeeID || ev.Timestamp.IsZero() || !ev.Type.IsValid() {
			continue
		}
		if !found || !ev.Timestamp.Before(latest.Timestamp) {
			latest = ev
			found = true
		}
	}
	return latest, found
}
