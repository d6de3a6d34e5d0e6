package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
	"github.com/shifttrack/timecard-backend-go/internal/pkg/database"
)

const eventColumns = `id, employee_id, employee_name, event_type, occurred_at,
	auto_clock_out, edited, manager_note, created_at, updated_at`

type eventRepositoryImpl struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) timecard.EventRepository {
	return &eventRepositoryImpl{db: db}
}

// Create implements timecard.EventRepository.
func (r *eventRepositoryImpl) Create(ctx context.Context, event timecard.Event) (timecard.Event, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO timecard_events (
			id, employee_id, employee_name, event_type, occurred_at,
			auto_clock_out, edited, manager_note, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + eventColumns

	created, err := scanEvent(q.QueryRow(ctx, query,
		event.ID, event.EmployeeID, event.EmployeeName, string(event.Type), nullTime(event.Timestamp),
		event.AutoClockOut, event.Edited, event.ManagerNote,
	))
	if err != nil {
		return timecard.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return created, nil
}

// GetByID implements timecard.EventRepository.
func (r *eventRepositoryImpl) GetByID(ctx context.Context, id string) (timecard.Event, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + eventColumns + ` FROM timecard_events WHERE id = $1`

	ev, err := scanEvent(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timecard.Event{}, timecard.ErrEventNotFound
		}
		return timecard.Event{}, err
	}
	return ev, nil
}

// ListByEmployee implements timecard.EventRepository.
func (r *eventRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]timecard.Event, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + eventColumns + `
		FROM timecard_events
		WHERE employee_id = $1
		ORDER BY created_at
	`
	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

// ListByRange implements timecard.EventRepository.
func (r *eventRepositoryImpl) ListByRange(ctx context.Context, from, to time.Time) ([]timecard.Event, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + eventColumns + `
		FROM timecard_events
		WHERE occurred_at >= $1 AND occurred_at <= $2
		ORDER BY created_at
	`
	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

// Latest implements timecard.EventRepository.
func (r *eventRepositoryImpl) Latest(ctx context.Context, employeeID string) (*timecard.Event, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + eventColumns + `
		FROM timecard_events
		WHERE employee_id = $1
		  AND occurred_at IS NOT NULL
		  AND event_type IN ('in', 'out')
		ORDER BY occurred_at DESC, created_at DESC
		LIMIT 1
	`
	ev, err := scanEvent(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ev, nil
}

// ListStaleClockIns implements timecard.EventRepository.
func (r *eventRepositoryImpl) ListStaleClockIns(ctx context.Context, before time.Time) ([]timecard.Event, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + eventColumns + `
		FROM (
			SELECT DISTINCT ON (employee_id) ` + eventColumns + `
			FROM timecard_events
			WHERE occurred_at IS NOT NULL
			  AND event_type IN ('in', 'out')
			ORDER BY employee_id, occurred_at DESC, created_at DESC
		) latest
		WHERE event_type = 'in' AND occurred_at < $1
		ORDER BY occurred_at
	`
	rows, err := q.Query(ctx, query, before)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

// ApplyCorrection implements timecard.EventRepository.
func (r *eventRepositoryImpl) ApplyCorrection(ctx context.Context, correction timecard.Correction) (timecard.Event, error) {
	var updated timecard.Event

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := ContextWithTx(ctx, tx)
		q := GetQuerier(txCtx, r.db)

		current, err := scanEvent(q.QueryRow(txCtx,
			`SELECT `+eventColumns+` FROM timecard_events WHERE id = $1 FOR UPDATE`, correction.EventID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return timecard.ErrEventNotFound
			}
			return fmt.Errorf("lock event: %w", err)
		}

		next := correction.Apply(current)
		updated, err = scanEvent(q.QueryRow(txCtx, `
			UPDATE timecard_events
			SET occurred_at = $2, edited = $3, auto_clock_out = $4, manager_note = $5, updated_at = NOW()
			WHERE id = $1
			RETURNING `+eventColumns,
			next.ID, next.Timestamp, next.Edited, next.AutoClockOut, next.ManagerNote,
		))
		if err != nil {
			return fmt.Errorf("update event: %w", err)
		}

		_, err = q.Exec(txCtx, `
			INSERT INTO timecard_corrections (
				event_id, employee_id, actor_id, previous_timestamp, new_timestamp,
				previous_auto_clock_out, note, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`,
			correction.EventID, current.EmployeeID, correction.ActorID, nullTime(current.Timestamp),
			correction.Timestamp, current.AutoClockOut, correction.ManagerNote,
		)
		if err != nil {
			return fmt.Errorf("insert correction audit: %w", err)
		}
		return nil
	})
	if err != nil {
		return timecard.Event{}, err
	}

	return updated, nil
}

// ListCorrections implements timecard.EventRepository.
func (r *eventRepositoryImpl) ListCorrections(ctx context.Context, employeeID string) ([]timecard.CorrectionAudit, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, event_id, employee_id, actor_id, previous_timestamp, new_timestamp,
			   previous_auto_clock_out, note, created_at
		FROM timecard_corrections
		WHERE employee_id = $1
		ORDER BY created_at DESC
	`
	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []timecard.CorrectionAudit
	for rows.Next() {
		var a timecard.CorrectionAudit
		if err := rows.Scan(
			&a.ID, &a.EventID, &a.EmployeeID, &a.ActorID, &a.PreviousTimestamp, &a.NewTimestamp,
			&a.PreviousAutoClockOut, &a.Note, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		audits = append(audits, a)
	}
	return audits, rows.Err()
}

func scanEvent(row pgx.Row) (timecard.Event, error) {
	var (
		ev         timecard.Event
		eventType  string
		occurredAt *time.Time
	)
	err := row.Scan(
		&ev.ID, &ev.EmployeeID, &ev.EmployeeName, &eventType, &occurredAt,
		&ev.AutoClockOut, &ev.Edited, &ev.ManagerNote, &ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return timecard.Event{}, err
	}

	ev.Type = timecard.EventType(eventType)
	if occurredAt != nil {
		ev.Timestamp = *occurredAt
	}
	return ev, nil
}

func collectEvents(rows pgx.Rows) ([]timecard.Event, error) {
	defer rows.Close()

	var events []timecard.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// nullTime stores the zero time as NULL.
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
