package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eventbook/slot-reservation/internal/model"
)

// EventRepo manages persistence for events.  Events are created and
// maintained by external tooling; the reservation core only reads them
// to answer bookability and browse queries.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *EventRepo) DB() *sql.DB { return r.db }

const eventColumns = `id, title, description, status, visibility, weekdays, window_start, window_end, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	var desc, weekdays, winStart, winEnd sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &desc, &e.Status, &e.Visibility,
		&weekdays, &winStart, &winEnd, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		v := desc.String
		e.Description = &v
	}
	if weekdays.Valid {
		v := weekdays.String
		e.Weekdays = &v
	}
	if winStart.Valid {
		v := winStart.String
		e.WindowStart = &v
	}
	if winEnd.Valid {
		v := winEnd.String
		e.WindowEnd = &v
	}
	return &e, nil
}

// GetByID returns the event with the given ID or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	e, err := scanEvent(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return e, err
}

// GetTx is GetByID executed inside an existing transaction so that
// bookability checks observe the same snapshot as the slot they guard.
func (r *EventRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	e, err := scanEvent(tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return e, err
}

// ListPublic returns all active, publicly visible events ordered by
// creation time descending.  Unlisted events are reachable by direct
// link only and are deliberately excluded from the listing.
func (r *EventRepo) ListPublic(ctx context.Context) ([]model.Event, error) {
	const q = `SELECT ` + eventColumns + `
	           FROM events
	           WHERE status = ? AND visibility = ?
	           ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, model.EventStatusActive, model.VisibilityPublic)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
