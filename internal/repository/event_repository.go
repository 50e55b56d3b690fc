package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campustix/campustix/internal/domain"
)

type EventRepository interface {
	Create(ctx context.Context, organizerID int64, req *domain.EventRequest) (*domain.Event, error)
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	ListActive(ctx context.Context, limit, offset int) ([]domain.Event, error)
	ListByOrganizer(ctx context.Context, organizerID int64) ([]domain.Event, error)
	Update(ctx context.Context, id int64, patch domain.EventPatch) (*domain.Event, error)
	Archive(ctx context.Context, id int64) (bool, error)
	DashboardSummary(ctx context.Context, organizerID int64) ([]domain.EventSummary, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventCols = `id, title, description, date, venue, price, registration_deadline, status, organizer_id, created_at, updated_at`

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Venue, &e.Price,
		&e.Deadline, &e.Status, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepository) Create(ctx context.Context, organizerID int64, req *domain.EventRequest) (*domain.Event, error) {
	const q = `
		INSERT INTO events (title, description, date, venue, price, registration_deadline, status, organizer_id)
		VALUES ($1, $2, $3, $4, $5, $6, 'active', $7)
		RETURNING ` + eventCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanEvent(r.pool.QueryRow(ctx, q,
		req.Title, req.Description, req.Date, req.Venue, req.Price, req.Deadline, organizerID,
	))
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanEvent(r.pool.QueryRow(ctx, q, id))
}

func (r *eventRepository) ListActive(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + eventCols + ` FROM events WHERE status = 'active' ORDER BY date ASC LIMIT $1 OFFSET $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *eventRepository) ListByOrganizer(ctx context.Context, organizerID int64) ([]domain.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events WHERE organizer_id = $1 ORDER BY created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.Date, &e.Venue, &e.Price,
			&e.Deadline, &e.Status, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id int64, patch domain.EventPatch) (*domain.Event, error) {
	const q = `
		UPDATE events
		SET
			title                 = COALESCE($2, title),
			description           = COALESCE($3, description),
			date                  = COALESCE($4, date),
			venue                 = COALESCE($5, venue),
			price                 = COALESCE($6, price),
			registration_deadline = COALESCE($7, registration_deadline),
			updated_at            = now()
		WHERE id = $1
		RETURNING ` + eventCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanEvent(r.pool.QueryRow(ctx, q,
		id, patch.Title, patch.Description, patch.Date, patch.Venue, patch.Price, patch.Deadline,
	))
}

func (r *eventRepository) Archive(ctx context.Context, id int64) (bool, error) {
	const q = `UPDATE events SET status = 'archived', updated_at = now() WHERE id = $1 AND status != 'archived'`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *eventRepository) DashboardSummary(ctx context.Context, organizerID int64) ([]domain.EventSummary, error) {
	const q = `
		SELECT
			e.id, e.title, e.date, e.venue,
			count(r.id)                                            AS registrations,
			count(r.id) FILTER (WHERE r.status = 'paid')           AS paid_users,
			count(r.id) FILTER (WHERE r.status = 'checked_in')     AS checked_in,
			COALESCE(sum(p.amount) FILTER (WHERE p.status = 'paid'), 0) AS revenue
		FROM events e
		LEFT JOIN registrations r ON r.event_id = e.id
		LEFT JOIN payments p ON p.id = r.payment_id
		WHERE e.organizer_id = $1
		GROUP BY e.id
		ORDER BY e.date ASC`

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.EventSummary
	for rows.Next() {
		var s domain.EventSummary
		if err := rows.Scan(
			&s.EventID, &s.Title, &s.Date, &s.Venue,
			&s.Registrations, &s.PaidUsers, &s.CheckedIn, &s.Revenue,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
