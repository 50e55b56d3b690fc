package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campustix/campustix/internal/domain"
)

type RegistrationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Registration, error)
	// HasPaid reports whether (user, event) already holds a paid or
	// checked-in registration.
	HasPaid(ctx context.Context, userID, eventID int64) (bool, error)
	StatusFor(ctx context.Context, userID, eventID int64) (domain.RegistrationStatus, bool, error)
	// UpsertPaid creates the registration in status paid, or promotes an
	// existing registered row. A row that is already paid or checked_in is
	// returned unchanged. Single statement; two concurrent confirmations for
	// the same (user, event) cannot create two rows.
	UpsertPaid(ctx context.Context, userID, eventID, paymentID int64) (*domain.Registration, error)
	SetTicketToken(ctx context.Context, id int64, token string) error
	// Redeem flips paid -> checked_in as a single conditional update and
	// stamps the check-in time. Exactly one of any number of concurrent
	// calls for the same row observes true.
	Redeem(ctx context.Context, id int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.RegistrationDetail, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.RegistrationDetail, error)
}

type registrationRepository struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &registrationRepository{pool: pool}
}

const registrationCols = `id, user_id, event_id, payment_id, status, qr_token, checked_in_at, created_at, updated_at`

func scanRegistration(row pgx.Row) (*domain.Registration, error) {
	var reg domain.Registration
	err := row.Scan(
		&reg.ID, &reg.UserID, &reg.EventID, &reg.PaymentID, &reg.Status,
		&reg.QRToken, &reg.CheckedInAt, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id int64) (*domain.Registration, error) {
	const q = `SELECT ` + registrationCols + ` FROM registrations WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanRegistration(r.pool.QueryRow(ctx, q, id))
}

func (r *registrationRepository) HasPaid(ctx context.Context, userID, eventID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE user_id = $1 AND event_id = $2 AND status IN ('paid', 'checked_in')
		)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx, q, userID, eventID).Scan(&exists)
	return exists, err
}

func (r *registrationRepository) StatusFor(ctx context.Context, userID, eventID int64) (domain.RegistrationStatus, bool, error) {
	const q = `SELECT status FROM registrations WHERE user_id = $1 AND event_id = $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var status domain.RegistrationStatus
	err := r.pool.QueryRow(ctx, q, userID, eventID).Scan(&status)
	if err == pgx.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return status, true, nil
}

func (r *registrationRepository) UpsertPaid(ctx context.Context, userID, eventID, paymentID int64) (*domain.Registration, error) {
	// The CASE arms keep paid and checked_in rows untouched so a duplicate
	// confirmation can never regress a registration or steal its payment
	// reference.
	const q = `
		INSERT INTO registrations (user_id, event_id, payment_id, status)
		VALUES ($1, $2, $3, 'paid')
		ON CONFLICT (user_id, event_id) DO UPDATE SET
			status = CASE
				WHEN registrations.status = 'registered' THEN 'paid'::registration_status
				ELSE registrations.status
			END,
			payment_id = CASE
				WHEN registrations.status = 'registered' THEN EXCLUDED.payment_id
				ELSE registrations.payment_id
			END,
			updated_at = now()
		RETURNING ` + registrationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanRegistration(r.pool.QueryRow(ctx, q, userID, eventID, paymentID))
}

func (r *registrationRepository) SetTicketToken(ctx context.Context, id int64, token string) error {
	const q = `UPDATE registrations SET qr_token = $2, updated_at = now() WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, token)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *registrationRepository) Redeem(ctx context.Context, id int64) (bool, error) {
	const q = `
		UPDATE registrations
		SET status = 'checked_in', checked_in_at = now(), updated_at = now()
		WHERE id = $1 AND status = 'paid'`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

const registrationDetailQuery = `
	SELECT
		r.id, r.user_id, r.event_id, r.payment_id, r.status, r.qr_token,
		r.checked_in_at, r.created_at, r.updated_at,
		u.name, u.email, u.phone, u.roll_no,
		e.title, e.venue, e.date
	FROM registrations r
	JOIN users u ON u.id = r.user_id
	JOIN events e ON e.id = r.event_id`

func (r *registrationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.RegistrationDetail, error) {
	const q = registrationDetailQuery + `
		WHERE r.user_id = $1 AND r.status IN ('paid', 'checked_in')
		ORDER BY r.created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRegistrationDetails(rows)
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID int64) ([]domain.RegistrationDetail, error) {
	const q = registrationDetailQuery + `
		WHERE r.event_id = $1
		ORDER BY r.created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRegistrationDetails(rows)
}

func collectRegistrationDetails(rows pgx.Rows) ([]domain.RegistrationDetail, error) {
	var details []domain.RegistrationDetail
	for rows.Next() {
		var d domain.RegistrationDetail
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.EventID, &d.PaymentID, &d.Status, &d.QRToken,
			&d.CheckedInAt, &d.CreatedAt, &d.UpdatedAt,
			&d.UserName, &d.UserEmail, &d.UserPhone, &d.UserRollNo,
			&d.EventTitle, &d.EventVenue, &d.EventDate,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
