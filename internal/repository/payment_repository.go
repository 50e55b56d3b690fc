package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campustix/campustix/internal/domain"
)

type PaymentRepository interface {
	Create(ctx context.Context, userID, eventID, organizerID, amount int64, gatewayOrderID string) (*domain.Payment, error)
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	// MarkPaid flips created -> paid as a single conditional update. It
	// returns false when no row transitioned, which the caller resolves by
	// re-reading the payment: an already-paid row means a duplicate
	// confirmation, anything else is a conflict.
	MarkPaid(ctx context.Context, id int64, gatewayPaymentID string) (bool, error)
	MarkFailed(ctx context.Context, id int64) (bool, error)
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

const paymentCols = `id, user_id, event_id, organizer_id, amount, gateway_order_id, gateway_payment_id, status, created_at, updated_at`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID, &p.UserID, &p.EventID, &p.OrganizerID, &p.Amount,
		&p.GatewayOrderID, &p.GatewayPaymentID, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, userID, eventID, organizerID, amount int64, gatewayOrderID string) (*domain.Payment, error) {
	const q = `
		INSERT INTO payments (user_id, event_id, organizer_id, amount, gateway_order_id, status)
		VALUES ($1, $2, $3, $4, $5, 'created')
		RETURNING ` + paymentCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanPayment(r.pool.QueryRow(ctx, q, userID, eventID, organizerID, amount, gatewayOrderID))
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanPayment(r.pool.QueryRow(ctx, q, id))
}

func (r *paymentRepository) MarkPaid(ctx context.Context, id int64, gatewayPaymentID string) (bool, error) {
	const q = `
		UPDATE payments
		SET status = 'paid', gateway_payment_id = $2, updated_at = now()
		WHERE id = $1 AND status = 'created'`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, gatewayPaymentID)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *paymentRepository) MarkFailed(ctx context.Context, id int64) (bool, error) {
	const q = `UPDATE payments SET status = 'failed', updated_at = now() WHERE id = $1 AND status = 'created'`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
