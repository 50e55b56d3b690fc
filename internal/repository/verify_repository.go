package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// VerifyRepository stores one-time email verification codes: bound to an
// email, expiring after a fixed interval, single-use on consumption.
type VerifyRepository interface {
	CreateCode(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	// ConsumeCode marks the newest live code for email as used and reports
	// whether the supplied code matched it. Consumption is a conditional
	// update, so a code verifies at most once.
	ConsumeCode(ctx context.Context, email, code string) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type verifyRepository struct {
	pool *pgxpool.Pool
}

func NewVerifyRepository(pool *pgxpool.Pool) VerifyRepository {
	return &verifyRepository{pool: pool}
}

func (r *verifyRepository) CreateCode(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	const q = `
		INSERT INTO email_verification_codes (email, code_hash, expires_at)
		VALUES ($1, $2, $3)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, email, codeHash, expiresAt)
	return err
}

func (r *verifyRepository) ConsumeCode(ctx context.Context, email, code string) (bool, error) {
	const selectQ = `
		SELECT id, code_hash FROM email_verification_codes
		WHERE email = $1 AND used_at IS NULL AND expires_at > now()
		ORDER BY created_at DESC
		LIMIT 1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var id int64
	var codeHash string
	err := r.pool.QueryRow(ctx, selectQ, email).Scan(&id, &codeHash)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if bcrypt.CompareHashAndPassword([]byte(codeHash), []byte(code)) != nil {
		return false, nil
	}

	const consumeQ = `
		UPDATE email_verification_codes
		SET used_at = now()
		WHERE id = $1 AND used_at IS NULL AND expires_at > now()`

	result, err := r.pool.Exec(ctx, consumeQ, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *verifyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const q = `
		DELETE FROM email_verification_codes
		WHERE (used_at IS NOT NULL AND used_at < now() - interval '30 days')
		   OR (used_at IS NULL AND expires_at < now() - interval '7 days')`

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
