package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campustix/campustix/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, req *domain.SignupRequest, passwordHash string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByRollNo(ctx context.Context, rollNo string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	MarkVerified(ctx context.Context, userID int64) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userCols = `id, role, name, email, roll_no, phone, password_hash, is_verified, club_name, approval_status, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Role, &u.Name, &u.Email, &u.RollNo, &u.Phone,
		&u.PasswordHash, &u.IsVerified, &u.ClubName, &u.ApprovalStatus,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, req *domain.SignupRequest, passwordHash string) (*domain.User, error) {
	const q = `
		INSERT INTO users (role, name, email, roll_no, phone, password_hash, is_verified, club_name, approval_status)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7, $8)
		RETURNING ` + userCols

	approval := ""
	if req.Role == domain.RoleOrganizer {
		approval = domain.ApprovalPending
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanUser(r.pool.QueryRow(ctx, q,
		req.Role, req.Name, req.Email, req.RollNo, req.Phone, passwordHash, req.ClubName, approval,
	))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE email = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanUser(r.pool.QueryRow(ctx, q, email))
}

func (r *userRepository) FindByRollNo(ctx context.Context, rollNo string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE roll_no = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanUser(r.pool.QueryRow(ctx, q, rollNo))
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *userRepository) MarkVerified(ctx context.Context, userID int64) error {
	const q = `UPDATE users SET is_verified = true, updated_at = now() WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
