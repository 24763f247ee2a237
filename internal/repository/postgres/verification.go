package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"community-portal/internal/models"
	"community-portal/internal/repository"
)

// VerificationRepo implements repository.VerificationRepository against PostgreSQL.
type VerificationRepo struct {
	pool *pgxpool.Pool
}

// NewVerificationRepo creates a Postgres-backed verification repository.
func NewVerificationRepo(pool *pgxpool.Pool) *VerificationRepo {
	return &VerificationRepo{pool: pool}
}

func (r *VerificationRepo) Create(ctx context.Context, v *models.AuthVerification) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO auth_verifications (id, user_id, email, code, expires_at, used, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		v.ID, v.UserID, v.Email, v.Code, v.ExpiresAt, v.Used, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("create verification: %w", err)
	}
	return nil
}

func (r *VerificationRepo) Latest(ctx context.Context, userID uuid.UUID) (*models.AuthVerification, error) {
	var v models.AuthVerification
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, email, code, expires_at, used, created_at
		 FROM auth_verifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID).Scan(&v.ID, &v.UserID, &v.Email, &v.Code, &v.ExpiresAt, &v.Used, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest verification: %w", err)
	}
	return &v, nil
}

func (r *VerificationRepo) MarkUsed(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE auth_verifications SET used = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark verification used: %w", err)
	}
	return nil
}
