package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"community-portal/internal/models"
)

// NewsletterRepo implements repository.NewsletterRepository against PostgreSQL.
type NewsletterRepo struct {
	pool *pgxpool.Pool
}

// NewNewsletterRepo creates a Postgres-backed newsletter repository.
func NewNewsletterRepo(pool *pgxpool.Pool) *NewsletterRepo {
	return &NewsletterRepo{pool: pool}
}

func (r *NewsletterRepo) Subscribe(ctx context.Context, email string) (*models.NewsletterSubscription, error) {
	sub := &models.NewsletterSubscription{
		ID:           uuid.New(),
		Email:        email,
		IsActive:     true,
		SubscribedAt: time.Now(),
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO newsletter_subscriptions (id, email, is_active, subscribed_at)
		 VALUES ($1, $2, $3, $4)`,
		sub.ID, sub.Email, sub.IsActive, sub.SubscribedAt)
	if err != nil {
		return nil, asDuplicate(err)
	}
	return sub, nil
}

func (r *NewsletterRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM newsletter_subscriptions WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("subscription exists: %w", err)
	}
	return exists, nil
}

func (r *NewsletterRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM newsletter_subscriptions WHERE is_active`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count subscriptions: %w", err)
	}
	return n, nil
}
