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

// ProfileRepo implements repository.ProfileRepository against PostgreSQL.
type ProfileRepo struct {
	pool *pgxpool.Pool
}

// NewProfileRepo creates a Postgres-backed profile repository.
func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

const profileColumns = `id, user_id, bio, avatar_url, birth_date, phone, website, location, created_at, updated_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.Bio, &p.AvatarURL, &p.BirthDate,
		&p.Phone, &p.Website, &p.Location, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	now := time.Now()
	p = &models.Profile{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO profiles (id, user_id, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		p.ID, p.UserID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		// Concurrent first access can race the insert; reread on duplicate.
		if dup, ok := repository.IsDuplicate(asDuplicate(err)); ok && dup.Field == "user_id" {
			return scanProfile(r.pool.QueryRow(ctx,
				`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepo) Update(ctx context.Context, p *models.Profile) error {
	p.UpdatedAt = time.Now()
	tag, err := r.pool.Exec(ctx,
		`UPDATE profiles
		 SET bio = $1, avatar_url = $2, birth_date = $3, phone = $4, website = $5, location = $6, updated_at = $7
		 WHERE user_id = $8`,
		p.Bio, p.AvatarURL, p.BirthDate, p.Phone, p.Website, p.Location, p.UpdatedAt, p.UserID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
