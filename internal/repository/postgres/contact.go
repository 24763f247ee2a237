package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"community-portal/internal/models"
	"community-portal/internal/repository"
)

// ContactRepo implements repository.ContactRepository against PostgreSQL.
type ContactRepo struct {
	pool *pgxpool.Pool
}

// NewContactRepo creates a Postgres-backed contact repository.
func NewContactRepo(pool *pgxpool.Pool) *ContactRepo {
	return &ContactRepo{pool: pool}
}

const contactColumns = `id, name, email, subject, category, message, is_resolved, resolved_by, resolved_at, created_at`

func scanContact(row pgx.Row) (*models.ContactInquiry, error) {
	var c models.ContactInquiry
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Category, &c.Message,
		&c.IsResolved, &c.ResolvedBy, &c.ResolvedAt, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan contact: %w", err)
	}
	return &c, nil
}

func (r *ContactRepo) Create(ctx context.Context, c *models.ContactInquiry) error {
	c.CreatedAt = time.Now()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO contacts (name, email, subject, category, message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		c.Name, c.Email, c.Subject, c.Category, c.Message, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

func (r *ContactRepo) Get(ctx context.Context, id int64) (*models.ContactInquiry, error) {
	return scanContact(r.pool.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
}

func (r *ContactRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM contacts WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("contact email exists: %w", err)
	}
	return exists, nil
}

func (r *ContactRepo) List(ctx context.Context, f repository.ContactFilter) ([]models.ContactInquiry, int, error) {
	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	page := f.Page
	if page < 1 {
		page = 1
	}

	where := ` WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if f.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR subject ILIKE $%d)", idx, idx, idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}
	switch f.Status {
	case "resolved":
		where += " AND is_resolved = true"
	case "pending":
		where += " AND is_resolved = false"
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	q := `SELECT ` + contactColumns + ` FROM contacts` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var out []models.ContactInquiry
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func (r *ContactRepo) Recent(ctx context.Context, limit int) ([]models.ContactInquiry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent contacts: %w", err)
	}
	defer rows.Close()

	var out []models.ContactInquiry
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *ContactRepo) SetResolved(ctx context.Context, id int64, resolvedBy uuid.UUID, resolved bool) error {
	var tag pgconn.CommandTag
	var err error
	if resolved {
		tag, err = r.pool.Exec(ctx,
			`UPDATE contacts SET is_resolved = true, resolved_by = $1, resolved_at = $2 WHERE id = $3`,
			resolvedBy, time.Now(), id)
	} else {
		tag, err = r.pool.Exec(ctx,
			`UPDATE contacts SET is_resolved = false, resolved_by = NULL, resolved_at = NULL WHERE id = $1`,
			id)
	}
	if err != nil {
		return fmt.Errorf("set resolved: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ContactRepo) Counts(ctx context.Context) (int, int, error) {
	var total, resolved int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_resolved) FROM contacts`).Scan(&total, &resolved)
	if err != nil {
		return 0, 0, fmt.Errorf("count contacts: %w", err)
	}
	return total, resolved, nil
}
