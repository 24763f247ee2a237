// Package repository defines the persistence interfaces consumed by the HTTP
// handlers. Implementations live in subpackages (postgres); tests use
// in-memory fakes.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"community-portal/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// DuplicateError is returned when a write violates a uniqueness constraint.
// Validation endpoints check uniqueness ahead of time, but that check is
// advisory: the database constraint is the authoritative guard, and races
// between the two surface as this error.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

// IsDuplicate reports whether err is a uniqueness violation, and for which field.
func IsDuplicate(err error) (*DuplicateError, bool) {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup, true
	}
	return nil, false
}

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateNames(ctx context.Context, id uuid.UUID, firstName, lastName string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// ProfileRepository persists the one-to-one user profiles.
type ProfileRepository interface {
	// GetOrCreate returns the user's profile, creating an empty one if absent.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
}

// ContactFilter narrows and pages the staff contact listing.
type ContactFilter struct {
	Search  string // matches name, email or subject, case-insensitive
	Status  string // "", "resolved" or "pending"
	Page    int    // 1-based
	PerPage int
}

// ContactRepository persists contact inquiries.
type ContactRepository interface {
	Create(ctx context.Context, c *models.ContactInquiry) error
	Get(ctx context.Context, id int64) (*models.ContactInquiry, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, f ContactFilter) ([]models.ContactInquiry, int, error)
	Recent(ctx context.Context, limit int) ([]models.ContactInquiry, error)
	SetResolved(ctx context.Context, id int64, resolvedBy uuid.UUID, resolved bool) error
	Counts(ctx context.Context) (total int, resolved int, err error)
}

// NewsletterRepository persists mailing list subscriptions.
type NewsletterRepository interface {
	Subscribe(ctx context.Context, email string) (*models.NewsletterSubscription, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CountActive(ctx context.Context) (int, error)
}

// VerificationRepository persists password reset codes.
type VerificationRepository interface {
	Create(ctx context.Context, v *models.AuthVerification) error
	// Latest returns the most recently issued code for the user.
	Latest(ctx context.Context, userID uuid.UUID) (*models.AuthVerification, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
}
