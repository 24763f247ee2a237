package models

import (
	"time"

	"github.com/google/uuid"
)

// NewsletterSubscription represents a mailing list signup. Email is unique.
type NewsletterSubscription struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	SubscribedAt time.Time `json:"subscribed_at" db:"subscribed_at"`
}
