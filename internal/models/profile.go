package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the optional per-user profile data, one-to-one with User.
// It is created lazily the first time the profile page is opened.
type Profile struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Bio       *string    `json:"bio,omitempty" db:"bio"`
	AvatarURL *string    `json:"avatar_url,omitempty" db:"avatar_url"`
	BirthDate *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	Phone     *string    `json:"phone,omitempty" db:"phone"`
	Website   *string    `json:"website,omitempty" db:"website"`
	Location  *string    `json:"location,omitempty" db:"location"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
