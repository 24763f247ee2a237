package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactInquiry represents a message submitted through the contact form.
// Emails are not unique here: repeat contacts are expected.
type ContactInquiry struct {
	ID         int64      `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	Email      string     `json:"email" db:"email"`
	Subject    string     `json:"subject" db:"subject"`
	Category   string     `json:"category" db:"category"`
	Message    string     `json:"message" db:"message"`
	IsResolved bool       `json:"is_resolved" db:"is_resolved"`
	ResolvedBy *uuid.UUID `json:"resolved_by,omitempty" db:"resolved_by"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// Accepted values for ContactInquiry.Category.
const (
	CategoryGeneral  = "general"
	CategorySupport  = "support"
	CategoryFeedback = "feedback"
	CategoryBusiness = "business"
)

// ContactCategories are the accepted values for ContactInquiry.Category.
var ContactCategories = []string{CategoryGeneral, CategorySupport, CategoryFeedback, CategoryBusiness}

// ValidContactCategory reports whether c is an accepted category value.
func ValidContactCategory(c string) bool {
	for _, v := range ContactCategories {
		if v == c {
			return true
		}
	}
	return false
}
