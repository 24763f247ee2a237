package forms

import (
	"context"
	"net/http"
	"net/url"

	"community-portal/internal/validation"
)

// NewsletterForm holds the single subscription field.
type NewsletterForm struct {
	Email string

	Errors map[string]string

	values url.Values
}

// ParseNewsletter binds the posted body into a NewsletterForm.
func ParseNewsletter(r *http.Request) *NewsletterForm {
	r.ParseForm()
	return &NewsletterForm{
		Email:  trimmed(r.PostForm, "email"),
		Errors: map[string]string{},
		values: r.PostForm,
	}
}

// Validate checks presence and shape. An already-subscribed address passes
// validation; the insert reports it and the handler renders a warning.
func (f *NewsletterForm) Validate(ctx context.Context, store validation.Lookup) bool {
	if f.Email == "" {
		f.Errors["email"] = requiredMsg
		return false
	}
	if msg := ruleError(ctx, validation.NewsletterEmail, f.values, store); msg != "" {
		f.Errors["email"] = msg
	}
	return len(f.Errors) == 0
}
