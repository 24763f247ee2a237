package forms

import (
	"context"
	"net/http"
	"net/url"

	"community-portal/internal/models"
	"community-portal/internal/validation"
)

// ContactForm holds the public inquiry fields.
type ContactForm struct {
	Name     string
	Email    string
	Subject  string
	Category string
	Message  string

	Errors map[string]string

	values url.Values
}

// ParseContact binds the posted body into a ContactForm. A missing category
// defaults to general.
func ParseContact(r *http.Request) *ContactForm {
	r.ParseForm()
	category := trimmed(r.PostForm, "category")
	if category == "" {
		category = models.CategoryGeneral
	}
	return &ContactForm{
		Name:     trimmed(r.PostForm, "name"),
		Email:    trimmed(r.PostForm, "email"),
		Subject:  trimmed(r.PostForm, "subject"),
		Category: category,
		Message:  trimmed(r.PostForm, "message"),
		Errors:   map[string]string{},
		values:   r.PostForm,
	}
}

// Validate applies the field rules. A repeat-sender email only produces a
// live warning and never blocks submission here.
func (f *ContactForm) Validate(ctx context.Context, store validation.Lookup) bool {
	required := []struct{ name, value string }{
		{"name", f.Name},
		{"email", f.Email},
		{"subject", f.Subject},
		{"message", f.Message},
	}
	for _, field := range required {
		if field.value == "" {
			f.Errors[field.name] = requiredMsg
		}
	}

	ruleKeys := map[string]string{
		"name":    validation.ContactName,
		"email":   validation.ContactEmail,
		"subject": validation.ContactSubject,
		"message": validation.ContactMessage,
	}
	for name, key := range ruleKeys {
		if f.Errors[name] != "" {
			continue
		}
		if msg := ruleError(ctx, key, f.values, store); msg != "" {
			f.Errors[name] = msg
		}
	}

	if !models.ValidContactCategory(f.Category) {
		f.Errors["category"] = "Select a valid category."
	}

	return len(f.Errors) == 0
}
