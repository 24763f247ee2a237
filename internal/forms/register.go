package forms

import (
	"context"
	"net/http"
	"net/url"
	"unicode/utf8"

	"community-portal/internal/validation"
)

// RegisterForm holds the account signup fields.
type RegisterForm struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password1 string
	Password2 string

	Errors map[string]string

	values url.Values
}

// ParseRegister binds the posted body into a RegisterForm.
func ParseRegister(r *http.Request) *RegisterForm {
	r.ParseForm()
	return &RegisterForm{
		Username:  trimmed(r.PostForm, "username"),
		FirstName: trimmed(r.PostForm, "first_name"),
		LastName:  trimmed(r.PostForm, "last_name"),
		Email:     trimmed(r.PostForm, "email"),
		Password1: r.PostFormValue("password1"),
		Password2: r.PostFormValue("password2"),
		Errors:    map[string]string{},
		values:    r.PostForm,
	}
}

// Validate applies the full field rules plus the submission password policy.
// Every field is required at signup. Returns true when the form may be
// submitted; uniqueness is re-checked by the database on insert.
func (f *RegisterForm) Validate(ctx context.Context, store validation.Lookup) bool {
	required := []struct{ name, value string }{
		{"username", f.Username},
		{"first_name", f.FirstName},
		{"last_name", f.LastName},
		{"email", f.Email},
		{"password1", f.Password1},
		{"password2", f.Password2},
	}
	for _, field := range required {
		if field.value == "" {
			f.Errors[field.name] = requiredMsg
		}
	}

	ruleKeys := map[string]string{
		"username":   validation.RegisterUsername,
		"first_name": validation.RegisterFirstName,
		"last_name":  validation.RegisterLastName,
		"email":      validation.RegisterEmail,
		"password2":  validation.RegisterPassword2,
	}
	for name, key := range ruleKeys {
		if f.Errors[name] != "" {
			continue
		}
		if msg := ruleError(ctx, key, f.values, store); msg != "" {
			f.Errors[name] = msg
		}
	}

	// The live strength meter never blocks; the submission floor does.
	if f.Errors["password1"] == "" && utf8.RuneCountInString(f.Password1) < 8 {
		f.Errors["password1"] = "Password must be at least 8 characters long"
	}

	return len(f.Errors) == 0
}
