package forms

import (
	"context"
	"net/http"

	"community-portal/internal/validation"
)

// LoginForm holds the sign-in fields. Credential verification happens in the
// handler; the form only guards against empty submissions.
type LoginForm struct {
	Username string
	Password string
	Next     string

	Errors map[string]string
}

// ParseLogin binds the posted body into a LoginForm.
func ParseLogin(r *http.Request) *LoginForm {
	r.ParseForm()
	return &LoginForm{
		Username: trimmed(r.PostForm, "username"),
		Password: r.PostFormValue("password"),
		Next:     trimmed(r.PostForm, "next"),
		Errors:   map[string]string{},
	}
}

// Validate checks that both credentials were supplied.
func (f *LoginForm) Validate(ctx context.Context, store validation.Lookup) bool {
	if f.Username == "" {
		f.Errors["username"] = requiredMsg
	}
	if f.Password == "" {
		f.Errors["password"] = requiredMsg
	}
	return len(f.Errors) == 0
}

// Reject records the uniform credential failure message. The message never
// distinguishes a wrong password from an unknown account.
func (f *LoginForm) Reject() {
	f.Errors["__all__"] = "Please enter a correct username and password."
}
