package forms

import (
	"context"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"community-portal/internal/validation"
)

const maxBioLength = 500

// ProfileForm holds the editable profile fields. Everything here is
// optional: an empty value clears the corresponding profile column.
type ProfileForm struct {
	FirstName string
	LastName  string
	Bio       string
	Phone     string
	Website   string
	Location  string
	BirthDate string

	Errors map[string]string

	// ParsedBirthDate is populated by Validate when BirthDate is set.
	ParsedBirthDate *time.Time

	values url.Values
}

// ParseProfile binds the posted body into a ProfileForm. The request may be
// multipart (avatar uploads); the caller parses that before handing it over.
func ParseProfile(r *http.Request) *ProfileForm {
	r.ParseForm()
	return &ProfileForm{
		FirstName: trimmed(r.PostForm, "first_name"),
		LastName:  trimmed(r.PostForm, "last_name"),
		Bio:       trimmed(r.PostForm, "bio"),
		Phone:     trimmed(r.PostForm, "phone_number"),
		Website:   trimmed(r.PostForm, "website"),
		Location:  trimmed(r.PostForm, "location"),
		BirthDate: trimmed(r.PostForm, "birth_date"),
		Errors:    map[string]string{},
		values:    r.PostForm,
	}
}

// Validate applies the optional-field rules. Empty fields always pass.
func (f *ProfileForm) Validate(ctx context.Context, store validation.Lookup) bool {
	ruleKeys := map[string]string{
		"first_name":   validation.RegisterFirstName,
		"last_name":    validation.RegisterLastName,
		"phone_number": validation.ProfilePhone,
		"website":      validation.ProfileWebsite,
	}
	for name, key := range ruleKeys {
		if msg := ruleError(ctx, key, f.values, store); msg != "" {
			f.Errors[name] = msg
		}
	}

	if utf8.RuneCountInString(f.Bio) > maxBioLength {
		f.Errors["bio"] = "Bio cannot exceed 500 characters"
	}

	if f.BirthDate != "" {
		parsed, err := time.Parse("2006-01-02", f.BirthDate)
		switch {
		case err != nil:
			f.Errors["birth_date"] = "Enter a valid date."
		case parsed.After(time.Now()):
			f.Errors["birth_date"] = "Birth date cannot be in the future"
		default:
			f.ParsedBirthDate = &parsed
		}
	}

	return len(f.Errors) == 0
}
