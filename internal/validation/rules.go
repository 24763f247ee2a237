package validation

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9@.+_-]+$`)
	nameRe     = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	websiteRe  = regexp.MustCompile(`^https?://(www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_+.~#?&/=]*)$`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
	lowerRe    = regexp.MustCompile(`[a-z]`)
	digitRe    = regexp.MustCompile(`\d`)
	symbolRe   = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	nonDigitRe = regexp.MustCompile(`[^\d]`)
)

// Input carries the trimmed field value plus access to sibling fields
// (the password confirmation check reads the primary password).
type Input struct {
	Value string
	Form  url.Values
}

// Peer returns the trimmed value of a sibling form field.
func (in Input) Peer(name string) string {
	return strings.TrimSpace(in.Form.Get(name))
}

// Check inspects a non-empty value and returns nil when it passes, or the
// outcome that ends evaluation. Checks never panic and never return errors:
// malformed input degrades to a failing (or empty) outcome upstream.
type Check func(ctx context.Context, in Input, store Lookup) *Outcome

// Rule is the ordered check list for one (entity, field) pair.
type Rule struct {
	// Field is the form parameter the value is read from.
	Field string
	// Checks run in declared order; the first non-nil outcome wins.
	Checks []Check
	// Success produces the outcome when every check passes.
	Success func(in Input) Outcome
}

// Evaluate runs the rule against a form. A missing or empty field value
// short-circuits to the Empty outcome before any check runs.
func (r Rule) Evaluate(ctx context.Context, form url.Values, store Lookup) Outcome {
	value := strings.TrimSpace(form.Get(r.Field))
	if value == "" {
		return Outcome{Kind: Empty}
	}
	in := Input{Value: value, Form: form}
	for _, check := range r.Checks {
		if out := check(ctx, in, store); out != nil {
			return *out
		}
	}
	return r.Success(in)
}

// Field keys for the rule registry, one per validation endpoint.
const (
	RegisterUsername  = "register.username"
	RegisterFirstName = "register.first_name"
	RegisterLastName  = "register.last_name"
	RegisterEmail     = "register.email"
	RegisterPassword  = "register.password1"
	RegisterPassword2 = "register.password2"
	LoginUsername     = "login.username"
	LoginPassword     = "login.password"
	ProfilePhone      = "profile.phone"
	ProfileWebsite    = "profile.website"
	ContactName       = "contact.name"
	ContactEmail      = "contact.email"
	ContactSubject    = "contact.subject"
	ContactMessage    = "contact.message"
	NewsletterEmail   = "newsletter.email"
)

// Rules is the registry consumed by the generic validation dispatch handler
// and by form binding. Check order is load-bearing: users read the first
// failing message as the field's priority problem, and the email rules put
// duplicate detection ahead of shape on purpose.
var Rules = map[string]Rule{
	RegisterUsername: {
		Field: "username",
		Checks: []Check{
			minLength(3, "Username must be at least 3 characters long"),
			maxLength(150, "Username cannot exceed 150 characters"),
			pattern(usernameRe, "Username can only contain letters, numbers, and @.+-_ characters"),
			func(ctx context.Context, in Input, store Lookup) *Outcome {
				if store.UsernameTaken(ctx, in.Value) {
					return errorOutcome("This username is already taken")
				}
				return nil
			},
		},
		Success: staticSuccess("Username is available!"),
	},

	RegisterFirstName: {
		Field: "first_name",
		Checks: []Check{
			minLength(2, "First name must be at least 2 characters long"),
			pattern(nameRe, "First name can only contain letters and spaces"),
		},
		Success: staticSuccess("First name looks good!"),
	},

	RegisterLastName: {
		Field: "last_name",
		Checks: []Check{
			minLength(2, "Last name must be at least 2 characters long"),
			pattern(nameRe, "Last name can only contain letters and spaces"),
		},
		Success: staticSuccess("Last name looks good!"),
	},

	RegisterEmail: {
		Field: "email",
		Checks: []Check{
			func(ctx context.Context, in Input, store Lookup) *Outcome {
				if store.EmailRegistered(ctx, in.Value) {
					return errorOutcome("An account with this email already exists")
				}
				return nil
			},
			pattern(emailRe, "Please enter a valid email address"),
		},
		Success: staticSuccess("Email is available!"),
	},

	RegisterPassword: {
		Field:   "password1",
		Success: func(in Input) Outcome { return ScorePassword(in.Value) },
	},

	RegisterPassword2: {
		Field: "password2",
		Checks: []Check{
			func(ctx context.Context, in Input, store Lookup) *Outcome {
				if in.Peer("password1") != in.Value {
					return errorOutcome("Passwords do not match")
				}
				return nil
			},
		},
		Success: staticSuccess("Passwords match!"),
	},

	LoginUsername: {
		Field: "username",
		Checks: []Check{
			minLength(3, "Username is too short"),
			func(ctx context.Context, in Input, store Lookup) *Outcome {
				// A missing account is advisory at login time, not an error.
				if !store.UsernameTaken(ctx, in.Value) {
					return warningOutcome("Username not found")
				}
				return nil
			},
		},
		Success: staticSuccess("Username found!"),
	},

	LoginPassword: {
		Field: "password",
		Checks: []Check{
			minLength(3, "Password is required"),
		},
		Success: staticSuccess("Password entered"),
	},

	ProfilePhone: {
		Field: "phone_number",
		Checks: []Check{
			func(ctx context.Context, in Input, store Lookup) *Outcome {
				if len(digitsOnly(in.Value)) < 10 {
					return errorOutcome("Phone number must have at least 10 digits")
				}
				return nil
			},
			func(ctx context.Context, in Input, store Lookup) *Outcome {
				if len(digitsOnly(in.Value)) > 15 {
					return errorOutcome("Phone number is too long")
				}
				return nil
			},
		},
		Success: staticSuccess("Phone number is valid!"),
	},

	ProfileWebsite: {
		Field: "website",
		Checks: []Check{
			pattern(websiteRe, "Please enter a valid URL (include http:// or https://)"),
		},
		Success: staticSuccess("Website URL is valid!"),
	},

	ContactName: {
		Field: "name",
		Checks: []Check{
			minLength(2, "Name must be at least 2 characters long"),
			pattern(nameRe, "Name can only contain letters and spaces"),
		},
		Success: staticSuccess("Name looks good!"),
	},

	ContactEmail: {
		Field: "email",
		Checks: []Check{
			// Duplicate detection deliberately precedes shape validation here.
			func(ctx context.Context, in Input, store Lookup) *Outcome {
				if store.ContactedBefore(ctx, in.Value) {
					return warningOutcome("This email has contacted us before")
				}
				return nil
			},
			pattern(emailRe, "Please enter a valid email address"),
		},
		Success: staticSuccess("Email is valid!"),
	},

	ContactSubject: {
		Field: "subject",
		Checks: []Check{
			minLength(5, "Subject must be at least 5 characters long"),
			maxLength(200, "Subject is too long (max 200 characters)"),
		},
		Success: staticSuccess("Subject looks good!"),
	},

	ContactMessage: {
		Field: "message",
		Checks: []Check{
			minLength(10, "Message must be at least 10 characters long"),
		},
		Success: func(in Input) Outcome {
			words := len(strings.Fields(in.Value))
			return Outcome{
				Kind:    Success,
				Message: fmt.Sprintf("Message looks good! (%d words, %d characters)", words, utf8.RuneCountInString(in.Value)),
			}
		},
	},

	NewsletterEmail: {
		Field: "email",
		Checks: []Check{
			func(ctx context.Context, in Input, store Lookup) *Outcome {
				if store.Subscribed(ctx, in.Value) {
					return warningOutcome("This email is already subscribed")
				}
				return nil
			},
			pattern(emailRe, "Please enter a valid email address"),
		},
		Success: staticSuccess("Email is ready for subscription!"),
	},
}

// PasswordCriteria are the strength criteria in reporting order.
var PasswordCriteria = []string{
	"At least 8 characters",
	"One uppercase letter",
	"One lowercase letter",
	"One number",
	"One special character",
}

// ScorePassword computes the 0-5 strength score: one point each for length,
// uppercase, lowercase, digit and symbol. Unmet criteria are listed in the
// fixed PasswordCriteria order.
func ScorePassword(password string) Outcome {
	checks := []func(string) bool{
		func(p string) bool { return utf8.RuneCountInString(p) >= 8 },
		upperRe.MatchString,
		lowerRe.MatchString,
		digitRe.MatchString,
		symbolRe.MatchString,
	}

	out := Outcome{Kind: Strength, Length: utf8.RuneCountInString(password)}
	for i, ok := range checks {
		if ok(password) {
			out.Score++
		} else {
			out.Unmet = append(out.Unmet, PasswordCriteria[i])
		}
	}
	return out
}

// Length bounds count characters, not bytes, so multi-byte input is
// measured the way the messages describe it.
func minLength(n int, msg string) Check {
	return func(ctx context.Context, in Input, store Lookup) *Outcome {
		if utf8.RuneCountInString(in.Value) < n {
			return errorOutcome(msg)
		}
		return nil
	}
}

func maxLength(n int, msg string) Check {
	return func(ctx context.Context, in Input, store Lookup) *Outcome {
		if utf8.RuneCountInString(in.Value) > n {
			return errorOutcome(msg)
		}
		return nil
	}
}

func pattern(re *regexp.Regexp, msg string) Check {
	return func(ctx context.Context, in Input, store Lookup) *Outcome {
		if !re.MatchString(in.Value) {
			return errorOutcome(msg)
		}
		return nil
	}
}

func staticSuccess(msg string) func(Input) Outcome {
	return func(Input) Outcome {
		return Outcome{Kind: Success, Message: msg}
	}
}

func digitsOnly(s string) string {
	return nonDigitRe.ReplaceAllString(s, "")
}
