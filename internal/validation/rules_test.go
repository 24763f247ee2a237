package validation

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticLookup answers every existence question with a fixed value.
type staticLookup struct {
	usernameTaken   bool
	emailRegistered bool
	contactedBefore bool
	subscribed      bool
}

func (s staticLookup) UsernameTaken(context.Context, string) bool   { return s.usernameTaken }
func (s staticLookup) EmailRegistered(context.Context, string) bool { return s.emailRegistered }
func (s staticLookup) ContactedBefore(context.Context, string) bool { return s.contactedBefore }
func (s staticLookup) Subscribed(context.Context, string) bool      { return s.subscribed }

func evaluate(t *testing.T, key string, form url.Values, store Lookup) Outcome {
	t.Helper()
	rule, ok := Rules[key]
	require.True(t, ok, "rule %s must be registered", key)
	return rule.Evaluate(context.Background(), form, store)
}

func TestEmptyValueShortCircuits(t *testing.T) {
	for key := range Rules {
		out := evaluate(t, key, url.Values{}, staticLookup{})
		assert.Equal(t, Empty, out.Kind, "%s: empty input must yield the empty outcome", key)
		assert.Empty(t, out.Message, "%s: empty outcome carries no message", key)
	}
}

func TestWhitespaceOnlyIsEmpty(t *testing.T) {
	out := evaluate(t, RegisterUsername, url.Values{"username": {"   "}}, staticLookup{})
	assert.Equal(t, Empty, out.Kind)
}

func TestUsernameLengthBoundary(t *testing.T) {
	short := evaluate(t, RegisterUsername, url.Values{"username": {"ab"}}, staticLookup{})
	assert.Equal(t, Error, short.Kind)
	assert.Equal(t, "Username must be at least 3 characters long", short.Message)

	ok := evaluate(t, RegisterUsername, url.Values{"username": {"abc"}}, staticLookup{})
	assert.Equal(t, Success, ok.Kind)
	assert.Equal(t, "Username is available!", ok.Message)
}

func TestUsernameCharset(t *testing.T) {
	out := evaluate(t, RegisterUsername, url.Values{"username": {"bad name"}}, staticLookup{})
	assert.Equal(t, Error, out.Kind)
	assert.Equal(t, "Username can only contain letters, numbers, and @.+-_ characters", out.Message)

	out = evaluate(t, RegisterUsername, url.Values{"username": {"user@example.com"}}, staticLookup{})
	assert.Equal(t, Success, out.Kind)
}

func TestUsernameTaken(t *testing.T) {
	out := evaluate(t, RegisterUsername, url.Values{"username": {"alice"}}, staticLookup{usernameTaken: true})
	assert.Equal(t, Error, out.Kind)
	assert.Equal(t, "This username is already taken", out.Message)
}

func TestNameRules(t *testing.T) {
	out := evaluate(t, RegisterFirstName, url.Values{"first_name": {"A"}}, staticLookup{})
	assert.Equal(t, Error, out.Kind)
	assert.Equal(t, "First name must be at least 2 characters long", out.Message)

	out = evaluate(t, RegisterFirstName, url.Values{"first_name": {"Anna2"}}, staticLookup{})
	assert.Equal(t, Error, out.Kind)
	assert.Equal(t, "First name can only contain letters and spaces", out.Message)

	out = evaluate(t, RegisterLastName, url.Values{"last_name": {"De Souza"}}, staticLookup{})
	assert.Equal(t, Success, out.Kind)
	assert.Equal(t, "Last name looks good!", out.Message)
}

// The registration email rule checks uniqueness before shape: a registered
// address reports the duplicate even when the value is not a valid email.
func TestRegisterEmailDuplicatePrecedesShape(t *testing.T) {
	out := evaluate(t, RegisterEmail, url.Values{"email": {"not-an-email"}}, staticLookup{emailRegistered: true})
	assert.Equal(t, Error, out.Kind)
	assert.Equal(t, "An account with this email already exists", out.Message)

	out = evaluate(t, RegisterEmail, url.Values{"email": {"not-an-email"}}, staticLookup{})
	assert.Equal(t, Error, out.Kind)
	assert.Equal(t, "Please enter a valid email address", out.Message)

	out = evaluate(t, RegisterEmail, url.Values{"email": {"new@example.com"}}, staticLookup{})
	assert.Equal(t, Success, out.Kind)
	assert.Equal(t, "Email is available!", out.Message)
}

func TestPasswordStrengthFullScore(t *testing.T) {
	out := evaluate(t, RegisterPassword, url.Values{"password1": {"Aa1!aaaa"}}, staticLookup{})
	assert.Equal(t, Strength, out.Kind)
	assert.Equal(t, 5, out.Score)
	assert.Empty(t, out.Unmet)
	assert.Equal(t, 8, out.Length)
}

func TestPasswordStrengthUnmetOrder(t *testing.T) {
	out := ScorePassword("aaaaaaaa")
	assert.Equal(t, 2, out.Score) // length + lowercase
	assert.Equal(t, []string{
		"One uppercase letter",
		"One number",
		"One special character",
	}, out.Unmet)

	out = ScorePassword("a")
	assert.Equal(t, 1, out.Score)
	assert.Equal(t, []string{
		"At least 8 characters",
		"One uppercase letter",
		"One number",
		"One special character",
	}, out.Unmet)
}

func TestPasswordConfirmation(t *testing.T) {
	form := url.Values{"password1": {"Secret1!"}, "password2": {"Secret1!"}}
	out := evaluate(t, RegisterPassword2, form, staticLookup{})
	assert.Equal(t, Success, out.Kind)
	assert.Equal(t, "Passwords match!", out.Message)

	form.Set("password2", "Secret2!")
	out = evaluate(t, RegisterPassword2, form, staticLookup{})
	assert.Equal(t, Error, out.Kind)
	assert.Equal(t, "Passwords do not match", out.Message)
}

func TestLoginUsernameNotFoundIsWarning(t *testing.T) {
	out := evaluate(t, LoginUsername, url.Values{"username": {"ghost"}}, staticLookup{})
	assert.Equal(t, Warning, out.Kind)
	assert.Equal(t, "Username not found", out.Message)

	out = evaluate(t, LoginUsername, url.Values{"username": {"alice"}}, staticLookup{usernameTaken: true})
	assert.Equal(t, Success, out.Kind)
}

func TestPhoneDigitBounds(t *testing.T) {
	out := evaluate(t, ProfilePhone, url.Values{"phone_number": {"(555) 123-456"}}, staticLookup{})
	assert.Equal(t, Error, out.Kind)
	assert.Equal(t, "Phone number must have at least 10 digits", out.Message)

	out = evaluate(t, ProfilePhone, url.Values{"phone_number": {"(555) 123-4567"}}, staticLookup{})
	assert.Equal(t, Success, out.Kind)

	out = evaluate(t, ProfilePhone, url.Values{"phone_number": {"1234567890123456"}}, staticLookup{})
	assert.Equal(t, Error, out.Kind)
	assert.Equal(t, "Phone number is too long", out.Message)
}

func TestWebsiteRequiresScheme(t *testing.T) {
	out := evaluate(t, ProfileWebsite, url.Values{"website": {"example.com"}}, staticLookup{})
	assert.Equal(t, Error, out.Kind)
	assert.Equal(t, "Please enter a valid URL (include http:// or https://)", out.Message)

	out = evaluate(t, ProfileWebsite, url.Values{"website": {"https://example.com/path?x=1"}}, staticLookup{})
	assert.Equal(t, Success, out.Kind)
}

// The contact email rule warns about repeat senders before checking shape.
func TestContactEmailWarningPrecedesShape(t *testing.T) {
	out := evaluate(t, ContactEmail, url.Values{"email": {"broken"}}, staticLookup{contactedBefore: true})
	assert.Equal(t, Warning, out.Kind)
	assert.Equal(t, "This email has contacted us before", out.Message)

	out = evaluate(t, ContactEmail, url.Values{"email": {"broken"}}, staticLookup{})
	assert.Equal(t, Error, out.Kind)
}

func TestContactSubjectBounds(t *testing.T) {
	out := evaluate(t, ContactSubject, url.Values{"subject": {"Hey"}}, staticLookup{})
	assert.Equal(t, Error, out.Kind)
	assert.Equal(t, "Subject must be at least 5 characters long", out.Message)
}

func TestContactMessageCounts(t *testing.T) {
	out := evaluate(t, ContactMessage, url.Values{"message": {"short"}}, staticLookup{})
	assert.Equal(t, Error, out.Kind)
	assert.Equal(t, "Message must be at least 10 characters long", out.Message)

	out = evaluate(t, ContactMessage, url.Values{"message": {"hello there world"}}, staticLookup{})
	assert.Equal(t, Success, out.Kind)
	assert.Equal(t, "Message looks good! (3 words, 17 characters)", out.Message)
}

// Length bounds and reported counts measure characters, not bytes.
func TestMultiByteInputCountsCharacters(t *testing.T) {
	// Five characters in ten bytes: still below the ten-character minimum.
	out := evaluate(t, ContactMessage, url.Values{"message": {"ñññññ"}}, staticLookup{})
	assert.Equal(t, Error, out.Kind)
	assert.Equal(t, "Message must be at least 10 characters long", out.Message)

	out = evaluate(t, ContactMessage, url.Values{"message": {"çava très bien"}}, staticLookup{})
	assert.Equal(t, Success, out.Kind)
	assert.Equal(t, "Message looks good! (3 words, 14 characters)", out.Message)

	// Two characters in four bytes fails the three-character minimum before
	// the charset check.
	out = evaluate(t, RegisterUsername, url.Values{"username": {"ññ"}}, staticLookup{})
	assert.Equal(t, Error, out.Kind)
	assert.Equal(t, "Username must be at least 3 characters long", out.Message)

	strength := ScorePassword("ñññññññ")
	assert.Equal(t, 7, strength.Length)
	assert.Contains(t, strength.Unmet, "At least 8 characters")
}

func TestNewsletterEmailAlreadySubscribed(t *testing.T) {
	out := evaluate(t, NewsletterEmail, url.Values{"email": {"a@example.com"}}, staticLookup{subscribed: true})
	assert.Equal(t, Warning, out.Kind)
	assert.Equal(t, "This email is already subscribed", out.Message)

	out = evaluate(t, NewsletterEmail, url.Values{"email": {"a@example.com"}}, staticLookup{})
	assert.Equal(t, Success, out.Kind)
	assert.Equal(t, "Email is ready for subscription!", out.Message)
}
