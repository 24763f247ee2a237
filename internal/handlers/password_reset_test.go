package handlers

import (
	"context"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"community-portal/internal/middleware"
)

var tokenRe = regexp.MustCompile(`name="token" value="([^"]+)"`)

func TestPasswordResetUnknownEmail(t *testing.T) {
	h, _, _, _ := newAuthHandler(t)

	w := httptest.NewRecorder()
	h.PasswordResetRequest(w, postForm("/accounts/password-reset", url.Values{"email": {"nobody@example.com"}}))

	assert.Contains(t, w.Body.String(), "No account found with this email address")
}

func TestPasswordResetFullFlow(t *testing.T) {
	h, users, verifications, _ := newAuthHandler(t)
	user := seedUser(t, users, "alice", "alice@example.com", "OldSecret1!")

	// Step 1: request a code. SMTP is not configured in tests, so the code is
	// only logged; read it back from the store.
	w := httptest.NewRecorder()
	h.PasswordResetRequest(w, postForm("/accounts/password-reset", url.Values{"email": {"alice@example.com"}}))
	assert.Contains(t, w.Body.String(), "alice@example.com")

	v, err := verifications.Latest(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, v.Code, 6)

	// Step 2: a wrong code is rejected.
	wrong := "000000"
	if v.Code == wrong {
		wrong = "000001"
	}
	w = httptest.NewRecorder()
	h.PasswordResetVerify(w, postForm("/accounts/password-reset/verify", url.Values{
		"email": {"alice@example.com"},
		"code":  {wrong},
	}))
	assert.Contains(t, w.Body.String(), "Invalid or expired verification code")

	// Step 3: the right code yields a reset token.
	w = httptest.NewRecorder()
	h.PasswordResetVerify(w, postForm("/accounts/password-reset/verify", url.Values{
		"email": {"alice@example.com"},
		"code":  {v.Code},
	}))
	match := tokenRe.FindStringSubmatch(w.Body.String())
	require.Len(t, match, 2, "the completion page must carry the reset token")
	token := match[1]

	// Step 4: set the new password.
	w = httptest.NewRecorder()
	h.PasswordResetComplete(w, postForm("/accounts/password-reset/complete", url.Values{
		"token":     {token},
		"password1": {"NewSecret1!"},
		"password2": {"NewSecret1!"},
	}))
	assert.Equal(t, "/accounts/login", w.Header().Get("HX-Redirect"))

	updated, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("NewSecret1!")))
}

func TestPasswordResetCodeIsSingleUse(t *testing.T) {
	h, users, verifications, _ := newAuthHandler(t)
	user := seedUser(t, users, "alice", "alice@example.com", "OldSecret1!")

	w := httptest.NewRecorder()
	h.PasswordResetRequest(w, postForm("/accounts/password-reset", url.Values{"email": {"alice@example.com"}}))
	v, err := verifications.Latest(context.Background(), user.ID)
	require.NoError(t, err)

	verify := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h.PasswordResetVerify(w, postForm("/accounts/password-reset/verify", url.Values{
			"email": {"alice@example.com"},
			"code":  {v.Code},
		}))
		return w
	}

	first := verify()
	require.Len(t, tokenRe.FindStringSubmatch(first.Body.String()), 2)

	second := verify()
	assert.Contains(t, second.Body.String(), "Invalid or expired verification code")
}

func TestPasswordResetCooldown(t *testing.T) {
	h, users, _, _ := newAuthHandler(t)
	seedUser(t, users, "alice", "alice@example.com", "OldSecret1!")

	w := httptest.NewRecorder()
	h.PasswordResetRequest(w, postForm("/accounts/password-reset", url.Values{"email": {"alice@example.com"}}))

	w = httptest.NewRecorder()
	h.PasswordResetRequest(w, postForm("/accounts/password-reset", url.Values{"email": {"alice@example.com"}}))
	assert.Contains(t, w.Body.String(), "Please wait a moment before requesting another code.")
}

func TestPasswordResetCompletePolicy(t *testing.T) {
	h, users, _, cfg := newAuthHandler(t)
	user := seedUser(t, users, "alice", "alice@example.com", "OldSecret1!")

	token, err := middleware.GenerateResetToken(user.ID, user.Email, &cfg.Session)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.PasswordResetComplete(w, postForm("/accounts/password-reset/complete", url.Values{
		"token":     {token},
		"password1": {"short"},
		"password2": {"short"},
	}))
	assert.Contains(t, w.Body.String(), "Password must be at least 8 characters long")

	w = httptest.NewRecorder()
	h.PasswordResetComplete(w, postForm("/accounts/password-reset/complete", url.Values{
		"token":     {token},
		"password1": {"NewSecret1!"},
		"password2": {"Different1!"},
	}))
	assert.Contains(t, w.Body.String(), "Passwords do not match")
}

func TestPasswordResetCompleteBadToken(t *testing.T) {
	h, _, _, _ := newAuthHandler(t)

	w := httptest.NewRecorder()
	h.PasswordResetComplete(w, postForm("/accounts/password-reset/complete", url.Values{
		"token":     {"garbage"},
		"password1": {"NewSecret1!"},
		"password2": {"NewSecret1!"},
	}))
	assert.Equal(t, "/accounts/password-reset", w.Header().Get("HX-Redirect"))
}
