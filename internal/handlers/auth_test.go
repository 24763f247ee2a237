package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"community-portal/internal/config"
	"community-portal/internal/middleware"
	"community-portal/internal/models"
	"community-portal/internal/render"
	"community-portal/internal/utils"
)

func newAuthHandler(t *testing.T) (*AuthHandler, *fakeUserRepo, *fakeVerificationRepo, *config.Config) {
	t.Helper()
	cfg := testConfig()
	users := newFakeUserRepo()
	verifications := newFakeVerificationRepo()
	lookup := NewLookup(users, newFakeContactRepo(), newFakeNewsletterRepo())
	h := NewAuthHandler(cfg, render.New(), users, verifications, utils.NewEmailService(&cfg.Email), lookup)
	return h, users, verifications, cfg
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder, cfg *config.Config) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == cfg.Session.CookieName {
			return c
		}
	}
	return nil
}

func TestRegisterCreatesUserAndSession(t *testing.T) {
	h, users, _, cfg := newAuthHandler(t)

	w := httptest.NewRecorder()
	h.Register(w, postForm("/accounts/register", validRegisterForm()))

	assert.Equal(t, "/", w.Header().Get("HX-Redirect"))

	user, err := users.GetByUsername(context.Background(), "newuser")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.NotEqual(t, "Secret1!a", user.PasswordHash)

	cookie := sessionCookie(t, w, cfg)
	require.NotNil(t, cookie, "registration must establish a session")
	claims, err := middleware.ValidateSessionToken(cookie.Value, &cfg.Session)
	require.NoError(t, err)
	assert.Equal(t, "newuser", claims.Username)
}

func TestRegisterDuplicateReRendersForm(t *testing.T) {
	h, users, _, cfg := newAuthHandler(t)
	require.NoError(t, users.Create(context.Background(), &models.User{Username: "newuser", Email: "other@example.com"}))

	w := httptest.NewRecorder()
	h.Register(w, postForm("/accounts/register", validRegisterForm()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This username is already taken")
	assert.Nil(t, sessionCookie(t, w, cfg))
}

func TestRegisterInvalidFormReRenders(t *testing.T) {
	h, _, _, _ := newAuthHandler(t)

	form := validRegisterForm()
	form.Set("password2", "Different1!")
	w := httptest.NewRecorder()
	h.Register(w, postForm("/accounts/register", form))

	assert.Contains(t, w.Body.String(), "Passwords do not match")
	assert.Empty(t, w.Header().Get("HX-Redirect"))
}

func TestLoginSuccess(t *testing.T) {
	h, users, _, cfg := newAuthHandler(t)
	seedUser(t, users, "alice", "alice@example.com", "Secret1!a")

	w := httptest.NewRecorder()
	h.Login(w, postForm("/accounts/login", url.Values{
		"username": {"alice"},
		"password": {"Secret1!a"},
	}))

	assert.Equal(t, "/", w.Header().Get("HX-Redirect"))
	require.NotNil(t, sessionCookie(t, w, cfg))
}

func TestLoginHonorsNext(t *testing.T) {
	h, users, _, _ := newAuthHandler(t)
	seedUser(t, users, "alice", "alice@example.com", "Secret1!a")

	w := httptest.NewRecorder()
	h.Login(w, postForm("/accounts/login", url.Values{
		"username": {"alice"},
		"password": {"Secret1!a"},
		"next":     {"/accounts/profile"},
	}))
	assert.Equal(t, "/accounts/profile", w.Header().Get("HX-Redirect"))

	// An absolute URL must not be followed.
	w = httptest.NewRecorder()
	h.Login(w, postForm("/accounts/login", url.Values{
		"username": {"alice"},
		"password": {"Secret1!a"},
		"next":     {"https://evil.example.com"},
	}))
	assert.Equal(t, "/", w.Header().Get("HX-Redirect"))
}

// The failure message is the same for a wrong password and an unknown user.
func TestLoginFailureIsUniform(t *testing.T) {
	h, users, _, cfg := newAuthHandler(t)
	seedUser(t, users, "alice", "alice@example.com", "Secret1!a")

	for _, form := range []url.Values{
		{"username": {"alice"}, "password": {"wrong-password"}},
		{"username": {"nobody"}, "password": {"Secret1!a"}},
	} {
		w := httptest.NewRecorder()
		h.Login(w, postForm("/accounts/login", form))
		assert.Contains(t, w.Body.String(), "Please enter a correct username and password.")
		assert.Nil(t, sessionCookie(t, w, cfg))
	}
}

func TestLogoutClearsSession(t *testing.T) {
	h, _, _, cfg := newAuthHandler(t)

	w := httptest.NewRecorder()
	h.Logout(w, postForm("/accounts/logout", url.Values{}))

	cookie := sessionCookie(t, w, cfg)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func validRegisterForm() url.Values {
	return url.Values{
		"username":   {"newuser"},
		"first_name": {"New"},
		"last_name":  {"User"},
		"email":      {"new@example.com"},
		"password1":  {"Secret1!a"},
		"password2":  {"Secret1!a"},
	}
}

func seedUser(t *testing.T, users *fakeUserRepo, username, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Username: username, Email: email, PasswordHash: string(hash)}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}
