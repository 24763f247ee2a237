package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/google/uuid"

	"community-portal/internal/models"
	"community-portal/internal/repository"
	"community-portal/internal/utils"
)

const oauthStateCookie = "oauth_state"

func (h *AuthHandler) googleConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.cfg.GoogleOAuth.ClientID,
		ClientSecret: h.cfg.GoogleOAuth.ClientSecret,
		RedirectURL:  h.cfg.GoogleOAuth.RedirectURL,
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint:     google.Endpoint,
	}
}

// GoogleLogin starts the Google sign-in flow.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.IsGoogleOAuthConfigured() {
		utils.SetFlash(w, "danger", "Google sign-in is not available.")
		http.Redirect(w, r, "/accounts/login", http.StatusSeeOther)
		return
	}

	state := randomState()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/accounts/google",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.cfg.Session.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.googleConfig().AuthCodeURL(state), http.StatusSeeOther)
}

// GoogleCallback finishes the flow: it verifies the state, exchanges the
// code, reads the Google profile and signs the matching local account in,
// creating one on first login.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	fail := func(msg string) {
		utils.SetFlash(w, "danger", msg)
		http.Redirect(w, r, "/accounts/login", http.StatusSeeOther)
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		fail("Google sign-in failed. Please try again.")
		return
	}

	conf := h.googleConfig()
	token, err := conf.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		log.Printf("oauth exchange: %v", err)
		fail("Google sign-in failed. Please try again.")
		return
	}

	svc, err := oauth2api.NewService(r.Context(), option.WithTokenSource(conf.TokenSource(r.Context(), token)))
	if err != nil {
		log.Printf("oauth service: %v", err)
		fail("Google sign-in failed. Please try again.")
		return
	}
	info, err := svc.Userinfo.Get().Do()
	if err != nil || info.Email == "" {
		log.Printf("oauth userinfo: %v", err)
		fail("Google sign-in failed. Please try again.")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), info.Email)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = h.createGoogleUser(r, info)
	}
	if err != nil {
		log.Printf("google user: %v", err)
		fail("Google sign-in failed. Please try again.")
		return
	}

	h.startSession(w, user)
	utils.SetFlash(w, "success", fmt.Sprintf("Welcome back, %s!", user.Username))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// createGoogleUser provisions a local account for a first-time Google login.
// The password is random: these accounts sign in through Google or via a
// password reset.
func (h *AuthHandler) createGoogleUser(r *http.Request, info *oauth2api.Userinfo) (*models.User, error) {
	username, err := h.availableUsername(r, info.Email)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash placeholder password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        info.Email,
		PasswordHash: string(hash),
		FirstName:    info.GivenName,
		LastName:     info.FamilyName,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		return nil, err
	}
	return user, nil
}

// availableUsername derives a free username from the email local part,
// appending a counter on collision.
func (h *AuthHandler) availableUsername(r *http.Request, email string) (string, error) {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		local = "user"
	}

	candidate := local
	for i := 1; ; i++ {
		taken, err := h.users.UsernameExists(r.Context(), candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", local, i)
	}
}

func randomState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
