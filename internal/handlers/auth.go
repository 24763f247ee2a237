package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"community-portal/internal/config"
	"community-portal/internal/forms"
	"community-portal/internal/middleware"
	"community-portal/internal/models"
	"community-portal/internal/render"
	"community-portal/internal/repository"
	"community-portal/internal/utils"
	"community-portal/internal/validation"
)

// AuthHandler serves registration, login, logout and password reset.
type AuthHandler struct {
	cfg           *config.Config
	render        *render.Renderer
	users         repository.UserRepository
	verifications repository.VerificationRepository
	email         *utils.EmailService
	store         validation.Lookup
}

// NewAuthHandler creates the account handler.
func NewAuthHandler(cfg *config.Config, r *render.Renderer, users repository.UserRepository, verifications repository.VerificationRepository, email *utils.EmailService, store validation.Lookup) *AuthHandler {
	return &AuthHandler{
		cfg:           cfg,
		render:        r,
		users:         users,
		verifications: verifications,
		email:         email,
		store:         store,
	}
}

type registerPage struct {
	render.Base
	Form *forms.RegisterForm
}

type loginPage struct {
	render.Base
	Form          *forms.LoginForm
	Next          string
	GoogleEnabled bool
}

// RegisterPage renders the signup form. Authenticated users are sent home.
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.CurrentUser(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render.Page(w, http.StatusOK, "register.html", registerPage{
		Base: base(w, r, "Register"),
		Form: &forms.RegisterForm{Errors: map[string]string{}},
	})
}

// Register handles the signup submission. On success the new user is logged
// in immediately and redirected home.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	f := forms.ParseRegister(r)
	if !f.Validate(r.Context(), h.store) {
		h.rerenderRegister(w, r, f)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password1), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("hash password: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		Username:     f.Username,
		Email:        f.Email,
		PasswordHash: string(hash),
		FirstName:    f.FirstName,
		LastName:     f.LastName,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		// Live validation already checked uniqueness, but the constraint is
		// the authoritative guard and a race lands here.
		if dup, ok := repository.IsDuplicate(err); ok {
			switch dup.Field {
			case "username":
				f.Errors["username"] = "This username is already taken"
			case "email":
				f.Errors["email"] = "An account with this email already exists"
			}
			h.rerenderRegister(w, r, f)
			return
		}
		log.Printf("create user: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.startSession(w, user)
	utils.SetFlash(w, "success", fmt.Sprintf("Account for %s provisioned successfully. Welcome, %s!", user.Username, user.FirstName))
	utils.Redirect(w, r, "/")
}

func (h *AuthHandler) rerenderRegister(w http.ResponseWriter, r *http.Request, f *forms.RegisterForm) {
	data := registerPage{Base: base(w, r, "Register"), Form: f}
	if utils.IsHTMX(r) {
		h.render.Fragment(w, "register_form.html", data)
		return
	}
	h.render.Page(w, http.StatusOK, "register.html", data)
}

// LoginPage renders the sign-in form.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.CurrentUser(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render.Page(w, http.StatusOK, "login.html", loginPage{
		Base:          base(w, r, "Log in"),
		Form:          &forms.LoginForm{Errors: map[string]string{}},
		Next:          safeNext(r.URL.Query().Get("next"), ""),
		GoogleEnabled: h.cfg.IsGoogleOAuthConfigured(),
	})
}

// Login verifies credentials and establishes the session cookie. The failure
// message never says whether the username or the password was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	f := forms.ParseLogin(r)
	if !f.Validate(r.Context(), h.store) {
		h.rerenderLogin(w, r, f)
		return
	}

	user, err := h.users.GetByUsername(r.Context(), f.Username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("login lookup: %v", err)
		}
		f.Reject()
		h.rerenderLogin(w, r, f)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(f.Password)) != nil {
		f.Reject()
		h.rerenderLogin(w, r, f)
		return
	}

	h.startSession(w, user)
	utils.SetFlash(w, "success", fmt.Sprintf("Welcome back, %s!", user.Username))
	utils.Redirect(w, r, safeNext(f.Next, "/"))
}

func (h *AuthHandler) rerenderLogin(w http.ResponseWriter, r *http.Request, f *forms.LoginForm) {
	data := loginPage{
		Base:          base(w, r, "Log in"),
		Form:          f,
		Next:          safeNext(f.Next, ""),
		GoogleEnabled: h.cfg.IsGoogleOAuthConfigured(),
	}
	if utils.IsHTMX(r) {
		h.render.Fragment(w, "login_form.html", data)
		return
	}
	h.render.Page(w, http.StatusOK, "login.html", data)
}

// LogoutPage renders the logout confirmation.
func (h *AuthHandler) LogoutPage(w http.ResponseWriter, r *http.Request) {
	h.render.Page(w, http.StatusOK, "logout.html", struct{ render.Base }{base(w, r, "Log out")})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, &h.cfg.Session)
	utils.SetFlash(w, "success", "You have been logged out.")
	utils.Redirect(w, r, "/")
}

func (h *AuthHandler) startSession(w http.ResponseWriter, user *models.User) {
	token, err := middleware.GenerateSessionToken(user, &h.cfg.Session)
	if err != nil {
		log.Printf("generate session token: %v", err)
		return
	}
	middleware.SetSessionCookie(w, token, &h.cfg.Session)
}
