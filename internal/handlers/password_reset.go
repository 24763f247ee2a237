package handlers

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"community-portal/internal/middleware"
	"community-portal/internal/models"
	"community-portal/internal/render"
	"community-portal/internal/repository"
	"community-portal/internal/utils"
)

// resendCooldown is the minimum gap between two reset codes for one account.
const resendCooldown = time.Minute

type resetPage struct {
	render.Base
	Email string
	Error string
}

type resetCompletePage struct {
	render.Base
	ResetToken string
	Error      string
}

// PasswordResetPage renders the email entry step.
func (h *AuthHandler) PasswordResetPage(w http.ResponseWriter, r *http.Request) {
	h.render.Page(w, http.StatusOK, "password_reset.html", resetPage{Base: base(w, r, "Reset password")})
}

// PasswordResetRequest issues a verification code and emails it. Without SMTP
// credentials the code is logged so local development still works end to end.
func (h *AuthHandler) PasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()
	email := strings.TrimSpace(r.PostFormValue("email"))
	if email == "" {
		h.render.Page(w, http.StatusOK, "password_reset.html", resetPage{
			Base:  base(w, r, "Reset password"),
			Error: "Please enter your email address.",
		})
		return
	}

	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("reset lookup: %v", err)
		}
		h.render.Page(w, http.StatusOK, "password_reset.html", resetPage{
			Base:  base(w, r, "Reset password"),
			Email: email,
			Error: "No account found with this email address",
		})
		return
	}

	if last, err := h.verifications.Latest(r.Context(), user.ID); err == nil {
		if time.Since(last.CreatedAt) < resendCooldown {
			h.render.Page(w, http.StatusOK, "password_reset_verify.html", resetPage{
				Base:  base(w, r, "Verify code"),
				Email: email,
				Error: "Please wait a moment before requesting another code.",
			})
			return
		}
	}

	code := generateCode()
	v := &models.AuthVerification{
		UserID:    user.ID,
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(h.cfg.Session.CodeTTL),
	}
	if err := h.verifications.Create(r.Context(), v); err != nil {
		log.Printf("store verification code: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if h.cfg.IsEmailConfigured() {
		if err := h.email.SendVerificationCode(email, code); err != nil {
			log.Printf("send verification code: %v", err)
		}
	} else {
		log.Printf("password reset code for %s: %s", email, code)
	}

	h.render.Page(w, http.StatusOK, "password_reset_verify.html", resetPage{
		Base:  base(w, r, "Verify code"),
		Email: email,
	})
}

// PasswordResetVerify checks the submitted code and, when valid, hands the
// user a short-lived signed token that authorizes the password change.
func (h *AuthHandler) PasswordResetVerify(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()
	email := strings.TrimSpace(r.PostFormValue("email"))
	code := strings.TrimSpace(r.PostFormValue("code"))

	fail := func(msg string) {
		h.render.Page(w, http.StatusOK, "password_reset_verify.html", resetPage{
			Base:  base(w, r, "Verify code"),
			Email: email,
			Error: msg,
		})
	}

	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		fail("Invalid or expired verification code")
		return
	}
	v, err := h.verifications.Latest(r.Context(), user.ID)
	if err != nil || v.Used || v.Code != code || time.Now().After(v.ExpiresAt) {
		fail("Invalid or expired verification code")
		return
	}

	if err := h.verifications.MarkUsed(r.Context(), v.ID); err != nil {
		log.Printf("mark verification used: %v", err)
	}

	token, err := middleware.GenerateResetToken(user.ID, user.Email, &h.cfg.Session)
	if err != nil {
		log.Printf("generate reset token: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render.Page(w, http.StatusOK, "password_reset_complete.html", resetCompletePage{
		Base:       base(w, r, "New password"),
		ResetToken: token,
	})
}

// PasswordResetComplete sets the new password after token verification.
func (h *AuthHandler) PasswordResetComplete(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()
	token := r.PostFormValue("token")
	password1 := r.PostFormValue("password1")
	password2 := r.PostFormValue("password2")

	claims, err := middleware.ValidateResetToken(token, &h.cfg.Session)
	if err != nil {
		utils.SetFlash(w, "danger", "Your reset link has expired. Please start over.")
		utils.Redirect(w, r, "/accounts/password-reset")
		return
	}

	fail := func(msg string) {
		h.render.Page(w, http.StatusOK, "password_reset_complete.html", resetCompletePage{
			Base:       base(w, r, "New password"),
			ResetToken: token,
			Error:      msg,
		})
	}
	if utf8.RuneCountInString(password1) < 8 {
		fail("Password must be at least 8 characters long")
		return
	}
	if password1 != password2 {
		fail("Passwords do not match")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password1), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("hash password: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := h.users.UpdatePassword(r.Context(), claims.UserID, string(hash)); err != nil {
		log.Printf("update password: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	utils.SetFlash(w, "success", "Your password has been reset. Please log in.")
	utils.Redirect(w, r, "/accounts/login")
}

// generateCode produces a 6-digit numeric verification code.
func generateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand only fails when the platform source is broken.
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
