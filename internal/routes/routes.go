// Package routes wires every handler onto the ServeMux.
package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "community-portal/docs"
	"community-portal/internal/config"
	"community-portal/internal/handlers"
	"community-portal/internal/middleware"
	"community-portal/internal/validation"
)

// Handlers bundles the constructed handlers for route registration.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Profile    *handlers.ProfileHandler
	Contact    *handlers.ContactHandler
	Newsletter *handlers.NewsletterHandler
	Validation *handlers.ValidationHandler
	Health     *handlers.HealthHandler
}

// Setup registers all routes and returns the mux.
func Setup(cfg *config.Config, h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	// Pages and submissions.
	mux.HandleFunc("GET /{$}", h.Contact.Home)
	mux.HandleFunc("GET /contact", h.Contact.Page)
	mux.HandleFunc("POST /contact", h.Contact.Submit)
	mux.HandleFunc("GET /contacts", h.Contact.List)
	mux.HandleFunc("POST /contacts/{id}/resolve", h.Contact.Resolve)
	mux.HandleFunc("POST /newsletter/subscribe", h.Newsletter.Subscribe)

	// Accounts.
	mux.HandleFunc("GET /accounts/register", h.Auth.RegisterPage)
	mux.HandleFunc("POST /accounts/register", h.Auth.Register)
	mux.HandleFunc("GET /accounts/login", h.Auth.LoginPage)
	mux.HandleFunc("POST /accounts/login", h.Auth.Login)
	mux.HandleFunc("GET /accounts/logout", h.Auth.LogoutPage)
	mux.HandleFunc("POST /accounts/logout", h.Auth.Logout)
	mux.HandleFunc("GET /accounts/profile", middleware.RequireAuth(h.Profile.Show))
	mux.HandleFunc("POST /accounts/profile", middleware.RequireAuth(h.Profile.Update))

	// Password reset.
	mux.HandleFunc("GET /accounts/password-reset", h.Auth.PasswordResetPage)
	mux.HandleFunc("POST /accounts/password-reset", h.Auth.PasswordResetRequest)
	mux.HandleFunc("POST /accounts/password-reset/verify", h.Auth.PasswordResetVerify)
	mux.HandleFunc("POST /accounts/password-reset/complete", h.Auth.PasswordResetComplete)

	// Google sign-in.
	mux.HandleFunc("GET /accounts/google/login", h.Auth.GoogleLogin)
	mux.HandleFunc("GET /accounts/google/callback", h.Auth.GoogleCallback)

	// Live field validation. Each endpoint runs one registered rule.
	mux.HandleFunc("POST /accounts/validate/username", h.Validation.Field(validation.RegisterUsername))
	mux.HandleFunc("POST /accounts/validate/first-name", h.Validation.Field(validation.RegisterFirstName))
	mux.HandleFunc("POST /accounts/validate/last-name", h.Validation.Field(validation.RegisterLastName))
	mux.HandleFunc("POST /accounts/validate/email", h.Validation.Field(validation.RegisterEmail))
	mux.HandleFunc("POST /accounts/validate/password", h.Validation.Field(validation.RegisterPassword))
	mux.HandleFunc("POST /accounts/validate/password2", h.Validation.Field(validation.RegisterPassword2))
	mux.HandleFunc("POST /accounts/validate/login-username", h.Validation.Field(validation.LoginUsername))
	mux.HandleFunc("POST /accounts/validate/login-password", h.Validation.Field(validation.LoginPassword))
	mux.HandleFunc("POST /accounts/validate/phone", h.Validation.Field(validation.ProfilePhone))
	mux.HandleFunc("POST /accounts/validate/website", h.Validation.Field(validation.ProfileWebsite))
	mux.HandleFunc("POST /validate/name", h.Validation.Field(validation.ContactName))
	mux.HandleFunc("POST /validate/email", h.Validation.Field(validation.ContactEmail))
	mux.HandleFunc("POST /validate/subject", h.Validation.Field(validation.ContactSubject))
	mux.HandleFunc("POST /validate/message", h.Validation.Field(validation.ContactMessage))
	mux.HandleFunc("POST /validate/newsletter-email", h.Validation.Field(validation.NewsletterEmail))

	// Probes, docs, uploaded media.
	mux.HandleFunc("GET /healthz", h.Health.Healthz)
	mux.HandleFunc("GET /livez", h.Health.Livez)
	mux.HandleFunc("GET /readyz", h.Health.Readyz)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)
	mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.Server.UploadDir))))

	return mux
}
