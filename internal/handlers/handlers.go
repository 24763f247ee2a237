// Package handlers contains the HTTP handlers: full page renders, form
// submissions and the per-field validation endpoints HTMX polls while the
// user types.
package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"community-portal/internal/middleware"
	"community-portal/internal/render"
	"community-portal/internal/repository"
	"community-portal/internal/utils"
	"community-portal/internal/validation"
)

// base assembles the fields shared by every full page render.
func base(w http.ResponseWriter, r *http.Request, title string) render.Base {
	user, _ := middleware.CurrentUser(r.Context())
	return render.Base{
		Title: title,
		User:  user,
		Flash: utils.PopFlash(w, r),
	}
}

// safeNext returns target if it is a local path, otherwise the fallback.
// Redirect targets come from the request and must never leave the site.
func safeNext(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return fallback
	}
	return target
}

// repoLookup adapts the repositories to the validation.Lookup interface.
// Lookup is total: a query failure degrades to "not found" so that live
// validation stays responsive when the database is not.
type repoLookup struct {
	users      repository.UserRepository
	contacts   repository.ContactRepository
	newsletter repository.NewsletterRepository
}

// NewLookup builds the validation store over the real repositories.
func NewLookup(users repository.UserRepository, contacts repository.ContactRepository, newsletter repository.NewsletterRepository) validation.Lookup {
	return repoLookup{users: users, contacts: contacts, newsletter: newsletter}
}

func (l repoLookup) UsernameTaken(ctx context.Context, username string) bool {
	exists, err := l.users.UsernameExists(ctx, username)
	if err != nil {
		log.Printf("lookup username %q: %v", username, err)
		return false
	}
	return exists
}

func (l repoLookup) EmailRegistered(ctx context.Context, email string) bool {
	exists, err := l.users.EmailExists(ctx, email)
	if err != nil {
		log.Printf("lookup user email: %v", err)
		return false
	}
	return exists
}

func (l repoLookup) ContactedBefore(ctx context.Context, email string) bool {
	exists, err := l.contacts.EmailExists(ctx, email)
	if err != nil {
		log.Printf("lookup contact email: %v", err)
		return false
	}
	return exists
}

func (l repoLookup) Subscribed(ctx context.Context, email string) bool {
	exists, err := l.newsletter.EmailExists(ctx, email)
	if err != nil {
		log.Printf("lookup newsletter email: %v", err)
		return false
	}
	return exists
}
