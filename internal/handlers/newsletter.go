package handlers

import (
	"log"
	"net/http"

	"community-portal/internal/forms"
	"community-portal/internal/render"
	"community-portal/internal/repository"
	"community-portal/internal/utils"
	"community-portal/internal/validation"
)

// NewsletterHandler serves the subscription form.
type NewsletterHandler struct {
	render     *render.Renderer
	newsletter repository.NewsletterRepository
	store      validation.Lookup
}

// NewNewsletterHandler creates the newsletter handler.
func NewNewsletterHandler(r *render.Renderer, newsletter repository.NewsletterRepository, store validation.Lookup) *NewsletterHandler {
	return &NewsletterHandler{render: r, newsletter: newsletter, store: store}
}

type newsletterData struct {
	Form *forms.NewsletterForm
}

// Subscribe records a newsletter subscription. An address that is already
// subscribed is acknowledged with a warning, never an error.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	f := forms.ParseNewsletter(r)
	if !f.Validate(r.Context(), h.store) {
		if utils.IsHTMX(r) {
			h.render.Fragment(w, "newsletter_form.html", newsletterData{Form: f})
			return
		}
		utils.SetFlash(w, "danger", f.Errors["email"])
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if _, err := h.newsletter.Subscribe(r.Context(), f.Email); err != nil {
		if _, ok := repository.IsDuplicate(err); ok {
			if utils.IsHTMX(r) {
				h.render.Fragment(w, "newsletter_warning.html", nil)
				return
			}
			utils.SetFlash(w, "warning", "This email address is already subscribed.")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		log.Printf("subscribe: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if utils.IsHTMX(r) {
		h.render.Fragment(w, "newsletter_success.html", nil)
		return
	}
	utils.SetFlash(w, "success", "Subscription successful. Thank you for joining our mailing list.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
