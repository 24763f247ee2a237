package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"community-portal/internal/config"
	"community-portal/internal/forms"
	"community-portal/internal/middleware"
	"community-portal/internal/models"
	"community-portal/internal/render"
	"community-portal/internal/repository"
	"community-portal/internal/utils"
	"community-portal/internal/validation"
)

const (
	contactsPerPage    = 10
	recentContactLimit = 5
)

// ContactHandler serves the home page, the public contact form and the
// staff-only inquiry listing.
type ContactHandler struct {
	cfg        *config.Config
	render     *render.Renderer
	contacts   repository.ContactRepository
	newsletter repository.NewsletterRepository
	email      *utils.EmailService
	store      validation.Lookup
}

// NewContactHandler creates the contact handler.
func NewContactHandler(cfg *config.Config, r *render.Renderer, contacts repository.ContactRepository, newsletter repository.NewsletterRepository, email *utils.EmailService, store validation.Lookup) *ContactHandler {
	return &ContactHandler{cfg: cfg, render: r, contacts: contacts, newsletter: newsletter, email: email, store: store}
}

type homePage struct {
	render.Base
	TotalContacts         int
	ResolvedContacts      int
	NewsletterSubscribers int
	Form                  *forms.NewsletterForm
}

type contactPage struct {
	render.Base
	Form       *forms.ContactForm
	Categories []string
	Recent     []models.ContactInquiry
}

type contactSuccess struct {
	Contact *models.ContactInquiry
}

type contactListPage struct {
	render.Base
	Contacts   []models.ContactInquiry
	Total      int
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
	Search     string
	Status     string
}

// Home renders the landing page with aggregate counters.
func (h *ContactHandler) Home(w http.ResponseWriter, r *http.Request) {
	total, resolved, err := h.contacts.Counts(r.Context())
	if err != nil {
		log.Printf("contact counts: %v", err)
	}
	subscribers, err := h.newsletter.CountActive(r.Context())
	if err != nil {
		log.Printf("newsletter count: %v", err)
	}

	h.render.Page(w, http.StatusOK, "home.html", homePage{
		Base:                  base(w, r, "Home"),
		TotalContacts:         total,
		ResolvedContacts:      resolved,
		NewsletterSubscribers: subscribers,
		Form:                  &forms.NewsletterForm{Errors: map[string]string{}},
	})
}

// Page renders the contact form. Staff additionally see the latest inquiries.
func (h *ContactHandler) Page(w http.ResponseWriter, r *http.Request) {
	data := contactPage{
		Base:       base(w, r, "Contact"),
		Form:       &forms.ContactForm{Category: models.CategoryGeneral, Errors: map[string]string{}},
		Categories: models.ContactCategories,
	}
	if claims, ok := middleware.CurrentUser(r.Context()); ok && claims.IsStaff {
		recent, err := h.contacts.Recent(r.Context(), recentContactLimit)
		if err != nil {
			log.Printf("recent contacts: %v", err)
		}
		data.Recent = recent
	}
	h.render.Page(w, http.StatusOK, "contact.html", data)
}

// Submit stores a contact inquiry and acknowledges it with its reference
// number. Repeat senders are allowed; the live warning is advisory only.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	f := forms.ParseContact(r)
	if !f.Validate(r.Context(), h.store) {
		h.rerender(w, r, f)
		return
	}

	inquiry := &models.ContactInquiry{
		Name:     f.Name,
		Email:    f.Email,
		Subject:  f.Subject,
		Category: f.Category,
		Message:  f.Message,
	}
	if err := h.contacts.Create(r.Context(), inquiry); err != nil {
		log.Printf("create contact: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if h.cfg.IsEmailConfigured() {
		if err := h.email.SendContactReceipt(inquiry.Email, inquiry.Name, inquiry.ID); err != nil {
			log.Printf("send contact receipt: %v", err)
		}
	}

	if utils.IsHTMX(r) {
		h.render.Fragment(w, "contact_success.html", contactSuccess{Contact: inquiry})
		return
	}
	utils.SetFlash(w, "success", fmt.Sprintf("Inquiry from %s submitted successfully. Ref: #%d.", inquiry.Name, inquiry.ID))
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}

func (h *ContactHandler) rerender(w http.ResponseWriter, r *http.Request, f *forms.ContactForm) {
	data := contactPage{
		Base:       base(w, r, "Contact"),
		Form:       f,
		Categories: models.ContactCategories,
	}
	if utils.IsHTMX(r) {
		h.render.Fragment(w, "contact_form.html", data)
		return
	}
	h.render.Page(w, http.StatusOK, "contact.html", data)
}

// List renders the staff inquiry listing with search, status filter and
// pagination.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CurrentUser(r.Context())
	if !ok || !claims.IsStaff {
		utils.SetFlash(w, "danger", "You do not have permission to view this page.")
		utils.Redirect(w, r, "/")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	filter := repository.ContactFilter{
		Search:  r.URL.Query().Get("search"),
		Status:  r.URL.Query().Get("status"),
		Page:    page,
		PerPage: contactsPerPage,
	}

	contacts, total, err := h.contacts.List(r.Context(), filter)
	if err != nil {
		log.Printf("list contacts: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	totalPages := (total + contactsPerPage - 1) / contactsPerPage
	if totalPages < 1 {
		totalPages = 1
	}

	h.render.Page(w, http.StatusOK, "contact_list.html", contactListPage{
		Base:       base(w, r, "Inquiries"),
		Contacts:   contacts,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
		Search:     filter.Search,
		Status:     filter.Status,
	})
}

// Resolve toggles the resolved flag on one inquiry.
func (h *ContactHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CurrentUser(r.Context())
	if !ok || !claims.IsStaff {
		utils.SetFlash(w, "danger", "You do not have permission to view this page.")
		utils.Redirect(w, r, "/")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	inquiry, err := h.contacts.Get(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.contacts.SetResolved(r.Context(), id, claims.UserID, !inquiry.IsResolved); err != nil {
		log.Printf("toggle resolved: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if utils.IsHTMX(r) {
		updated, err := h.contacts.Get(r.Context(), id)
		if err != nil {
			log.Printf("reload contact: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		h.render.Fragment(w, "contact_row.html", updated)
		return
	}
	http.Redirect(w, r, "/contacts", http.StatusSeeOther)
}
