package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"community-portal/internal/config"
	"community-portal/internal/forms"
	"community-portal/internal/middleware"
	"community-portal/internal/render"
	"community-portal/internal/repository"
	"community-portal/internal/utils"
	"community-portal/internal/validation"
)

const maxAvatarBytes = 5 << 20

// ProfileHandler serves the authenticated profile page.
type ProfileHandler struct {
	cfg      *config.Config
	render   *render.Renderer
	users    repository.UserRepository
	profiles repository.ProfileRepository
	store    validation.Lookup
}

// NewProfileHandler creates the profile handler.
func NewProfileHandler(cfg *config.Config, r *render.Renderer, users repository.UserRepository, profiles repository.ProfileRepository, store validation.Lookup) *ProfileHandler {
	return &ProfileHandler{cfg: cfg, render: r, users: users, profiles: profiles, store: store}
}

type profilePage struct {
	render.Base
	Form      *forms.ProfileForm
	AvatarURL string
}

// Show renders the profile editor, creating an empty profile on first visit.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.CurrentUser(r.Context())

	user, err := h.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("load user: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	profile, err := h.profiles.GetOrCreate(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("load profile: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	f := &forms.ProfileForm{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Bio:       deref(profile.Bio),
		Phone:     deref(profile.Phone),
		Website:   deref(profile.Website),
		Location:  deref(profile.Location),
		Errors:    map[string]string{},
	}
	if profile.BirthDate != nil {
		f.BirthDate = profile.BirthDate.Format("2006-01-02")
	}

	h.render.Page(w, http.StatusOK, "profile.html", profilePage{
		Base:      base(w, r, "Profile"),
		Form:      f,
		AvatarURL: deref(profile.AvatarURL),
	})
}

// Update applies the profile form, including an optional avatar upload.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.CurrentUser(r.Context())

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
	}

	f := forms.ParseProfile(r)
	avatarURL, avatarErr := h.saveAvatar(r, claims.UserID.String())
	if avatarErr != "" {
		f.Errors["avatar"] = avatarErr
	}

	if !f.Validate(r.Context(), h.store) || len(f.Errors) > 0 {
		h.rerender(w, r, f, avatarURL)
		return
	}

	profile, err := h.profiles.GetOrCreate(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("load profile: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	profile.Bio = optional(f.Bio)
	profile.Phone = optional(f.Phone)
	profile.Website = optional(f.Website)
	profile.Location = optional(f.Location)
	profile.BirthDate = f.ParsedBirthDate
	if avatarURL != "" {
		profile.AvatarURL = &avatarURL
	}

	if err := h.profiles.Update(r.Context(), profile); err != nil {
		log.Printf("update profile: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := h.users.UpdateNames(r.Context(), claims.UserID, f.FirstName, f.LastName); err != nil {
		log.Printf("update names: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if utils.IsHTMX(r) {
		h.render.Fragment(w, "profile_success.html", profilePage{
			Form:      f,
			AvatarURL: deref(profile.AvatarURL),
		})
		return
	}
	utils.SetFlash(w, "success", "Profile state saved successfully.")
	utils.Redirect(w, r, "/accounts/profile")
}

func (h *ProfileHandler) rerender(w http.ResponseWriter, r *http.Request, f *forms.ProfileForm, avatarURL string) {
	data := profilePage{Base: base(w, r, "Profile"), Form: f, AvatarURL: avatarURL}
	if utils.IsHTMX(r) {
		h.render.Fragment(w, "profile_form.html", data)
		return
	}
	h.render.Page(w, http.StatusOK, "profile.html", data)
}

var avatarExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// saveAvatar stores an uploaded avatar under the configured upload directory
// and returns its public URL. A missing file is not an error.
func (h *ProfileHandler) saveAvatar(r *http.Request, userID string) (url, errMsg string) {
	file, header, err := r.FormFile("avatar")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", ""
		}
		return "", "Could not read the uploaded file."
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !avatarExtensions[ext] {
		return "", "Avatar must be a JPG, PNG, GIF or WebP image."
	}

	if err := os.MkdirAll(h.cfg.Server.UploadDir, 0o755); err != nil {
		log.Printf("create upload dir: %v", err)
		return "", "Could not store the uploaded file."
	}

	name := fmt.Sprintf("avatar_%s%s", userID, ext)
	dst, err := os.Create(filepath.Join(h.cfg.Server.UploadDir, name))
	if err != nil {
		log.Printf("create avatar file: %v", err)
		return "", "Could not store the uploaded file."
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxAvatarBytes)); err != nil {
		log.Printf("write avatar file: %v", err)
		return "", "Could not store the uploaded file."
	}
	return "/media/" + name, ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
