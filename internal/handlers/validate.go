package handlers

import (
	"fmt"
	"net/http"

	"community-portal/internal/render"
	"community-portal/internal/validation"
)

// ValidationHandler serves the per-field live validation endpoints.
type ValidationHandler struct {
	render *render.Renderer
	store  validation.Lookup
}

// NewValidationHandler creates the live validation handler.
func NewValidationHandler(r *render.Renderer, store validation.Lookup) *ValidationHandler {
	return &ValidationHandler{render: r, store: store}
}

// Field returns the handler for one registered validation rule. Every
// endpoint behaves the same way: read the field from the posted form, run
// the rule, render the outcome fragment. An unparseable body is treated as
// an empty value, never as a server error.
//
// @Summary      Validate a single form field
// @Description  Runs the ordered checks for one field and returns an HTML fragment
// @Tags         validation
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Success      200 {string} string "validation fragment"
// @Router       /accounts/validate/username [post]
func (h *ValidationHandler) Field(key string) http.HandlerFunc {
	rule, ok := validation.Rules[key]
	if !ok {
		panic(fmt.Sprintf("no validation rule registered for %q", key))
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusOK)
			return
		}
		out := rule.Evaluate(r.Context(), r.Form, h.store)
		h.render.Outcome(w, out)
	}
}
