// Package render maps pages, form partials and validation outcomes to HTML.
// It owns no business logic: handlers decide what to show, render decides how.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"

	"community-portal/internal/middleware"
	"community-portal/internal/utils"
	"community-portal/internal/validation"
)

//go:embed templates/*.html templates/partials/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html", "templates/partials/*.html"))

// Base carries the fields every full page needs.
type Base struct {
	Title string
	User  *middleware.SessionClaims
	Flash *utils.Flash
}

// Renderer executes the embedded templates.
type Renderer struct {
	t *template.Template
}

// New creates a Renderer over the embedded template set.
func New() *Renderer {
	return &Renderer{t: templates}
}

// Page renders a full page template.
func (r *Renderer) Page(w http.ResponseWriter, status int, name string, data interface{}) {
	r.execute(w, status, name, data)
}

// Fragment renders a partial template for an HTMX swap.
func (r *Renderer) Fragment(w http.ResponseWriter, name string, data interface{}) {
	r.execute(w, http.StatusOK, name, data)
}

// strengthView is the payload of the password strength fragment.
type strengthView struct {
	Score   int
	Percent int
	Label   string
	Class   string
	Unmet   []string
	Length  int
}

// Outcome renders the fragment for a single-field validation outcome.
// The empty outcome produces an empty 200 body so the target slot clears.
func (r *Renderer) Outcome(w http.ResponseWriter, out validation.Outcome) {
	switch out.Kind {
	case validation.Empty:
		w.WriteHeader(http.StatusOK)
	case validation.Success:
		r.Fragment(w, "validation_success.html", out)
	case validation.Warning:
		r.Fragment(w, "validation_warning.html", out)
	case validation.Error:
		r.Fragment(w, "validation_error.html", out)
	case validation.Strength:
		label, class := strengthLabel(out.Score)
		r.Fragment(w, "password_strength.html", strengthView{
			Score:   out.Score,
			Percent: out.Score * 20,
			Label:   label,
			Class:   class,
			Unmet:   out.Unmet,
			Length:  out.Length,
		})
	}
}

func strengthLabel(score int) (string, string) {
	switch {
	case score <= 1:
		return "Weak", "danger"
	case score <= 3:
		return "Fair", "warning"
	case score == 4:
		return "Good", "info"
	default:
		return "Strong", "success"
	}
}

// execute buffers the template output so a rendering error can still become
// a clean 500 instead of a half-written body.
func (r *Renderer) execute(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
