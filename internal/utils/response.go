package utils

import (
	"encoding/json"
	"net/http"
	"strings"
)

// HTMXHeader is the request header HTMX sets on partial-update requests.
const HTMXHeader = "HX-Request"

// IsHTMX reports whether the request was initiated by HTMX.
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(HTMXHeader), "true")
}

// HXRedirect instructs HTMX to perform a client-side redirect. The response
// body stays empty; HTMX reads the HX-Redirect header.
func HXRedirect(w http.ResponseWriter, url string) {
	w.Header().Set("HX-Redirect", url)
	w.WriteHeader(http.StatusOK)
}

// Redirect sends the HTMX redirect header for partial requests and a regular
// 303 redirect otherwise.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsHTMX(r) {
		HXRedirect(w, url)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// WriteJSONResponse writes a JSON response to the HTTP response writer.
// Health endpoints are the only JSON surface in this app.
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
