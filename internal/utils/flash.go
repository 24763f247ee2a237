package utils

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// Flash is a one-shot message shown on the next full page render, standing in
// for the framework message bag the original UI used.
type Flash struct {
	Level   string // a Bootstrap alert level: "success", "warning" or "danger"
	Message string
}

const flashCookie = "portal_flash"

// SetFlash stores a flash message in a short-lived cookie.
func SetFlash(w http.ResponseWriter, level, message string) {
	value := base64.URLEncoding.EncodeToString([]byte(level + "|" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
	})
}

// PopFlash reads and clears the pending flash message, if any.
func PopFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	raw, err := base64.URLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	level, message, ok := strings.Cut(string(raw), "|")
	if !ok || message == "" {
		return nil
	}
	return &Flash{Level: level, Message: message}
}
