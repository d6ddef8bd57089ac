package auth

import (
	"net/http"
	"time"
)

// Cookie names shared with the SPA.
const (
	SessionCookie = "session_token"
	LoggedCookie  = "session_logged_token"
)

// SetCookie writes a signed token as an httpOnly, Secure, cross-site
// cookie. SameSite=None is required: the SPA and the API run on different
// origins and the browser must send the cookie on fetches with credentials.
func SetCookie(w http.ResponseWriter, name, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// ClearCookie expires a session cookie. The attributes must match the ones
// used when setting it or browsers keep the old cookie.
func ClearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
