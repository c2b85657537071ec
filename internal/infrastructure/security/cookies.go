package security

import (
	"net/http"
	"time"
)

const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

func cookieName(name string, secure bool) string {
	if secure {
		return "__Host-" + name
	}
	return name
}

func setCookie(w http.ResponseWriter, name, value string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(name, secure),
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure, // prod=true, dev=false
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func clearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(name, secure),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// SetAuthCookies stores both halves of a token pair as HttpOnly cookies.
func SetAuthCookies(w http.ResponseWriter, access, refresh string, accessTTL, refreshTTL time.Duration, secure bool) {
	setCookie(w, AccessCookieName, access, accessTTL, secure)
	setCookie(w, RefreshCookieName, refresh, refreshTTL, secure)
}

func ClearAuthCookies(w http.ResponseWriter, secure bool) {
	clearCookie(w, AccessCookieName, secure)
	clearCookie(w, RefreshCookieName, secure)
}

func readCookie(r *http.Request, name string) (string, error) {
	// Prefer the secure-prefixed cookie; fall back for local non-HTTPS dev.
	if c, err := r.Cookie("__Host-" + name); err == nil {
		return c.Value, nil
	}
	c, err := r.Cookie(name)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

func ReadAccessToken(r *http.Request) (string, error) {
	return readCookie(r, AccessCookieName)
}

func ReadRefreshToken(r *http.Request) (string, error) {
	return readCookie(r, RefreshCookieName)
}
