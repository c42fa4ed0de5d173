package service

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"
)

const (
	// AuthCookieName session cookie checked by the auth middleware
	AuthCookieName = "auth-token"
	// AuthCookieMaxAge one week
	AuthCookieMaxAge = 7 * 24 * time.Hour

	authTokenValue = "demo-auth-token"
)

// ErrInvalidCredentials username / password mismatch
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService single fixed credential pair; not real authentication
type AuthService struct {
	username string
	password string
	secure   bool
}

func NewAuthService(username, password string, secureCookie bool) *AuthService {
	return &AuthService{username: username, password: password, secure: secureCookie}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Login returns the session cookie for valid credentials.
func (s *AuthService) Login(username, password string) (*http.Cookie, error) {
	if !equal(username, s.username) || !equal(password, s.password) {
		return nil, ErrInvalidCredentials
	}
	return &http.Cookie{
		Name:     AuthCookieName,
		Value:    authTokenValue,
		Path:     "/",
		MaxAge:   int(AuthCookieMaxAge / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	}, nil
}

// LogoutCookie expires the session cookie.
func (s *AuthService) LogoutCookie() *http.Cookie {
	return &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// Authenticated reports whether the request carries a valid session cookie.
func (s *AuthService) Authenticated(r *http.Request) bool {
	c, err := r.Cookie(AuthCookieName)
	return err == nil && equal(c.Value, authTokenValue)
}
