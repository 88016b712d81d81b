package auth

import (
	"net/http"
	"time"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// Session delivers and clears a token pair on the transport.
type Session interface {
	Attach(pair TokenPair)
	Clear()
}

// Cookies describes the attributes of the two session cookies.
type Cookies struct {
	Secure     bool
	Domain     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// For returns a Session writing cookies to w.
func (c Cookies) For(w http.ResponseWriter) Session {
	return &cookieSession{cfg: c, w: w}
}

// RefreshToken reads the refresh cookie, or "" when absent.
func (c Cookies) RefreshToken(r *http.Request) string {
	return cookieValue(r, RefreshCookie)
}

// AccessToken reads the access cookie, or "" when absent.
func (c Cookies) AccessToken(r *http.Request) string {
	return cookieValue(r, AccessCookie)
}

type cookieSession struct {
	cfg Cookies
	w   http.ResponseWriter
}

func (s *cookieSession) Attach(pair TokenPair) {
	s.set(AccessCookie, pair.Access, s.cfg.AccessTTL)
	s.set(RefreshCookie, pair.Refresh, s.cfg.RefreshTTL)
}

func (s *cookieSession) Clear() {
	s.set(AccessCookie, "", -1)
	s.set(RefreshCookie, "", -1)
}

// set writes one cookie. A negative ttl expires it.
func (s *cookieSession) set(name, value string, ttl time.Duration) {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.cfg.Domain,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cfg.Secure,
	}
	if ttl < 0 {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
	} else {
		c.MaxAge = int(ttl / time.Second)
		c.Expires = time.Now().Add(ttl)
	}
	http.SetCookie(s.w, c)
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
