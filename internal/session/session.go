// Package session issues the anonymous browser session id that owns
// provider connections.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Manager reads and issues the session cookie.
type Manager struct {
	CookieName string
	Domain     string
	SameSite   string
	Secure     bool
	TTL        time.Duration

	now   func() time.Time
	newID func() string
}

func NewManager(cookieName string, secure bool, ttl time.Duration) *Manager {
	if cookieName == "" {
		cookieName = "hellosocial_sid"
	}
	return &Manager{
		CookieName: cookieName,
		SameSite:   "lax",
		Secure:     secure,
		TTL:        ttl,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// ID returns the session id carried by r, if it is well formed.
func (m *Manager) ID(r *http.Request) (string, bool) {
	ck, err := r.Cookie(m.CookieName)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(ck.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// Ensure returns the session id of r, issuing a new cookie on w when the
// request has none. The second result reports whether the id is new.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) (string, bool) {
	if id, ok := m.ID(r); ok {
		return id, false
	}
	id := m.newID()
	http.SetCookie(w, m.cookie(id))
	return id, true
}

func (m *Manager) cookie(value string) *http.Cookie {
	ck := &http.Cookie{
		Name:     m.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: ParseSameSite(m.SameSite),
	}
	if strings.TrimSpace(m.Domain) != "" {
		ck.Domain = m.Domain
	}
	if m.TTL > 0 {
		ck.Expires = m.now().Add(m.TTL).UTC()
		ck.MaxAge = int(m.TTL.Seconds())
	}
	return ck
}

func ParseSameSite(s string) http.SameSite {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
