package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"tesouraria/internal/models"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// Manager ties the session store to the browser via a signed cookie. The
// cookie value is "token.signature"; a value whose signature does not
// verify is treated as no session at all.
type Manager struct {
	store  Store
	secret []byte
	secure bool
	maxAge int
}

// NewManager creates a manager signing cookies with secret.
func NewManager(store Store, secret string, secure bool) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		secure: secure,
		maxAge: int(DefaultTTL.Seconds()),
	}
}

// Issue starts a session for user and sets the session cookie.
func (m *Manager) Issue(w http.ResponseWriter, user *models.User) {
	token := uuid.NewString()
	m.store.Set(token, user)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token + "." + m.sign(token),
		Path:     "/",
		MaxAge:   m.maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// User returns the authenticated user for the request, if any.
func (m *Manager) User(r *http.Request) (*models.User, bool) {
	token, ok := m.token(r)
	if !ok {
		return nil, false
	}
	return m.store.Get(token)
}

// Clear destroys the request's session (if any) and expires the cookie.
// Clearing an anonymous request is a no-op apart from the cookie reset.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) {
	if token, ok := m.token(r); ok {
		m.store.Destroy(token)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) token(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	token, sig, ok := strings.Cut(cookie.Value, ".")
	if !ok || !hmac.Equal([]byte(sig), []byte(m.sign(token))) {
		return "", false
	}
	return token, true
}

func (m *Manager) sign(token string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
