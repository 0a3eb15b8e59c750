package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tesouraria/internal/models"
)

func newTestStore(t *testing.T, ttl time.Duration) *MemoryStore {
	t.Helper()
	s := NewMemoryStore(ttl)
	t.Cleanup(s.Close)
	return s
}

func TestStoreSetGetDestroy(t *testing.T) {
	s := newTestStore(t, time.Hour)

	user := &models.User{ID: 1, Username: "tesoureiro"}
	s.Set("tok", user)

	got, ok := s.Get("tok")
	require.True(t, ok)
	assert.Equal(t, user, got)

	s.Destroy("tok")
	_, ok = s.Get("tok")
	assert.False(t, ok)

	// Destroying again is a no-op.
	s.Destroy("tok")
}

func TestStoreExpiry(t *testing.T) {
	s := newTestStore(t, 10*time.Millisecond)

	s.Set("tok", &models.User{ID: 1})
	time.Sleep(30 * time.Millisecond)

	_, ok := s.Get("tok")
	assert.False(t, ok, "expired session must not be returned")

	s.Set("a", &models.User{ID: 2})
	time.Sleep(30 * time.Millisecond)
	s.Set("b", &models.User{ID: 3})

	removed := s.CleanExpired()
	assert.Equal(t, 1, removed)
	_, ok = s.Get("b")
	assert.True(t, ok)
}

func TestManagerIssueAndRead(t *testing.T) {
	s := newTestStore(t, time.Hour)
	m := NewManager(s, "segredo", false)

	w := httptest.NewRecorder()
	m.Issue(w, &models.User{ID: 5, Username: "maria"})

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)

	user, ok := m.User(r)
	require.True(t, ok)
	assert.Equal(t, "maria", user.Username)
}

func TestManagerRejectsTamperedCookie(t *testing.T) {
	s := newTestStore(t, time.Hour)
	m := NewManager(s, "segredo", false)

	w := httptest.NewRecorder()
	m.Issue(w, &models.User{ID: 5})
	cookie := w.Result().Cookies()[0]

	// Signature from a different secret must not verify.
	other := NewManager(s, "outro-segredo", false)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	_, ok := other.User(r)
	assert.False(t, ok)

	// Mangled value must not verify either.
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: cookie.Value + "x"})
	_, ok = m.User(r)
	assert.False(t, ok)
}

func TestManagerClear(t *testing.T) {
	s := newTestStore(t, time.Hour)
	m := NewManager(s, "segredo", false)

	w := httptest.NewRecorder()
	m.Issue(w, &models.User{ID: 5})
	cookie := w.Result().Cookies()[0]

	r := httptest.NewRequest(http.MethodGet, "/logout", nil)
	r.AddCookie(cookie)

	w2 := httptest.NewRecorder()
	m.Clear(w2, r)

	_, ok := m.User(r)
	assert.False(t, ok, "session must be destroyed")

	cleared := w2.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)

	// Clearing with no cookie at all is fine.
	m.Clear(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/logout", nil))
}
