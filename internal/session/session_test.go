package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberforum/internal/db"
	"cyberforum/internal/models"
)

var alice = models.Session{Username: "alice", Name: "Alice", Email: "a@b.com", MemberSince: "2024-01-05T10:00:00Z"}

func newTestManager(t *testing.T) (*Manager, *SQLBackend) {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	backend := NewSQLBackend(database)
	store := NewStore(backend, 30*24*time.Hour, []byte("0123456789abcdef0123456789abcdef"))
	return NewManager(store), backend
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			found = c
		}
	}
	require.NotNil(t, found, "no session cookie set")
	return found
}

func requestWith(c *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if c != nil {
		r.AddCookie(c)
	}
	return r
}

func TestLoginAndCurrent(t *testing.T) {
	m, _ := newTestManager(t)

	_, ok := m.Current(requestWith(nil))
	assert.False(t, ok)

	w := httptest.NewRecorder()
	require.NoError(t, m.Login(w, requestWith(nil), alice))
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.GreaterOrEqual(t, cookie.MaxAge, 30*24*60*60)

	who, ok := m.Current(requestWith(cookie))
	require.True(t, ok)
	assert.Equal(t, alice, who)
}

func TestLoginIssuesFreshSessionID(t *testing.T) {
	m, _ := newTestManager(t)

	w := httptest.NewRecorder()
	m.AddFlash(w, requestWith(nil), "Please log in")
	anon := sessionCookie(t, w)

	w = httptest.NewRecorder()
	require.NoError(t, m.Login(w, requestWith(anon), alice))
	authed := sessionCookie(t, w)
	assert.NotEqual(t, anon.Value, authed.Value)

	// the pre-login id no longer resolves
	w = httptest.NewRecorder()
	assert.Empty(t, m.Flashes(w, requestWith(anon)))
	_, ok := m.Current(requestWith(anon))
	assert.False(t, ok)

	who, ok := m.Current(requestWith(authed))
	require.True(t, ok)
	assert.Equal(t, alice, who)
	w = httptest.NewRecorder()
	assert.Equal(t, []string{"Please log in"}, m.Flashes(w, requestWith(authed)))
}

func TestForgedCookieIsAnonymous(t *testing.T) {
	m, _ := newTestManager(t)
	_, ok := m.Current(requestWith(&http.Cookie{Name: CookieName, Value: "admin"}))
	assert.False(t, ok)
}

func TestDestroyIsIdempotent(t *testing.T) {
	m, _ := newTestManager(t)

	w := httptest.NewRecorder()
	require.NoError(t, m.Login(w, requestWith(nil), alice))
	cookie := sessionCookie(t, w)

	for i := 0; i < 2; i++ {
		w = httptest.NewRecorder()
		require.NoError(t, m.Destroy(w, requestWith(cookie)))
		_, ok := m.Current(requestWith(cookie))
		assert.False(t, ok)
	}

	w = httptest.NewRecorder()
	assert.NoError(t, m.Destroy(w, requestWith(nil)))
}

func TestFlashesPopOnce(t *testing.T) {
	m, _ := newTestManager(t)

	w := httptest.NewRecorder()
	r := requestWith(nil)
	m.AddFlash(w, r, "Post created successfully")
	m.AddFlash(w, r, "second")
	cookie := sessionCookie(t, w)

	w = httptest.NewRecorder()
	assert.Equal(t, []string{"Post created successfully", "second"}, m.Flashes(w, requestWith(cookie)))

	w = httptest.NewRecorder()
	assert.Empty(t, m.Flashes(w, requestWith(cookie)))
}

func TestExpiredSessionIsAnonymous(t *testing.T) {
	m, backend := newTestManager(t)

	w := httptest.NewRecorder()
	require.NoError(t, m.Login(w, requestWith(nil), alice))
	cookie := sessionCookie(t, w)

	backend.now = func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }
	_, ok := m.Current(requestWith(cookie))
	assert.False(t, ok)

	n, err := backend.Purge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMiddlewareAttachesIdentity(t *testing.T) {
	m, _ := newTestManager(t)

	w := httptest.NewRecorder()
	require.NoError(t, m.Login(w, requestWith(nil), alice))
	cookie := sessionCookie(t, w)

	var seen models.Session
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, requestWith(cookie))
	assert.Equal(t, alice, seen)
	// sliding expiry re-issues the cookie
	assert.NotEmpty(t, sessionCookie(t, w).Value)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, requestWith(nil))
	assert.True(t, seen.IsZero())
	assert.Empty(t, w.Result().Cookies())
}

func TestNegativeMaxAgeDeletes(t *testing.T) {
	m, backend := newTestManager(t)

	w := httptest.NewRecorder()
	require.NoError(t, m.Login(w, requestWith(nil), alice))
	cookie := sessionCookie(t, w)

	r := requestWith(cookie)
	s, err := m.store.Get(r, CookieName)
	require.NoError(t, err)
	s.Options.MaxAge = -1
	w = httptest.NewRecorder()
	require.NoError(t, s.Save(r, w))

	_, err = backend.Load(context.Background(), s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisBackend(t *testing.T) {
	addr := os.Getenv("FORUM_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FORUM_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, addr, "")
	require.NoError(t, err)
	defer client.Close()

	b := NewRedisBackend(client)
	require.NoError(t, b.Save(ctx, "t1", []byte("v"), time.Minute))
	data, err := b.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)
	require.NoError(t, b.Delete(ctx, "t1"))
	_, err = b.Load(ctx, "t1")
	assert.ErrorIs(t, err, ErrNotFound)
}
