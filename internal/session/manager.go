package session

import (
	"context"
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"

	"cyberforum/internal/logger"
	"cyberforum/internal/models"
)

const (
	CookieName  = "forum_session"
	identityKey = "identity"
)

func init() {
	gob.Register(models.Session{})
}

type contextKey struct{}

// FromContext returns the identity attached by Manager.Middleware. The zero
// Session means the request is anonymous.
func FromContext(ctx context.Context) models.Session {
	who, _ := ctx.Value(contextKey{}).(models.Session)
	return who
}

// WithIdentity returns a copy of ctx carrying who.
func WithIdentity(ctx context.Context, who models.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, who)
}

// Manager reads and writes the forum session of a request.
type Manager struct {
	store sessions.Store
}

func NewManager(store sessions.Store) *Manager {
	return &Manager{store: store}
}

func (m *Manager) session(r *http.Request) *sessions.Session {
	s, err := m.store.Get(r, CookieName)
	if err != nil {
		logger.Warningf("session load failed: %v", err)
	}
	return s
}

// Current returns the identity stored in the request's session.
func (m *Manager) Current(r *http.Request) (models.Session, bool) {
	if who, ok := m.session(r).Values[identityKey].(models.Session); ok && !who.IsZero() {
		return who, true
	}
	return models.Session{}, false
}

type renewer interface {
	Renew(r *http.Request, session *sessions.Session) error
}

// Login stores who as the session identity under a freshly issued session id.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, who models.Session) error {
	s := m.session(r)
	if rn, ok := m.store.(renewer); ok {
		if err := rn.Renew(r, s); err != nil {
			return err
		}
	}
	s.Values[identityKey] = who
	return s.Save(r, w)
}

// Destroy forgets the session identity. Calling it on an anonymous session
// is a no-op apart from refreshing the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	s := m.session(r)
	delete(s.Values, identityKey)
	return s.Save(r, w)
}

// AddFlash queues a message for the next rendered page.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, msg string) {
	s := m.session(r)
	s.AddFlash(msg)
	if err := s.Save(r, w); err != nil {
		logger.Errorf("flash save failed: %v", err)
	}
}

// Flashes pops every queued message.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []string {
	s := m.session(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := s.Save(r, w); err != nil {
		logger.Errorf("flash save failed: %v", err)
	}
	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// Middleware attaches the session identity to the request context and slides
// the expiry of authenticated sessions forward.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		who, ok := m.Current(r)
		if ok {
			if err := m.session(r).Save(r, w); err != nil {
				logger.Warningf("session refresh failed for %s: %v", who.Username, err)
			}
			r = r.WithContext(WithIdentity(r.Context(), who))
		}
		next.ServeHTTP(w, r)
	})
}
