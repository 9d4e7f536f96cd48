// Package session keeps the logged-in identity and flash messages of each
// client in a server-side gorilla session.
package session

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

// ErrNotFound is returned by a Backend for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Backend persists encoded session values by session id.
type Backend interface {
	Load(ctx context.Context, id string) ([]byte, error)
	Save(ctx context.Context, id string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Store is a sessions.Store that keeps values in a Backend and only the
// signed session id in the cookie.
type Store struct {
	backend Backend
	Codecs  []securecookie.Codec
	Options *sessions.Options
}

// NewStore creates a Store whose sessions live for maxAge after their last save.
func NewStore(backend Backend, maxAge time.Duration, keyPairs ...[]byte) *Store {
	s := &Store{
		backend: backend,
		Codecs:  securecookie.CodecsFromPairs(keyPairs...),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   int(maxAge / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
	for _, c := range s.Codecs {
		if sc, ok := c.(*securecookie.SecureCookie); ok {
			sc.MaxAge(s.Options.MaxAge)
		}
	}
	return s
}

// Get returns the session cached for this request, loading it on first use.
func (s *Store) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie, or starts an empty one
// when the cookie is missing, forged or points at an expired session.
func (s *Store) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, s.Codecs...); err != nil {
		session.ID = ""
		return session, nil
	}
	if err := s.load(r.Context(), session); err != nil {
		session.ID = ""
		session.Values = make(map[any]any)
		return session, nil
	}
	session.IsNew = false
	return session, nil
}

// Save writes the session to the backend and refreshes the cookie. A negative
// MaxAge deletes the session.
func (s *Store) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	ctx := r.Context()
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.backend.Delete(ctx, session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if err := s.save(ctx, session); err != nil {
		return err
	}
	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Renew drops the backend record of session and clears its id so the next
// Save stores the same values under a fresh id.
func (s *Store) Renew(r *http.Request, session *sessions.Session) error {
	if session.ID != "" {
		if err := s.backend.Delete(r.Context(), session.ID); err != nil {
			return err
		}
	}
	session.ID = ""
	return nil
}

func (s *Store) save(ctx context.Context, session *sessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session.Values); err != nil {
		return fmt.Errorf("failed to encode session values: %w", err)
	}
	maxAge := session.Options.MaxAge
	if maxAge == 0 {
		maxAge = s.Options.MaxAge
	}
	return s.backend.Save(ctx, session.ID, buf.Bytes(), time.Duration(maxAge)*time.Second)
}

func (s *Store) load(ctx context.Context, session *sessions.Session) error {
	data, err := s.backend.Load(ctx, session.ID)
	if err != nil {
		return err
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&session.Values); err != nil {
		return fmt.Errorf("failed to decode session data: %w", err)
	}
	return nil
}
