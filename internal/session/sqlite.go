package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cyberforum/internal/models"
)

// SQLBackend keeps sessions in the forum database's sessions table.
type SQLBackend struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLBackend(db *sql.DB) *SQLBackend {
	return &SQLBackend{db: db, now: time.Now}
}

func (b *SQLBackend) Load(ctx context.Context, id string) ([]byte, error) {
	data, err := models.GetSession(ctx, b.db, id, b.now())
	if errors.Is(err, models.ErrNoRecord) {
		return nil, ErrNotFound
	}
	return data, err
}

func (b *SQLBackend) Save(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	return models.SaveSession(ctx, b.db, id, data, b.now().Add(ttl))
}

func (b *SQLBackend) Delete(ctx context.Context, id string) error {
	return models.DeleteSession(ctx, b.db, id)
}

// Purge drops expired sessions and reports how many were dropped.
func (b *SQLBackend) Purge(ctx context.Context) (int64, error) {
	return models.DeleteExpiredSessions(ctx, b.db, b.now())
}
