package models_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberforum/internal/db"
	"cyberforum/internal/models"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestCreateUserDuplicate(t *testing.T) {
	ctx := context.Background()
	database := openDB(t)
	u := models.User{Username: "alice", Name: "Alice", Email: "a@b.com", Password: "pw"}
	require.NoError(t, models.CreateUser(ctx, database, u))
	assert.ErrorIs(t, models.CreateUser(ctx, database, u), models.ErrDuplicateUsername)

	_, err := models.GetUserByUsername(ctx, database, "bob")
	assert.ErrorIs(t, err, models.ErrNoRecord)
}

func TestSearchPosts(t *testing.T) {
	ctx := context.Background()
	database := openDB(t)
	_, err := models.CreatePost(ctx, database, "Welcome to TheCyberForum", "first", "admin")
	require.NoError(t, err)
	_, err = models.CreatePost(ctx, database, "Discount", "100% off today", "admin")
	require.NoError(t, err)
	_, err = models.CreatePost(ctx, database, "snake_case", "naming", "admin")
	require.NoError(t, err)

	got, err := models.SearchPosts(ctx, database, "WELCOME")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Welcome to TheCyberForum", got[0].Title)

	got, err = models.SearchPosts(ctx, database, "%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Discount", got[0].Title)

	got, err = models.SearchPosts(ctx, database, "e_c")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "snake_case", got[0].Title)

	got, err = models.SearchPosts(ctx, database, "first")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDeletePostKeepsComments(t *testing.T) {
	ctx := context.Background()
	database := openDB(t)
	id, err := models.CreatePost(ctx, database, "t", "c", "admin")
	require.NoError(t, err)
	_, err = models.CreateComment(ctx, database, id, "admin", "hi")
	require.NoError(t, err)

	require.NoError(t, models.DeletePost(ctx, database, id))
	assert.ErrorIs(t, models.DeletePost(ctx, database, id), models.ErrNoRecord)

	comments, err := models.ListComments(ctx, database, id)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestUpdateMissingPost(t *testing.T) {
	database := openDB(t)
	err := models.UpdatePost(context.Background(), database, 42, "t", "c")
	assert.ErrorIs(t, err, models.ErrNoRecord)
}

func TestSessionsExpire(t *testing.T) {
	ctx := context.Background()
	database := openDB(t)
	now := time.Now()

	require.NoError(t, models.SaveSession(ctx, database, "live", []byte("a"), now.Add(time.Hour)))
	require.NoError(t, models.SaveSession(ctx, database, "dead", []byte("b"), now.Add(-time.Hour)))
	require.NoError(t, models.SaveSession(ctx, database, "live", []byte("c"), now.Add(2*time.Hour)))

	data, err := models.GetSession(ctx, database, "live", now)
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), data)

	_, err = models.GetSession(ctx, database, "dead", now)
	assert.ErrorIs(t, err, models.ErrNoRecord)

	n, err := models.DeleteExpiredSessions(ctx, database, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
