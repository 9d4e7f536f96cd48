package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberforum/internal/models"
)

func TestOpenCreatesDirectoryAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "forum.db")
	database, err := Open(path)
	require.NoError(t, err)
	defer database.Close()

	for _, table := range []string{"users", "posts", "comments", "sessions"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, table)
	}

	// migrating twice is harmless
	require.NoError(t, migrate(database))
}

func TestOpenUsesWALJournal(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "forum.db"))
	require.NoError(t, err)
	defer database.Close()

	var mode string
	require.NoError(t, database.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
	assert.Contains(t, dsn("forum.db"), "_txlock=immediate")
}

func TestSeedAdminOnlyOnce(t *testing.T) {
	ctx := context.Background()
	database, err := Open(filepath.Join(t.TempDir(), "forum.db"))
	require.NoError(t, err)
	defer database.Close()

	created, err := SeedAdmin(ctx, database, "secret")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = SeedAdmin(ctx, database, "other")
	require.NoError(t, err)
	assert.False(t, created)

	u, err := models.GetUserByUsername(ctx, database, models.AdminUsername)
	require.NoError(t, err)
	assert.Equal(t, "secret", u.Password)
	assert.NotEmpty(t, u.MemberSince)
}

func TestSeedSample(t *testing.T) {
	ctx := context.Background()
	database, err := Open(filepath.Join(t.TempDir(), "forum.db"))
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, SeedSample(ctx, database, "admin"))
	require.NoError(t, SeedSample(ctx, database, "admin"))

	posts, err := models.ListPosts(ctx, database)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "Welcome to TheCyberForum", posts[0].Title)
	assert.Equal(t, "admin", posts[0].Author)
}
