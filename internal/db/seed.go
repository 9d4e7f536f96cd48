package db

import (
	"context"
	"database/sql"
	"fmt"

	"cyberforum/internal/models"
)

const (
	adminName  = "admin"
	adminEmail = "admin@gmail.com"
)

var samplePosts = []struct{ title, content string }{
	{"Welcome to TheCyberForum", "Content for the first post"},
	{"Second Post", "Content for the second post"},
	{"Third Post", "Content for the Third post"},
}

// SeedAdmin creates the admin account when no users exist yet. It reports
// whether an account was created.
func SeedAdmin(ctx context.Context, db *sql.DB, password string) (bool, error) {
	n, err := models.CountUsers(ctx, db)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	err = models.CreateUser(ctx, db, models.User{
		Username: models.AdminUsername,
		Name:     adminName,
		Email:    adminEmail,
		Password: password,
	})
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	return true, nil
}

// SeedSample loads the bootstrap data set: the admin account and three
// welcome posts. Posts are only inserted into an empty posts table.
func SeedSample(ctx context.Context, db *sql.DB, password string) error {
	if _, err := SeedAdmin(ctx, db, password); err != nil {
		return err
	}
	posts, err := models.ListPosts(ctx, db)
	if err != nil {
		return err
	}
	if len(posts) > 0 {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, p := range samplePosts {
		if _, err := models.CreatePost(ctx, tx, p.title, p.content, adminName); err != nil {
			tx.Rollback()
			return fmt.Errorf("seed post %q: %w", p.title, err)
		}
	}
	return tx.Commit()
}
