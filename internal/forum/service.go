// Package forum holds the posts, comments and accounts logic of the forum.
// Every mutating operation takes the caller's session snapshot explicitly.
package forum

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cyberforum/internal/logger"
	"cyberforum/internal/models"
)

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) ListPosts(ctx context.Context) ([]models.Post, error) {
	return models.ListPosts(ctx, s.db)
}

func (s *Service) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	p, err := models.GetPost(ctx, s.db, id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// CreatePost stores a post authored by the caller's display name.
func (s *Service) CreatePost(ctx context.Context, who models.Session, in PostInput) (*models.Post, error) {
	if who.IsZero() {
		return nil, ErrAuthRequired
	}
	in = in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	id, err := models.CreatePost(ctx, s.db, in.Title, in.Content, who.Name)
	if err != nil {
		return nil, err
	}
	logger.Infof("post %d created by %s", id, who.Username)
	return s.GetPost(ctx, id)
}

// UpdatePost replaces title and content of an existing post. Any
// authenticated caller may edit any post.
func (s *Service) UpdatePost(ctx context.Context, who models.Session, id int64, in PostInput) (*models.Post, error) {
	if who.IsZero() {
		return nil, ErrAuthRequired
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, err := models.GetPost(ctx, tx, id)
	if err != nil {
		return nil, notFound(err)
	}
	in = in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := models.UpdatePost(ctx, tx, id, in.Title, in.Content); err != nil {
		return nil, writeError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	p.Title, p.Content = in.Title, in.Content
	logger.Infof("post %d updated by %s", id, who.Username)
	return p, nil
}

// DeletePost removes a post and returns it as it was. Comments on the post
// are left in place.
func (s *Service) DeletePost(ctx context.Context, who models.Session, id int64) (*models.Post, error) {
	if who.IsZero() {
		return nil, ErrAuthRequired
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, err := models.GetPost(ctx, tx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := models.DeletePost(ctx, tx, id); err != nil {
		return nil, writeError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	logger.Infof("post %d deleted by %s", id, who.Username)
	return p, nil
}

// ListComments never fails for an unknown post, it just finds nothing.
func (s *Service) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	return models.ListComments(ctx, s.db, postID)
}

// AddComment attaches a comment to postID without checking that the post
// exists.
func (s *Service) AddComment(ctx context.Context, who models.Session, postID int64, in CommentInput) (*models.Comment, error) {
	if who.IsZero() {
		return nil, ErrAuthRequired
	}
	in = in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	id, err := models.CreateComment(ctx, s.db, postID, who.Name, in.Content)
	if err != nil {
		return nil, err
	}
	return &models.Comment{ID: id, PostID: postID, Author: who.Name, Content: in.Content}, nil
}

// SearchPosts matches query case-insensitively against title and content.
// A blank query matches nothing.
func (s *Service) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Post{}, nil
	}
	return models.SearchPosts(ctx, s.db, query)
}

// ProfilePosts lists the posts written under the caller's display name.
func (s *Service) ProfilePosts(ctx context.Context, who models.Session) ([]models.Post, error) {
	if who.IsZero() {
		return nil, ErrAuthRequired
	}
	return models.ListPostsByAuthor(ctx, s.db, who.Name)
}

func notFound(err error) error {
	if errors.Is(err, models.ErrNoRecord) {
		return ErrNotFound
	}
	return fmt.Errorf("post lookup: %w", err)
}

// writeError keeps the statement context models already attached.
func writeError(err error) error {
	if errors.Is(err, models.ErrNoRecord) {
		return ErrNotFound
	}
	return err
}
