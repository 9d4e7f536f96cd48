package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

var (
	ErrNoRecord          = errors.New("no matching record found")
	ErrDuplicateUsername = errors.New("username already exists")
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const postColumns = `id, title, content, author, created`

func CreateUser(ctx context.Context, q Querier, u User) error {
	if u.MemberSince == "" {
		u.MemberSince = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO users (username, name, email, password, member_since) VALUES (?, ?, ?, ?, ?)`,
		u.Username, u.Name, u.Email, u.Password, u.MemberSince)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func GetUserByUsername(ctx context.Context, q Querier, username string) (*User, error) {
	row := q.QueryRowContext(ctx,
		`SELECT username, name, email, password, member_since FROM users WHERE username = ?`, username)
	var u User
	if err := row.Scan(&u.Username, &u.Name, &u.Email, &u.Password, &u.MemberSince); err != nil {
		return nil, noRecord(err)
	}
	return &u, nil
}

func CountUsers(ctx context.Context, q Querier) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func CreatePost(ctx context.Context, q Querier, title, content, author string) (int64, error) {
	res, err := q.ExecContext(ctx,
		`INSERT INTO posts (title, content, author) VALUES (?, ?, ?)`, title, content, author)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}
	return res.LastInsertId()
}

func GetPost(ctx context.Context, q Querier, id int64) (*Post, error) {
	row := q.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	var p Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Author, &p.Created); err != nil {
		return nil, noRecord(err)
	}
	return &p, nil
}

func ListPosts(ctx context.Context, q Querier) ([]Post, error) {
	return queryPosts(ctx, q, `SELECT `+postColumns+` FROM posts ORDER BY id ASC`)
}

func ListPostsByAuthor(ctx context.Context, q Querier, author string) ([]Post, error) {
	return queryPosts(ctx, q, `SELECT `+postColumns+` FROM posts WHERE author = ? ORDER BY id ASC`, author)
}

// SearchPosts returns posts whose title or content contains term. LIKE
// wildcards in term are matched literally.
func SearchPosts(ctx context.Context, q Querier, term string) ([]Post, error) {
	pattern := likeContains(term)
	return queryPosts(ctx, q,
		`SELECT `+postColumns+` FROM posts
		WHERE title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\'
		ORDER BY id ASC`, pattern, pattern)
}

func UpdatePost(ctx context.Context, q Querier, id int64, title, content string) error {
	res, err := q.ExecContext(ctx, `UPDATE posts SET title = ?, content = ? WHERE id = ?`, title, content, id)
	if err != nil {
		return fmt.Errorf("update post %d: %w", id, err)
	}
	return affected(res)
}

func DeletePost(ctx context.Context, q Querier, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return affected(res)
}

func CreateComment(ctx context.Context, q Querier, postID int64, author, content string) (int64, error) {
	res, err := q.ExecContext(ctx,
		`INSERT INTO comments (post_id, author, content) VALUES (?, ?, ?)`, postID, author, content)
	if err != nil {
		return 0, fmt.Errorf("insert comment: %w", err)
	}
	return res.LastInsertId()
}

func ListComments(ctx context.Context, q Querier, postID int64) ([]Comment, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, post_id, author, content FROM comments WHERE post_id = ? ORDER BY id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cs []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Author, &c.Content); err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return cs, rows.Err()
}

// SaveSession inserts or replaces the encoded values of a session.
func SaveSession(ctx context.Context, q Querier, id string, data []byte, expires time.Time) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO sessions (id, data, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at`,
		id, data, expires.Unix())
	return err
}

// GetSession returns the encoded values of an unexpired session.
func GetSession(ctx context.Context, q Querier, id string, now time.Time) ([]byte, error) {
	var data []byte
	err := q.QueryRowContext(ctx,
		`SELECT data FROM sessions WHERE id = ? AND expires_at > ?`, id, now.Unix()).Scan(&data)
	if err != nil {
		return nil, noRecord(err)
	}
	return data, nil
}

func DeleteSession(ctx context.Context, q Querier, id string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// DeleteExpiredSessions removes every session that expired at or before now
// and returns how many were removed.
func DeleteExpiredSessions(ctx context.Context, q Querier, now time.Time) (int64, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func queryPosts(ctx context.Context, q Querier, query string, args ...any) ([]Post, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Author, &p.Created); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likeContains(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRecord
	}
	return nil
}

func noRecord(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRecord
	}
	return err
}
