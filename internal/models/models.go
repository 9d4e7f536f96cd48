package models

// AdminUsername is the only identity allowed to register new users.
const AdminUsername = "admin"

// Timestamps are ISO-8601 strings exactly as stored in SQLite.

type User struct {
	Username    string
	Name        string
	Email       string
	Password    string
	MemberSince string
}

// Session is the identity snapshot copied from a User at login time. It is
// never re-read from the users table afterwards.
type Session struct {
	Username    string
	Name        string
	Email       string
	MemberSince string
}

// IsZero reports whether s carries no identity.
func (s Session) IsZero() bool {
	return s.Username == ""
}

type Post struct {
	ID      int64
	Title   string
	Content string
	Author  string
	Created string
}

type Comment struct {
	ID      int64
	PostID  int64
	Author  string
	Content string
}
