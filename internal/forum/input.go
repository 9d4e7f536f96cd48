package forum

import "strings"

// PostInput is the create/edit post form.
type PostInput struct {
	Title   string
	Content string
}

func (in PostInput) normalize() PostInput {
	return PostInput{Title: strings.TrimSpace(in.Title), Content: strings.TrimSpace(in.Content)}
}

func (in PostInput) validate() error {
	if in.Title == "" {
		return invalid("title", "Title is needed!")
	}
	return nil
}

// CommentInput is the add-comment form.
type CommentInput struct {
	Content string
}

func (in CommentInput) normalize() CommentInput {
	return CommentInput{Content: strings.TrimSpace(in.Content)}
}

func (in CommentInput) validate() error {
	if in.Content == "" {
		return invalid("comment", "Comment cannot be empty")
	}
	return nil
}

// LoginInput is the login form. Passwords are never trimmed.
type LoginInput struct {
	Username string
	Password string
}

func (in LoginInput) normalize() LoginInput {
	return LoginInput{Username: strings.TrimSpace(in.Username), Password: in.Password}
}

func (in LoginInput) validate() error {
	switch {
	case in.Username == "":
		return invalid("username", "Username is needed!")
	case in.Password == "":
		return invalid("password", "Password is needed!")
	}
	return nil
}

// RegisterInput is the admin-only registration form.
type RegisterInput struct {
	Username string
	Name     string
	Email    string
	Password string
	Confirm  string
}

func (in RegisterInput) normalize() RegisterInput {
	return RegisterInput{
		Username: strings.TrimSpace(in.Username),
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
		Confirm:  in.Confirm,
	}
}

// validate reports the first failing field only.
func (in RegisterInput) validate() error {
	switch {
	case in.Username == "":
		return invalid("username", "Username is needed!")
	case in.Name == "":
		return invalid("name", "Name is needed!")
	case in.Email == "":
		return invalid("email", "Email is needed!")
	case in.Password == "":
		return invalid("password", "Password is needed!")
	case in.Password != in.Confirm:
		return invalid("confirm", "Passwords do not match!")
	}
	return nil
}

// ContactInput is the contact-us form.
type ContactInput struct {
	Name    string
	Email   string
	Issue   string
	Subject string
	Message string
}

func (in ContactInput) normalize() ContactInput {
	return ContactInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Issue:   strings.TrimSpace(in.Issue),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
}

func (in ContactInput) validate() error {
	switch {
	case in.Name == "":
		return invalid("name", "Name is needed!")
	case in.Email == "":
		return invalid("email", "Email is needed!")
	case in.Issue == "":
		return invalid("issue", "Issue is needed!")
	case in.Subject == "":
		return invalid("subject", "Subject is needed!")
	case in.Message == "":
		return invalid("message", "Message is needed!")
	}
	return nil
}
