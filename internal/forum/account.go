package forum

import (
	"context"
	"errors"
	"strings"

	"cyberforum/internal/logger"
	"cyberforum/internal/models"
)

// Authenticate checks a username and a plaintext password and returns the
// identity snapshot to keep in the session.
func (s *Service) Authenticate(ctx context.Context, in LoginInput) (models.Session, error) {
	in = in.normalize()
	if err := in.validate(); err != nil {
		return models.Session{}, err
	}
	u, err := models.GetUserByUsername(ctx, s.db, in.Username)
	if errors.Is(err, models.ErrNoRecord) {
		return models.Session{}, ErrUserNotFound
	}
	if err != nil {
		return models.Session{}, err
	}
	if u.Password != in.Password {
		logger.Warningf("failed login for %s", in.Username)
		return models.Session{}, ErrBadCredentials
	}
	return models.Session{
		Username:    u.Username,
		Name:        u.Name,
		Email:       u.Email,
		MemberSince: u.MemberSince,
	}, nil
}

// Register creates a user. Only the admin identity may register users; any
// other caller is refused before the form is looked at.
func (s *Service) Register(ctx context.Context, who models.Session, in RegisterInput) (*models.User, error) {
	if !IsAdmin(who) {
		return nil, ErrForbidden
	}
	in = in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	u := models.User{
		Username: in.Username,
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
	}
	if err := models.CreateUser(ctx, s.db, u); err != nil {
		if errors.Is(err, models.ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	logger.Infof("user %s registered", u.Username)
	return models.GetUserByUsername(ctx, s.db, u.Username)
}

// IsAdmin reports whether who may register users.
func IsAdmin(who models.Session) bool {
	return who.Username == models.AdminUsername
}

// Contact validates a contact-us message. Messages are logged, not stored.
func (s *Service) Contact(ctx context.Context, in ContactInput) error {
	in = in.normalize()
	if err := in.validate(); err != nil {
		return err
	}
	logger.Infof("contact message from %s <%s> [%s] %s", in.Name, in.Email, in.Issue, in.Subject)
	return nil
}

// Subscribe accepts a newsletter address. Addresses are not stored.
func (s *Service) Subscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("email", "Please enter a valid email")
	}
	logger.Infof("newsletter subscription for %s", email)
	return nil
}
