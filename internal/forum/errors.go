package forum

import "errors"

var (
	ErrNotFound          = errors.New("post not found")
	ErrAuthRequired      = errors.New("authentication required")
	ErrForbidden         = errors.New("only admin can register new users")
	ErrUserNotFound      = errors.New("username does not exist")
	ErrBadCredentials    = errors.New("password is incorrect")
	ErrDuplicateUsername = errors.New("username already exists")
)

// ValidationError is a rejected form field. Message is shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation returns the ValidationError wrapped in err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
