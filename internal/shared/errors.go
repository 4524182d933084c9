package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates invalid user input.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden indicates the actor lacks permission.
	ErrForbidden = errors.New("forbidden")
)

// UserMessager is implemented by errors that carry a message safe to show end users.
type UserMessager interface {
	UserMessage() string
}

// UserSafeMessage returns a message that can be surfaced to end users.
// Server-provided details win over local error text; unknown errors fall
// back to a generic message rather than leaking internals.
func UserSafeMessage(err error) string {
	if err == nil {
		return ""
	}
	var um UserMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "The requested record could not be found."
	case errors.Is(err, ErrValidation):
		return err.Error()
	case errors.Is(err, ErrForbidden):
		return "You do not have permission to perform this action."
	}
	return "Something went wrong. Please try again."
}
