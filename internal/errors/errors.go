package errors

import (
	"errors"
	"net/http"
	"time"
)

var (
	// ErrUserNotFound is returned when a user record is absent.
	ErrUserNotFound = errors.New("user not found")
	// ErrPropertyNotFound is returned when a listing is absent.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrImageNotFound is returned when an image is absent or belongs to another listing.
	ErrImageNotFound = errors.New("image not found")
	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized is returned when a request carries no authenticated identity.
	ErrUnauthorized = errors.New("not authenticated")
	// ErrForbidden is returned when the caller does not own the listing.
	ErrForbidden = errors.New("you can only modify your own listings")
	// ErrInvalidFile is returned when an uploaded file is not an image or too large.
	ErrInvalidFile = errors.New("only image files up to 5MB are allowed")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// ErrorResponse is the structured body returned for every failed request.
type ErrorResponse struct {
	Timestamp   time.Time         `json:"timestamp"`
	Status      int               `json:"status"`
	Error       string            `json:"error"`
	Message     string            `json:"message"`
	Path        string            `json:"path"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

// HTTPError carries an HTTP status alongside a domain error.
type HTTPError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, kind, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Kind:       kind,
		Message:    message,
	}
}

// ToErrorResponse converts an HTTPError to the wire body for the given path.
func (e *HTTPError) ToErrorResponse(path string) ErrorResponse {
	return ErrorResponse{
		Timestamp: time.Now(),
		Status:    e.StatusCode,
		Error:     e.Kind,
		Message:   e.Message,
		Path:      path,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors collapse to
// a generic 500 so internals never leak to the caller.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrPropertyNotFound),
		errors.Is(err, ErrImageNotFound):
		return NewHTTPError(http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, ErrInvalidFile):
		return NewHTTPError(http.StatusBadRequest, "Invalid File", err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "Internal Server Error", "an unexpected error occurred")
	}
}
