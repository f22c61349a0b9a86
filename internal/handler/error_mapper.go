package handler

import (
	"errors"
	"net/http"

	"github.com/circle360/api/internal/service"
)

// MapServiceError converts a service error to an HTTP status and message.
// This centralizes error handling for all handlers. The status space is
// deliberately coarse: validation, conflict, and not-found failures all
// map to 404, which is what clients of this API key off.
func MapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidNickname),
		errors.Is(err, service.ErrInvalidPublic),
		errors.Is(err, service.ErrBadGroupCode),
		errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrMemberExists),
		errors.Is(err, service.ErrGroupRefExists),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrUserOrGroupNotFound),
		errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrGroupRefNotFound),
		errors.Is(err, service.ErrNoGroups):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// WriteServiceError maps and writes a service error in one step.
func WriteServiceError(w http.ResponseWriter, err error) {
	status, message := MapServiceError(err)
	WriteError(w, status, message)
}
