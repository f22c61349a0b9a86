package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/circle360/api/internal/service"
)

func TestMapServiceError(t *testing.T) {
	collapsed := []error{
		service.ErrInvalidEmail,
		service.ErrInvalidNickname,
		service.ErrInvalidPublic,
		service.ErrBadGroupCode,
		service.ErrEmailExists,
		service.ErrMemberExists,
		service.ErrGroupRefExists,
		service.ErrUserNotFound,
		service.ErrUserOrGroupNotFound,
		service.ErrGroupNotFound,
		service.ErrMemberNotFound,
		service.ErrGroupRefNotFound,
		service.ErrNoGroups,
	}

	for _, err := range collapsed {
		status, message := MapServiceError(err)
		assert.Equal(t, http.StatusNotFound, status, "error %v", err)
		assert.Equal(t, err.Error(), message)
	}

	status, message := MapServiceError(errors.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "connection reset", message)

	wrapped := errors.Join(service.ErrUserNotFound, errors.New("context"))
	status, _ = MapServiceError(wrapped)
	assert.Equal(t, http.StatusNotFound, status)
}
