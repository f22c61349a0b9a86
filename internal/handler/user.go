package handler

import (
	"net/http"
	"strconv"

	"github.com/circle360/api/internal/model"
	"github.com/circle360/api/internal/service"
)

// UserHandler handles user endpoints
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers handles GET /user/all/{limit}
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.PathValue("limit"))
	if err != nil || limit < 0 {
		WriteError(w, http.StatusNotFound, "limit is not valid")
		return
	}

	users, err := h.userService.List(r.Context(), limit)
	if err != nil {
		WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "failed to fetch users from DB",
			"error":   err.Error(),
		})
		return
	}
	WriteSuccess(w, http.StatusOK, "user", users)
}

// GetManyUsers handles GET /user/many. The emails come from repeated
// email query parameters.
func (h *UserHandler) GetManyUsers(w http.ResponseWriter, r *http.Request) {
	emails := r.URL.Query()["email"]

	users, err := h.userService.GetMany(r.Context(), emails)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "user", users)
}

// GetUser handles GET /user?email=...
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "user", user)
}

// CreateUser handles POST /user
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Create(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, http.StatusCreated, "user", user)
}

// UpdateUser handles PUT /user
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Update(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "user", user)
}

// UpsertUser handles PUT /user/upsert
func (h *UserHandler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Upsert(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "user", user)
}

// DeleteUser handles DELETE /user
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req model.EmailRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userService.Delete(r.Context(), req.Email); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "response", "user deleted successfully")
}

// GetMyGroups handles GET /user/group/all?email=...
func (h *UserHandler) GetMyGroups(w http.ResponseWriter, r *http.Request) {
	view, err := h.userService.MyGroups(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "user", view)
}

// GetGroupRef handles GET /user/group/{groupID}?email=...
// A user with no entry for the group still gets a success envelope with a
// null payload.
func (h *UserHandler) GetGroupRef(w http.ResponseWriter, r *http.Request) {
	ref, err := h.userService.GetGroupRef(r.Context(), r.URL.Query().Get("email"), r.PathValue("groupID"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "user", ref)
}

// AddGroupRef handles POST /user/group/{groupID}
func (h *UserHandler) AddGroupRef(w http.ResponseWriter, r *http.Request) {
	var req model.GroupRefRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.AddGroupRef(r.Context(), r.PathValue("groupID"), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, http.StatusCreated, "user", user)
}

// UpdateGroupRef handles PUT /user/group/{groupID}
func (h *UserHandler) UpdateGroupRef(w http.ResponseWriter, r *http.Request) {
	var req model.GroupRefRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.UpdateGroupRef(r.Context(), r.PathValue("groupID"), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "user", user)
}

// RemoveGroupRef handles DELETE /user/group/{groupID}
func (h *UserHandler) RemoveGroupRef(w http.ResponseWriter, r *http.Request) {
	var req model.EmailRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.RemoveGroupRef(r.Context(), r.PathValue("groupID"), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "user", user)
}
