package handler

import (
	"net/http"
	"strconv"

	"github.com/circle360/api/internal/model"
	"github.com/circle360/api/internal/service"
)

// GroupHandler handles group endpoints
type GroupHandler struct {
	groupService *service.GroupService
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// ListGroups handles GET /group/all/{limit}
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.PathValue("limit"))
	if err != nil || limit < 0 {
		WriteError(w, http.StatusNotFound, "limit is not valid")
		return
	}

	groups, err := h.groupService.List(r.Context(), limit)
	if err != nil {
		status, message := MapServiceError(err)
		if status == http.StatusInternalServerError {
			WriteJSON(w, status, map[string]interface{}{
				"success": false,
				"message": "Failed to fetch groups from DB",
				"error":   err.Error(),
			})
			return
		}
		WriteError(w, status, message)
		return
	}
	WriteSuccess(w, http.StatusOK, "group", groups)
}

// GetGroup handles GET /group/{groupCode}
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.groupService.Get(r.Context(), r.PathValue("groupCode"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "group", group)
}

// CreateGroup handles POST /group
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req model.CreateGroupRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := h.groupService.Create(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, http.StatusCreated, "group", group)
}

// UpdateGroup handles PUT /group/{groupCode}
func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateGroupRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := h.groupService.UpdateVisibility(r.Context(), r.PathValue("groupCode"), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "group", group)
}

// DeleteGroup handles DELETE /group/{groupCode}
func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.groupService.Delete(r.Context(), r.PathValue("groupCode")); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "response", "group deleted successfully")
}

// AddMember handles POST /group/user/{groupCode}
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req model.EmailRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := h.groupService.AddMember(r.Context(), r.PathValue("groupCode"), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccessExtra(w, http.StatusOK, map[string]interface{}{
		"message": "user added to group",
		"group":   group,
	})
}

// ResolveMember handles PUT /group/user/{groupCode}
func (h *GroupHandler) ResolveMember(w http.ResponseWriter, r *http.Request) {
	var req model.ResolveMemberRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := h.groupService.ResolveMember(r.Context(), r.PathValue("groupCode"), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "group", group)
}

// RemoveMember handles DELETE /group/user/{groupCode}
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	var req model.EmailRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := h.groupService.RemoveMember(r.Context(), r.PathValue("groupCode"), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "group", group)
}
