package http

import (
	"context"
	"net/http"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/internal/http/middleware"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

type GroupHandler struct {
	service  domain.GroupService
	verifier middleware.TokenVerifier
	logger   logger.Logger
}

func NewGroupHandler(service domain.GroupService, verifier middleware.TokenVerifier, logger logger.Logger) *GroupHandler {
	return &GroupHandler{
		service:  service,
		verifier: verifier,
		logger:   logger,
	}
}

func (h *GroupHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := middleware.NewAuthMiddleware(h.verifier).RequireAuth()

	mux.Handle("/api/groups.list", requireAuth(http.HandlerFunc(h.handleList)))
	mux.Handle("/api/groups.permissions", requireAuth(http.HandlerFunc(h.handlePermissions)))
	mux.Handle("/api/groups.create", requireAuth(http.HandlerFunc(h.handleCreate)))
	mux.Handle("/api/groups.update", requireAuth(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("/api/groups.delete", requireAuth(http.HandlerFunc(h.handleDelete)))
	mux.Handle("/api/groups.addUsers", requireAuth(http.HandlerFunc(h.handleAddUsers)))
	mux.Handle("/api/groups.removeUsers", requireAuth(http.HandlerFunc(h.handleRemoveUsers)))
}

func (h *GroupHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	var req domain.ListGroupsRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, clientMessage(err), http.StatusBadRequest)
		return
	}

	groups, err := h.service.ListGroups(r.Context(), req.TeamID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list groups")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"groups": groups,
	})
}

func (h *GroupHandler) handlePermissions(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	var req domain.ListGroupsRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, clientMessage(err), http.StatusBadRequest)
		return
	}

	permissions, err := h.service.GetUserPermissions(r.Context(), req.TeamID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get permissions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"permissions": permissions,
	})
}

func (h *GroupHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req domain.CreateGroupRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	group, err := h.service.CreateGroup(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create group")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"group": group,
	})
}

func (h *GroupHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req domain.UpdateGroupRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	group, err := h.service.UpdateGroup(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update group")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"group": group,
	})
}

func (h *GroupHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req domain.DeleteGroupsRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, clientMessage(err), http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteGroups(r.Context(), req.TeamID, req.IDs); err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete groups")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *GroupHandler) handleAddUsers(w http.ResponseWriter, r *http.Request) {
	h.handleUsers(w, r, h.service.AddUsersToGroup, "Failed to add users to group")
}

func (h *GroupHandler) handleRemoveUsers(w http.ResponseWriter, r *http.Request) {
	h.handleUsers(w, r, h.service.RemoveUsersFromGroup, "Failed to remove users from group")
}

func (h *GroupHandler) handleUsers(w http.ResponseWriter, r *http.Request, mutate func(ctx context.Context, teamID, groupID string, userIDs []string) error, failure string) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req domain.GroupUsersRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, clientMessage(err), http.StatusBadRequest)
		return
	}

	if err := mutate(r.Context(), req.TeamID, req.GroupID, req.UserIDs); err != nil {
		writeServiceError(w, h.logger, err, failure)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
