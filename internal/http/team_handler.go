package http

import (
	"net/http"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/internal/http/middleware"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

type TeamHandler struct {
	service  domain.TeamService
	verifier middleware.TokenVerifier
	logger   logger.Logger
}

func NewTeamHandler(service domain.TeamService, verifier middleware.TokenVerifier, logger logger.Logger) *TeamHandler {
	return &TeamHandler{
		service:  service,
		verifier: verifier,
		logger:   logger,
	}
}

func (h *TeamHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := middleware.NewAuthMiddleware(h.verifier).RequireAuth()

	mux.Handle("/api/teams.addMember", requireAuth(http.HandlerFunc(h.handleAddMember)))
	mux.Handle("/api/teams.removeMember", requireAuth(http.HandlerFunc(h.handleRemoveMember)))
}

func (h *TeamHandler) handleAddMember(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req domain.TeamMemberRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, clientMessage(err), http.StatusBadRequest)
		return
	}

	if err := h.service.AddMember(r.Context(), req.TeamID, req.UserID); err != nil {
		writeServiceError(w, h.logger, err, "Failed to add team member")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *TeamHandler) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req domain.TeamMemberRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, clientMessage(err), http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveMember(r.Context(), req.TeamID, req.UserID); err != nil {
		writeServiceError(w, h.logger, err, "Failed to remove team member")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
