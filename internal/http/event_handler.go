package http

import (
	"net/http"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/internal/http/middleware"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

type EventHandler struct {
	service  domain.EventService
	verifier middleware.TokenVerifier
	logger   logger.Logger
}

func NewEventHandler(service domain.EventService, verifier middleware.TokenVerifier, logger logger.Logger) *EventHandler {
	return &EventHandler{
		service:  service,
		verifier: verifier,
		logger:   logger,
	}
}

func (h *EventHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := middleware.NewAuthMiddleware(h.verifier).RequireAuth()

	mux.Handle("/api/events.participants", requireAuth(http.HandlerFunc(h.handleParticipants)))
	mux.Handle("/api/events.addParticipant", requireAuth(http.HandlerFunc(h.handleAddParticipant)))
}

func (h *EventHandler) handleParticipants(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	var req domain.ListParticipantsRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, clientMessage(err), http.StatusBadRequest)
		return
	}

	participants, err := h.service.ListParticipants(r.Context(), req.TeamID, req.EventID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list participants")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"participants": participants,
	})
}

func (h *EventHandler) handleAddParticipant(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req domain.AddParticipantRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	participant, err := h.service.AddParticipant(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to add participant")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"participant": participant,
	})
}
