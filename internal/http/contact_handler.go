package http

import (
	"net/http"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/internal/http/middleware"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

type ContactHandler struct {
	service  domain.ContactService
	verifier middleware.TokenVerifier
	logger   logger.Logger
}

func NewContactHandler(service domain.ContactService, verifier middleware.TokenVerifier, logger logger.Logger) *ContactHandler {
	return &ContactHandler{
		service:  service,
		verifier: verifier,
		logger:   logger,
	}
}

func (h *ContactHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := middleware.NewAuthMiddleware(h.verifier).RequireAuth()

	mux.Handle("/api/contacts.search", requireAuth(http.HandlerFunc(h.handleSearch)))
	mux.Handle("/api/contacts.get", requireAuth(http.HandlerFunc(h.handleGet)))
	mux.Handle("/api/contacts.create", requireAuth(http.HandlerFunc(h.handleCreate)))
	mux.Handle("/api/contacts.update", requireAuth(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("/api/contacts.delete", requireAuth(http.HandlerFunc(h.handleDelete)))
	mux.Handle("/api/contacts.changes", requireAuth(http.HandlerFunc(h.handleChanges)))
}

func (h *ContactHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	var req domain.SearchContactsRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, clientMessage(err), http.StatusBadRequest)
		return
	}

	contacts, err := h.service.SearchContacts(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to search contacts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"contacts": contacts,
	})
}

func (h *ContactHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	teamID, id, err := teamResourceParams(r.URL.Query(), "id")
	if err != nil {
		WriteJSONError(w, clientMessage(err), http.StatusBadRequest)
		return
	}

	contact, err := h.service.GetContact(r.Context(), teamID, id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get contact")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"contact": contact,
	})
}

func (h *ContactHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req domain.CreateContactRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	contact, err := h.service.CreateContact(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create contact")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"contact": contact,
	})
}

func (h *ContactHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req domain.UpdateContactRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	contact, err := h.service.UpdateContact(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update contact")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"contact": contact,
	})
}

func (h *ContactHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req domain.DeleteContactRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, clientMessage(err), http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteContact(r.Context(), req.TeamID, req.ID); err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete contact")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *ContactHandler) handleChanges(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	teamID, id, err := teamResourceParams(r.URL.Query(), "id")
	if err != nil {
		WriteJSONError(w, clientMessage(err), http.StatusBadRequest)
		return
	}

	changes, err := h.service.GetContactChanges(r.Context(), teamID, id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get contact changes")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"changes": changes,
	})
}
