package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/internal/http/middleware"
	"github.com/Pledgebase/pledgebase/pkg/export"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

type ContactListHandler struct {
	service  domain.ContactListService
	verifier middleware.TokenVerifier
	logger   logger.Logger
}

func NewContactListHandler(service domain.ContactListService, verifier middleware.TokenVerifier, logger logger.Logger) *ContactListHandler {
	return &ContactListHandler{
		service:  service,
		verifier: verifier,
		logger:   logger,
	}
}

func (h *ContactListHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := middleware.NewAuthMiddleware(h.verifier).RequireAuth()

	mux.Handle("/api/contactLists.list", requireAuth(http.HandlerFunc(h.handleList)))
	mux.Handle("/api/contactLists.get", requireAuth(http.HandlerFunc(h.handleGet)))
	mux.Handle("/api/contactLists.create", requireAuth(http.HandlerFunc(h.handleCreate)))
	mux.Handle("/api/contactLists.update", requireAuth(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("/api/contactLists.delete", requireAuth(http.HandlerFunc(h.handleDelete)))
	mux.Handle("/api/contactLists.addContacts", requireAuth(http.HandlerFunc(h.handleAddContacts)))
	mux.Handle("/api/contactLists.removeContacts", requireAuth(http.HandlerFunc(h.handleRemoveContacts)))
	mux.Handle("/api/contactLists.export", requireAuth(http.HandlerFunc(h.handleExport)))
}

func (h *ContactListHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	teamID := r.URL.Query().Get("team_id")
	if teamID == "" {
		WriteJSONError(w, "team_id is required", http.StatusBadRequest)
		return
	}

	lists, err := h.service.ListLists(r.Context(), teamID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list contact lists")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"lists": lists,
	})
}

func (h *ContactListHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	var req domain.GetContactListRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, clientMessage(err), http.StatusBadRequest)
		return
	}

	list, err := h.service.GetListByID(r.Context(), req.TeamID, req.ID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get contact list")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"list": list,
	})
}

func (h *ContactListHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req domain.CreateContactListRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	list, err := h.service.CreateList(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create contact list")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"list": list,
	})
}

func (h *ContactListHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req domain.UpdateContactListRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	list, err := h.service.UpdateList(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update contact list")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"list": list,
	})
}

func (h *ContactListHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req domain.DeleteContactListsRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, clientMessage(err), http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteLists(r.Context(), req.TeamID, req.IDs); err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete contact lists")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *ContactListHandler) handleAddContacts(w http.ResponseWriter, r *http.Request) {
	h.handleMembers(w, r, h.service.AddContactsToList, "Failed to add contacts to list")
}

func (h *ContactListHandler) handleRemoveContacts(w http.ResponseWriter, r *http.Request) {
	h.handleMembers(w, r, h.service.RemoveContactsFromList, "Failed to remove contacts from list")
}

type listMembersFunc func(ctx context.Context, teamID, listID string, contactIDs []string) error

func (h *ContactListHandler) handleMembers(w http.ResponseWriter, r *http.Request, mutate listMembersFunc, failure string) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req domain.ContactListMembersRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, clientMessage(err), http.StatusBadRequest)
		return
	}

	if err := mutate(r.Context(), req.TeamID, req.ListID, req.ContactIDs); err != nil {
		writeServiceError(w, h.logger, err, failure)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *ContactListHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	var req domain.GetContactListRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, clientMessage(err), http.StatusBadRequest)
		return
	}

	filename, data, err := h.service.ExportList(r.Context(), req.TeamID, req.ID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to export contact list")
		return
	}

	w.Header().Set("Content-Type", export.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
