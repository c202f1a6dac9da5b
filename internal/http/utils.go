package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// WriteJSONError writes a JSON error response with the given message and status code.
// It sets the Content-Type header to application/json and formats the response
// as {"error": "message"}.
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// allowMethod answers 405 unless the request uses method
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// decodeJSON reads the request body into v, answering 400 on malformed input
func decodeJSON(w http.ResponseWriter, r *http.Request, log logger.Logger, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		log.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// teamResourceParams reads team_id and the resource id parameter of a GET request
func teamResourceParams(q url.Values, idParam string) (teamID, id string, err error) {
	teamID, id = q.Get("team_id"), q.Get(idParam)
	if teamID == "" {
		return "", "", domain.NewValidationError("team_id is required")
	}
	if id == "" {
		return "", "", domain.NewValidationError(fmt.Sprintf("%s is required", idParam))
	}
	return teamID, id, nil
}

// errorStatus maps the domain error taxonomy to HTTP status codes
func errorStatus(err error) int {
	var permErr *domain.PermissionError
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsInvariantViolation(err):
		return http.StatusConflict
	case domain.IsValidationError(err):
		return http.StatusBadRequest
	case errors.As(err, &permErr):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// writeServiceError answers with the status of err. Internal failures are
// logged and reported with the generic message only.
func writeServiceError(w http.ResponseWriter, log logger.Logger, err error, message string) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.WithField("error", err.Error()).Error(message)
		WriteJSONError(w, message, status)
		return
	}
	WriteJSONError(w, clientMessage(err), status)
}

// clientMessage strips the wrapping added by the service layer
func clientMessage(err error) string {
	var (
		nf   *domain.ErrNotFound
		iv   domain.InvariantViolationError
		ve   domain.ValidationError
		perm *domain.PermissionError
	)
	switch {
	case errors.As(err, &nf):
		return nf.Error()
	case errors.As(err, &iv):
		return iv.Error()
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &perm):
		return perm.Error()
	case errors.Is(err, domain.ErrUnauthenticated):
		return domain.ErrUnauthenticated.Error()
	}
	return err.Error()
}
