package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/logger"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func writeErr(w http.ResponseWriter, code int, errCode, message string) {
	writeJSON(w, code, errorBody{Error: apiError{Code: errCode, Message: message}})
}

// writeDomainErr maps service errors to status codes.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotAssistantMessage):
		writeErr(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeErr(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrTodoNotFound), errors.Is(err, domain.ErrNotFound):
		writeErr(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrVersionConflict), errors.Is(err, domain.ErrAlreadyExists):
		writeErr(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrLLMUnavailable):
		writeErr(w, http.StatusServiceUnavailable, "llm_unavailable", err.Error())
	case errors.Is(err, domain.ErrNotImplemented):
		writeErr(w, http.StatusNotImplemented, "not_implemented", err.Error())
	default:
		logger.Error("http: %v", err)
		writeErr(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_request", "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func requireQuery(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		writeErr(w, http.StatusBadRequest, "bad_request", "missing query parameter "+name)
		return "", false
	}
	return v, true
}

func notConfigured(w http.ResponseWriter) {
	writeDomainErr(w, domain.ErrNotImplemented)
}
