package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"ncaablines/internal/model"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// respondJSON encodes data before writing the status, so an unencodable body
// turns into a 500 rather than a truncated success.
func respondJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Kind: model.KindInternal, Message: "response could not be encoded"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

// statusFor maps an error kind onto an HTTP status.
func statusFor(kind string) int {
	switch kind {
	case model.KindFetch, model.KindParse:
		return http.StatusBadGateway
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, err error) {
	kind := model.KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "kind", kind, "error", err)
	}
	respondJSON(w, status, errorResponse{Kind: kind, Message: err.Error()})
}
