// Package handlers is the HTTP surface. Handlers decode, call a service,
// and translate fault kinds to status codes; no business rules live here.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"slotbook/internal/fault"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var fe *fault.Error
	if !errors.As(err, &fe) {
		logger.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error: errorDetail{Kind: "internal", Message: "internal error"},
		})
		return
	}

	status := http.StatusInternalServerError
	switch fe.Kind {
	case fault.NotFound:
		status = http.StatusNotFound
	case fault.Conflict:
		status = http.StatusConflict
	case fault.InvalidInput:
		status = http.StatusBadRequest
	case fault.Forbidden:
		status = http.StatusForbidden
	}
	writeJSON(w, status, errorBody{
		Error: errorDetail{Kind: string(fe.Kind), Message: fe.Message},
	})
}
