package server

import (
	"errors"
	"log"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-schemabuilder/pkg/render"
	"github.com/goliatone/go-schemabuilder/pkg/store"
)

// errBadRequest marks client input errors that do not come from the store.
var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps store and render sentinels onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrPathNotFound):
		return http.StatusNotFound
	case errors.Is(err, render.ErrRendererNotFound),
		errors.Is(err, store.ErrNotNested),
		errors.Is(err, store.ErrIndexOutOfRange),
		errors.Is(err, store.ErrInvalidType),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Printf("server: %v", err)
	}
	writeJSON(w, logger, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, logger *log.Logger, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Printf("server: encode response: %v", err)
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		logger.Printf("server: write response: %v", err)
	}
}
