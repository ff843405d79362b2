package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evgeniy-krivenko/notes-web/internal/ctxauth"
	"github.com/evgeniy-krivenko/notes-web/internal/entity"
	"github.com/evgeniy-krivenko/notes-web/pkg/authtoken"
	"github.com/evgeniy-krivenko/notes-web/pkg/logger/slogx"
)

// envelope is the uniform response body. Data is only present on
// success, Message carries the human-readable part.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, msg string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: msg, Data: data})
}

// respondError maps domain errors to status codes. Anything unmapped is
// a 500 with a generic message so storage details never reach clients.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	var vErr *entity.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: vErr.Error()})
		return
	}

	switch {
	case errors.Is(err, entity.ErrInvalidCredentials),
		errors.Is(err, authtoken.ErrInvalidToken),
		errors.Is(err, ctxauth.ErrNoUser):
		writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "Authentication required"})
	case errors.Is(err, entity.ErrAccessDenied):
		writeJSON(w, http.StatusForbidden, envelope{Success: false, Message: "Access denied"})
	case errors.Is(err, entity.ErrNoteNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "Note not found"})
	case errors.Is(err, entity.ErrConnectionNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "Connection not found"})
	case errors.Is(err, entity.ErrAttachmentNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "Attachment not found"})
	case errors.Is(err, entity.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "User not found"})
	case errors.Is(err, entity.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, envelope{Success: false, Message: "Email already registered"})
	default:
		slogx.Error(ctx, "request failed", slogx.Err(err))
		writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slogx.Error(context.Background(), "encode response", slogx.Err(err))
	}
}

// decodeJSON reads a request body into dst, rejecting malformed JSON
// with a 400-style validation error.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return entity.NewValidationError("invalid JSON body")
	}

	return nil
}
