// Package api exposes the application over REST. Handlers decode and
// validate requests, delegate to usecases and translate domain errors
// into the uniform response envelope.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/evgeniy-krivenko/notes-web/pkg/metrics"
)

type pinger interface {
	Ping(ctx context.Context) error
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.2 -out-filename=router_options.gen.go -from-struct=Options
type Options struct {
	auth        authUsecase        `option:"mandatory" validate:"required"`
	notes       notesUsecase       `option:"mandatory" validate:"required"`
	connections connectionsUsecase `option:"mandatory" validate:"required"`
	attachments attachmentsUsecase `option:"mandatory" validate:"required"`
	verifier    tokenVerifier      `option:"mandatory" validate:"required"`
	db          pinger             `option:"mandatory" validate:"required"`
}

type Handlers struct {
	Options
}

func New(opts Options) (*Handlers, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate api options: %v", err)
	}

	return &Handlers{Options: opts}, nil
}

// Mux wires every route. All /api routes except register and login sit
// behind the bearer-token middleware.
func (h *Handlers) Mux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/login", h.login)
	mux.HandleFunc("GET /api/auth/profile", h.protected(h.profile))
	mux.HandleFunc("PUT /api/auth/profile", h.protected(h.updateProfile))

	mux.HandleFunc("POST /api/notes", h.protected(h.createNote))
	mux.HandleFunc("GET /api/notes", h.protected(h.listNotes))
	mux.HandleFunc("GET /api/notes/search", h.protected(h.searchNotes))
	mux.HandleFunc("GET /api/notes/tags", h.protected(h.listTags))
	mux.HandleFunc("GET /api/notes/tag/{tag}", h.protected(h.listNotesByTag))
	mux.HandleFunc("POST /api/notes/import", h.protected(h.importNotes))
	mux.HandleFunc("GET /api/notes/{id}", h.protected(h.getNote))
	mux.HandleFunc("PUT /api/notes/{id}", h.protected(h.updateNote))
	mux.HandleFunc("DELETE /api/notes/{id}", h.protected(h.deleteNote))

	mux.HandleFunc("POST /api/connections/note/{noteId}", h.protected(h.createConnection))
	mux.HandleFunc("GET /api/connections/note/{noteId}", h.protected(h.listConnections))
	mux.HandleFunc("GET /api/connections/types", h.protected(h.connectionTypes))
	mux.HandleFunc("DELETE /api/connections/{id}", h.protected(h.deleteConnection))

	mux.HandleFunc("POST /api/attachments/notes/{noteId}/upload", h.protected(h.uploadAttachment))
	mux.HandleFunc("GET /api/attachments/notes/{noteId}", h.protected(h.listAttachments))
	mux.HandleFunc("GET /api/attachments/download/{id}", h.protected(h.downloadAttachment))
	mux.HandleFunc("DELETE /api/attachments/{id}", h.protected(h.deleteAttachment))

	mux.HandleFunc("GET /health", h.health)
	mux.Handle("GET /metrics", metrics.Handler())

	return mux
}

func (h *Handlers) protected(next http.HandlerFunc) http.HandlerFunc {
	return requireAuth(h.verifier, next)
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respondError(r.Context(), w, fmt.Errorf("health: %w", err))
		return
	}

	respondData(w, http.StatusOK, map[string]any{"status": "ok"})
}
