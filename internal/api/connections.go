package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/evgeniy-krivenko/notes-web/internal/ctxauth"
	"github.com/evgeniy-krivenko/notes-web/internal/entity"
)

type connectionsUsecase interface {
	Kinds() []entity.ConnectionKind
	CreateConnection(ctx context.Context, requester uuid.UUID, sourceID, targetID uuid.UUID, kind entity.ConnectionKind) (entity.Connection, error)
	ListConnections(ctx context.Context, requester, noteID uuid.UUID) ([]entity.ConnectionView, error)
	DeleteConnection(ctx context.Context, requester, id uuid.UUID) error
}

type createConnectionRequest struct {
	TargetNoteID uuid.UUID `json:"targetNoteId"`
	Type         string    `json:"connectionType"`
}

func (h *Handlers) createConnection(w http.ResponseWriter, r *http.Request) {
	userID, err := ctxauth.UserID(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	sourceID, err := pathUUID(r, "noteId")
	if err != nil {
		respondError(r.Context(), w, entity.ErrNoteNotFound)
		return
	}

	var req createConnectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	if req.TargetNoteID == uuid.Nil {
		respondError(r.Context(), w, entity.NewValidationError("targetNoteId is required"))
		return
	}

	conn, err := h.connections.CreateConnection(r.Context(), userID, sourceID, req.TargetNoteID, entity.ConnectionKind(req.Type))
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondMessage(w, http.StatusCreated, "Connection created successfully", map[string]any{
		"connection": toConnectionEdgeView(conn),
	})
}

func (h *Handlers) listConnections(w http.ResponseWriter, r *http.Request) {
	userID, err := ctxauth.UserID(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	noteID, err := pathUUID(r, "noteId")
	if err != nil {
		respondError(r.Context(), w, entity.ErrNoteNotFound)
		return
	}

	views, err := h.connections.ListConnections(r.Context(), userID, noteID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	// Grouping is presentation only; the store keeps a flat edge list.
	grouped := make(map[string][]connectionView)
	for _, v := range views {
		grouped[string(v.Kind)] = append(grouped[string(v.Kind)], toConnectionView(v))
	}

	respondData(w, http.StatusOK, map[string]any{
		"connections":     grouped,
		"connectionTypes": h.connections.Kinds(),
	})
}

func (h *Handlers) deleteConnection(w http.ResponseWriter, r *http.Request) {
	userID, err := ctxauth.UserID(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(r.Context(), w, entity.ErrConnectionNotFound)
		return
	}

	if err := h.connections.DeleteConnection(r.Context(), userID, id); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Connection deleted successfully", nil)
}

func (h *Handlers) connectionTypes(w http.ResponseWriter, r *http.Request) {
	kinds := h.connections.Kinds()
	types := make([]string, 0, len(kinds))
	for _, k := range kinds {
		types = append(types, string(k))
	}

	respondData(w, http.StatusOK, map[string]any{"types": types})
}
