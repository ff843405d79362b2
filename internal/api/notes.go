package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/evgeniy-krivenko/notes-web/internal/ctxauth"
	"github.com/evgeniy-krivenko/notes-web/internal/entity"
	"github.com/evgeniy-krivenko/notes-web/internal/usecase/notes"
)

type notesUsecase interface {
	CreateNote(ctx context.Context, requester uuid.UUID, in notes.CreateNoteInput) (entity.Note, error)
	GetNote(ctx context.Context, requester, id uuid.UUID) (entity.Note, error)
	ListNotes(ctx context.Context, requester uuid.UUID, page, limit int) (notes.Page, error)
	UpdateNote(ctx context.Context, requester, id uuid.UUID, upd entity.NoteUpdate) (entity.Note, error)
	DeleteNote(ctx context.Context, requester, id uuid.UUID) error
	SearchNotes(ctx context.Context, requester uuid.UUID, query string, limit int) ([]entity.Note, error)
	ListTags(ctx context.Context, requester uuid.UUID) ([]entity.TagCount, error)
	ListNotesByTag(ctx context.Context, requester uuid.UUID, tag string, page, limit int) (notes.Page, error)
	ImportNotes(ctx context.Context, requester uuid.UUID, items []notes.ImportItem) (notes.ImportResult, error)
}

type createNoteRequest struct {
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Image     string   `json:"image"`
	IsPrivate bool     `json:"is_private"`
}

func (h *Handlers) createNote(w http.ResponseWriter, r *http.Request) {
	userID, err := ctxauth.UserID(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var req createNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	note, err := h.notes.CreateNote(r.Context(), userID, notes.CreateNoteInput{
		Title:     req.Title,
		Summary:   req.Summary,
		Content:   req.Content,
		Tags:      req.Tags,
		Image:     req.Image,
		IsPrivate: req.IsPrivate,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondMessage(w, http.StatusCreated, "Note created successfully", map[string]any{
		"note": toNoteView(note),
	})
}

func (h *Handlers) listNotes(w http.ResponseWriter, r *http.Request) {
	userID, err := ctxauth.UserID(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", notes.DefaultPageSize)

	result, err := h.notes.ListNotes(r.Context(), userID, page, limit)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondData(w, http.StatusOK, toPageView(result))
}

func (h *Handlers) getNote(w http.ResponseWriter, r *http.Request) {
	userID, err := ctxauth.UserID(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(r.Context(), w, entity.ErrNoteNotFound)
		return
	}

	note, err := h.notes.GetNote(r.Context(), userID, id)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]any{"note": toNoteView(note)})
}

type updateNoteRequest struct {
	Title     *string  `json:"title"`
	Summary   *string  `json:"summary"`
	Content   *string  `json:"content"`
	Tags      []string `json:"tags"`
	Image     *string  `json:"image"`
	IsPrivate *bool    `json:"is_private"`
}

func (h *Handlers) updateNote(w http.ResponseWriter, r *http.Request) {
	userID, err := ctxauth.UserID(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(r.Context(), w, entity.ErrNoteNotFound)
		return
	}

	var req updateNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	note, err := h.notes.UpdateNote(r.Context(), userID, id, entity.NoteUpdate{
		Title:     req.Title,
		Summary:   req.Summary,
		Content:   req.Content,
		Tags:      req.Tags,
		Image:     req.Image,
		IsPrivate: req.IsPrivate,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Note updated successfully", map[string]any{
		"note": toNoteView(note),
	})
}

func (h *Handlers) deleteNote(w http.ResponseWriter, r *http.Request) {
	userID, err := ctxauth.UserID(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(r.Context(), w, entity.ErrNoteNotFound)
		return
	}

	if err := h.notes.DeleteNote(r.Context(), userID, id); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Note deleted successfully", nil)
}

func (h *Handlers) searchNotes(w http.ResponseWriter, r *http.Request) {
	userID, err := ctxauth.UserID(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	query := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", notes.DefaultPageSize)

	found, err := h.notes.SearchNotes(r.Context(), userID, query, limit)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]any{"notes": toNoteViews(found)})
}

func (h *Handlers) listTags(w http.ResponseWriter, r *http.Request) {
	userID, err := ctxauth.UserID(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	tags, err := h.notes.ListTags(r.Context(), userID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	type tagView struct {
		Tag   string `json:"tag"`
		Count int64  `json:"count"`
	}
	views := make([]tagView, 0, len(tags))
	for _, t := range tags {
		views = append(views, tagView{Tag: t.Tag, Count: t.Count})
	}

	respondData(w, http.StatusOK, map[string]any{"tags": views})
}

func (h *Handlers) listNotesByTag(w http.ResponseWriter, r *http.Request) {
	userID, err := ctxauth.UserID(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	tag := r.PathValue("tag")
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", notes.DefaultPageSize)

	result, err := h.notes.ListNotesByTag(r.Context(), userID, tag, page, limit)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondData(w, http.StatusOK, toPageView(result))
}

type importNoteItem struct {
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	IsPrivate bool     `json:"is_private"`
}

type importRequest struct {
	Notes []importNoteItem `json:"notes"`
}

func (h *Handlers) importNotes(w http.ResponseWriter, r *http.Request) {
	userID, err := ctxauth.UserID(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	// An empty batch is a valid no-op; only a missing field is an error.
	if req.Notes == nil {
		respondError(r.Context(), w, entity.NewValidationError("notes array is required"))
		return
	}

	items := make([]notes.ImportItem, 0, len(req.Notes))
	for _, n := range req.Notes {
		items = append(items, notes.ImportItem{
			Title:     n.Title,
			Summary:   n.Summary,
			Content:   n.Content,
			Tags:      n.Tags,
			IsPrivate: n.IsPrivate,
		})
	}

	result, err := h.notes.ImportNotes(r.Context(), userID, items)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	type importErrorView struct {
		Index int    `json:"index"`
		Title string `json:"title"`
		Error string `json:"error"`
	}
	errViews := make([]importErrorView, 0, len(result.Errors))
	for _, e := range result.Errors {
		errViews = append(errViews, importErrorView{Index: e.Index, Title: e.Title, Error: e.Error})
	}

	respondMessage(w, http.StatusOK, "Import completed", map[string]any{
		"total":    result.Total,
		"imported": result.Imported,
		"failed":   result.Failed,
		"errors":   errViews,
	})
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}

	return n
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue(name))
}
