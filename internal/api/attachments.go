package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/evgeniy-krivenko/notes-web/internal/ctxauth"
	"github.com/evgeniy-krivenko/notes-web/internal/entity"
	"github.com/evgeniy-krivenko/notes-web/internal/usecase/attachments"
)

type attachmentsUsecase interface {
	Upload(ctx context.Context, requester uuid.UUID, in attachments.UploadInput) (entity.Attachment, error)
	Download(ctx context.Context, requester, id uuid.UUID) (entity.Attachment, io.ReadSeekCloser, error)
	ListAttachments(ctx context.Context, requester, noteID uuid.UUID) ([]entity.Attachment, error)
	Delete(ctx context.Context, requester, id uuid.UUID) error
}

func (h *Handlers) uploadAttachment(w http.ResponseWriter, r *http.Request) {
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

	// Cap the whole request body slightly above the file limit to leave
	// room for the multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, entity.MaxAttachmentSize+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(r.Context(), w, entity.NewValidationError("file exceeds the 10MB limit"))
			return
		}
		respondError(r.Context(), w, entity.NewValidationError("file is required"))
		return
	}
	defer file.Close()

	att, err := h.attachments.Upload(r.Context(), userID, attachments.UploadInput{
		NoteID:       noteID,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Size:         header.Size,
		Body:         file,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondMessage(w, http.StatusCreated, "File uploaded successfully", map[string]any{
		"attachment": toAttachmentView(att),
	})
}

func (h *Handlers) listAttachments(w http.ResponseWriter, r *http.Request) {
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

	atts, err := h.attachments.ListAttachments(r.Context(), userID, noteID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	views := make([]attachmentView, 0, len(atts))
	for _, a := range atts {
		views = append(views, toAttachmentView(a))
	}

	respondData(w, http.StatusOK, map[string]any{"attachments": views})
}

func (h *Handlers) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	userID, err := ctxauth.UserID(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(r.Context(), w, entity.ErrAttachmentNotFound)
		return
	}

	att, f, err := h.attachments.Download(r.Context(), userID, id)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", att.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.OriginalFilename))
	http.ServeContent(w, r, att.OriginalFilename, att.CreatedAt, f)
}

func (h *Handlers) deleteAttachment(w http.ResponseWriter, r *http.Request) {
	userID, err := ctxauth.UserID(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(r.Context(), w, entity.ErrAttachmentNotFound)
		return
	}

	if err := h.attachments.Delete(r.Context(), userID, id); err != nil {
		respondError(r.Context(), w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Attachment deleted successfully", nil)
}
