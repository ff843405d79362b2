package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/evgeniy-krivenko/notes-web/internal/entity"
	"github.com/evgeniy-krivenko/notes-web/internal/usecase/notes"
)

type userView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserView(u entity.User) userView {
	return userView{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

type noteView struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Content     string    `json:"content,omitempty"`
	Tags        []string  `json:"tags"`
	Image       string    `json:"image,omitempty"`
	IsPrivate   bool      `json:"is_private"`
	AuthorName  string    `json:"author_name,omitempty"`
	AuthorEmail string    `json:"author_email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toNoteView(n entity.Note) noteView {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}

	return noteView{
		ID:          n.ID,
		UserID:      n.UserID,
		Title:       n.Title,
		Summary:     n.Summary,
		Content:     n.Content,
		Tags:        tags,
		Image:       n.Image,
		IsPrivate:   n.IsPrivate,
		AuthorName:  n.AuthorName,
		AuthorEmail: n.AuthorEmail,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func toNoteViews(ns []entity.Note) []noteView {
	views := make([]noteView, 0, len(ns))
	for _, n := range ns {
		views = append(views, toNoteView(n))
	}
	return views
}

type paginationView struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}

type pageView struct {
	Notes      []noteView     `json:"notes"`
	Pagination paginationView `json:"pagination"`
}

func toPageView(p notes.Page) pageView {
	return pageView{
		Notes:      toNoteViews(p.Notes),
		Pagination: paginationView{Page: p.Page, Limit: p.Limit, HasMore: p.HasMore},
	}
}

type connectionView struct {
	ID        uuid.UUID `json:"id"`
	NoteID    uuid.UUID `json:"note_id"`
	Title     string    `json:"title"`
	Type      string    `json:"connection_type"`
	Direction string    `json:"direction"`
	CreatedAt time.Time `json:"created_at"`
}

func toConnectionView(v entity.ConnectionView) connectionView {
	return connectionView{
		ID:        v.ID,
		NoteID:    v.NoteID,
		Title:     v.Title,
		Type:      string(v.Kind),
		Direction: string(v.Direction),
		CreatedAt: v.CreatedAt,
	}
}

type connectionEdgeView struct {
	ID           uuid.UUID `json:"id"`
	SourceNoteID uuid.UUID `json:"source_note_id"`
	TargetNoteID uuid.UUID `json:"target_note_id"`
	SourceTitle  string    `json:"source_title,omitempty"`
	TargetTitle  string    `json:"target_title,omitempty"`
	Type         string    `json:"connection_type"`
	CreatedAt    time.Time `json:"created_at"`
}

func toConnectionEdgeView(c entity.Connection) connectionEdgeView {
	return connectionEdgeView{
		ID:           c.ID,
		SourceNoteID: c.SourceNoteID,
		TargetNoteID: c.TargetNoteID,
		SourceTitle:  c.SourceTitle,
		TargetTitle:  c.TargetTitle,
		Type:         string(c.Kind),
		CreatedAt:    c.CreatedAt,
	}
}

type attachmentView struct {
	ID               uuid.UUID `json:"id"`
	NoteID           uuid.UUID `json:"note_id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	MimeType         string    `json:"mime_type"`
	UploadedBy       uuid.UUID `json:"uploaded_by"`
	UploaderName     string    `json:"uploader_name,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func toAttachmentView(a entity.Attachment) attachmentView {
	return attachmentView{
		ID:               a.ID,
		NoteID:           a.NoteID,
		Filename:         a.Filename,
		OriginalFilename: a.OriginalFilename,
		FileSize:         a.FileSize,
		MimeType:         a.MimeType,
		UploadedBy:       a.UploadedBy,
		UploaderName:     a.UploaderName,
		CreatedAt:        a.CreatedAt,
	}
}
