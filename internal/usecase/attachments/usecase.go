package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/evgeniy-krivenko/notes-web/internal/entity"
	"github.com/evgeniy-krivenko/notes-web/internal/filestore"
	"github.com/evgeniy-krivenko/notes-web/internal/policy"
	"github.com/evgeniy-krivenko/notes-web/pkg/logger/slogx"
)

// allowedMimeTypes is the closed set of upload content types: documents,
// spreadsheets, plain text and common image formats.
var allowedMimeTypes = map[string]struct{}{
	"application/pdf": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/msword": {},
	"text/plain":         {},
	"image/jpeg":         {},
	"image/png":          {},
	"image/gif":          {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"application/vnd.ms-excel": {},
}

type attachmentsRepository interface {
	CreateAttachment(ctx context.Context, a entity.Attachment) (entity.Attachment, error)
	GetAttachment(ctx context.Context, id uuid.UUID) (entity.Attachment, error)
	ListAttachmentsByNote(ctx context.Context, noteID uuid.UUID) ([]entity.Attachment, error)
	DeleteAttachment(ctx context.Context, id uuid.UUID) error
}

type notesReader interface {
	GetNote(ctx context.Context, id uuid.UUID) (entity.Note, error)
}

type fileStorage interface {
	Save(r io.Reader, originalName string, maxSize int64) (filestore.Stored, error)
	Open(path string) (io.ReadSeekCloser, error)
	Remove(path string) error
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.2 -out-filename=usecase_options.gen.go -from-struct=Options
type Options struct {
	repo  attachmentsRepository `option:"mandatory" validate:"required"`
	notes notesReader           `option:"mandatory" validate:"required"`
	files fileStorage           `option:"mandatory" validate:"required"`
}

type Usecase struct {
	Options
}

func New(opts Options) (*Usecase, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate attachments usecase options: %v", err)
	}

	return &Usecase{Options: opts}, nil
}

type UploadInput struct {
	NoteID       uuid.UUID
	OriginalName string
	MimeType     string
	Size         int64
	Body         io.Reader
}

// Upload stores the binary first and the metadata row second; if the row
// insert fails the stored file is removed so the uploads dir never holds
// orphans from failed requests.
func (u *Usecase) Upload(ctx context.Context, requester uuid.UUID, in UploadInput) (entity.Attachment, error) {
	if _, err := u.getWritableNote(ctx, requester, in.NoteID); err != nil {
		return entity.Attachment{}, err
	}

	if in.OriginalName == "" {
		return entity.Attachment{}, entity.NewValidationError("file is required")
	}
	if _, ok := allowedMimeTypes[in.MimeType]; !ok {
		return entity.Attachment{}, entity.NewValidationError(fmt.Sprintf("file type %s is not allowed", in.MimeType))
	}
	if in.Size > entity.MaxAttachmentSize {
		return entity.Attachment{}, entity.NewValidationError("file exceeds the 10MB limit")
	}

	stored, err := u.files.Save(in.Body, in.OriginalName, entity.MaxAttachmentSize)
	if err != nil {
		if errors.Is(err, filestore.ErrTooLarge) {
			return entity.Attachment{}, entity.NewValidationError("file exceeds the 10MB limit")
		}
		return entity.Attachment{}, fmt.Errorf("usecase upload attachment: %w", err)
	}

	att, err := u.repo.CreateAttachment(ctx, entity.Attachment{
		NoteID:           in.NoteID,
		Filename:         stored.Name,
		OriginalFilename: in.OriginalName,
		FilePath:         stored.Path,
		FileSize:         stored.Size,
		MimeType:         in.MimeType,
		UploadedBy:       requester,
	})
	if err != nil {
		if rmErr := u.files.Remove(stored.Path); rmErr != nil {
			slogx.Warn(ctx, "remove orphaned upload", slogx.Err(rmErr))
		}
		return entity.Attachment{}, fmt.Errorf("usecase upload attachment: %w", err)
	}

	slogx.Info(ctx, "attachment uploaded",
		slogx.UserId(requester),
		slogx.NoteId(in.NoteID),
	)

	return att, nil
}

// Download opens the stored file for an attachment the requester can see.
func (u *Usecase) Download(ctx context.Context, requester, id uuid.UUID) (entity.Attachment, io.ReadSeekCloser, error) {
	att, err := u.getVisible(ctx, requester, id)
	if err != nil {
		return entity.Attachment{}, nil, err
	}

	f, err := u.files.Open(att.FilePath)
	if err != nil {
		return entity.Attachment{}, nil, fmt.Errorf("usecase download attachment: %w", err)
	}

	return att, f, nil
}

func (u *Usecase) ListAttachments(ctx context.Context, requester, noteID uuid.UUID) ([]entity.Attachment, error) {
	note, err := u.notes.GetNote(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("usecase list attachments: %w", err)
	}
	if !policy.CanRead(note, requester) {
		return nil, entity.ErrNoteNotFound
	}

	atts, err := u.repo.ListAttachmentsByNote(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("usecase list attachments: %w", err)
	}

	return atts, nil
}

// Delete removes the row first; the row is authoritative, the file
// unlink is best-effort.
func (u *Usecase) Delete(ctx context.Context, requester, id uuid.UUID) error {
	att, err := u.getVisible(ctx, requester, id)
	if err != nil {
		return err
	}

	note, err := u.notes.GetNote(ctx, att.NoteID)
	if err != nil {
		return fmt.Errorf("usecase delete attachment: %w", err)
	}
	if !policy.CanWrite(note, requester) {
		return entity.ErrAccessDenied
	}

	if err := u.repo.DeleteAttachment(ctx, id); err != nil {
		return fmt.Errorf("usecase delete attachment: %w", err)
	}

	if err := u.files.Remove(att.FilePath); err != nil {
		slogx.Warn(ctx, "remove attachment file", slogx.Err(err))
	}

	slogx.Info(ctx, "attachment deleted", slogx.UserId(requester))

	return nil
}

func (u *Usecase) getVisible(ctx context.Context, requester, id uuid.UUID) (entity.Attachment, error) {
	att, err := u.repo.GetAttachment(ctx, id)
	if err != nil {
		return entity.Attachment{}, fmt.Errorf("get attachment %s: %w", id, err)
	}

	note, err := u.notes.GetNote(ctx, att.NoteID)
	if err != nil {
		return entity.Attachment{}, fmt.Errorf("get attachment note: %w", err)
	}
	if !policy.CanRead(note, requester) {
		return entity.Attachment{}, entity.ErrAttachmentNotFound
	}

	return att, nil
}

func (u *Usecase) getWritableNote(ctx context.Context, requester, noteID uuid.UUID) (entity.Note, error) {
	note, err := u.notes.GetNote(ctx, noteID)
	if err != nil {
		return entity.Note{}, fmt.Errorf("get note %s: %w", noteID, err)
	}
	if !policy.CanRead(note, requester) {
		return entity.Note{}, entity.ErrNoteNotFound
	}
	if !policy.CanWrite(note, requester) {
		return entity.Note{}, entity.ErrAccessDenied
	}

	return note, nil
}
