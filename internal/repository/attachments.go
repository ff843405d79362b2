package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/evgeniy-krivenko/notes-web/internal/entity"
)

func (r *Repo) CreateAttachment(ctx context.Context, a entity.Attachment) (entity.Attachment, error) {
	const q = `
		INSERT INTO attachments (note_id, filename, original_filename, file_path, file_size, mime_type, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, note_id, filename, original_filename, file_path, file_size, mime_type, uploaded_by, created_at`

	var created entity.Attachment
	err := r.db.QueryRow(ctx, q,
		a.NoteID, a.Filename, a.OriginalFilename, a.FilePath, a.FileSize, a.MimeType, a.UploadedBy,
	).Scan(
		&created.ID, &created.NoteID, &created.Filename, &created.OriginalFilename,
		&created.FilePath, &created.FileSize, &created.MimeType, &created.UploadedBy, &created.CreatedAt,
	)
	if err != nil {
		return entity.Attachment{}, fmt.Errorf("create attachment: %v", err)
	}

	return created, nil
}

func (r *Repo) GetAttachment(ctx context.Context, id uuid.UUID) (entity.Attachment, error) {
	const q = `
		SELECT a.id, a.note_id, a.filename, a.original_filename, a.file_path,
		       a.file_size, a.mime_type, a.uploaded_by, a.created_at,
		       coalesce(u.name, '')
		FROM attachments a
		LEFT JOIN users u ON a.uploaded_by = u.id
		WHERE a.id = $1`

	var a entity.Attachment
	err := r.db.QueryRow(ctx, q, id).Scan(
		&a.ID, &a.NoteID, &a.Filename, &a.OriginalFilename, &a.FilePath,
		&a.FileSize, &a.MimeType, &a.UploadedBy, &a.CreatedAt,
		&a.UploaderName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Attachment{}, entity.ErrAttachmentNotFound
		}
		return entity.Attachment{}, fmt.Errorf("get attachment: %v", err)
	}

	return a, nil
}

func (r *Repo) ListAttachmentsByNote(ctx context.Context, noteID uuid.UUID) ([]entity.Attachment, error) {
	const q = `
		SELECT a.id, a.note_id, a.filename, a.original_filename, a.file_path,
		       a.file_size, a.mime_type, a.uploaded_by, a.created_at,
		       coalesce(u.name, '')
		FROM attachments a
		LEFT JOIN users u ON a.uploaded_by = u.id
		WHERE a.note_id = $1
		ORDER BY a.created_at DESC`

	rows, err := r.db.Query(ctx, q, noteID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %v", err)
	}
	defer rows.Close()

	attachments := make([]entity.Attachment, 0)
	for rows.Next() {
		var a entity.Attachment
		err := rows.Scan(
			&a.ID, &a.NoteID, &a.Filename, &a.OriginalFilename, &a.FilePath,
			&a.FileSize, &a.MimeType, &a.UploadedBy, &a.CreatedAt,
			&a.UploaderName,
		)
		if err != nil {
			return nil, fmt.Errorf("list attachments: %v", err)
		}
		attachments = append(attachments, a)
	}

	return attachments, rows.Err()
}

// AttachmentPathsByNote returns the stored file paths for every
// attachment of the note, for file cleanup after a cascade delete.
func (r *Repo) AttachmentPathsByNote(ctx context.Context, noteID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT file_path FROM attachments WHERE note_id = $1`, noteID)
	if err != nil {
		return nil, fmt.Errorf("attachment paths: %v", err)
	}
	defer rows.Close()

	paths := make([]string, 0)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("attachment paths: %v", err)
		}
		paths = append(paths, p)
	}

	return paths, rows.Err()
}

func (r *Repo) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attachment: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrAttachmentNotFound
	}

	return nil
}
