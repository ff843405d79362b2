package entity

import (
	"time"

	"github.com/google/uuid"
)

const MaxAttachmentSize = 10 << 20 // 10MB

type Attachment struct {
	ID               uuid.UUID
	NoteID           uuid.UUID
	Filename         string
	OriginalFilename string
	FilePath         string
	FileSize         int64
	MimeType         string
	UploadedBy       uuid.UUID
	CreatedAt        time.Time

	// Uploader name is joined from the users table on read paths.
	UploaderName string
}
