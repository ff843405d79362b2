package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxTitleLen   = 500
	MaxSummaryLen = 2000
	MaxTags       = 10
	MaxTagLen     = 50
)

type Note struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Summary   string
	Content   string
	Tags      []string
	Image     string
	IsPrivate bool
	CreatedAt time.Time
	UpdatedAt time.Time

	// Author fields are joined from the users table on read paths.
	AuthorName  string
	AuthorEmail string
}

// NoteUpdate carries a partial update: nil fields keep the stored value.
type NoteUpdate struct {
	Title     *string
	Summary   *string
	Content   *string
	Tags      []string
	Image     *string
	IsPrivate *bool
}

type TagCount struct {
	Tag   string
	Count int64
}
