package slogx

import (
	"log/slog"

	"github.com/google/uuid"
)

func Err(err error) slog.Attr {
	return slog.Any("err", err)
}

func UserId(id uuid.UUID) slog.Attr {
	return slog.String("user_id", id.String())
}

func NoteId(id uuid.UUID) slog.Attr {
	return slog.String("note_id", id.String())
}
