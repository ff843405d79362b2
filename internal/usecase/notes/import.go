package notes

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/evgeniy-krivenko/notes-web/internal/entity"
	"github.com/evgeniy-krivenko/notes-web/pkg/logger/slogx"
)

// maxImportErrors bounds the error list in the import report; failures
// past the cap still count, they just lose their detail line.
const maxImportErrors = 50

type ImportItem struct {
	Title     string
	Summary   string
	Content   string
	Tags      []string
	IsPrivate bool
}

type ImportError struct {
	Index int
	Title string
	Error string
}

type ImportResult struct {
	Total    int
	Imported int
	Failed   int
	Errors   []ImportError
}

// ImportNotes processes every item independently: one bad note never
// aborts the batch. Indexes in the report are 1-based to match what the
// user sees in their export file.
func (u *Usecase) ImportNotes(ctx context.Context, requester uuid.UUID, items []ImportItem) (ImportResult, error) {
	result := ImportResult{
		Total:  len(items),
		Errors: make([]ImportError, 0),
	}

	for i, item := range items {
		_, err := u.CreateNote(ctx, requester, CreateNoteInput{
			Title:     item.Title,
			Summary:   item.Summary,
			Content:   item.Content,
			Tags:      item.Tags,
			IsPrivate: item.IsPrivate,
		})
		if err == nil {
			result.Imported++
			continue
		}

		result.Failed++
		if len(result.Errors) < maxImportErrors {
			title := strings.TrimSpace(item.Title)
			if title == "" {
				title = "Unknown"
			}

			// Validation messages are safe to echo back; anything else
			// stays opaque.
			msg := "internal error"
			var ve *entity.ValidationError
			if errors.As(err, &ve) {
				msg = ve.Msg
			}

			result.Errors = append(result.Errors, ImportError{
				Index: i + 1,
				Title: title,
				Error: msg,
			})
		}

		slogx.Warn(ctx, "import item failed", slogx.Err(err))
	}

	return result, nil
}
