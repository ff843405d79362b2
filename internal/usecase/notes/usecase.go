package notes

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/evgeniy-krivenko/notes-web/internal/entity"
	"github.com/evgeniy-krivenko/notes-web/internal/policy"
	"github.com/evgeniy-krivenko/notes-web/pkg/logger/slogx"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type notesRepository interface {
	CreateNote(ctx context.Context, n entity.Note) (entity.Note, error)
	GetNote(ctx context.Context, id uuid.UUID) (entity.Note, error)
	ListNotes(ctx context.Context, requester uuid.UUID, limit, offset int) ([]entity.Note, error)
	UpdateNote(ctx context.Context, n entity.Note) (entity.Note, error)
	DeleteNote(ctx context.Context, id uuid.UUID) error
	SearchNotes(ctx context.Context, requester uuid.UUID, query string, limit int) ([]entity.Note, error)
	ListTags(ctx context.Context, requester uuid.UUID) ([]entity.TagCount, error)
	ListNotesByTag(ctx context.Context, requester uuid.UUID, tag string, limit, offset int) ([]entity.Note, error)
	AttachmentPathsByNote(ctx context.Context, noteID uuid.UUID) ([]string, error)
}

type transactor interface {
	RunInTx(ctx context.Context, f func(context.Context) error) error
}

type fileRemover interface {
	Remove(path string) error
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.2 -out-filename=usecase_options.gen.go -from-struct=Options
type Options struct {
	repo  notesRepository `option:"mandatory" validate:"required"`
	tx    transactor      `option:"mandatory" validate:"required"`
	files fileRemover     `option:"mandatory" validate:"required"`
}

type Usecase struct {
	Options
}

func New(opts Options) (*Usecase, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate notes usecase options: %v", err)
	}

	return &Usecase{Options: opts}, nil
}

type CreateNoteInput struct {
	Title     string
	Summary   string
	Content   string
	Tags      []string
	Image     string
	IsPrivate bool
}

func (u *Usecase) CreateNote(ctx context.Context, requester uuid.UUID, in CreateNoteInput) (entity.Note, error) {
	title := strings.TrimSpace(in.Title)
	if err := validateTitle(title); err != nil {
		return entity.Note{}, err
	}
	if err := validateSummary(in.Summary); err != nil {
		return entity.Note{}, err
	}

	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return entity.Note{}, err
	}

	note, err := u.repo.CreateNote(ctx, entity.Note{
		UserID:    requester,
		Title:     title,
		Summary:   strings.TrimSpace(in.Summary),
		Content:   strings.TrimSpace(in.Content),
		Tags:      tags,
		Image:     in.Image,
		IsPrivate: in.IsPrivate,
	})
	if err != nil {
		return entity.Note{}, fmt.Errorf("usecase create note: %w", err)
	}

	slogx.Info(ctx, "success to create note", slogx.UserId(requester), slogx.NoteId(note.ID))

	return note, nil
}

// GetNote fetches one note. A private note the requester may not read is
// reported as not found, so its existence does not leak.
func (u *Usecase) GetNote(ctx context.Context, requester, id uuid.UUID) (entity.Note, error) {
	note, err := u.repo.GetNote(ctx, id)
	if err != nil {
		return entity.Note{}, fmt.Errorf("usecase get note: %w", err)
	}

	if !policy.CanRead(note, requester) {
		return entity.Note{}, entity.ErrNoteNotFound
	}

	return note, nil
}

type Page struct {
	Notes   []entity.Note
	Page    int
	Limit   int
	HasMore bool
}

func (u *Usecase) ListNotes(ctx context.Context, requester uuid.UUID, page, limit int) (Page, error) {
	page, limit = normalizePage(page, limit)

	notes, err := u.repo.ListNotes(ctx, requester, limit, (page-1)*limit)
	if err != nil {
		return Page{}, fmt.Errorf("usecase list notes: %w", err)
	}

	return Page{
		Notes:   notes,
		Page:    page,
		Limit:   limit,
		HasMore: len(notes) == limit,
	}, nil
}

func (u *Usecase) UpdateNote(ctx context.Context, requester, id uuid.UUID, upd entity.NoteUpdate) (entity.Note, error) {
	existing, err := u.repo.GetNote(ctx, id)
	if err != nil {
		return entity.Note{}, fmt.Errorf("usecase update note: %w", err)
	}

	if err := u.checkWrite(existing, requester); err != nil {
		return entity.Note{}, err
	}

	merged := existing
	if upd.Title != nil {
		merged.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Summary != nil {
		merged.Summary = strings.TrimSpace(*upd.Summary)
	}
	if upd.Content != nil {
		merged.Content = strings.TrimSpace(*upd.Content)
	}
	if upd.Image != nil {
		merged.Image = *upd.Image
	}
	if upd.IsPrivate != nil {
		merged.IsPrivate = *upd.IsPrivate
	}
	if upd.Tags != nil {
		tags, err := normalizeTags(upd.Tags)
		if err != nil {
			return entity.Note{}, err
		}
		merged.Tags = tags
	}

	if err := validateTitle(merged.Title); err != nil {
		return entity.Note{}, err
	}
	if err := validateSummary(merged.Summary); err != nil {
		return entity.Note{}, err
	}

	updated, err := u.repo.UpdateNote(ctx, merged)
	if err != nil {
		return entity.Note{}, fmt.Errorf("usecase update note: %w", err)
	}

	return updated, nil
}

// DeleteNote removes the note; connections and attachment rows go with it
// via the storage cascade. Attachment files are unlinked afterwards,
// best-effort: a failed unlink is logged, not surfaced.
func (u *Usecase) DeleteNote(ctx context.Context, requester, id uuid.UUID) error {
	existing, err := u.repo.GetNote(ctx, id)
	if err != nil {
		return fmt.Errorf("usecase delete note: %w", err)
	}

	if err := u.checkWrite(existing, requester); err != nil {
		return err
	}

	var paths []string
	err = u.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		paths, err = u.repo.AttachmentPathsByNote(ctx, id)
		if err != nil {
			return err
		}

		return u.repo.DeleteNote(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("usecase delete note: %w", err)
	}

	for _, p := range paths {
		if err := u.files.Remove(p); err != nil {
			slogx.Warn(ctx, "failed to remove attachment file", slogx.Err(err))
		}
	}

	slogx.Info(ctx, "note deleted", slogx.UserId(requester), slogx.NoteId(id))

	return nil
}

// SearchNotes runs a ranked search over notes visible to the requester.
// A blank query yields an empty result, not an error and not all notes.
func (u *Usecase) SearchNotes(ctx context.Context, requester uuid.UUID, query string, limit int) ([]entity.Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []entity.Note{}, nil
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	notes, err := u.repo.SearchNotes(ctx, requester, query, limit)
	if err != nil {
		return nil, fmt.Errorf("usecase search notes: %w", err)
	}

	return notes, nil
}

func (u *Usecase) ListTags(ctx context.Context, requester uuid.UUID) ([]entity.TagCount, error) {
	tags, err := u.repo.ListTags(ctx, requester)
	if err != nil {
		return nil, fmt.Errorf("usecase list tags: %w", err)
	}

	return tags, nil
}

func (u *Usecase) ListNotesByTag(ctx context.Context, requester uuid.UUID, tag string, page, limit int) (Page, error) {
	page, limit = normalizePage(page, limit)

	notes, err := u.repo.ListNotesByTag(ctx, requester, strings.ToLower(strings.TrimSpace(tag)), limit, (page-1)*limit)
	if err != nil {
		return Page{}, fmt.Errorf("usecase list notes by tag: %w", err)
	}

	return Page{
		Notes:   notes,
		Page:    page,
		Limit:   limit,
		HasMore: len(notes) == limit,
	}, nil
}

func (u *Usecase) checkWrite(note entity.Note, requester uuid.UUID) error {
	if policy.CanWrite(note, requester) {
		return nil
	}

	// A note the requester cannot even read stays invisible.
	if !policy.CanRead(note, requester) {
		return entity.ErrNoteNotFound
	}

	return entity.ErrAccessDenied
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return page, limit
}

func validateTitle(title string) error {
	if title == "" {
		return entity.NewValidationError("title is required")
	}
	if utf8.RuneCountInString(title) > entity.MaxTitleLen {
		return entity.NewValidationError(fmt.Sprintf("title cannot exceed %d characters", entity.MaxTitleLen))
	}

	return nil
}

func validateSummary(summary string) error {
	if utf8.RuneCountInString(summary) > entity.MaxSummaryLen {
		return entity.NewValidationError(fmt.Sprintf("summary cannot exceed %d characters", entity.MaxSummaryLen))
	}

	return nil
}

// normalizeTags lowercases, trims and deduplicates, keeping first
// occurrence order.
func normalizeTags(tags []string) ([]string, error) {
	if len(tags) > entity.MaxTags {
		return nil, entity.NewValidationError(fmt.Sprintf("at most %d tags are allowed", entity.MaxTags))
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if utf8.RuneCountInString(t) > entity.MaxTagLen {
			return nil, entity.NewValidationError(fmt.Sprintf("each tag cannot exceed %d characters", entity.MaxTagLen))
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	return out, nil
}
