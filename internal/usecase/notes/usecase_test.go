package notes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evgeniy-krivenko/notes-web/internal/entity"
	"github.com/evgeniy-krivenko/notes-web/pkg/logger/slogx"
)

func TestMain(m *testing.M) {
	if err := slogx.InitGlobal(os.Stderr, "error", false); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type mockNotesRepo struct {
	createNoteFunc            func(ctx context.Context, n entity.Note) (entity.Note, error)
	getNoteFunc               func(ctx context.Context, id uuid.UUID) (entity.Note, error)
	listNotesFunc             func(ctx context.Context, requester uuid.UUID, limit, offset int) ([]entity.Note, error)
	updateNoteFunc            func(ctx context.Context, n entity.Note) (entity.Note, error)
	deleteNoteFunc            func(ctx context.Context, id uuid.UUID) error
	searchNotesFunc           func(ctx context.Context, requester uuid.UUID, query string, limit int) ([]entity.Note, error)
	listTagsFunc              func(ctx context.Context, requester uuid.UUID) ([]entity.TagCount, error)
	listNotesByTagFunc        func(ctx context.Context, requester uuid.UUID, tag string, limit, offset int) ([]entity.Note, error)
	attachmentPathsByNoteFunc func(ctx context.Context, noteID uuid.UUID) ([]string, error)
}

func (m *mockNotesRepo) CreateNote(ctx context.Context, n entity.Note) (entity.Note, error) {
	return m.createNoteFunc(ctx, n)
}

func (m *mockNotesRepo) GetNote(ctx context.Context, id uuid.UUID) (entity.Note, error) {
	return m.getNoteFunc(ctx, id)
}

func (m *mockNotesRepo) ListNotes(ctx context.Context, requester uuid.UUID, limit, offset int) ([]entity.Note, error) {
	return m.listNotesFunc(ctx, requester, limit, offset)
}

func (m *mockNotesRepo) UpdateNote(ctx context.Context, n entity.Note) (entity.Note, error) {
	return m.updateNoteFunc(ctx, n)
}

func (m *mockNotesRepo) DeleteNote(ctx context.Context, id uuid.UUID) error {
	return m.deleteNoteFunc(ctx, id)
}

func (m *mockNotesRepo) SearchNotes(ctx context.Context, requester uuid.UUID, query string, limit int) ([]entity.Note, error) {
	return m.searchNotesFunc(ctx, requester, query, limit)
}

func (m *mockNotesRepo) ListTags(ctx context.Context, requester uuid.UUID) ([]entity.TagCount, error) {
	return m.listTagsFunc(ctx, requester)
}

func (m *mockNotesRepo) ListNotesByTag(ctx context.Context, requester uuid.UUID, tag string, limit, offset int) ([]entity.Note, error) {
	return m.listNotesByTagFunc(ctx, requester, tag, limit, offset)
}

func (m *mockNotesRepo) AttachmentPathsByNote(ctx context.Context, noteID uuid.UUID) ([]string, error) {
	return m.attachmentPathsByNoteFunc(ctx, noteID)
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, f func(context.Context) error) error {
	return f(ctx)
}

type mockFiles struct {
	removed   []string
	removeErr error
}

func (m *mockFiles) Remove(path string) error {
	m.removed = append(m.removed, path)
	return m.removeErr
}

func newUsecase(t *testing.T, repo *mockNotesRepo) (*Usecase, *mockFiles) {
	t.Helper()

	files := &mockFiles{}
	uc, err := New(NewOptions(repo, passthroughTx{}, files))
	require.NoError(t, err)

	return uc, files
}

func TestCreateNoteValidation(t *testing.T) {
	repo := &mockNotesRepo{
		createNoteFunc: func(_ context.Context, n entity.Note) (entity.Note, error) {
			n.ID = uuid.New()
			return n, nil
		},
	}
	uc, _ := newUsecase(t, repo)
	ctx := context.Background()
	owner := uuid.New()

	t.Run("missing title", func(t *testing.T) {
		_, err := uc.CreateNote(ctx, owner, CreateNoteInput{Title: "   "})
		assert.True(t, entity.IsValidation(err))
	})

	t.Run("title too long", func(t *testing.T) {
		_, err := uc.CreateNote(ctx, owner, CreateNoteInput{Title: strings.Repeat("a", entity.MaxTitleLen+1)})
		assert.True(t, entity.IsValidation(err))
	})

	t.Run("summary too long", func(t *testing.T) {
		_, err := uc.CreateNote(ctx, owner, CreateNoteInput{
			Title:   "ok",
			Summary: strings.Repeat("a", entity.MaxSummaryLen+1),
		})
		assert.True(t, entity.IsValidation(err))
	})

	t.Run("too many tags", func(t *testing.T) {
		tags := make([]string, entity.MaxTags+1)
		for i := range tags {
			tags[i] = fmt.Sprintf("tag%d", i)
		}
		_, err := uc.CreateNote(ctx, owner, CreateNoteInput{Title: "ok", Tags: tags})
		assert.True(t, entity.IsValidation(err))
	})

	t.Run("limits count runes, not bytes", func(t *testing.T) {
		// 400 three-byte runes: over 500 bytes but well under 500 chars.
		title := strings.Repeat("日", 400)
		note, err := uc.CreateNote(ctx, owner, CreateNoteInput{
			Title:   title,
			Summary: strings.Repeat("я", entity.MaxSummaryLen),
			Tags:    []string{strings.Repeat("ж", entity.MaxTagLen)},
		})
		require.NoError(t, err)
		assert.Equal(t, title, note.Title)

		_, err = uc.CreateNote(ctx, owner, CreateNoteInput{
			Title: strings.Repeat("日", entity.MaxTitleLen+1),
		})
		assert.True(t, entity.IsValidation(err))
	})

	t.Run("tags are normalized and deduplicated", func(t *testing.T) {
		note, err := uc.CreateNote(ctx, owner, CreateNoteInput{
			Title: "ok",
			Tags:  []string{" Go ", "go", "", "Databases"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"go", "databases"}, note.Tags)
	})
}

func TestGetNoteMasksPrivate(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	noteID := uuid.New()

	repo := &mockNotesRepo{
		getNoteFunc: func(_ context.Context, id uuid.UUID) (entity.Note, error) {
			return entity.Note{ID: id, UserID: owner, Title: "secret", IsPrivate: true}, nil
		},
	}
	uc, _ := newUsecase(t, repo)

	_, err := uc.GetNote(context.Background(), stranger, noteID)
	assert.ErrorIs(t, err, entity.ErrNoteNotFound)

	note, err := uc.GetNote(context.Background(), owner, noteID)
	require.NoError(t, err)
	assert.Equal(t, "secret", note.Title)
}

func TestUpdateNotePartialMerge(t *testing.T) {
	owner := uuid.New()
	existing := entity.Note{
		ID:      uuid.New(),
		UserID:  owner,
		Title:   "old title",
		Summary: "old summary",
		Content: "old content",
		Tags:    []string{"old"},
	}

	repo := &mockNotesRepo{
		getNoteFunc: func(context.Context, uuid.UUID) (entity.Note, error) {
			return existing, nil
		},
		updateNoteFunc: func(_ context.Context, n entity.Note) (entity.Note, error) {
			return n, nil
		},
	}
	uc, _ := newUsecase(t, repo)

	newTitle := "new title"
	updated, err := uc.UpdateNote(context.Background(), owner, existing.ID, entity.NoteUpdate{
		Title: &newTitle,
	})
	require.NoError(t, err)

	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "old summary", updated.Summary, "unspecified fields keep previous values")
	assert.Equal(t, "old content", updated.Content)
	assert.Equal(t, []string{"old"}, updated.Tags)
}

func TestUpdateNotePermissions(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	title := "x"

	t.Run("non-owner on public note gets access denied", func(t *testing.T) {
		repo := &mockNotesRepo{
			getNoteFunc: func(context.Context, uuid.UUID) (entity.Note, error) {
				return entity.Note{ID: uuid.New(), UserID: owner, Title: "t"}, nil
			},
		}
		uc, _ := newUsecase(t, repo)

		_, err := uc.UpdateNote(context.Background(), stranger, uuid.New(), entity.NoteUpdate{Title: &title})
		assert.ErrorIs(t, err, entity.ErrAccessDenied)
	})

	t.Run("non-owner on private note gets not found", func(t *testing.T) {
		repo := &mockNotesRepo{
			getNoteFunc: func(context.Context, uuid.UUID) (entity.Note, error) {
				return entity.Note{ID: uuid.New(), UserID: owner, Title: "t", IsPrivate: true}, nil
			},
		}
		uc, _ := newUsecase(t, repo)

		_, err := uc.UpdateNote(context.Background(), stranger, uuid.New(), entity.NoteUpdate{Title: &title})
		assert.ErrorIs(t, err, entity.ErrNoteNotFound)
	})
}

func TestDeleteNoteRemovesAttachmentFiles(t *testing.T) {
	owner := uuid.New()
	noteID := uuid.New()

	repo := &mockNotesRepo{
		getNoteFunc: func(context.Context, uuid.UUID) (entity.Note, error) {
			return entity.Note{ID: noteID, UserID: owner, Title: "t"}, nil
		},
		attachmentPathsByNoteFunc: func(context.Context, uuid.UUID) ([]string, error) {
			return []string{"/uploads/a.pdf", "/uploads/b.png"}, nil
		},
		deleteNoteFunc: func(context.Context, uuid.UUID) error {
			return nil
		},
	}
	uc, files := newUsecase(t, repo)

	require.NoError(t, uc.DeleteNote(context.Background(), owner, noteID))
	assert.Equal(t, []string{"/uploads/a.pdf", "/uploads/b.png"}, files.removed)
}

func TestDeleteNoteFileRemovalIsBestEffort(t *testing.T) {
	owner := uuid.New()

	repo := &mockNotesRepo{
		getNoteFunc: func(context.Context, uuid.UUID) (entity.Note, error) {
			return entity.Note{ID: uuid.New(), UserID: owner, Title: "t"}, nil
		},
		attachmentPathsByNoteFunc: func(context.Context, uuid.UUID) ([]string, error) {
			return []string{"/uploads/gone.pdf"}, nil
		},
		deleteNoteFunc: func(context.Context, uuid.UUID) error {
			return nil
		},
	}
	uc, files := newUsecase(t, repo)
	files.removeErr = errors.New("unlink: no such file")

	assert.NoError(t, uc.DeleteNote(context.Background(), owner, uuid.New()))
}

func TestSearchBlankQuery(t *testing.T) {
	repo := &mockNotesRepo{
		searchNotesFunc: func(context.Context, uuid.UUID, string, int) ([]entity.Note, error) {
			t.Fatal("repo must not be called for a blank query")
			return nil, nil
		},
	}
	uc, _ := newUsecase(t, repo)

	for _, q := range []string{"", "   ", "\t\n"} {
		notes, err := uc.SearchNotes(context.Background(), uuid.New(), q, 20)
		require.NoError(t, err)
		assert.Empty(t, notes)
	}
}

func TestListNotesHasMore(t *testing.T) {
	makeNotes := func(n int) []entity.Note {
		notes := make([]entity.Note, n)
		for i := range notes {
			notes[i] = entity.Note{ID: uuid.New(), Title: fmt.Sprintf("n%d", i)}
		}
		return notes
	}

	t.Run("full page means more may follow", func(t *testing.T) {
		repo := &mockNotesRepo{
			listNotesFunc: func(_ context.Context, _ uuid.UUID, limit, offset int) ([]entity.Note, error) {
				assert.Equal(t, 5, limit)
				assert.Equal(t, 5, offset)
				return makeNotes(5), nil
			},
		}
		uc, _ := newUsecase(t, repo)

		page, err := uc.ListNotes(context.Background(), uuid.New(), 2, 5)
		require.NoError(t, err)
		assert.True(t, page.HasMore)
	})

	t.Run("short page is the last one", func(t *testing.T) {
		repo := &mockNotesRepo{
			listNotesFunc: func(context.Context, uuid.UUID, int, int) ([]entity.Note, error) {
				return makeNotes(3), nil
			},
		}
		uc, _ := newUsecase(t, repo)

		page, err := uc.ListNotes(context.Background(), uuid.New(), 1, 5)
		require.NoError(t, err)
		assert.False(t, page.HasMore)
	})

	t.Run("page and limit are normalized", func(t *testing.T) {
		repo := &mockNotesRepo{
			listNotesFunc: func(_ context.Context, _ uuid.UUID, limit, offset int) ([]entity.Note, error) {
				assert.Equal(t, DefaultPageSize, limit)
				assert.Equal(t, 0, offset)
				return nil, nil
			},
		}
		uc, _ := newUsecase(t, repo)

		page, err := uc.ListNotes(context.Background(), uuid.New(), -1, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, DefaultPageSize, page.Limit)
	})
}

func TestImportNotes(t *testing.T) {
	var created int
	repo := &mockNotesRepo{
		createNoteFunc: func(_ context.Context, n entity.Note) (entity.Note, error) {
			created++
			n.ID = uuid.New()
			return n, nil
		},
	}
	uc, _ := newUsecase(t, repo)

	items := make([]ImportItem, 10)
	for i := range items {
		items[i] = ImportItem{Title: fmt.Sprintf("note %d", i+1)}
	}
	items[4].Title = "" // item 5 has no title

	result, err := uc.ImportNotes(context.Background(), uuid.New(), items)
	require.NoError(t, err)

	assert.Equal(t, 10, result.Total)
	assert.Equal(t, 9, result.Imported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 5, result.Errors[0].Index)
	assert.Equal(t, "Unknown", result.Errors[0].Title)
	assert.Equal(t, 9, created)
}

func TestImportNotesErrorListIsBounded(t *testing.T) {
	repo := &mockNotesRepo{
		createNoteFunc: func(_ context.Context, n entity.Note) (entity.Note, error) {
			return n, nil
		},
	}
	uc, _ := newUsecase(t, repo)

	items := make([]ImportItem, maxImportErrors+10)
	for i := range items {
		items[i] = ImportItem{} // every item invalid
	}

	result, err := uc.ImportNotes(context.Background(), uuid.New(), items)
	require.NoError(t, err)

	assert.Equal(t, maxImportErrors+10, result.Failed)
	assert.Len(t, result.Errors, maxImportErrors)
}
