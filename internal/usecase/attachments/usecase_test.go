package attachments

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evgeniy-krivenko/notes-web/internal/entity"
	"github.com/evgeniy-krivenko/notes-web/internal/filestore"
	"github.com/evgeniy-krivenko/notes-web/pkg/logger/slogx"
)

func TestMain(m *testing.M) {
	if err := slogx.InitGlobal(os.Stderr, "error", false); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type mockAttachmentsRepo struct {
	createAttachmentFunc      func(ctx context.Context, a entity.Attachment) (entity.Attachment, error)
	getAttachmentFunc         func(ctx context.Context, id uuid.UUID) (entity.Attachment, error)
	listAttachmentsByNoteFunc func(ctx context.Context, noteID uuid.UUID) ([]entity.Attachment, error)
	deleteAttachmentFunc      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockAttachmentsRepo) CreateAttachment(ctx context.Context, a entity.Attachment) (entity.Attachment, error) {
	return m.createAttachmentFunc(ctx, a)
}

func (m *mockAttachmentsRepo) GetAttachment(ctx context.Context, id uuid.UUID) (entity.Attachment, error) {
	return m.getAttachmentFunc(ctx, id)
}

func (m *mockAttachmentsRepo) ListAttachmentsByNote(ctx context.Context, noteID uuid.UUID) ([]entity.Attachment, error) {
	return m.listAttachmentsByNoteFunc(ctx, noteID)
}

func (m *mockAttachmentsRepo) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	return m.deleteAttachmentFunc(ctx, id)
}

type mockNotes struct {
	notes map[uuid.UUID]entity.Note
}

func (m *mockNotes) GetNote(_ context.Context, id uuid.UUID) (entity.Note, error) {
	n, ok := m.notes[id]
	if !ok {
		return entity.Note{}, entity.ErrNoteNotFound
	}
	return n, nil
}

type mockStorage struct {
	saveFunc func(r io.Reader, originalName string, maxSize int64) (filestore.Stored, error)
	openFunc func(path string) (io.ReadSeekCloser, error)
	removed  []string
}

func (m *mockStorage) Save(r io.Reader, originalName string, maxSize int64) (filestore.Stored, error) {
	return m.saveFunc(r, originalName, maxSize)
}

func (m *mockStorage) Open(path string) (io.ReadSeekCloser, error) {
	return m.openFunc(path)
}

func (m *mockStorage) Remove(path string) error {
	m.removed = append(m.removed, path)
	return nil
}

func newUsecase(t *testing.T, repo *mockAttachmentsRepo, notes *mockNotes, files *mockStorage) *Usecase {
	t.Helper()

	uc, err := New(NewOptions(repo, notes, files))
	require.NoError(t, err)

	return uc
}

func TestUpload(t *testing.T) {
	owner := uuid.New()
	noteID := uuid.New()
	notes := &mockNotes{notes: map[uuid.UUID]entity.Note{
		noteID: {ID: noteID, UserID: owner, Title: "n"},
	}}

	files := &mockStorage{
		saveFunc: func(r io.Reader, originalName string, maxSize int64) (filestore.Stored, error) {
			data, err := io.ReadAll(r)
			require.NoError(t, err)
			return filestore.Stored{
				Name: "abc123.pdf",
				Path: "uploads/abc123.pdf",
				Size: int64(len(data)),
			}, nil
		},
	}
	repo := &mockAttachmentsRepo{
		createAttachmentFunc: func(_ context.Context, a entity.Attachment) (entity.Attachment, error) {
			a.ID = uuid.New()
			return a, nil
		},
	}
	uc := newUsecase(t, repo, notes, files)

	att, err := uc.Upload(context.Background(), owner, UploadInput{
		NoteID:       noteID,
		OriginalName: "report.pdf",
		MimeType:     "application/pdf",
		Size:         11,
		Body:         bytes.NewBufferString("hello world"),
	})
	require.NoError(t, err)

	assert.Equal(t, "abc123.pdf", att.Filename)
	assert.Equal(t, "report.pdf", att.OriginalFilename)
	assert.Equal(t, int64(11), att.FileSize)
	assert.Equal(t, owner, att.UploadedBy)
}

func TestUploadRejections(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	noteID := uuid.New()
	privateID := uuid.New()
	notes := &mockNotes{notes: map[uuid.UUID]entity.Note{
		noteID:    {ID: noteID, UserID: owner, Title: "n"},
		privateID: {ID: privateID, UserID: owner, Title: "p", IsPrivate: true},
	}}
	uc := newUsecase(t, &mockAttachmentsRepo{}, notes, &mockStorage{})
	ctx := context.Background()

	t.Run("disallowed mime type", func(t *testing.T) {
		_, err := uc.Upload(ctx, owner, UploadInput{
			NoteID:       noteID,
			OriginalName: "a.exe",
			MimeType:     "application/x-msdownload",
			Body:         strings.NewReader("x"),
		})
		assert.True(t, entity.IsValidation(err))
	})

	t.Run("declared size over limit", func(t *testing.T) {
		_, err := uc.Upload(ctx, owner, UploadInput{
			NoteID:       noteID,
			OriginalName: "big.pdf",
			MimeType:     "application/pdf",
			Size:         entity.MaxAttachmentSize + 1,
			Body:         strings.NewReader("x"),
		})
		assert.True(t, entity.IsValidation(err))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := uc.Upload(ctx, owner, UploadInput{NoteID: noteID, MimeType: "application/pdf"})
		assert.True(t, entity.IsValidation(err))
	})

	t.Run("not the note owner", func(t *testing.T) {
		_, err := uc.Upload(ctx, stranger, UploadInput{
			NoteID:       noteID,
			OriginalName: "a.pdf",
			MimeType:     "application/pdf",
			Body:         strings.NewReader("x"),
		})
		assert.ErrorIs(t, err, entity.ErrAccessDenied)
	})

	t.Run("private note looks missing", func(t *testing.T) {
		_, err := uc.Upload(ctx, stranger, UploadInput{
			NoteID:       privateID,
			OriginalName: "a.pdf",
			MimeType:     "application/pdf",
			Body:         strings.NewReader("x"),
		})
		assert.ErrorIs(t, err, entity.ErrNoteNotFound)
	})
}

func TestUploadCleansUpOnInsertFailure(t *testing.T) {
	owner := uuid.New()
	noteID := uuid.New()
	notes := &mockNotes{notes: map[uuid.UUID]entity.Note{
		noteID: {ID: noteID, UserID: owner, Title: "n"},
	}}

	files := &mockStorage{
		saveFunc: func(io.Reader, string, int64) (filestore.Stored, error) {
			return filestore.Stored{Name: "x.pdf", Path: "uploads/x.pdf", Size: 1}, nil
		},
	}
	repo := &mockAttachmentsRepo{
		createAttachmentFunc: func(context.Context, entity.Attachment) (entity.Attachment, error) {
			return entity.Attachment{}, errors.New("insert failed")
		},
	}
	uc := newUsecase(t, repo, notes, files)

	_, err := uc.Upload(context.Background(), owner, UploadInput{
		NoteID:       noteID,
		OriginalName: "a.pdf",
		MimeType:     "application/pdf",
		Body:         strings.NewReader("x"),
	})
	require.Error(t, err)
	assert.Equal(t, []string{"uploads/x.pdf"}, files.removed)
}

type nopReadSeekCloser struct {
	io.ReadSeeker
}

func (nopReadSeekCloser) Close() error { return nil }

func TestDownload(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	noteID := uuid.New()
	attID := uuid.New()

	notes := &mockNotes{notes: map[uuid.UUID]entity.Note{
		noteID: {ID: noteID, UserID: owner, Title: "n", IsPrivate: true},
	}}
	repo := &mockAttachmentsRepo{
		getAttachmentFunc: func(_ context.Context, id uuid.UUID) (entity.Attachment, error) {
			if id != attID {
				return entity.Attachment{}, entity.ErrAttachmentNotFound
			}
			return entity.Attachment{
				ID:               attID,
				NoteID:           noteID,
				FilePath:         "uploads/doc.pdf",
				OriginalFilename: "doc.pdf",
				MimeType:         "application/pdf",
			}, nil
		},
	}
	files := &mockStorage{
		openFunc: func(path string) (io.ReadSeekCloser, error) {
			assert.Equal(t, "uploads/doc.pdf", path)
			return nopReadSeekCloser{strings.NewReader("content")}, nil
		},
	}
	uc := newUsecase(t, repo, notes, files)
	ctx := context.Background()

	t.Run("owner downloads", func(t *testing.T) {
		att, f, err := uc.Download(ctx, owner, attID)
		require.NoError(t, err)
		defer f.Close()

		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "content", string(data))
		assert.Equal(t, "doc.pdf", att.OriginalFilename)
	})

	t.Run("private note hides the attachment", func(t *testing.T) {
		_, _, err := uc.Download(ctx, stranger, attID)
		assert.ErrorIs(t, err, entity.ErrAttachmentNotFound)
	})
}

func TestDelete(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	noteID := uuid.New()
	attID := uuid.New()

	notes := &mockNotes{notes: map[uuid.UUID]entity.Note{
		noteID: {ID: noteID, UserID: owner, Title: "n"},
	}}

	var rowDeleted bool
	repo := &mockAttachmentsRepo{
		getAttachmentFunc: func(context.Context, uuid.UUID) (entity.Attachment, error) {
			return entity.Attachment{ID: attID, NoteID: noteID, FilePath: "uploads/doc.pdf"}, nil
		},
		deleteAttachmentFunc: func(context.Context, uuid.UUID) error {
			rowDeleted = true
			return nil
		},
	}
	files := &mockStorage{}
	uc := newUsecase(t, repo, notes, files)
	ctx := context.Background()

	t.Run("public note readable but not deletable by others", func(t *testing.T) {
		err := uc.Delete(ctx, stranger, attID)
		assert.ErrorIs(t, err, entity.ErrAccessDenied)
		assert.False(t, rowDeleted)
	})

	t.Run("owner deletes row and file", func(t *testing.T) {
		require.NoError(t, uc.Delete(ctx, owner, attID))
		assert.True(t, rowDeleted)
		assert.Equal(t, []string{"uploads/doc.pdf"}, files.removed)
	})
}

func TestListAttachmentsMasksPrivateNote(t *testing.T) {
	owner := uuid.New()
	noteID := uuid.New()
	notes := &mockNotes{notes: map[uuid.UUID]entity.Note{
		noteID: {ID: noteID, UserID: owner, Title: "n", IsPrivate: true},
	}}
	repo := &mockAttachmentsRepo{
		listAttachmentsByNoteFunc: func(context.Context, uuid.UUID) ([]entity.Attachment, error) {
			return []entity.Attachment{{ID: uuid.New()}}, nil
		},
	}
	uc := newUsecase(t, repo, notes, &mockStorage{})

	_, err := uc.ListAttachments(context.Background(), uuid.New(), noteID)
	assert.ErrorIs(t, err, entity.ErrNoteNotFound)

	atts, err := uc.ListAttachments(context.Background(), owner, noteID)
	require.NoError(t, err)
	assert.Len(t, atts, 1)
}
