package connections

import (
	"context"
	"os"
	"testing"
	"time"

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

type mockConnectionsRepo struct {
	createConnectionFunc      func(ctx context.Context, sourceID, targetID uuid.UUID, kind entity.ConnectionKind) (entity.Connection, error)
	getConnectionFunc         func(ctx context.Context, id uuid.UUID) (entity.Connection, error)
	listConnectionsByNoteFunc func(ctx context.Context, noteID uuid.UUID) ([]entity.Connection, error)
	deleteConnectionFunc      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockConnectionsRepo) CreateConnection(ctx context.Context, sourceID, targetID uuid.UUID, kind entity.ConnectionKind) (entity.Connection, error) {
	return m.createConnectionFunc(ctx, sourceID, targetID, kind)
}

func (m *mockConnectionsRepo) GetConnection(ctx context.Context, id uuid.UUID) (entity.Connection, error) {
	return m.getConnectionFunc(ctx, id)
}

func (m *mockConnectionsRepo) ListConnectionsByNote(ctx context.Context, noteID uuid.UUID) ([]entity.Connection, error) {
	return m.listConnectionsByNoteFunc(ctx, noteID)
}

func (m *mockConnectionsRepo) DeleteConnection(ctx context.Context, id uuid.UUID) error {
	return m.deleteConnectionFunc(ctx, id)
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

func newUsecase(t *testing.T, repo *mockConnectionsRepo, notes *mockNotes) *Usecase {
	t.Helper()

	uc, err := New(NewOptions(repo, notes))
	require.NoError(t, err)

	return uc
}

func TestCreateConnection(t *testing.T) {
	owner := uuid.New()
	sourceID := uuid.New()
	targetID := uuid.New()

	notes := &mockNotes{notes: map[uuid.UUID]entity.Note{
		sourceID: {ID: sourceID, UserID: owner, Title: "source"},
		targetID: {ID: targetID, UserID: owner, Title: "target"},
	}}

	repo := &mockConnectionsRepo{
		createConnectionFunc: func(_ context.Context, s, tg uuid.UUID, kind entity.ConnectionKind) (entity.Connection, error) {
			return entity.Connection{
				ID:           uuid.New(),
				SourceNoteID: s,
				TargetNoteID: tg,
				Kind:         kind,
			}, nil
		},
	}
	uc := newUsecase(t, repo, notes)

	conn, err := uc.CreateConnection(context.Background(), owner, sourceID, targetID, entity.KindInspires)
	require.NoError(t, err)
	assert.Equal(t, entity.KindInspires, conn.Kind)
	assert.Equal(t, "source", conn.SourceTitle)
	assert.Equal(t, "target", conn.TargetTitle)
}

func TestCreateConnectionRejectsSelfLoop(t *testing.T) {
	uc := newUsecase(t, &mockConnectionsRepo{}, &mockNotes{})

	id := uuid.New()
	_, err := uc.CreateConnection(context.Background(), uuid.New(), id, id, entity.KindRelated)
	assert.True(t, entity.IsValidation(err))
}

func TestCreateConnectionRejectsUnknownKind(t *testing.T) {
	uc := newUsecase(t, &mockConnectionsRepo{}, &mockNotes{})

	_, err := uc.CreateConnection(context.Background(), uuid.New(), uuid.New(), uuid.New(), "friends_with")
	assert.True(t, entity.IsValidation(err))
}

func TestCreateConnectionEndpointPermissions(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	mine := uuid.New()
	publicOther := uuid.New()
	privateOther := uuid.New()

	notes := &mockNotes{notes: map[uuid.UUID]entity.Note{
		mine:         {ID: mine, UserID: stranger, Title: "mine"},
		publicOther:  {ID: publicOther, UserID: owner, Title: "theirs"},
		privateOther: {ID: privateOther, UserID: owner, Title: "hidden", IsPrivate: true},
	}}
	uc := newUsecase(t, &mockConnectionsRepo{}, notes)
	ctx := context.Background()

	t.Run("missing endpoint", func(t *testing.T) {
		_, err := uc.CreateConnection(ctx, stranger, mine, uuid.New(), entity.KindRelated)
		assert.ErrorIs(t, err, entity.ErrNoteNotFound)
	})

	t.Run("readable but not writable endpoint", func(t *testing.T) {
		_, err := uc.CreateConnection(ctx, stranger, mine, publicOther, entity.KindRelated)
		assert.ErrorIs(t, err, entity.ErrAccessDenied)
	})

	t.Run("unreadable endpoint looks missing", func(t *testing.T) {
		_, err := uc.CreateConnection(ctx, stranger, mine, privateOther, entity.KindRelated)
		assert.ErrorIs(t, err, entity.ErrNoteNotFound)
		assert.NotErrorIs(t, err, entity.ErrAccessDenied)
	})
}

func TestListConnectionsDirections(t *testing.T) {
	owner := uuid.New()
	noteID := uuid.New()
	otherA := uuid.New()
	otherB := uuid.New()
	now := time.Now()

	notes := &mockNotes{notes: map[uuid.UUID]entity.Note{
		noteID: {ID: noteID, UserID: owner, Title: "hub"},
	}}
	repo := &mockConnectionsRepo{
		listConnectionsByNoteFunc: func(context.Context, uuid.UUID) ([]entity.Connection, error) {
			return []entity.Connection{
				{
					ID:           uuid.New(),
					SourceNoteID: noteID,
					TargetNoteID: otherA,
					Kind:         entity.KindCauses,
					CreatedAt:    now,
					SourceTitle:  "hub",
					TargetTitle:  "effect",
				},
				{
					ID:           uuid.New(),
					SourceNoteID: otherB,
					TargetNoteID: noteID,
					Kind:         entity.KindPartOf,
					CreatedAt:    now,
					SourceTitle:  "piece",
					TargetTitle:  "hub",
				},
			}, nil
		},
	}
	uc := newUsecase(t, repo, notes)

	views, err := uc.ListConnections(context.Background(), owner, noteID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, entity.DirectionOutgoing, views[0].Direction)
	assert.Equal(t, otherA, views[0].NoteID)
	assert.Equal(t, "effect", views[0].Title)

	assert.Equal(t, entity.DirectionIncoming, views[1].Direction)
	assert.Equal(t, otherB, views[1].NoteID)
	assert.Equal(t, "piece", views[1].Title)
}

func TestListConnectionsMasksPrivateNote(t *testing.T) {
	owner := uuid.New()
	noteID := uuid.New()

	notes := &mockNotes{notes: map[uuid.UUID]entity.Note{
		noteID: {ID: noteID, UserID: owner, Title: "hidden", IsPrivate: true},
	}}
	uc := newUsecase(t, &mockConnectionsRepo{}, notes)

	_, err := uc.ListConnections(context.Background(), uuid.New(), noteID)
	assert.ErrorIs(t, err, entity.ErrNoteNotFound)
}

func TestDeleteConnection(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	sourceID := uuid.New()
	connID := uuid.New()

	notes := &mockNotes{notes: map[uuid.UUID]entity.Note{
		sourceID: {ID: sourceID, UserID: owner, Title: "source"},
	}}

	var deleted bool
	repo := &mockConnectionsRepo{
		getConnectionFunc: func(_ context.Context, id uuid.UUID) (entity.Connection, error) {
			if id != connID {
				return entity.Connection{}, entity.ErrConnectionNotFound
			}
			return entity.Connection{ID: connID, SourceNoteID: sourceID, TargetNoteID: uuid.New()}, nil
		},
		deleteConnectionFunc: func(context.Context, uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	uc := newUsecase(t, repo, notes)
	ctx := context.Background()

	t.Run("owner of the source note deletes", func(t *testing.T) {
		require.NoError(t, uc.DeleteConnection(ctx, owner, connID))
		assert.True(t, deleted)
	})

	t.Run("others see the edge as missing", func(t *testing.T) {
		err := uc.DeleteConnection(ctx, stranger, connID)
		assert.ErrorIs(t, err, entity.ErrConnectionNotFound)
	})

	t.Run("unknown edge", func(t *testing.T) {
		err := uc.DeleteConnection(ctx, owner, uuid.New())
		assert.ErrorIs(t, err, entity.ErrConnectionNotFound)
	})
}
