package connections

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/evgeniy-krivenko/notes-web/internal/entity"
	"github.com/evgeniy-krivenko/notes-web/internal/policy"
	"github.com/evgeniy-krivenko/notes-web/pkg/logger/slogx"
)

type connectionsRepository interface {
	CreateConnection(ctx context.Context, sourceID, targetID uuid.UUID, kind entity.ConnectionKind) (entity.Connection, error)
	GetConnection(ctx context.Context, id uuid.UUID) (entity.Connection, error)
	ListConnectionsByNote(ctx context.Context, noteID uuid.UUID) ([]entity.Connection, error)
	DeleteConnection(ctx context.Context, id uuid.UUID) error
}

type notesReader interface {
	GetNote(ctx context.Context, id uuid.UUID) (entity.Note, error)
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.2 -out-filename=usecase_options.gen.go -from-struct=Options
type Options struct {
	repo  connectionsRepository `option:"mandatory" validate:"required"`
	notes notesReader           `option:"mandatory" validate:"required"`
}

type Usecase struct {
	Options
}

func New(opts Options) (*Usecase, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate connections usecase options: %v", err)
	}

	return &Usecase{Options: opts}, nil
}

// Kinds lists the edge labels a client may use.
func (u *Usecase) Kinds() []entity.ConnectionKind {
	return entity.ConnectionKinds()
}

// CreateConnection links two notes the requester can modify. Creating an
// edge that already exists returns the existing edge unchanged.
func (u *Usecase) CreateConnection(
	ctx context.Context,
	requester uuid.UUID,
	sourceID, targetID uuid.UUID,
	kind entity.ConnectionKind,
) (entity.Connection, error) {
	if sourceID == targetID {
		return entity.Connection{}, entity.NewValidationError("a note cannot be connected to itself")
	}
	if !kind.Valid() {
		return entity.Connection{}, entity.NewValidationError(fmt.Sprintf("unknown connection type %q", kind))
	}

	source, err := u.getWritable(ctx, requester, sourceID)
	if err != nil {
		return entity.Connection{}, err
	}
	target, err := u.getWritable(ctx, requester, targetID)
	if err != nil {
		return entity.Connection{}, err
	}

	conn, err := u.repo.CreateConnection(ctx, sourceID, targetID, kind)
	if err != nil {
		return entity.Connection{}, fmt.Errorf("usecase create connection: %w", err)
	}
	conn.SourceTitle = source.Title
	conn.TargetTitle = target.Title

	slogx.Info(ctx, "connection created",
		slogx.UserId(requester),
		slogx.NoteId(sourceID),
	)

	return conn, nil
}

// ListConnections returns every edge touching the note, each annotated
// with its direction as seen from that note.
func (u *Usecase) ListConnections(ctx context.Context, requester, noteID uuid.UUID) ([]entity.ConnectionView, error) {
	note, err := u.notes.GetNote(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("usecase list connections: %w", err)
	}
	if !policy.CanRead(note, requester) {
		return nil, entity.ErrNoteNotFound
	}

	conns, err := u.repo.ListConnectionsByNote(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("usecase list connections: %w", err)
	}

	views := make([]entity.ConnectionView, 0, len(conns))
	for _, c := range conns {
		v := entity.ConnectionView{
			ID:        c.ID,
			Kind:      c.Kind,
			CreatedAt: c.CreatedAt,
		}
		if c.SourceNoteID == noteID {
			v.Direction = entity.DirectionOutgoing
			v.NoteID = c.TargetNoteID
			v.Title = c.TargetTitle
		} else {
			v.Direction = entity.DirectionIncoming
			v.NoteID = c.SourceNoteID
			v.Title = c.SourceTitle
		}
		views = append(views, v)
	}

	return views, nil
}

// DeleteConnection removes an edge. Only someone who can modify the
// source note may delete it; everyone else sees the edge as missing.
func (u *Usecase) DeleteConnection(ctx context.Context, requester, id uuid.UUID) error {
	conn, err := u.repo.GetConnection(ctx, id)
	if err != nil {
		return fmt.Errorf("usecase delete connection: %w", err)
	}

	source, err := u.notes.GetNote(ctx, conn.SourceNoteID)
	if err != nil {
		return fmt.Errorf("usecase delete connection: %w", err)
	}
	if !policy.CanWrite(source, requester) {
		return entity.ErrConnectionNotFound
	}

	if err := u.repo.DeleteConnection(ctx, id); err != nil {
		return fmt.Errorf("usecase delete connection: %w", err)
	}

	slogx.Info(ctx, "connection deleted", slogx.UserId(requester))

	return nil
}

func (u *Usecase) getWritable(ctx context.Context, requester, noteID uuid.UUID) (entity.Note, error) {
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
