package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/evgeniy-krivenko/notes-web/internal/entity"
)

// CreateConnection inserts the edge, absorbing duplicates: the unique
// index on (source, target, kind) is the arbiter, so two concurrent
// creates for the same triple cannot both insert, and the loser returns
// the surviving row.
func (r *Repo) CreateConnection(ctx context.Context, sourceID, targetID uuid.UUID, kind entity.ConnectionKind) (entity.Connection, error) {
	const insert = `
		INSERT INTO connections (source_note_id, target_note_id, connection_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (source_note_id, target_note_id, connection_type) DO NOTHING
		RETURNING id, source_note_id, target_note_id, connection_type, created_at`

	var c entity.Connection
	err := r.db.QueryRow(ctx, insert, sourceID, targetID, kind).Scan(
		&c.ID, &c.SourceNoteID, &c.TargetNoteID, &c.Kind, &c.CreatedAt,
	)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return entity.Connection{}, fmt.Errorf("create connection: %v", err)
	}

	// DO NOTHING returned no row: the edge already exists.
	const existing = `
		SELECT id, source_note_id, target_note_id, connection_type, created_at
		FROM connections
		WHERE source_note_id = $1 AND target_note_id = $2 AND connection_type = $3`

	err = r.db.QueryRow(ctx, existing, sourceID, targetID, kind).Scan(
		&c.ID, &c.SourceNoteID, &c.TargetNoteID, &c.Kind, &c.CreatedAt,
	)
	if err != nil {
		return entity.Connection{}, fmt.Errorf("get existing connection: %v", err)
	}

	return c, nil
}

func (r *Repo) GetConnection(ctx context.Context, id uuid.UUID) (entity.Connection, error) {
	const q = `
		SELECT id, source_note_id, target_note_id, connection_type, created_at
		FROM connections
		WHERE id = $1`

	var c entity.Connection
	err := r.db.QueryRow(ctx, q, id).Scan(
		&c.ID, &c.SourceNoteID, &c.TargetNoteID, &c.Kind, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Connection{}, entity.ErrConnectionNotFound
		}
		return entity.Connection{}, fmt.Errorf("get connection: %v", err)
	}

	return c, nil
}

// ListConnectionsByNote returns every edge touching the note, newest
// first, with both endpoint titles joined in.
func (r *Repo) ListConnectionsByNote(ctx context.Context, noteID uuid.UUID) ([]entity.Connection, error) {
	const q = `
		SELECT c.id, c.source_note_id, c.target_note_id, c.connection_type, c.created_at,
		       src.title, dst.title
		FROM connections c
		JOIN notes src ON c.source_note_id = src.id
		JOIN notes dst ON c.target_note_id = dst.id
		WHERE c.source_note_id = $1 OR c.target_note_id = $1
		ORDER BY c.created_at DESC`

	rows, err := r.db.Query(ctx, q, noteID)
	if err != nil {
		return nil, fmt.Errorf("list connections: %v", err)
	}
	defer rows.Close()

	conns := make([]entity.Connection, 0)
	for rows.Next() {
		var c entity.Connection
		err := rows.Scan(
			&c.ID, &c.SourceNoteID, &c.TargetNoteID, &c.Kind, &c.CreatedAt,
			&c.SourceTitle, &c.TargetTitle,
		)
		if err != nil {
			return nil, fmt.Errorf("list connections: %v", err)
		}
		conns = append(conns, c)
	}

	return conns, rows.Err()
}

func (r *Repo) DeleteConnection(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM connections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete connection: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrConnectionNotFound
	}

	return nil
}
