package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/evgeniy-krivenko/notes-web/internal/entity"
)

const noteColumns = `
	n.id, n.user_id, n.title,
	coalesce(n.summary, ''), coalesce(n.content, ''), n.tags,
	coalesce(n.image, ''), n.is_private, n.created_at, n.updated_at`

const noteWithAuthorColumns = noteColumns + `,
	coalesce(u.name, ''), coalesce(u.email, '')`

func scanNote(row pgx.Row, n *entity.Note) error {
	return row.Scan(
		&n.ID, &n.UserID, &n.Title,
		&n.Summary, &n.Content, &n.Tags,
		&n.Image, &n.IsPrivate, &n.CreatedAt, &n.UpdatedAt,
	)
}

func scanNoteWithAuthor(row pgx.Row, n *entity.Note) error {
	return row.Scan(
		&n.ID, &n.UserID, &n.Title,
		&n.Summary, &n.Content, &n.Tags,
		&n.Image, &n.IsPrivate, &n.CreatedAt, &n.UpdatedAt,
		&n.AuthorName, &n.AuthorEmail,
	)
}

func collectNotesWithAuthor(rows pgx.Rows) ([]entity.Note, error) {
	defer rows.Close()

	notes := make([]entity.Note, 0)
	for rows.Next() {
		var n entity.Note
		if err := scanNoteWithAuthor(rows, &n); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}

func (r *Repo) CreateNote(ctx context.Context, n entity.Note) (entity.Note, error) {
	query := `
		INSERT INTO notes AS n (user_id, title, summary, content, tags, image, is_private)
		VALUES ($1, $2, nullif($3, ''), nullif($4, ''), $5, nullif($6, ''), $7)
		RETURNING ` + noteColumns

	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}

	var created entity.Note
	err := scanNote(r.db.QueryRow(ctx, query,
		n.UserID, n.Title, n.Summary, n.Content, tags, n.Image, n.IsPrivate,
	), &created)
	if err != nil {
		return entity.Note{}, fmt.Errorf("create note: %v", err)
	}

	return created, nil
}

func (r *Repo) GetNote(ctx context.Context, id uuid.UUID) (entity.Note, error) {
	query := `
		SELECT ` + noteWithAuthorColumns + `
		FROM notes n
		LEFT JOIN users u ON n.user_id = u.id
		WHERE n.id = $1`

	var n entity.Note
	err := scanNoteWithAuthor(r.db.QueryRow(ctx, query, id), &n)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Note{}, entity.ErrNoteNotFound
		}
		return entity.Note{}, fmt.Errorf("get note: %v", err)
	}

	return n, nil
}

// ListNotes returns notes visible to requester, newest-updated-first.
// Private notes of other users are filtered in SQL, never in the client.
func (r *Repo) ListNotes(ctx context.Context, requester uuid.UUID, limit, offset int) ([]entity.Note, error) {
	query := `
		SELECT ` + noteWithAuthorColumns + `
		FROM notes n
		LEFT JOIN users u ON n.user_id = u.id
		WHERE NOT n.is_private OR n.user_id = $1
		ORDER BY n.updated_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, requester, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notes: %v", err)
	}

	notes, err := collectNotesWithAuthor(rows)
	if err != nil {
		return nil, fmt.Errorf("list notes: %v", err)
	}

	return notes, nil
}

func (r *Repo) UpdateNote(ctx context.Context, n entity.Note) (entity.Note, error) {
	query := `
		UPDATE notes n
		SET title = $1,
		    summary = nullif($2, ''),
		    content = nullif($3, ''),
		    tags = $4,
		    image = nullif($5, ''),
		    is_private = $6,
		    updated_at = now()
		WHERE n.id = $7
		RETURNING ` + noteColumns

	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}

	var updated entity.Note
	err := scanNote(r.db.QueryRow(ctx, query,
		n.Title, n.Summary, n.Content, tags, n.Image, n.IsPrivate, n.ID,
	), &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Note{}, entity.ErrNoteNotFound
		}
		return entity.Note{}, fmt.Errorf("update note: %v", err)
	}

	return updated, nil
}

func (r *Repo) DeleteNote(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrNoteNotFound
	}

	return nil
}

// SearchNotes ranks visible notes against query using the database's
// full-text engine, with tag and substring matches as a fallback.
func (r *Repo) SearchNotes(ctx context.Context, requester uuid.UUID, query string, limit int) ([]entity.Note, error) {
	sql := `
		SELECT ` + noteWithAuthorColumns + `
		FROM notes n
		LEFT JOIN users u ON n.user_id = u.id
		WHERE (NOT n.is_private OR n.user_id = $1)
		  AND (
			to_tsvector('english', n.title || ' ' || coalesce(n.summary, '') || ' ' || coalesce(n.content, ''))
				@@ plainto_tsquery('english', $2)
			OR lower($2) = ANY (SELECT lower(unnest(n.tags)))
			OR n.title ILIKE '%' || $2 || '%'
			OR n.summary ILIKE '%' || $2 || '%'
			OR n.content ILIKE '%' || $2 || '%'
		  )
		ORDER BY ts_rank(
			to_tsvector('english', n.title || ' ' || coalesce(n.summary, '') || ' ' || coalesce(n.content, '')),
			plainto_tsquery('english', $2)
		) DESC, n.updated_at DESC
		LIMIT $3`

	rows, err := r.db.Query(ctx, sql, requester, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search notes: %v", err)
	}

	notes, err := collectNotesWithAuthor(rows)
	if err != nil {
		return nil, fmt.Errorf("search notes: %v", err)
	}

	return notes, nil
}

// ListTags aggregates tag usage over notes visible to requester, most
// used first.
func (r *Repo) ListTags(ctx context.Context, requester uuid.UUID) ([]entity.TagCount, error) {
	const q = `
		SELECT unnest(tags) AS tag, count(*) AS count
		FROM notes
		WHERE NOT is_private OR user_id = $1
		GROUP BY tag
		ORDER BY count DESC, tag ASC`

	rows, err := r.db.Query(ctx, q, requester)
	if err != nil {
		return nil, fmt.Errorf("list tags: %v", err)
	}
	defer rows.Close()

	tags := make([]entity.TagCount, 0)
	for rows.Next() {
		var tc entity.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, fmt.Errorf("list tags: %v", err)
		}
		tags = append(tags, tc)
	}

	return tags, rows.Err()
}

func (r *Repo) ListNotesByTag(ctx context.Context, requester uuid.UUID, tag string, limit, offset int) ([]entity.Note, error) {
	query := `
		SELECT ` + noteWithAuthorColumns + `
		FROM notes n
		LEFT JOIN users u ON n.user_id = u.id
		WHERE (NOT n.is_private OR n.user_id = $1)
		  AND lower($2) = ANY (SELECT lower(unnest(n.tags)))
		ORDER BY n.updated_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, query, requester, tag, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notes by tag: %v", err)
	}

	notes, err := collectNotesWithAuthor(rows)
	if err != nil {
		return nil, fmt.Errorf("list notes by tag: %v", err)
	}

	return notes, nil
}
