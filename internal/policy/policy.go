// Package policy holds the pure access decisions for notes. The requester
// is identified by user id; uuid.Nil means anonymous. Functions never do
// I/O and never fail: they decide over already-fetched entities.
package policy

import (
	"github.com/google/uuid"

	"github.com/evgeniy-krivenko/notes-web/internal/entity"
)

// CanRead reports whether requester may see the note. Public notes are
// readable by anyone, including anonymous; private notes only by their
// owner.
func CanRead(note entity.Note, requester uuid.UUID) bool {
	if !note.IsPrivate {
		return true
	}

	return requester != uuid.Nil && requester == note.UserID
}

// CanWrite reports whether requester may edit or delete the note. Writes
// are owner-only regardless of the privacy flag.
func CanWrite(note entity.Note, requester uuid.UUID) bool {
	return requester != uuid.Nil && requester == note.UserID
}
