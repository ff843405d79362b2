package entity

import (
	"time"

	"github.com/google/uuid"
)

type ConnectionKind string

const (
	KindRelated     ConnectionKind = "related"
	KindContradicts ConnectionKind = "contradicts"
	KindExemplifies ConnectionKind = "exemplifies"
	KindInspires    ConnectionKind = "inspires"
	KindCauses      ConnectionKind = "causes"
	KindPartOf      ConnectionKind = "part_of"
)

// ConnectionKinds returns the closed set of edge labels in presentation order.
func ConnectionKinds() []ConnectionKind {
	return []ConnectionKind{
		KindRelated,
		KindContradicts,
		KindExemplifies,
		KindInspires,
		KindCauses,
		KindPartOf,
	}
}

func (k ConnectionKind) Valid() bool {
	switch k {
	case KindRelated, KindContradicts, KindExemplifies, KindInspires, KindCauses, KindPartOf:
		return true
	}
	return false
}

type Connection struct {
	ID           uuid.UUID
	SourceNoteID uuid.UUID
	TargetNoteID uuid.UUID
	Kind         ConnectionKind
	CreatedAt    time.Time

	// Titles are joined from the notes table on read paths.
	SourceTitle string
	TargetTitle string
}

type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
)

// ConnectionView is one edge seen from the perspective of a single note.
type ConnectionView struct {
	ID        uuid.UUID
	NoteID    uuid.UUID
	Title     string
	Kind      ConnectionKind
	Direction Direction
	CreatedAt time.Time
}
