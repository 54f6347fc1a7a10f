package domain

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategorySports   Category = "Sports"
	CategoryLiterary Category = "Literary"
	CategorySTEM     Category = "STEM"
)

func (c Category) Valid() bool {
	switch c {
	case CategorySports, CategoryLiterary, CategorySTEM:
		return true
	}
	return false
}

type PositionType string

const (
	TypeHead       PositionType = "Head"
	TypeDeputyHead PositionType = "Deputy Head"
)

func (t PositionType) Valid() bool {
	return t == TypeHead || t == TypeDeputyHead
}

// Position is a voteable office with a fixed, ordered candidate list.
// Candidate order is the public ballot order: candidates are addressed by
// index and the list is append-only once votes exist.
type Position struct {
	ID         uuid.UUID    `json:"id"`
	Title      string       `json:"title"`
	Category   Category     `json:"category"`
	Type       PositionType `json:"type"`
	Candidates []Candidate  `json:"candidates"`
	IsActive   bool         `json:"is_active"`
	CreatedBy  uuid.UUID    `json:"created_by"`
	CreatedAt  time.Time    `json:"created_at"`
	DeletedAt  *time.Time   `json:"deleted_at,omitempty"`
}

type Candidate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Votes       int64  `json:"votes"`
}

// HasCandidate reports whether index addresses a candidate on the ballot.
func (p *Position) HasCandidate(index int) bool {
	return index >= 0 && index < len(p.Candidates)
}
