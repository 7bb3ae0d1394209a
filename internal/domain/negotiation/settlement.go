package negotiation

import (
	"time"

	"github.com/google/uuid"
)

// Settlement marks a negotiation's successful completion. Created exactly once
// when the negotiation is approved, immutable thereafter.
type Settlement struct {
	id        uuid.UUID
	createdAt time.Time
}

func NewSettlement(now time.Time) *Settlement {
	return &Settlement{
		id:        uuid.New(),
		createdAt: now,
	}
}

func (s *Settlement) ID() uuid.UUID        { return s.id }
func (s *Settlement) CreatedAt() time.Time { return s.createdAt }
