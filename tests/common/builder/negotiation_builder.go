//go:build unit

package builder

import (
	"time"

	domneg "swapmarket/internal/domain/negotiation"
	"swapmarket/internal/domain/product"

	"github.com/google/uuid"
)

type NegotiationBuilder struct {
	RequesterID uuid.UUID
	OwnerID     uuid.UUID
	DesiredID   uuid.UUID
	Kind        product.Kind
	OfferedIDs  []uuid.UUID
	Draft       bool
	Now         time.Time
}

func NewNegotiationBuilder() *NegotiationBuilder {
	return &NegotiationBuilder{
		RequesterID: uuid.New(),
		OwnerID:     uuid.New(),
		DesiredID:   uuid.New(),
		Kind:        product.KindExchange,
		OfferedIDs:  []uuid.UUID{uuid.New()},
		Now:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *NegotiationBuilder) With(mutate func(*NegotiationBuilder)) *NegotiationBuilder {
	mutate(b)
	return b
}

func (b *NegotiationBuilder) Desired() domneg.DesiredSpec {
	return domneg.DesiredSpec{
		ID:      b.DesiredID,
		OwnerID: b.OwnerID,
		Kind:    b.Kind,
	}
}

func (b *NegotiationBuilder) Offered() []domneg.OfferedSpec {
	specs := make([]domneg.OfferedSpec, len(b.OfferedIDs))
	for i, id := range b.OfferedIDs {
		specs[i] = domneg.OfferedSpec{ID: id, OwnerID: b.RequesterID}
	}
	return specs
}

func (b *NegotiationBuilder) BuildDomain() (*domneg.Negotiation, error) {
	offered := b.Offered()
	if b.Draft {
		offered = nil
	}
	return domneg.NewNegotiation(uuid.Nil, b.RequesterID, b.Desired(), offered, b.Draft, b.Now)
}
