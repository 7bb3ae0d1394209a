package shared

import (
	"context"
	"time"

	"swapmarket/internal/domain/negotiation"
	"swapmarket/internal/domain/product"
	"swapmarket/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Negotiations() NegotiationRepository
	Settlements() SettlementRepository
	Messages() MessageRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	ProductByID(ctx context.Context, id uuid.UUID) (*ProductSnapshot, error)
	NegotiationByID(ctx context.Context, id uuid.UUID) (*NegotiationSnapshot, error)
	// HasActiveNegotiation reports whether the requester already has a
	// PENDING or APPROVED negotiation targeting the product.
	HasActiveNegotiation(ctx context.Context, requesterID, desiredProductID uuid.UUID) (bool, error)
}

// Minimal snapshots for command read operations
type ProductSnapshot struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	CategoryID uuid.UUID
	Name       string
	Kind       product.Kind
}

type NegotiationSnapshot struct {
	ID                uuid.UUID
	RequesterID       uuid.UUID
	DesiredProductID  uuid.UUID
	OfferedProductIDs []uuid.UUID
	Status            negotiation.Status
	SettlementID      *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type NegotiationRepository interface {
	// Create persists the negotiation and its offered-product associations.
	Create(ctx context.Context, db db.DBTX, n *negotiation.Negotiation) (uuid.UUID, error)
	// UpdateStatusWhere is a compare-and-set: the row moves to the target
	// status only if it currently holds one of the expected statuses. The
	// affected-row count resolves races between concurrent writers.
	UpdateStatusWhere(ctx context.Context, db db.DBTX, id uuid.UUID, to negotiation.Status, now time.Time, from ...negotiation.Status) (int64, error)
	AttachSettlement(ctx context.Context, db db.DBTX, id, settlementID uuid.UUID) error
	ReplaceOfferedProducts(ctx context.Context, db db.DBTX, id uuid.UUID, productIDs []uuid.UUID) error
	// RejectCompetitors moves every other PENDING negotiation that targets
	// the same desired product, or touches any of the offered products, to
	// REJECTED. Invoked only from within the approval transaction.
	RejectCompetitors(ctx context.Context, db db.DBTX, id, desiredProductID uuid.UUID, offeredProductIDs []uuid.UUID, now time.Time) (int64, error)
	TouchUpdatedAt(ctx context.Context, db db.DBTX, id uuid.UUID, now time.Time) error
}

type SettlementRepository interface {
	Create(ctx context.Context, db db.DBTX, s *negotiation.Settlement) (uuid.UUID, error)
}

type MessageRepository interface {
	Append(ctx context.Context, db db.DBTX, m *negotiation.Message) (uuid.UUID, error)
}
