//go:build unit

// Package memstore provides an in-memory UnitOfWork for exercising command
// flows without a database. It mirrors the persistence contracts closely
// enough for state machine scenarios; it does not simulate concurrency.
package memstore

import (
	"context"
	"time"

	"swapmarket/internal/domain/negotiation"
	"swapmarket/internal/domain/product"
	"swapmarket/internal/infra"
	"swapmarket/internal/infra/db"
	"swapmarket/internal/usecase/shared"

	"github.com/google/uuid"
)

type Store struct {
	products     map[uuid.UUID]shared.ProductSnapshot
	negotiations map[uuid.UUID]*negotiationRow
	settlements  map[uuid.UUID]time.Time
	messages     []MessageRow
}

type negotiationRow struct {
	id               uuid.UUID
	requesterID      uuid.UUID
	desiredProductID uuid.UUID
	offeredIDs       []uuid.UUID
	status           negotiation.Status
	settlementID     *uuid.UUID
	createdAt        time.Time
	updatedAt        time.Time
}

type MessageRow struct {
	ID            uuid.UUID
	NegotiationID uuid.UUID
	SenderID      uuid.UUID
	Content       string
	SentAt        time.Time
}

func New() *Store {
	return &Store{
		products:     make(map[uuid.UUID]shared.ProductSnapshot),
		negotiations: make(map[uuid.UUID]*negotiationRow),
		settlements:  make(map[uuid.UUID]time.Time),
	}
}

// AddProduct seeds a product and returns its ID.
func (s *Store) AddProduct(ownerID uuid.UUID, kind product.Kind) uuid.UUID {
	id := uuid.New()
	s.products[id] = shared.ProductSnapshot{
		ID:         id,
		OwnerID:    ownerID,
		CategoryID: uuid.New(),
		Name:       "product-" + id.String()[:8],
		Kind:       kind,
	}
	return id
}

func (s *Store) NegotiationStatus(id uuid.UUID) (negotiation.Status, bool) {
	row, ok := s.negotiations[id]
	if !ok {
		return "", false
	}
	return row.status, true
}

func (s *Store) NegotiationSettlementID(id uuid.UUID) *uuid.UUID {
	row, ok := s.negotiations[id]
	if !ok {
		return nil
	}
	return row.settlementID
}

func (s *Store) NegotiationUpdatedAt(id uuid.UUID) time.Time {
	row, ok := s.negotiations[id]
	if !ok {
		return time.Time{}
	}
	return row.updatedAt
}

func (s *Store) OfferedProductIDs(id uuid.UUID) []uuid.UUID {
	row, ok := s.negotiations[id]
	if !ok {
		return nil
	}
	return append([]uuid.UUID(nil), row.offeredIDs...)
}

func (s *Store) SettlementCount() int {
	return len(s.settlements)
}

func (s *Store) Messages(negotiationID uuid.UUID) []MessageRow {
	var out []MessageRow
	for _, m := range s.messages {
		if m.NegotiationID == negotiationID {
			out = append(out, m)
		}
	}
	return out
}

// UnitOfWork implementation

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &memTx{store: s})
}

type memTx struct {
	store *Store
}

func (t *memTx) Negotiations() shared.NegotiationRepository { return &negotiationRepo{t.store} }
func (t *memTx) Settlements() shared.SettlementRepository   { return &settlementRepo{t.store} }
func (t *memTx) Messages() shared.MessageRepository         { return &messageRepo{t.store} }
func (t *memTx) Reads() shared.CommandReads                 { return &memReads{store: t.store} }
func (t *memTx) DB() db.DBTX                                { return nil }

type memReads struct {
	store *Store
}

func (r *memReads) ProductByID(_ context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	snap, ok := r.store.products[id]
	if !ok {
		return nil, infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return &snap, nil
}

func (r *memReads) NegotiationByID(_ context.Context, id uuid.UUID) (*shared.NegotiationSnapshot, error) {
	row, ok := r.store.negotiations[id]
	if !ok {
		return nil, infra.WrapRepoErr("negotiation not found", nil, infra.KindNotFound)
	}
	return &shared.NegotiationSnapshot{
		ID:                row.id,
		RequesterID:       row.requesterID,
		DesiredProductID:  row.desiredProductID,
		OfferedProductIDs: append([]uuid.UUID(nil), row.offeredIDs...),
		Status:            row.status,
		SettlementID:      row.settlementID,
		CreatedAt:         row.createdAt,
		UpdatedAt:         row.updatedAt,
	}, nil
}

func (r *memReads) HasActiveNegotiation(_ context.Context, requesterID, desiredProductID uuid.UUID) (bool, error) {
	for _, row := range r.store.negotiations {
		if row.requesterID == requesterID && row.desiredProductID == desiredProductID && row.status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

type negotiationRepo struct {
	store *Store
}

func (r *negotiationRepo) Create(_ context.Context, _ db.DBTX, n *negotiation.Negotiation) (uuid.UUID, error) {
	row := &negotiationRow{
		id:               n.ID(),
		requesterID:      n.RequesterID(),
		desiredProductID: n.DesiredProductID(),
		offeredIDs:       n.OfferedProductIDs(),
		status:           n.Status(),
		settlementID:     n.SettlementID(),
		createdAt:        n.CreatedAt(),
		updatedAt:        n.UpdatedAt(),
	}
	r.store.negotiations[row.id] = row
	return row.id, nil
}

func (r *negotiationRepo) UpdateStatusWhere(_ context.Context, _ db.DBTX, id uuid.UUID, to negotiation.Status, now time.Time, from ...negotiation.Status) (int64, error) {
	row, ok := r.store.negotiations[id]
	if !ok {
		return 0, nil
	}
	for _, f := range from {
		if row.status == f {
			row.status = to
			row.updatedAt = now
			return 1, nil
		}
	}
	return 0, nil
}

func (r *negotiationRepo) AttachSettlement(_ context.Context, _ db.DBTX, id, settlementID uuid.UUID) error {
	row, ok := r.store.negotiations[id]
	if !ok {
		return infra.WrapRepoErr("negotiation not found", nil, infra.KindNotFound)
	}
	if row.settlementID != nil {
		return infra.WrapRepoErr("negotiation already settled", nil, infra.KindDuplicateKey)
	}
	row.settlementID = &settlementID
	return nil
}

func (r *negotiationRepo) ReplaceOfferedProducts(_ context.Context, _ db.DBTX, id uuid.UUID, productIDs []uuid.UUID) error {
	row, ok := r.store.negotiations[id]
	if !ok {
		return infra.WrapRepoErr("negotiation not found", nil, infra.KindNotFound)
	}
	row.offeredIDs = append([]uuid.UUID(nil), productIDs...)
	return nil
}

func (r *negotiationRepo) RejectCompetitors(_ context.Context, _ db.DBTX, id, desiredProductID uuid.UUID, offeredProductIDs []uuid.UUID, now time.Time) (int64, error) {
	offered := make(map[uuid.UUID]struct{}, len(offeredProductIDs))
	for _, pid := range offeredProductIDs {
		offered[pid] = struct{}{}
	}

	var affected int64
	for _, row := range r.store.negotiations {
		if row.id == id || row.status != negotiation.StatusPending {
			continue
		}
		if row.desiredProductID == desiredProductID || touchesAny(row, offered) {
			row.status = negotiation.StatusRejected
			row.updatedAt = now
			affected++
		}
	}
	return affected, nil
}

func touchesAny(row *negotiationRow, offered map[uuid.UUID]struct{}) bool {
	if _, ok := offered[row.desiredProductID]; ok {
		return true
	}
	for _, pid := range row.offeredIDs {
		if _, ok := offered[pid]; ok {
			return true
		}
	}
	return false
}

func (r *negotiationRepo) TouchUpdatedAt(_ context.Context, _ db.DBTX, id uuid.UUID, now time.Time) error {
	row, ok := r.store.negotiations[id]
	if !ok {
		return infra.WrapRepoErr("negotiation not found", nil, infra.KindNotFound)
	}
	row.updatedAt = now
	return nil
}

type settlementRepo struct {
	store *Store
}

func (r *settlementRepo) Create(_ context.Context, _ db.DBTX, s *negotiation.Settlement) (uuid.UUID, error) {
	r.store.settlements[s.ID()] = s.CreatedAt()
	return s.ID(), nil
}

type messageRepo struct {
	store *Store
}

func (r *messageRepo) Append(_ context.Context, _ db.DBTX, m *negotiation.Message) (uuid.UUID, error) {
	r.store.messages = append(r.store.messages, MessageRow{
		ID:            m.ID(),
		NegotiationID: m.NegotiationID(),
		SenderID:      m.SenderID(),
		Content:       m.Content().String(),
		SentAt:        m.SentAt(),
	})
	return m.ID(), nil
}
