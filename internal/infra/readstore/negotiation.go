package readstore

import (
	"context"

	"swapmarket/internal/domain/negotiation"
	"swapmarket/internal/infra"
	"swapmarket/internal/infra/db"
	"swapmarket/internal/pkg/pgconv"
	"swapmarket/internal/usecase/queries"
	"swapmarket/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type NegotiationReadStore struct {
	db db.DBTX
}

func NewNegotiationReadStore(dbtx db.DBTX) *NegotiationReadStore {
	return &NegotiationReadStore{db: dbtx}
}

func (r *NegotiationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.NegotiationView, error) {
	const findByID = `
		SELECT n.id, n.requester_id, ru.name, n.desired_product_id, p.name,
		       p.owner_id, ou.name, c.kind, n.status, n.settlement_id,
		       n.created_at, n.updated_at
		FROM negotiations n
		JOIN products p ON p.id = n.desired_product_id
		JOIN users ru ON ru.id = n.requester_id
		JOIN users ou ON ou.id = p.owner_id
		JOIN categories c ON c.id = p.category_id
		WHERE n.id = $1`

	var (
		view         queries.NegotiationView
		settlementID pgtype.UUID
	)
	err := r.db.QueryRow(ctx, findByID, id).Scan(
		&view.ID, &view.RequesterID, &view.RequesterName,
		&view.DesiredProductID, &view.DesiredProductName,
		&view.OwnerID, &view.OwnerName, &view.Type, &view.Status,
		&settlementID, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("negotiation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find negotiation by ID", err)
	}
	view.SettlementID = pgconv.UUIDPtrFromPgtype(settlementID)

	return &view, nil
}

func (r *NegotiationReadStore) FindOfferedProducts(ctx context.Context, negotiationID uuid.UUID) ([]*queries.OfferedProductView, error) {
	const findOffered = `
		SELECT pr.id, pr.name, pr.owner_id
		FROM negotiation_offered_products nop
		JOIN products pr ON pr.id = nop.product_id
		WHERE nop.negotiation_id = $1
		ORDER BY pr.name`

	rows, err := r.db.Query(ctx, findOffered, negotiationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find offered products", err)
	}
	defer rows.Close()

	result := make([]*queries.OfferedProductView, 0)
	for rows.Next() {
		var v queries.OfferedProductView
		if err := rows.Scan(&v.ID, &v.Name, &v.OwnerID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan offered product", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read offered products", err)
	}
	return result, nil
}

func (r *NegotiationReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.NegotiationListItem, error) {
	const findByUser = `
		SELECT n.id, n.requester_id, n.desired_product_id, p.name, p.owner_id,
		       n.status, n.created_at
		FROM negotiations n
		JOIN products p ON p.id = n.desired_product_id
		WHERE n.requester_id = $1 OR p.owner_id = $1
		ORDER BY n.created_at DESC, n.id DESC`

	rows, err := r.db.Query(ctx, findByUser, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find negotiations for user", err)
	}
	defer rows.Close()

	result := make([]*queries.NegotiationListItem, 0)
	for rows.Next() {
		var item queries.NegotiationListItem
		if err := rows.Scan(
			&item.ID, &item.RequesterID, &item.DesiredProductID,
			&item.DesiredProductName, &item.OwnerID, &item.Status, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan negotiation list item", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read negotiations for user", err)
	}
	return result, nil
}

func (r *NegotiationReadStore) FindMessages(ctx context.Context, negotiationID uuid.UUID) ([]*queries.MessageView, error) {
	const findMessages = `
		SELECT m.id, m.negotiation_id, m.sender_id, u.name, m.content, m.sent_at
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.negotiation_id = $1
		ORDER BY m.sent_at ASC, m.seq ASC`

	rows, err := r.db.Query(ctx, findMessages, negotiationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find messages", err)
	}
	defer rows.Close()

	result := make([]*queries.MessageView, 0)
	for rows.Next() {
		var v queries.MessageView
		if err := rows.Scan(
			&v.ID, &v.NegotiationID, &v.SenderID, &v.SenderName, &v.Content, &v.SentAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan message", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read messages", err)
	}
	return result, nil
}

// FindSnapshotByID loads the command-side state needed for transition
// decisions, including the offered-product association rows.
func (r *NegotiationReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.NegotiationSnapshot, error) {
	const findSnapshot = `
		SELECT id, requester_id, desired_product_id, status, settlement_id,
		       created_at, updated_at
		FROM negotiations
		WHERE id = $1`

	var (
		snap         shared.NegotiationSnapshot
		statusStr    string
		settlementID pgtype.UUID
	)
	err := r.db.QueryRow(ctx, findSnapshot, id).Scan(
		&snap.ID, &snap.RequesterID, &snap.DesiredProductID,
		&statusStr, &settlementID, &snap.CreatedAt, &snap.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("negotiation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find negotiation snapshot", err)
	}

	status, err := negotiation.NewStatus(statusStr)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid negotiation status in store", err)
	}
	snap.Status = status
	snap.SettlementID = pgconv.UUIDPtrFromPgtype(settlementID)

	const findOfferedIDs = `
		SELECT product_id FROM negotiation_offered_products WHERE negotiation_id = $1`

	rows, err := r.db.Query(ctx, findOfferedIDs, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find offered product IDs", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID uuid.UUID
		if err := rows.Scan(&productID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan offered product ID", err)
		}
		snap.OfferedProductIDs = append(snap.OfferedProductIDs, productID)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read offered product IDs", err)
	}
	return &snap, nil
}

// ExistsActiveForRequester backs the one-active-negotiation rule per
// (requester, desired product).
func (r *NegotiationReadStore) ExistsActiveForRequester(ctx context.Context, requesterID, desiredProductID uuid.UUID) (bool, error) {
	const existsActive = `
		SELECT EXISTS(
			SELECT 1 FROM negotiations
			WHERE requester_id = $1 AND desired_product_id = $2 AND status = ANY($3)
		)`

	activeStatuses := []string{
		string(negotiation.StatusPending),
		string(negotiation.StatusApproved),
	}

	var exists bool
	err := r.db.QueryRow(ctx, existsActive, requesterID, desiredProductID, activeStatuses).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check active negotiation", err)
	}
	return exists, nil
}
