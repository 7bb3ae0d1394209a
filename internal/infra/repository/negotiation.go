package repository

import (
	"context"
	"errors"
	"time"

	"swapmarket/internal/domain/negotiation"
	"swapmarket/internal/infra"
	"swapmarket/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
)

type NegotiationRepository struct{}

func NewNegotiationRepository() *NegotiationRepository {
	return &NegotiationRepository{}
}

func (r *NegotiationRepository) Create(ctx context.Context, dbtx db.DBTX, n *negotiation.Negotiation) (uuid.UUID, error) {
	const insertNegotiation = `
		INSERT INTO negotiations (id, requester_id, desired_product_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, insertNegotiation,
		n.ID(), n.RequesterID(), n.DesiredProductID(), string(n.Status()), n.CreatedAt(), n.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create negotiation", err, classifyPgErr(err))
	}

	if err := insertOfferedProducts(ctx, dbtx, id, n.OfferedProductIDs()); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *NegotiationRepository) UpdateStatusWhere(ctx context.Context, dbtx db.DBTX, id uuid.UUID, to negotiation.Status, now time.Time, from ...negotiation.Status) (int64, error) {
	const updateStatus = `
		UPDATE negotiations
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = ANY($4)`

	fromStrs := make([]string, len(from))
	for i, s := range from {
		fromStrs[i] = string(s)
	}

	tag, err := dbtx.Exec(ctx, updateStatus, string(to), now, id, fromStrs)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to update negotiation status", err)
	}
	return tag.RowsAffected(), nil
}

func (r *NegotiationRepository) AttachSettlement(ctx context.Context, dbtx db.DBTX, id, settlementID uuid.UUID) error {
	const attachSettlement = `
		UPDATE negotiations
		SET settlement_id = $1
		WHERE id = $2 AND settlement_id IS NULL`

	tag, err := dbtx.Exec(ctx, attachSettlement, settlementID, id)
	if err != nil {
		return infra.WrapRepoErr("failed to attach settlement", err, classifyPgErr(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("negotiation already settled", nil, infra.KindDuplicateKey)
	}
	return nil
}

func (r *NegotiationRepository) ReplaceOfferedProducts(ctx context.Context, dbtx db.DBTX, id uuid.UUID, productIDs []uuid.UUID) error {
	const deleteOffered = `DELETE FROM negotiation_offered_products WHERE negotiation_id = $1`

	if _, err := dbtx.Exec(ctx, deleteOffered, id); err != nil {
		return infra.WrapRepoErr("failed to clear offered products", err)
	}
	return insertOfferedProducts(ctx, dbtx, id, productIDs)
}

// RejectCompetitors rejects every other pending negotiation that targets the
// same desired product, or desires or offers any of the approved negotiation's
// offered products. Runs inside the approval transaction.
func (r *NegotiationRepository) RejectCompetitors(ctx context.Context, dbtx db.DBTX, id, desiredProductID uuid.UUID, offeredProductIDs []uuid.UUID, now time.Time) (int64, error) {
	const rejectCompetitors = `
		UPDATE negotiations
		SET status = $1, updated_at = $2
		WHERE id <> $3
		  AND status = $4
		  AND (
		      desired_product_id = $5
		      OR desired_product_id = ANY($6)
		      OR id IN (
		          SELECT negotiation_id FROM negotiation_offered_products
		          WHERE product_id = ANY($6)
		      )
		  )`

	tag, err := dbtx.Exec(ctx, rejectCompetitors,
		string(negotiation.StatusRejected), now, id, string(negotiation.StatusPending),
		desiredProductID, offeredProductIDs,
	)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to reject competing negotiations", err)
	}
	return tag.RowsAffected(), nil
}

func (r *NegotiationRepository) TouchUpdatedAt(ctx context.Context, dbtx db.DBTX, id uuid.UUID, now time.Time) error {
	const touch = `UPDATE negotiations SET updated_at = $1 WHERE id = $2`

	if _, err := dbtx.Exec(ctx, touch, now, id); err != nil {
		return infra.WrapRepoErr("failed to touch negotiation", err)
	}
	return nil
}

func insertOfferedProducts(ctx context.Context, dbtx db.DBTX, negotiationID uuid.UUID, productIDs []uuid.UUID) error {
	const insertOffered = `
		INSERT INTO negotiation_offered_products (negotiation_id, product_id)
		VALUES ($1, $2)`

	for _, productID := range productIDs {
		if _, err := dbtx.Exec(ctx, insertOffered, negotiationID, productID); err != nil {
			return infra.WrapRepoErr("failed to insert offered product", err, classifyPgErr(err))
		}
	}
	return nil
}

func classifyPgErr(err error) infra.RepositoryErrorKind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeUniqueViolation:
			return infra.KindDuplicateKey
		case pgErrCodeForeignKeyViolation:
			return infra.KindForeignKeyViolated
		}
	}
	return infra.KindDBFailure
}
