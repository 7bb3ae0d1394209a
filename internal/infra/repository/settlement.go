package repository

import (
	"context"

	"swapmarket/internal/domain/negotiation"
	"swapmarket/internal/infra"
	"swapmarket/internal/infra/db"

	"github.com/google/uuid"
)

type SettlementRepository struct{}

func NewSettlementRepository() *SettlementRepository {
	return &SettlementRepository{}
}

func (r *SettlementRepository) Create(ctx context.Context, dbtx db.DBTX, s *negotiation.Settlement) (uuid.UUID, error) {
	const insertSettlement = `
		INSERT INTO settlements (id, created_at)
		VALUES ($1, $2)
		RETURNING id`

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, insertSettlement, s.ID(), s.CreatedAt()).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create settlement", err, classifyPgErr(err))
	}
	return id, nil
}
