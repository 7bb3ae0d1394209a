package readstore

import (
	"context"

	"swapmarket/internal/domain/product"
	"swapmarket/internal/infra"
	"swapmarket/internal/infra/db"
	"swapmarket/internal/pkg/pgconv"
	"swapmarket/internal/usecase/queries"
	"swapmarket/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ProductReadStore struct {
	db db.DBTX
}

func NewProductReadStore(dbtx db.DBTX) *ProductReadStore {
	return &ProductReadStore{db: dbtx}
}

func (r *ProductReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ProductView, error) {
	const findByID = `
		SELECT p.id, p.owner_id, p.category_id, p.name, p.description, c.kind,
		       p.condition, p.quantity, p.value_cents, p.created_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`

	var (
		view         queries.ProductView
		description  pgtype.Text
		conditionStr string
		valueCents   pgtype.Int8
	)
	err := r.db.QueryRow(ctx, findByID, id).Scan(
		&view.ID, &view.OwnerID, &view.CategoryID, &view.Name, &description,
		&view.Kind, &conditionStr, &view.Quantity, &valueCents, &view.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product by ID", err)
	}
	condition, err := product.NewCondition(conditionStr)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid product condition in store", err)
	}
	view.Condition = condition.String()
	view.Description = pgconv.StringPtrFromPgtype(description)
	view.ValueCents = pgconv.Int64PtrFromPgtype(valueCents)

	return &view, nil
}

// FindSnapshotByID loads the command-side slice of the product, with the
// category kind resolved for the exchange/donation offer rules.
func (r *ProductReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	const findSnapshot = `
		SELECT p.id, p.owner_id, p.category_id, p.name, c.kind
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`

	var (
		snap    shared.ProductSnapshot
		kindStr string
	)
	err := r.db.QueryRow(ctx, findSnapshot, id).Scan(
		&snap.ID, &snap.OwnerID, &snap.CategoryID, &snap.Name, &kindStr,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product snapshot", err)
	}

	kind, err := product.NewKind(kindStr)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid category kind in store", err)
	}
	snap.Kind = kind
	return &snap, nil
}
