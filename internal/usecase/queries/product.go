package queries

import (
	"context"

	"swapmarket/internal/infra"
	"swapmarket/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrProductNotFound = errs.Mark(errs.New("product not found"), errs.ErrNotFound)

type ProductQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ProductView, error)
}

type ProductReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductView, error)
}

type productQueriesImpl struct {
	store ProductReadStore
}

func NewProductQueries(store ProductReadStore) ProductQueries {
	return &productQueriesImpl{store: store}
}

func (q *productQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailed)
	}
	return view, nil
}
