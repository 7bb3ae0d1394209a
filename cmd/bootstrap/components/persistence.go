package components

import (
	"swapmarket/internal/infra/db"
	"swapmarket/internal/infra/readstore"
	"swapmarket/internal/infra/uow"
	"swapmarket/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		// UnitOfWork owns the write repositories; only readstores are wired
		// individually for the query side.
		uow.NewPostgresUoW,
		fx.Annotate(
			readstore.NewNegotiationReadStore,
			fx.As(new(queries.NegotiationReadStore)),
		),
		fx.Annotate(
			readstore.NewProductReadStore,
			fx.As(new(queries.ProductReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
