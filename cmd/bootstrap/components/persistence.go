package components

import (
	"marketplace-checkout/internal/infra/readstore"
	"marketplace-checkout/internal/infra/uow"
	"marketplace-checkout/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// Write-side repositories are built per transaction by the unit of work;
// only the read store is bound to the pool directly.
var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		uow.NewPostgresUoW,
		fx.Annotate(
			NewOrderReadStore,
			fx.As(new(queries.OrderReadStore)),
		),
	),
)

func NewOrderReadStore(pool *pgxpool.Pool) *readstore.OrderReadStore {
	return readstore.NewOrderReadStore(pool)
}
