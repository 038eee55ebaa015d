package components

import (
	"edustore/internal/infra/readstore"
	"edustore/internal/infra/uow"

	"go.uber.org/fx"
)

// Constructors already return the usecase-facing interfaces, so no fx.As
// annotations are needed here.
var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		uow.NewPostgresUoW,
		readstore.NewPooledUserReadStore,
		readstore.NewPooledEnrollmentReadStore,
		readstore.NewPooledPurchaseReadStore,
	),
)
