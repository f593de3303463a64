package recurring

import (
	"github.com/ledgerlinelabs/ledgerline/internal/recurring/repository"
	"github.com/ledgerlinelabs/ledgerline/internal/recurring/service"
	"go.uber.org/fx"
)

var Module = fx.Module("recurring.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
