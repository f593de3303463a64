package invoice

import (
	"github.com/ledgerlinelabs/ledgerline/internal/invoice/render"
	"github.com/ledgerlinelabs/ledgerline/internal/invoice/repository"
	"github.com/ledgerlinelabs/ledgerline/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewNumberAllocator),
	fx.Provide(render.NewRenderer),
	fx.Provide(service.NewService),
)
