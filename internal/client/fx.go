package client

import (
	"github.com/ledgerlinelabs/ledgerline/internal/client/repository"
	"github.com/ledgerlinelabs/ledgerline/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
