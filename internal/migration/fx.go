package migration

import (
	"github.com/ledgerlinelabs/ledgerline/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(cfg *config.Config, conn *gorm.DB) error {
		if cfg.DatabaseDriver != "postgres" {
			return RunAutoMigrations(conn)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
