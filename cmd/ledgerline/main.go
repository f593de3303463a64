package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/joho/godotenv"
	"github.com/ledgerlinelabs/ledgerline/internal/client"
	"github.com/ledgerlinelabs/ledgerline/internal/clock"
	"github.com/ledgerlinelabs/ledgerline/internal/config"
	"github.com/ledgerlinelabs/ledgerline/internal/dashboard"
	"github.com/ledgerlinelabs/ledgerline/internal/invoice"
	"github.com/ledgerlinelabs/ledgerline/internal/mailer"
	"github.com/ledgerlinelabs/ledgerline/internal/migration"
	"github.com/ledgerlinelabs/ledgerline/internal/observability"
	"github.com/ledgerlinelabs/ledgerline/internal/recurring"
	recurringdomain "github.com/ledgerlinelabs/ledgerline/internal/recurring/domain"
	"github.com/ledgerlinelabs/ledgerline/internal/scheduler"
	"github.com/ledgerlinelabs/ledgerline/internal/server"
	"github.com/ledgerlinelabs/ledgerline/internal/settings"
	"github.com/ledgerlinelabs/ledgerline/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "ledgerline",
		Short:   "Ledgerline invoicing server",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newMigrateCmd(), newServeCmd(), newGenerateCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and seed the currency catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations, the API server and the recurring scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func newGenerateCmd() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "generate-recurring",
		Short: "Run one recurring invoice generation pass and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(asOf)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "generation date (YYYY-MM-DD, defaults to today)")
	return cmd
}

func coreModules() fx.Option {
	return fx.Options(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		client.Module,
		invoice.Module,
		recurring.Module,
		settings.Module,
		dashboard.Module,
		mailer.Module,
	)
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runServe() {
	app := fx.New(
		coreModules(),
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func runGenerate(asOf string) error {
	var parsed time.Time
	if value := strings.TrimSpace(asOf); value != "" {
		var err error
		if parsed, err = time.Parse("2006-01-02", value); err != nil {
			return fmt.Errorf("invalid --as-of date %q: want YYYY-MM-DD", value)
		}
	}

	var runErr error
	app := fx.New(
		coreModules(),
		fx.Invoke(func(svc recurringdomain.Service, shutdowner fx.Shutdowner) {
			result, err := svc.Generate(context.Background(), parsed)
			if err != nil {
				runErr = err
			} else {
				fmt.Printf("generated %d invoice(s), skipped %d\n", result.Generated(), len(result.Skipped))
			}
			_ = shutdowner.Shutdown()
		}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}
	<-app.Wait()
	_ = app.Stop(context.Background())
	return runErr
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
