// Command seed populates the service catalogue in PostgreSQL. It is meant to
// be run once against a fresh database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pochi-pay/pochi_pay/internal/billpay"
	"github.com/pochi-pay/pochi_pay/internal/config"
	"github.com/pochi-pay/pochi_pay/internal/infra"
	"github.com/pochi-pay/pochi_pay/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL must be set")
		os.Exit(1)
	}

	logger := logging.New(cfg.AppName, cfg.LogLevel)

	ctx := context.Background()
	db, err := infra.NewPostgresPool(ctx, cfg.AppName, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := infra.Migrate(ctx, db); err != nil {
		logger.Error("apply schema", "error", err)
		os.Exit(1)
	}

	repo := billpay.NewPostgresRepository(db)
	existing, err := repo.List(ctx)
	if err != nil {
		logger.Error("list services", "error", err)
		os.Exit(1)
	}
	if len(existing) > 0 {
		logger.Info("service catalogue already seeded", "count", len(existing))
		return
	}

	for _, svc := range billpay.DefaultServices() {
		if err := repo.Create(ctx, svc); err != nil {
			logger.Error("seed service", "name", svc.Name, "error", err)
			os.Exit(1)
		}
		logger.Info("seeded service", "name", svc.Name, "id", svc.ID)
	}
}
