package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	inventoryapp "github.com/erp/costengine/internal/application/inventory"
	"github.com/erp/costengine/internal/infrastructure/config"
	"github.com/erp/costengine/internal/infrastructure/logger"
	"github.com/erp/costengine/internal/infrastructure/persistence"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.FromAppConfig(cfg))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting inventory re-costing run",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Recost.AutoMigrate {
		if err := db.Migrate(); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
		log.Info("Schema migration complete")
	}

	// Cancel the run on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scope := persistence.NewGormTransactionScope(db.DB)
	adapter := inventoryapp.NewPostingAdapter(inventoryapp.AccountDefaults{
		InventoryAccount: cfg.Accounts.InventoryAccount,
		COGSAccount:      cfg.Accounts.COGSAccount,
	}, log)
	service := inventoryapp.NewRecostService(scope, adapter, log)

	summary, err := service.Run(ctx)
	if err != nil {
		log.Error("Re-costing run failed", zap.Error(err))
		os.Exit(1)
	}

	fields := []zap.Field{
		zap.Time("started_at", summary.StartedAt),
		zap.Time("finished_at", summary.FinishedAt),
		zap.Int("items_scanned", summary.ItemsScanned),
		zap.Int("items_corrected", summary.ItemsCorrected),
		zap.String("total_delta", summary.TotalDelta.String()),
	}
	if summary.JournalEntryID != nil {
		fields = append(fields, zap.String("journal_entry_id", summary.JournalEntryID.String()))
	}
	log.Info("Re-costing run finished", fields...)

	for _, failure := range summary.Failures {
		log.Warn("Item skipped",
			zap.String("item_id", failure.ItemID.String()),
			zap.Error(failure.Err),
		)
	}

	if len(summary.Failures) > 0 {
		os.Exit(1)
	}
}
