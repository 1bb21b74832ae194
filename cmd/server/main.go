package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	syncapp "github.com/Doppler617492/AltaWmsProject-sub001/internal/application/integration"
	"github.com/Doppler617492/AltaWmsProject-sub001/internal/domain/integration"
	"github.com/Doppler617492/AltaWmsProject-sub001/internal/infrastructure/config"
	"github.com/Doppler617492/AltaWmsProject-sub001/internal/infrastructure/erp"
	"github.com/Doppler617492/AltaWmsProject-sub001/internal/infrastructure/logger"
	"github.com/Doppler617492/AltaWmsProject-sub001/internal/infrastructure/persistence"
	"github.com/Doppler617492/AltaWmsProject-sub001/internal/infrastructure/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting WMS sync engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("erp_base_url", cfg.ERP.BaseURL),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Provider clients, one per credential pair
	documentsClient, err := erp.NewClient(documentsClientConfig(&cfg.ERP), log.Named("erp.documents"))
	if err != nil {
		log.Fatal("Failed to create documents client", zap.Error(err))
	}
	stocksClient, err := erp.NewClient(stocksClientConfig(&cfg.ERP), log.Named("erp.stocks"))
	if err != nil {
		log.Fatal("Failed to create stocks client", zap.Error(err))
	}

	// Mappers translate between provider records and canonical documents
	receivingSource := erp.NewReceivingMapper(documentsClient, cfg.ERP.ReceivingMethod)
	shippingSource := erp.NewShippingMapper(documentsClient, cfg.ERP.ShippingMethod)
	stockSource := erp.NewStockMapper(stocksClient, cfg.ERP.StockPartnersMethod, cfg.ERP.StockItemsMethod)

	// Import collaborators
	receivingImporter := persistence.NewReceivingImporter(db.DB)
	shippingImporter := persistence.NewShippingImporter(db.DB)

	syncService := syncapp.NewSyncService(
		receivingSource,
		shippingSource,
		stockSource,
		receivingImporter,
		shippingImporter,
		log.Named("sync"),
	)

	// Periodic sync
	var syncScheduler *scheduler.SyncScheduler
	if cfg.Sync.Enabled {
		syncScheduler, err = scheduler.NewSyncScheduler(
			scheduler.SyncSchedulerConfig{
				Interval:   cfg.Sync.Interval,
				JobTimeout: cfg.Sync.JobTimeout,
				RunOnStart: true,
			},
			syncService,
			scheduledRequest(cfg),
			log.Named("scheduler"),
		)
		if err != nil {
			log.Fatal("Failed to create sync scheduler", zap.Error(err))
		}
		if err := syncScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
	} else {
		log.Info("Periodic sync disabled")
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if syncScheduler != nil {
		if err := syncScheduler.Stop(ctx); err != nil {
			log.Error("Scheduler forced to stop", zap.Error(err))
		}
	}

	log.Info("Sync engine exited gracefully")
}

// documentsClientConfig builds the provider client config for the document
// interface account.
func documentsClientConfig(cfg *config.ERPConfig) *erp.Config {
	c := erp.NewConfig(cfg.BaseURL, cfg.DocumentsUsername, cfg.DocumentsPassword)
	applyERPTuning(c, cfg)
	return c
}

// stocksClientConfig builds the provider client config for the stock
// interface account. Installations without a separate stock account reuse
// the document credentials.
func stocksClientConfig(cfg *config.ERPConfig) *erp.Config {
	username, password := cfg.StocksUsername, cfg.StocksPassword
	if username == "" {
		username, password = cfg.DocumentsUsername, cfg.DocumentsPassword
	}
	c := erp.NewConfig(cfg.BaseURL, username, password)
	applyERPTuning(c, cfg)
	return c
}

func applyERPTuning(c *erp.Config, cfg *config.ERPConfig) {
	c.TokenTTL = cfg.TokenTTL
	c.TokenSafetyMargin = cfg.TokenSafetyMargin
	c.PageSize = cfg.PageSize
	c.TimeoutSeconds = cfg.TimeoutSeconds
}

// scheduledRequest returns the request builder for periodic runs: all three
// domains, a sliding date window, and the configured default warehouse.
func scheduledRequest(cfg *config.Config) scheduler.RequestBuilder {
	return func() *integration.SyncRequest {
		dateFrom := time.Now().AddDate(0, 0, -cfg.Sync.DateWindowDays).Format("2006-01-02")

		req := integration.NewSyncRequest()
		req.Persist = cfg.Sync.Persist
		req.Receiving = &integration.ReceivingFilter{
			DateFrom:  dateFrom,
			Warehouse: cfg.ERP.DefaultWarehouse,
		}
		req.Shipping = &integration.ShippingFilter{
			DateFrom:  dateFrom,
			Warehouse: cfg.ERP.DefaultWarehouse,
		}
		req.Stocks = &integration.StockFilter{
			ChangedSince: dateFrom,
			Warehouse:    cfg.ERP.DefaultWarehouse,
		}
		return req
	}
}
