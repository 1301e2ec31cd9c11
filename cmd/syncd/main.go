package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/push-name-service/pns-indexer/internal/adapter"
	"github.com/push-name-service/pns-indexer/internal/config"
	"github.com/push-name-service/pns-indexer/internal/gateway"
	"github.com/push-name-service/pns-indexer/internal/logger"
	"github.com/push-name-service/pns-indexer/internal/reconciler"
	"github.com/push-name-service/pns-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	once       = flag.Bool("once", false, "Run a single reconciliation pass and exit")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadSyncdConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "syncd",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting PNS Indexer reconciler",
		zap.Duration("interval", cfg.Sync.Interval),
		zap.Uint64("lookback_blocks", cfg.Sync.LookbackBlocks))

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.Fatal("Failed to configure connection pool", zap.Error(err))
	}
	if err := store.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	dataStore := store.NewPGStore(db)

	// Connect to the Push chain
	clock := adapter.NewClock()
	ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Chain.RPCURL)
	if err != nil {
		logger.Fatal("Failed to connect to chain RPC", zap.Error(err), zap.String("rpc_url", cfg.Chain.RPCURL))
	}

	gw, err := gateway.New(ethClient, common.HexToAddress(cfg.Chain.ContractAddress), cfg.Chain.ReadTimeout)
	if err != nil {
		logger.Fatal("Failed to create chain gateway", zap.Error(err))
	}
	defer gw.Close()

	rec := reconciler.New(gw, dataStore, clock, reconciler.Config{
		Chain:           cfg.Chain.ChainID,
		LookbackBlocks:  cfg.Sync.LookbackBlocks,
		MetadataWorkers: cfg.Sync.MetadataWorkers,
	})

	runPass := func() {
		result, err := rec.Run(ctx)
		if err != nil {
			logger.ErrorCtx(ctx, err, zap.Bool("success", false))
			return
		}
		logger.InfoCtx(ctx, "Reconciliation pass finished",
			zap.Bool("success", true),
			zap.String("run_id", result.RunID),
			zap.Uint64("from_block", result.FromBlock),
			zap.Uint64("to_block", result.ToBlock),
			zap.Int64("synced", result.Synced),
			zap.Int("skipped", result.Skipped),
			zap.Duration("duration", result.Duration))
	}

	if *once {
		runPass()
		return
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler", zap.Error(err))
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.Sync.Interval),
		gocron.NewTask(runPass),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		logger.Fatal("Failed to schedule reconciliation job", zap.Error(err))
	}

	scheduler.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	cancel()

	if err := scheduler.Shutdown(); err != nil {
		logger.Fatal("Scheduler forced to shutdown", zap.Error(err))
	}

	logger.Info("Reconciler stopped")
}
