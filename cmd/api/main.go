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
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/push-name-service/pns-indexer/internal/adapter"
	"github.com/push-name-service/pns-indexer/internal/api/middleware"
	"github.com/push-name-service/pns-indexer/internal/api/rest"
	"github.com/push-name-service/pns-indexer/internal/api/server"
	"github.com/push-name-service/pns-indexer/internal/config"
	"github.com/push-name-service/pns-indexer/internal/gateway"
	"github.com/push-name-service/pns-indexer/internal/logger"
	"github.com/push-name-service/pns-indexer/internal/ownerindex"
	"github.com/push-name-service/pns-indexer/internal/reconciler"
	"github.com/push-name-service/pns-indexer/internal/resolver"
	"github.com/push-name-service/pns-indexer/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
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
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting PNS Indexer API")

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
	logger.InfoCtx(ctx, "Connected to chain",
		zap.String("chain", string(cfg.Chain.ChainID)),
		zap.String("contract", cfg.Chain.ContractAddress))

	// Assemble components
	rslv := resolver.New(gw, clock)
	owners := ownerindex.New(gw, dataStore, clock, ownerindex.Config{
		LookbackBlocks: cfg.OwnerIndex.LookbackBlocks,
	})
	rec := reconciler.New(gw, dataStore, clock, reconciler.Config{
		Chain:           cfg.Chain.ChainID,
		LookbackBlocks:  cfg.Sync.LookbackBlocks,
		MetadataWorkers: cfg.Sync.MetadataWorkers,
	})
	handler := rest.NewHandler(rslv, owners, rec, dataStore, clock, cfg.Webhook.Secret)

	serverConfig := server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
	}

	srv := server.New(serverConfig, handler)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Shutdown with its own timeout; the run context is already canceled
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("API server stopped")
}
