package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carbondash/internal/api"
	"carbondash/internal/chain"
	"carbondash/internal/dashboard"
	"carbondash/internal/fetch"
	"carbondash/internal/storage"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	artifact := storage.NewArtifactStore(cfg.Artifact)
	token, err := resolveContract(cfg.TokenAddress, artifact, storage.ContractToken)
	if err != nil {
		return err
	}
	pool, err := resolveContract(cfg.PoolAddress, artifact, storage.ContractPair)
	if err != nil {
		return err
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL, "", logger)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	indexer := fetch.NewIndexerClient(cfg.IndexerURL, cfg.IndexerTimeout, cfg.IndexerRPS, logger)
	svc := dashboard.NewService(indexer, token.Hex(), logger)
	cached := dashboard.NewCachedService(svc, cfg.RefreshInterval)
	poolSvc := dashboard.NewPoolService(chainClient, pool)

	handler := api.NewHandler(cached, poolSvc, cfg.SlippageBps, logger)
	router := api.SetupRouter(handler, cfg.AllowOrigins)

	// The refresh ticker lives here, not in the fetch layer; overlapping
	// refreshes coalesce inside the cached service.
	go func() {
		ticker := time.NewTicker(cfg.RefreshInterval)
		defer ticker.Stop()
		cached.Refresh(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cached.Refresh(ctx)
			}
		}
	}()

	server := &http.Server{Addr: cfg.Listen, Handler: router}

	logger.Info("dashboard api start",
		zap.String("listen", cfg.Listen),
		zap.String("token", token.Hex()),
		zap.String("pool", pool.Hex()),
		zap.String("indexer", cfg.IndexerURL),
		zap.Duration("refresh_interval", cfg.RefreshInterval),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
