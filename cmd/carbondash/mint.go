package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carbondash/internal/chain"
	"carbondash/internal/mint"
	"carbondash/internal/model"
	"carbondash/internal/storage"
	"carbondash/internal/storage/postgres"
)

// Token amounts are 18-decimal by deployment.
const tokenDecimals = 18

func runMint(cmd *cobra.Command, _ []string) error {
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
	if cfg.PrivateKey == "" {
		return fmt.Errorf("private key is required")
	}

	recipient, _ := cmd.Flags().GetString("recipient")
	amountStr, _ := cmd.Flags().GetString("amount")
	metadataRef, _ := cmd.Flags().GetString("metadata-ref")
	if recipient == "" || amountStr == "" || metadataRef == "" {
		return fmt.Errorf("recipient, amount, and metadata-ref are required")
	}

	amount, err := model.ParseAmount(amountStr, tokenDecimals)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	artifact := storage.NewArtifactStore(cfg.Artifact)
	token, err := resolveContract(cfg.TokenAddress, artifact, storage.ContractToken)
	if err != nil {
		return err
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL, cfg.PrivateKey, logger)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	var store mint.RecordStore
	if cfg.PGDSN != "" {
		pgStore, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pgStore.Close()
		store = pgStore
	}

	executor := mint.NewExecutor(chainClient, token, store, storage.NewTxLog(cfg.TxLog), logger)

	logger.Info("mint start",
		zap.String("token", token.Hex()),
		zap.String("recipient", recipient),
		zap.String("amount", amount.String()),
		zap.String("metadata_ref", metadataRef),
	)

	outcome, err := executor.Mint(ctx, model.MintRequest{
		Recipient:   recipient,
		Amount:      amount,
		MetadataRef: metadataRef,
	})
	if err != nil {
		return err
	}

	if err := printJSON(outcome); err != nil {
		return err
	}
	if !outcome.Success {
		return fmt.Errorf("mint failed: %s", outcome.Error)
	}
	return nil
}
