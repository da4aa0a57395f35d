package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"carbondash/internal/chain"
	"carbondash/internal/config"
	"carbondash/internal/pricing"
	"carbondash/internal/storage"
)

func runQuote(cmd *cobra.Command, _ []string) error {
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

	amountStr, _ := cmd.Flags().GetString("amount")
	amount, ok := new(big.Int).SetString(amountStr, 10)
	if !ok {
		return fmt.Errorf("amount must be an integer in base units")
	}
	sideStr, _ := cmd.Flags().GetString("side")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := resolvePool(cfg)
	if err != nil {
		return err
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL, "", logger)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	reserves, err := chainClient.Reserves(ctx, pool)
	if err != nil {
		return fmt.Errorf("read reserves: %w", err)
	}

	quote, err := pricing.Quote(reserves, pricing.Side(sideStr), amount, cfg.SlippageBps)
	if err != nil {
		return err
	}

	return printJSON(quote)
}

func resolvePool(cfg config.Config) (common.Address, error) {
	artifact := storage.NewArtifactStore(cfg.Artifact)
	return resolveContract(cfg.PoolAddress, artifact, storage.ContractPair)
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
