package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carbondash/internal/chain"
	"carbondash/internal/fund"
	"carbondash/internal/model"
	"carbondash/internal/storage"
)

func runFund(cmd *cobra.Command, _ []string) error {
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

	baseStr, _ := cmd.Flags().GetString("base-amount")
	quoteStr, _ := cmd.Flags().GetString("quote-amount")
	if baseStr == "" || quoteStr == "" {
		return fmt.Errorf("base-amount and quote-amount are required")
	}

	requestedBase, err := model.ParseAmount(baseStr, tokenDecimals)
	if err != nil {
		return fmt.Errorf("base amount: %w", err)
	}
	requestedQuote, err := model.ParseAmount(quoteStr, tokenDecimals)
	if err != nil {
		return fmt.Errorf("quote amount: %w", err)
	}

	var cap *big.Int
	if cfg.FundCap != "" {
		cap, err = model.ParseAmount(cfg.FundCap, tokenDecimals)
		if err != nil {
			return fmt.Errorf("fund cap: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	artifact := storage.NewArtifactStore(cfg.Artifact)
	baseToken, err := resolveContract(cfg.TokenAddress, artifact, storage.ContractToken)
	if err != nil {
		return err
	}
	quoteToken, err := resolveContract(cfg.QuoteToken, artifact, storage.ContractQuoteToken)
	if err != nil {
		return err
	}
	trading, err := resolveContract(cfg.TradingAddress, artifact, storage.ContractTrading)
	if err != nil {
		return err
	}

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL, cfg.PrivateKey, logger)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	signer := chainClient.Signer()
	availableBase, err := chainClient.BalanceOf(ctx, baseToken, signer)
	if err != nil {
		return fmt.Errorf("read base balance: %w", err)
	}
	availableQuote, err := chainClient.BalanceOf(ctx, quoteToken, signer)
	if err != nil {
		return fmt.Errorf("read quote balance: %w", err)
	}

	plan, err := fund.Plan(requestedBase, requestedQuote, availableBase, availableQuote, cap)
	if err != nil {
		return err
	}

	logger.Info("funding plan",
		zap.String("signer", signer.Hex()),
		zap.String("requested_base", plan.RequestedBase.String()),
		zap.String("requested_quote", plan.RequestedQuote.String()),
		zap.String("actual_base", plan.ActualBase.String()),
		zap.String("actual_quote", plan.ActualQuote.String()),
	)

	funder := fund.NewFunder(chainClient, baseToken, quoteToken, trading, storage.NewTxLog(cfg.TxLog), logger)
	result, err := funder.Execute(ctx, plan)
	if err != nil {
		// Partial receipts still matter for operator diagnosis.
		_ = printJSON(result)
		return err
	}

	return printJSON(result)
}
