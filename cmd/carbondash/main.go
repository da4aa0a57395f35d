package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"carbondash/internal/config"
	"carbondash/internal/storage"
)

func main() {
	root := &cobra.Command{
		Use:          "carbondash",
		Short:        "Carbon credit token dashboard and transaction toolkit",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		RunE:  runServe,
	}
	serveCmd.Flags().String("rpc", "", "chain RPC URL")
	serveCmd.Flags().String("indexer-url", "", "indexer API base URL")
	serveCmd.Flags().String("token-address", "", "carbon token contract address")
	serveCmd.Flags().String("pool-address", "", "pair contract address")
	serveCmd.Flags().String("listen", ":8080", "listen address")
	serveCmd.Flags().StringSlice("allow-origins", nil, "CORS allow-list (comma-separated)")
	serveCmd.Flags().Duration("refresh-interval", 30*time.Second, "dashboard refresh interval")
	serveCmd.Flags().Int("slippage-bps", 50, "default slippage tolerance in basis points")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(serveCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a swap against live pool reserves",
		RunE:  runQuote,
	}
	quoteCmd.Flags().String("rpc", "", "chain RPC URL")
	quoteCmd.Flags().String("pool-address", "", "pair contract address")
	quoteCmd.Flags().String("amount", "", "input amount in base units")
	quoteCmd.Flags().String("side", "base_in", "swap side (base_in, quote_in)")
	quoteCmd.Flags().Int("slippage-bps", 50, "slippage tolerance in basis points")
	quoteCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(quoteCmd)

	mintCmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint carbon credits to a recipient",
		RunE:  runMint,
	}
	mintCmd.Flags().String("rpc", "", "chain RPC URL")
	mintCmd.Flags().String("token-address", "", "carbon token contract address")
	mintCmd.Flags().String("private-key", "", "signer private key (hex)")
	mintCmd.Flags().String("recipient", "", "recipient address")
	mintCmd.Flags().String("amount", "", "amount in whole tokens (decimal)")
	mintCmd.Flags().String("metadata-ref", "", "credit documentation reference (content identifier)")
	mintCmd.Flags().String("pg-dsn", "", "Postgres DSN for mint reconciliation records")
	mintCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(mintCmd)

	fundCmd := &cobra.Command{
		Use:   "fund",
		Short: "Fund the trading contract with liquidity",
		RunE:  runFund,
	}
	fundCmd.Flags().String("rpc", "", "chain RPC URL")
	fundCmd.Flags().String("token-address", "", "carbon token contract address")
	fundCmd.Flags().String("quote-token-address", "", "quote token contract address")
	fundCmd.Flags().String("trading-address", "", "trading contract address")
	fundCmd.Flags().String("private-key", "", "signer private key (hex)")
	fundCmd.Flags().String("base-amount", "", "requested base contribution in whole tokens")
	fundCmd.Flags().String("quote-amount", "", "requested quote contribution in whole tokens")
	fundCmd.Flags().String("fund-cap", "", "per-side ceiling in whole tokens")
	fundCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(fundCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile == "" && cmd.Parent() != nil {
		cfgFile, _ = cmd.Parent().PersistentFlags().GetString("config")
	}
	return config.Load(cfgFile, cmd.Flags())
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// resolveContract returns the configured address, falling back to the
// deployment artifact.
func resolveContract(explicit string, artifact *storage.ArtifactStore, name string) (common.Address, error) {
	if explicit != "" {
		if !common.IsHexAddress(explicit) {
			return common.Address{}, fmt.Errorf("%s address %q is not a hex address", name, explicit)
		}
		return common.HexToAddress(explicit), nil
	}

	dep, ok, err := artifact.Load()
	if err != nil {
		return common.Address{}, err
	}
	if !ok {
		return common.Address{}, fmt.Errorf("%s address not configured and no deployment artifact found", name)
	}
	addr, ok := dep.Contracts[name]
	if !ok || !common.IsHexAddress(addr) {
		return common.Address{}, fmt.Errorf("deployment artifact has no usable %s address", name)
	}
	return common.HexToAddress(addr), nil
}
