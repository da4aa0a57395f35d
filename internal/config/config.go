package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL          string
	IndexerURL      string
	TokenAddress    string
	TradingAddress  string
	QuoteToken      string
	PoolAddress     string
	PrivateKey      string
	PGDSN           string
	Artifact        string
	TxLog           string
	Listen          string
	AllowOrigins    []string
	RefreshInterval time.Duration
	SlippageBps     int
	FundCap         string
	IndexerRPS      float64
	IndexerTimeout  time.Duration
	LogLevel        string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CARBONDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("indexer-url", "https://celo-sepolia.blockscout.com/api")
	v.SetDefault("artifact", "./data/deployment.json")
	v.SetDefault("tx-log", "./data/transactions.jsonl")
	v.SetDefault("listen", ":8080")
	v.SetDefault("refresh-interval", 30*time.Second)
	v.SetDefault("slippage-bps", 50)
	v.SetDefault("indexer-rps", 5.0)
	v.SetDefault("indexer-timeout", 10*time.Second)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:          v.GetString("rpc"),
		IndexerURL:      v.GetString("indexer-url"),
		TokenAddress:    v.GetString("token-address"),
		TradingAddress:  v.GetString("trading-address"),
		QuoteToken:      v.GetString("quote-token-address"),
		PoolAddress:     v.GetString("pool-address"),
		PrivateKey:      v.GetString("private-key"),
		PGDSN:           v.GetString("pg-dsn"),
		Artifact:        v.GetString("artifact"),
		TxLog:           v.GetString("tx-log"),
		Listen:          v.GetString("listen"),
		AllowOrigins:    getStringSlice(v, "allow-origins"),
		RefreshInterval: v.GetDuration("refresh-interval"),
		SlippageBps:     v.GetInt("slippage-bps"),
		FundCap:         v.GetString("fund-cap"),
		IndexerRPS:      v.GetFloat64("indexer-rps"),
		IndexerTimeout:  v.GetDuration("indexer-timeout"),
		LogLevel:        v.GetString("log-level"),
	}

	return cfg, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
