package fetch

import (
	"context"

	"go.uber.org/zap"
)

// Tier labels one ranked retrieval strategy in a fallback cascade.
type Tier string

const (
	TierPrimary     Tier = "primary"
	TierAlternate   Tier = "alternate"
	TierPlaceholder Tier = "placeholder"
)

// Source is one live tier: a label plus the query that produces it.
type Source[T any] struct {
	Tier  Tier
	Query func(ctx context.Context) (T, error)
}

// Result carries the winning tier's data and where it came from. A
// placeholder result always has a non-empty Warning so the caller can
// flag demo data.
type Result[T any] struct {
	Data    T      `json:"data"`
	Tier    Tier   `json:"tier"`
	Warning string `json:"warning,omitempty"`
}

// Run walks the sources in order and returns the first result that
// passes isValid. Each source gets exactly one attempt; a failure or an
// invalid result advances the cascade, it is never retried. When every
// source is exhausted the supplied placeholder wins, tagged with warning.
func Run[T any](ctx context.Context, sources []Source[T], isValid func(T) bool, placeholder T, warning string, logger *zap.Logger) Result[T] {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, src := range sources {
		if ctx.Err() != nil {
			break
		}
		data, err := src.Query(ctx)
		if err != nil {
			logger.Debug("fetch tier failed", zap.String("tier", string(src.Tier)), zap.Error(err))
			continue
		}
		if isValid != nil && !isValid(data) {
			logger.Debug("fetch tier returned no usable data", zap.String("tier", string(src.Tier)))
			continue
		}
		return Result[T]{Data: data, Tier: src.Tier}
	}

	if warning == "" {
		warning = "live data unavailable, showing placeholder dataset"
	}
	logger.Warn("all fetch tiers exhausted", zap.String("warning", warning))
	return Result[T]{Data: placeholder, Tier: TierPlaceholder, Warning: warning}
}
