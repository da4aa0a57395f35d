package dashboard

import (
	"context"
	"math/big"
	"sort"
	"strings"

	"go.uber.org/zap"

	"carbondash/internal/fetch"
	"carbondash/internal/model"
)

// maxHolders caps the holder list at one indexer page.
const maxHolders = 100

// Service answers the dashboard's three read paths through the tiered
// cascade: scoped indexer query, broader query with client-side
// filtering, then the fixed placeholder dataset. Placeholder results are
// always flagged so the UI can label demo data.
type Service struct {
	indexer *fetch.IndexerClient
	token   string
	logger  *zap.Logger
}

// NewService builds a Service for one token contract.
func NewService(indexer *fetch.IndexerClient, tokenAddress string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		indexer: indexer,
		token:   strings.ToLower(tokenAddress),
		logger:  logger.Named("dashboard"),
	}
}

// Transfers returns the token's recent transfer history.
func (s *Service) Transfers(ctx context.Context) fetch.Result[[]model.Transfer] {
	sources := []fetch.Source[[]model.Transfer]{
		{Tier: fetch.TierPrimary, Query: func(ctx context.Context) ([]model.Transfer, error) {
			return s.indexer.TokenTransfers(ctx, s.token)
		}},
		{Tier: fetch.TierAlternate, Query: func(ctx context.Context) ([]model.Transfer, error) {
			transfers, err := s.indexer.AddressTokenTransfers(ctx, s.token)
			if err != nil {
				return nil, err
			}
			return filterByContract(transfers, s.token), nil
		}},
	}
	return fetch.Run(ctx, sources,
		func(rows []model.Transfer) bool { return len(rows) > 0 },
		placeholderTransfers(),
		"live transfer data unavailable, showing demo transfers",
		s.logger,
	)
}

// Holders returns token holders with positive balances, largest first,
// capped at one page.
func (s *Service) Holders(ctx context.Context) fetch.Result[[]model.Holder] {
	sources := []fetch.Source[[]model.Holder]{
		{Tier: fetch.TierPrimary, Query: func(ctx context.Context) ([]model.Holder, error) {
			holders, err := s.indexer.TokenHolders(ctx, s.token)
			if err != nil {
				return nil, err
			}
			return shapeHolders(holders), nil
		}},
		{Tier: fetch.TierAlternate, Query: func(ctx context.Context) ([]model.Holder, error) {
			transfers, err := s.indexer.TokenTransfers(ctx, s.token)
			if err != nil {
				return nil, err
			}
			return shapeHolders(holdersFromTransfers(transfers)), nil
		}},
	}
	return fetch.Run(ctx, sources,
		func(rows []model.Holder) bool { return len(rows) > 0 },
		placeholderHolders(),
		"live holder data unavailable, showing demo holders",
		s.logger,
	)
}

// TokenInfo returns the token metadata record.
func (s *Service) TokenInfo(ctx context.Context) fetch.Result[model.TokenInfo] {
	sources := []fetch.Source[model.TokenInfo]{
		{Tier: fetch.TierPrimary, Query: func(ctx context.Context) (model.TokenInfo, error) {
			return s.indexer.TokenInfo(ctx, s.token)
		}},
		{Tier: fetch.TierAlternate, Query: func(ctx context.Context) (model.TokenInfo, error) {
			transfers, err := s.indexer.TokenTransfers(ctx, s.token)
			if err != nil {
				return model.TokenInfo{}, err
			}
			return infoFromTransfers(transfers), nil
		}},
	}
	return fetch.Run(ctx, sources,
		func(info model.TokenInfo) bool { return info.Name != "" && info.Symbol != "" },
		placeholderTokenInfo(),
		"live token info unavailable, showing demo token info",
		s.logger,
	)
}

func filterByContract(transfers []model.Transfer, contract string) []model.Transfer {
	out := make([]model.Transfer, 0, len(transfers))
	for _, tx := range transfers {
		if strings.EqualFold(tx.ContractAddress, contract) {
			out = append(out, tx)
		}
	}
	return out
}

// shapeHolders drops non-positive balances, sorts descending by balance,
// and caps the list at one page.
func shapeHolders(holders []model.Holder) []model.Holder {
	shaped := make([]model.Holder, 0, len(holders))
	for _, h := range holders {
		if holderValue(h).Sign() > 0 {
			shaped = append(shaped, h)
		}
	}
	sort.SliceStable(shaped, func(i, j int) bool {
		return holderValue(shaped[i]).Cmp(holderValue(shaped[j])) > 0
	})
	if len(shaped) > maxHolders {
		shaped = shaped[:maxHolders]
	}
	return shaped
}

func holderValue(h model.Holder) *big.Int {
	value, ok := new(big.Int).SetString(h.Value, 10)
	if !ok {
		return big.NewInt(0)
	}
	return value
}

// holdersFromTransfers reconstructs balances from the transfer history.
// Mints come from the zero address; burns go to it.
func holdersFromTransfers(transfers []model.Transfer) []model.Holder {
	const zeroAddress = "0x0000000000000000000000000000000000000000"
	balances := make(map[string]*big.Int)
	for _, tx := range transfers {
		amount, ok := new(big.Int).SetString(tx.Value, 10)
		if !ok {
			continue
		}
		from := strings.ToLower(tx.From)
		to := strings.ToLower(tx.To)
		if from != zeroAddress {
			if balances[from] == nil {
				balances[from] = big.NewInt(0)
			}
			balances[from].Sub(balances[from], amount)
		}
		if to != zeroAddress {
			if balances[to] == nil {
				balances[to] = big.NewInt(0)
			}
			balances[to].Add(balances[to], amount)
		}
	}

	holders := make([]model.Holder, 0, len(balances))
	for address, balance := range balances {
		holders = append(holders, model.Holder{Address: address, Value: balance.String()})
	}
	return holders
}

// infoFromTransfers scrapes token metadata off a transfer row; the
// counts are unknown at this tier and stay empty.
func infoFromTransfers(transfers []model.Transfer) model.TokenInfo {
	for _, tx := range transfers {
		if tx.TokenName != "" || tx.TokenSymbol != "" {
			return model.TokenInfo{
				Name:     tx.TokenName,
				Symbol:   tx.TokenSymbol,
				Decimals: tx.TokenDecimal,
			}
		}
	}
	return model.TokenInfo{}
}
