package dashboard

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"carbondash/internal/model"
)

// ReservesReader reads pool reserves; *chain.Client satisfies it.
type ReservesReader interface {
	Reserves(ctx context.Context, pool common.Address) (model.Reserves, error)
}

// PoolService exposes the live pair state for the trading view.
type PoolService struct {
	reader ReservesReader
	pool   common.Address
}

func NewPoolService(reader ReservesReader, pool common.Address) *PoolService {
	return &PoolService{reader: reader, pool: pool}
}

// Reserves returns the raw pooled amounts.
func (p *PoolService) Reserves(ctx context.Context) (model.Reserves, error) {
	if p.reader == nil {
		return model.Reserves{}, fmt.Errorf("reserves reader is nil")
	}
	return p.reader.Reserves(ctx, p.pool)
}

// Overview returns reserves plus both spot prices.
func (p *PoolService) Overview(ctx context.Context) (model.PoolOverview, error) {
	reserves, err := p.Reserves(ctx)
	if err != nil {
		return model.PoolOverview{}, err
	}
	if !reserves.Initialized() {
		return model.PoolOverview{}, fmt.Errorf("pool reserves not initialized")
	}

	quotePerBase, _ := new(big.Float).Quo(
		new(big.Float).SetInt(reserves.Quote),
		new(big.Float).SetInt(reserves.Base),
	).Float64()
	basePerQuote, _ := new(big.Float).Quo(
		new(big.Float).SetInt(reserves.Base),
		new(big.Float).SetInt(reserves.Quote),
	).Float64()

	return model.PoolOverview{
		ReserveBase:       reserves.Base.String(),
		ReserveQuote:      reserves.Quote.String(),
		PriceQuotePerBase: quotePerBase,
		PriceBasePerQuote: basePerQuote,
	}, nil
}
