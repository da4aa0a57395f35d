package fund

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"carbondash/internal/chain"
	"carbondash/internal/model"
)

// ErrInsufficientFunds marks a plan where clamping zeroed either side.
// Funding never proceeds one-sided.
var ErrInsufficientFunds = errors.New("insufficient funds for liquidity contribution")

// Ledger is the chain surface the funder needs. *chain.Client satisfies it.
type Ledger interface {
	BalanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error)
	Submit(ctx context.Context, contract common.Address, abiName, method string, args ...interface{}) (model.PendingTx, error)
	AwaitConfirmation(ctx context.Context, pending model.PendingTx) (model.Receipt, error)
}

// TxLog records executed transactions; may be nil.
type TxLog interface {
	Append(entries []model.TxLogEntry) error
}

// Plan clamps a requested contribution: each side is capped at the
// fixed ceiling first, then at the available balance. A nil cap means
// no ceiling.
func Plan(requestedBase, requestedQuote, availableBase, availableQuote, cap *big.Int) (model.LiquidityPlan, error) {
	actualBase := clamp(requestedBase, availableBase, cap)
	actualQuote := clamp(requestedQuote, availableQuote, cap)

	if actualBase.Sign() == 0 || actualQuote.Sign() == 0 {
		return model.LiquidityPlan{}, fmt.Errorf("%w: base=%s quote=%s after clamping", ErrInsufficientFunds, actualBase, actualQuote)
	}

	return model.LiquidityPlan{
		RequestedBase:  value(requestedBase),
		RequestedQuote: value(requestedQuote),
		ActualBase:     actualBase,
		ActualQuote:    actualQuote,
	}, nil
}

func clamp(requested, available, cap *big.Int) *big.Int {
	amount := value(requested)
	if amount.Sign() < 0 {
		return big.NewInt(0)
	}
	if cap != nil && amount.Cmp(cap) > 0 {
		amount = new(big.Int).Set(cap)
	}
	if available == nil {
		return big.NewInt(0)
	}
	if amount.Cmp(available) > 0 {
		amount = new(big.Int).Set(available)
	}
	return amount
}

func value(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

// Funder drives the approve-then-fund sequence against the trading
// contract.
type Funder struct {
	ledger     Ledger
	baseToken  common.Address
	quoteToken common.Address
	trading    common.Address
	txLog      TxLog
	logger     *zap.Logger
}

// NewFunder builds a Funder. txLog and logger may be nil.
func NewFunder(ledger Ledger, baseToken, quoteToken, trading common.Address, txLog TxLog, logger *zap.Logger) *Funder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Funder{
		ledger:     ledger,
		baseToken:  baseToken,
		quoteToken: quoteToken,
		trading:    trading,
		txLog:      txLog,
		logger:     logger.Named("fund"),
	}
}

type step struct {
	name     string
	contract common.Address
	abiName  string
	method   string
	args     []interface{}
}

// Execute runs the plan in strict order: approve base spend, approve
// quote spend, add liquidity. Each step's confirmation gates the next
// because the approvals are on-chain preconditions for the final call.
// On a failed or reverted step execution halts naming the step; the
// approvals already confirmed stay in place and may be reused.
func (f *Funder) Execute(ctx context.Context, plan model.LiquidityPlan) (model.FundResult, error) {
	if f.ledger == nil {
		return model.FundResult{}, fmt.Errorf("ledger is nil")
	}
	if plan.ActualBase == nil || plan.ActualQuote == nil || plan.ActualBase.Sign() == 0 || plan.ActualQuote.Sign() == 0 {
		return model.FundResult{}, fmt.Errorf("%w: plan has empty side", ErrInsufficientFunds)
	}

	preBase, preQuote := f.poolBalances(ctx)

	steps := []step{
		{name: "approve_base", contract: f.baseToken, abiName: chain.ABIERC20, method: "approve", args: []interface{}{f.trading, plan.ActualBase}},
		{name: "approve_quote", contract: f.quoteToken, abiName: chain.ABIERC20, method: "approve", args: []interface{}{f.trading, plan.ActualQuote}},
		{name: "add_liquidity", contract: f.trading, abiName: chain.ABITrading, method: "addLiquidity", args: []interface{}{plan.ActualBase, plan.ActualQuote}},
	}

	result := model.FundResult{}
	for _, s := range steps {
		pending, err := f.ledger.Submit(ctx, s.contract, s.abiName, s.method, s.args...)
		if err != nil {
			return result, fmt.Errorf("step %s: %w", s.name, err)
		}
		receipt, err := f.ledger.AwaitConfirmation(ctx, pending)
		if err != nil {
			return result, fmt.Errorf("step %s: await confirmation: %w", s.name, err)
		}
		result.Receipts = append(result.Receipts, receipt)
		f.record(s.name, receipt)
		if receipt.Status != model.TxSuccess {
			return result, fmt.Errorf("step %s: %w: transaction %s reverted", s.name, chain.ErrLedgerRejected, receipt.Hash)
		}
		f.logger.Info("funding step confirmed",
			zap.String("step", s.name),
			zap.String("hash", receipt.Hash),
			zap.Uint64("block", receipt.ConfirmedBlock),
		)
	}

	postBase, postQuote := f.poolBalances(ctx)
	result.PoolBase = postBase
	result.PoolQuote = postQuote
	result.Warning = verifyPoolBalances(preBase, preQuote, postBase, postQuote, plan)

	return result, nil
}

// poolBalances reads the trading contract's holdings of both tokens,
// best-effort.
func (f *Funder) poolBalances(ctx context.Context) (*big.Int, *big.Int) {
	base, err := f.ledger.BalanceOf(ctx, f.baseToken, f.trading)
	if err != nil {
		f.logger.Warn("pool base balance read failed", zap.Error(err))
		base = nil
	}
	quote, err := f.ledger.BalanceOf(ctx, f.quoteToken, f.trading)
	if err != nil {
		f.logger.Warn("pool quote balance read failed", zap.Error(err))
		quote = nil
	}
	return base, quote
}

// verifyPoolBalances compares observed post-funding balances with the
// expected pre+contribution values. A mismatch is only a warning; the
// confirmed transactions are the source of truth.
func verifyPoolBalances(preBase, preQuote, postBase, postQuote *big.Int, plan model.LiquidityPlan) string {
	if postBase == nil || postQuote == nil {
		return "post-funding balance verification incomplete: balance read failed"
	}
	if preBase == nil || preQuote == nil {
		return ""
	}
	wantBase := new(big.Int).Add(preBase, plan.ActualBase)
	wantQuote := new(big.Int).Add(preQuote, plan.ActualQuote)
	if postBase.Cmp(wantBase) != 0 || postQuote.Cmp(wantQuote) != 0 {
		return fmt.Sprintf("pool balances differ from expectation: base %s (want %s), quote %s (want %s)",
			postBase, wantBase, postQuote, wantQuote)
	}
	return ""
}

func (f *Funder) record(kind string, receipt model.Receipt) {
	if f.txLog == nil {
		return
	}
	entry := model.TxLogEntry{
		Kind:           kind,
		Hash:           receipt.Hash,
		ConfirmedBlock: receipt.ConfirmedBlock,
		Status:         receipt.Status,
		At:             time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := f.txLog.Append([]model.TxLogEntry{entry}); err != nil {
		f.logger.Warn("tx log append failed", zap.String("kind", kind), zap.Error(err))
	}
}
