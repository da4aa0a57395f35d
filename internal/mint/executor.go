package mint

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"carbondash/internal/chain"
	"carbondash/internal/model"
)

// ErrInvalidRequest marks a mint request rejected before any chain
// interaction.
var ErrInvalidRequest = errors.New("invalid mint request")

// Ledger is the chain surface the executor needs. *chain.Client
// satisfies it.
type Ledger interface {
	BalanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error)
	Call(ctx context.Context, contract common.Address, abiName, method string, args ...interface{}) ([]interface{}, error)
	Submit(ctx context.Context, contract common.Address, abiName, method string, args ...interface{}) (model.PendingTx, error)
	AwaitConfirmation(ctx context.Context, pending model.PendingTx) (model.Receipt, error)
}

// RecordStore persists confirmed mints for reconciliation; may be nil.
type RecordStore interface {
	SaveMintRecord(ctx context.Context, record model.MintRecord) error
}

// TxLog records executed transactions; may be nil.
type TxLog interface {
	Append(entries []model.TxLogEntry) error
}

// Executor drives a single mint to completion and verifies the result.
type Executor struct {
	ledger Ledger
	token  common.Address
	store  RecordStore
	txLog  TxLog
	logger *zap.Logger
}

// NewExecutor builds an Executor. store, txLog, and logger may be nil.
func NewExecutor(ledger Ledger, token common.Address, store RecordStore, txLog TxLog, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		ledger: ledger,
		token:  token,
		store:  store,
		txLog:  txLog,
		logger: logger.Named("mint"),
	}
}

// Validate checks the request locally. All three fields are required
// and the amount must be positive.
func Validate(req model.MintRequest) error {
	if strings.TrimSpace(req.Recipient) == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidRequest)
	}
	if !common.IsHexAddress(req.Recipient) {
		return fmt.Errorf("%w: recipient %q is not an address", ErrInvalidRequest, req.Recipient)
	}
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.MetadataRef) == "" {
		return fmt.Errorf("%w: metadata reference is required", ErrInvalidRequest)
	}
	return nil
}

// Mint validates, submits, and confirms one mint. A returned error means
// the request never reached the ledger; once submitted, the outcome
// carries the result, including the ledger's rejection reason verbatim
// on failure. Minting is not idempotent — a failed submission is never
// retried here, because the failure may be a visibility problem rather
// than a revert, and a blind retry could double-mint. Callers reconcile
// through the unique metadata reference.
func (e *Executor) Mint(ctx context.Context, req model.MintRequest) (model.MintOutcome, error) {
	if err := Validate(req); err != nil {
		return model.MintOutcome{}, err
	}

	recipient := common.HexToAddress(req.Recipient)

	e.logger.Info("submitting mint",
		zap.String("recipient", recipient.Hex()),
		zap.String("amount", req.Amount.String()),
		zap.String("metadata_ref", req.MetadataRef),
	)

	pending, err := e.ledger.Submit(ctx, e.token, chain.ABIToken, "mint", recipient, req.Amount, req.MetadataRef)
	if err != nil {
		return model.MintOutcome{Success: false, Error: err.Error()}, nil
	}

	receipt, err := e.ledger.AwaitConfirmation(ctx, pending)
	if err != nil {
		return model.MintOutcome{
			Success:         false,
			TransactionHash: pending.Hash,
			Error:           fmt.Sprintf("await confirmation: %s", err),
		}, nil
	}
	e.record(receipt)
	if receipt.Status != model.TxSuccess {
		return model.MintOutcome{
			Success:         false,
			TransactionHash: receipt.Hash,
			Error:           fmt.Sprintf("transaction %s reverted", receipt.Hash),
		}, nil
	}

	outcome := model.MintOutcome{Success: true, TransactionHash: receipt.Hash}
	e.verify(ctx, recipient, &outcome)
	e.persist(ctx, req, outcome)

	return outcome, nil
}

// verify reads the recipient balance and the mint record counter. The
// confirmed transaction is authoritative, so a failed read only sets a
// warning and leaves the fields empty.
func (e *Executor) verify(ctx context.Context, recipient common.Address, outcome *model.MintOutcome) {
	balance, err := e.ledger.BalanceOf(ctx, e.token, recipient)
	if err != nil {
		outcome.Warning = fmt.Sprintf("verification incomplete: balance read failed: %s", err)
		e.logger.Warn("post-mint balance read failed", zap.Error(err))
		return
	}
	outcome.RecipientBalance = balance

	values, err := e.ledger.Call(ctx, e.token, chain.ABIToken, "getTotalMintRecords")
	if err != nil {
		outcome.Warning = fmt.Sprintf("verification incomplete: mint record count read failed: %s", err)
		e.logger.Warn("mint record count read failed", zap.Error(err))
		return
	}
	if len(values) == 0 {
		outcome.Warning = "verification incomplete: mint record count read returned no value"
		return
	}
	total, ok := values[0].(*big.Int)
	if !ok || total.Sign() <= 0 {
		outcome.Warning = fmt.Sprintf("verification incomplete: unexpected mint record count %v", values[0])
		return
	}
	recordID := total.Int64() - 1
	outcome.MintRecordID = &recordID
}

func (e *Executor) persist(ctx context.Context, req model.MintRequest, outcome model.MintOutcome) {
	if e.store == nil {
		return
	}
	record := model.MintRecord{
		TxHash:      outcome.TransactionHash,
		Recipient:   req.Recipient,
		Amount:      req.Amount.String(),
		MetadataRef: req.MetadataRef,
		RecordID:    outcome.MintRecordID,
	}
	if err := e.store.SaveMintRecord(ctx, record); err != nil {
		e.logger.Warn("mint record persistence failed", zap.String("metadata_ref", req.MetadataRef), zap.Error(err))
	}
}

func (e *Executor) record(receipt model.Receipt) {
	if e.txLog == nil {
		return
	}
	entry := model.TxLogEntry{
		Kind:           "mint",
		Hash:           receipt.Hash,
		ConfirmedBlock: receipt.ConfirmedBlock,
		Status:         receipt.Status,
		At:             time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := e.txLog.Append([]model.TxLogEntry{entry}); err != nil {
		e.logger.Warn("tx log append failed", zap.Error(err))
	}
}
