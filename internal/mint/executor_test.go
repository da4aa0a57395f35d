package mint

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"carbondash/internal/model"
)

var (
	tokenAddr = common.HexToAddress("0x0000000000000000000000000000000000000e01")
	recipient = "0xAbC4000000000000000000000000000000000abc"
	txHash    = "0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"
)

type stubLedger struct {
	submits      int
	submitErr    error
	revert       bool
	balance      *big.Int
	balanceErr   error
	totalRecords *big.Int
	callErr      error
}

func (s *stubLedger) BalanceOf(context.Context, common.Address, common.Address) (*big.Int, error) {
	if s.balanceErr != nil {
		return nil, s.balanceErr
	}
	return new(big.Int).Set(s.balance), nil
}

func (s *stubLedger) Call(context.Context, common.Address, string, string, ...interface{}) ([]interface{}, error) {
	if s.callErr != nil {
		return nil, s.callErr
	}
	return []interface{}{new(big.Int).Set(s.totalRecords)}, nil
}

func (s *stubLedger) Submit(context.Context, common.Address, string, string, ...interface{}) (model.PendingTx, error) {
	s.submits++
	if s.submitErr != nil {
		return model.PendingTx{}, s.submitErr
	}
	return model.PendingTx{Hash: txHash}, nil
}

func (s *stubLedger) AwaitConfirmation(_ context.Context, pending model.PendingTx) (model.Receipt, error) {
	status := model.TxSuccess
	if s.revert {
		status = model.TxReverted
	}
	return model.Receipt{Hash: pending.Hash, ConfirmedBlock: 42, Status: status}, nil
}

func request() model.MintRequest {
	return model.MintRequest{Recipient: recipient, Amount: big.NewInt(10), MetadataRef: "Qm123"}
}

func TestMintSuccessWithVerification(t *testing.T) {
	ledger := &stubLedger{balance: big.NewInt(10), totalRecords: big.NewInt(1)}
	exec := NewExecutor(ledger, tokenAddr, nil, nil, nil)

	outcome, err := exec.Mint(context.Background(), request())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Success {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if outcome.TransactionHash != txHash {
		t.Fatalf("hash mismatch: %s", outcome.TransactionHash)
	}
	if outcome.RecipientBalance == nil || outcome.RecipientBalance.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("recipient balance mismatch: %v", outcome.RecipientBalance)
	}
	if outcome.MintRecordID == nil || *outcome.MintRecordID != 0 {
		t.Fatalf("mint record id mismatch: %v", outcome.MintRecordID)
	}
	if outcome.Warning != "" || outcome.Error != "" {
		t.Fatalf("unexpected warning/error: %+v", outcome)
	}
}

func TestMintValidationRunsBeforeLedger(t *testing.T) {
	ledger := &stubLedger{balance: big.NewInt(0), totalRecords: big.NewInt(0)}
	exec := NewExecutor(ledger, tokenAddr, nil, nil, nil)

	cases := []model.MintRequest{
		{Recipient: "", Amount: big.NewInt(10), MetadataRef: "Qm123"},
		{Recipient: "not-an-address", Amount: big.NewInt(10), MetadataRef: "Qm123"},
		{Recipient: recipient, Amount: big.NewInt(0), MetadataRef: "Qm123"},
		{Recipient: recipient, Amount: nil, MetadataRef: "Qm123"},
		{Recipient: recipient, Amount: big.NewInt(10), MetadataRef: "  "},
	}
	for _, req := range cases {
		if _, err := exec.Mint(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("request %+v: expected ErrInvalidRequest, got %v", req, err)
		}
	}
	if ledger.submits != 0 {
		t.Fatalf("invalid requests must not reach the ledger: %d submissions", ledger.submits)
	}
}

func TestMintSubmissionFailure(t *testing.T) {
	ledger := &stubLedger{submitErr: errors.New("execution reverted: not authorized")}
	exec := NewExecutor(ledger, tokenAddr, nil, nil, nil)

	outcome, err := exec.Mint(context.Background(), request())
	if err != nil {
		t.Fatalf("submission failure is reported in the outcome, not as an error: %v", err)
	}
	if outcome.Success {
		t.Fatalf("expected failure outcome")
	}
	if outcome.Error != "execution reverted: not authorized" {
		t.Fatalf("ledger reason must be carried verbatim: %q", outcome.Error)
	}
	if ledger.submits != 1 {
		t.Fatalf("a failed submission must not be retried: %d submissions", ledger.submits)
	}
}

func TestMintRevertedTransaction(t *testing.T) {
	ledger := &stubLedger{revert: true, balance: big.NewInt(0), totalRecords: big.NewInt(0)}
	exec := NewExecutor(ledger, tokenAddr, nil, nil, nil)

	outcome, err := exec.Mint(context.Background(), request())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Success || outcome.Error == "" {
		t.Fatalf("reverted mint must fail with a reason: %+v", outcome)
	}
}

func TestMintVerificationFailureIsNonFatal(t *testing.T) {
	ledger := &stubLedger{balanceErr: errors.New("rpc timeout"), totalRecords: big.NewInt(1)}
	exec := NewExecutor(ledger, tokenAddr, nil, nil, nil)

	outcome, err := exec.Mint(context.Background(), request())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Success {
		t.Fatalf("mint is still successful when verification reads fail: %+v", outcome)
	}
	if outcome.Warning == "" {
		t.Fatalf("expected a verification warning")
	}
	if outcome.RecipientBalance != nil || outcome.MintRecordID != nil {
		t.Fatalf("verification fields must stay empty: %+v", outcome)
	}
}

type recordingStore struct {
	records []model.MintRecord
}

func (r *recordingStore) SaveMintRecord(_ context.Context, record model.MintRecord) error {
	r.records = append(r.records, record)
	return nil
}

func TestMintPersistsRecord(t *testing.T) {
	ledger := &stubLedger{balance: big.NewInt(10), totalRecords: big.NewInt(3)}
	store := &recordingStore{}
	exec := NewExecutor(ledger, tokenAddr, store, nil, nil)

	if _, err := exec.Mint(context.Background(), request()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.records) != 1 {
		t.Fatalf("expected one persisted record, got %d", len(store.records))
	}
	rec := store.records[0]
	if rec.MetadataRef != "Qm123" || rec.TxHash != txHash || rec.Amount != "10" {
		t.Fatalf("record mismatch: %+v", rec)
	}
	if rec.RecordID == nil || *rec.RecordID != 2 {
		t.Fatalf("record id mismatch: %v", rec.RecordID)
	}
}
