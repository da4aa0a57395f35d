package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"carbondash/internal/model"
)

// ErrLedgerRejected marks a submission the chain refused or reverted.
// The underlying reason is wrapped verbatim.
var ErrLedgerRejected = errors.New("ledger rejected submission")

// Client wraps go-ethereum RPC and provides the ledger surface the rest
// of the system depends on: balance reads, constant calls, reserve
// reads, signed submission, and confirmation waits.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
	chainID   *big.Int

	key  *ecdsa.PrivateKey
	from common.Address

	// Submissions from one signer must not interleave; the chain orders
	// nonces sequentially per account.
	submitMu sync.Mutex

	confirmInterval time.Duration
	logger          *zap.Logger
}

// NewClient dials the RPC endpoint. privateKeyHex may be empty for a
// read-only client; Submit then fails with an explicit error.
func NewClient(ctx context.Context, rpcURL, privateKeyHex string, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	ethClient := ethclient.NewClient(rpcClient)

	chainID, err := ethClient.ChainID(ctx)
	if err != nil {
		rpcClient.Close()
		return nil, fmt.Errorf("get chain id: %w", err)
	}

	client := &Client{
		rpcClient:       rpcClient,
		ethClient:       ethClient,
		chainID:         chainID,
		confirmInterval: 2 * time.Second,
		logger:          logger.Named("chain"),
	}

	if privateKeyHex != "" {
		key, err := crypto.HexToECDSA(privateKeyHex)
		if err != nil {
			rpcClient.Close()
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		client.key = key
		client.from = crypto.PubkeyToAddress(key.PublicKey)
	}

	return client, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// Signer returns the submitting address, zero when read-only.
func (c *Client) Signer() common.Address {
	return c.from
}

// BalanceOf reads an ERC20 balance.
func (c *Client) BalanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error) {
	values, err := c.Call(ctx, token, ABIERC20, "balanceOf", holder)
	if err != nil {
		return nil, err
	}
	balance, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("balanceOf: %w", err)
	}
	return balance, nil
}

// Call executes a constant contract function and returns the unpacked
// values.
func (c *Client) Call(ctx context.Context, contract common.Address, abiName, method string, args ...interface{}) ([]interface{}, error) {
	parsed, err := contractABI(abiName)
	if err != nil {
		return nil, err
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &contract, Data: data}
	resp, err := c.ethClient.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

// Reserves reads the pair's pooled amounts. Token0 of the pair is the
// base side by deployment convention.
func (c *Client) Reserves(ctx context.Context, pool common.Address) (model.Reserves, error) {
	values, err := c.Call(ctx, pool, ABIPair, "getReserves")
	if err != nil {
		return model.Reserves{}, err
	}
	if len(values) < 2 {
		return model.Reserves{}, fmt.Errorf("getReserves returned %d values", len(values))
	}
	base, err := asBigInt(values[0])
	if err != nil {
		return model.Reserves{}, fmt.Errorf("reserve0: %w", err)
	}
	quote, err := asBigInt(values[1])
	if err != nil {
		return model.Reserves{}, fmt.Errorf("reserve1: %w", err)
	}
	return model.Reserves{Base: base, Quote: quote}, nil
}

// Submit signs and broadcasts a state-changing call. Submissions are
// serialized on the client so nonces stay ordered.
func (c *Client) Submit(ctx context.Context, contract common.Address, abiName, method string, args ...interface{}) (model.PendingTx, error) {
	if c.key == nil {
		return model.PendingTx{}, fmt.Errorf("%w: client has no signing key", ErrLedgerRejected)
	}

	parsed, err := contractABI(abiName)
	if err != nil {
		return model.PendingTx{}, err
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return model.PendingTx{}, fmt.Errorf("pack %s: %w", method, err)
	}

	c.submitMu.Lock()
	defer c.submitMu.Unlock()

	nonce, err := c.ethClient.PendingNonceAt(ctx, c.from)
	if err != nil {
		return model.PendingTx{}, fmt.Errorf("pending nonce: %w", err)
	}
	gasPrice, err := c.ethClient.SuggestGasPrice(ctx)
	if err != nil {
		return model.PendingTx{}, fmt.Errorf("suggest gas price: %w", err)
	}
	gasLimit, err := c.ethClient.EstimateGas(ctx, ethereum.CallMsg{
		From: c.from,
		To:   &contract,
		Data: data,
	})
	if err != nil {
		// Estimation failure surfaces the revert reason before broadcast.
		return model.PendingTx{}, fmt.Errorf("%w: %s", ErrLedgerRejected, err.Error())
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &contract,
		Value:    big.NewInt(0),
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return model.PendingTx{}, fmt.Errorf("sign tx: %w", err)
	}
	if err := c.ethClient.SendTransaction(ctx, signed); err != nil {
		return model.PendingTx{}, fmt.Errorf("%w: %s", ErrLedgerRejected, err.Error())
	}

	c.logger.Info("transaction submitted",
		zap.String("hash", signed.Hash().Hex()),
		zap.String("contract", contract.Hex()),
		zap.String("method", method),
		zap.Uint64("nonce", nonce),
	)

	return model.PendingTx{Hash: signed.Hash().Hex()}, nil
}

// AwaitConfirmation polls until the transaction is mined. It blocks for
// a variable number of block intervals; callers impose their own
// deadline through ctx.
func (c *Client) AwaitConfirmation(ctx context.Context, pending model.PendingTx) (model.Receipt, error) {
	hash := common.HexToHash(pending.Hash)
	ticker := time.NewTicker(c.confirmInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.ethClient.TransactionReceipt(ctx, hash)
		if err == nil {
			status := model.TxReverted
			if receipt.Status == types.ReceiptStatusSuccessful {
				status = model.TxSuccess
			}
			return model.Receipt{
				Hash:           pending.Hash,
				ConfirmedBlock: receipt.BlockNumber.Uint64(),
				Status:         status,
			}, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return model.Receipt{}, fmt.Errorf("poll receipt %s: %w", pending.Hash, err)
		}

		select {
		case <-ctx.Done():
			return model.Receipt{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int64:
		return big.NewInt(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}
