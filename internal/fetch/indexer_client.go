package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"carbondash/internal/model"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// envelope is the etherscan-compatible response wrapper used by the
// indexer: status "1" means the query produced a result.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// IndexerClient queries an etherscan-compatible indexer API over HTTP.
// Requests are rate limited so dashboard refreshes stay inside the
// public endpoint's quota.
type IndexerClient struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewIndexerClient creates a client for the given API base URL,
// e.g. "https://celo-sepolia.blockscout.com/api".
func NewIndexerClient(baseURL string, timeout time.Duration, requestsPerSecond float64, logger *zap.Logger) *IndexerClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IndexerClient{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		logger:  logger.Named("IndexerClient"),
	}
}

// Query issues one module/action request and unmarshals the result
// payload into out. A status-"0" or null-result response is an error so
// the fallback cascade advances to its next tier.
func (c *IndexerClient) Query(ctx context.Context, module, action string, params map[string]string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	values := url.Values{}
	values.Set("module", module)
	values.Set("action", action)
	for key, val := range params {
		values.Set(key, val)
	}
	requestURL := c.baseURL + "?" + values.Encode()

	c.logger.Debug("indexer request", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		return fmt.Errorf("indexer request %s/%s: %w", module, action, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("indexer request %s/%s: http %d", module, action, resp.StatusCode())
	}

	return decodeEnvelope(resp.Body(), out)
}

func decodeEnvelope(body []byte, out any) error {
	var env envelope
	if err := jsonCodec.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode indexer envelope: %w", err)
	}
	if env.Status != "1" {
		return fmt.Errorf("indexer reported no data: %s", env.Message)
	}
	if len(env.Result) == 0 || string(env.Result) == "null" {
		return fmt.Errorf("indexer returned empty result")
	}
	if err := jsonCodec.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("decode indexer result: %w", err)
	}
	return nil
}

// TokenTransfers returns recent transfers scoped to the token contract.
func (c *IndexerClient) TokenTransfers(ctx context.Context, contract string) ([]model.Transfer, error) {
	var transfers []model.Transfer
	err := c.Query(ctx, "account", "tokentx", map[string]string{
		"contractaddress": contract,
		"page":            "1",
		"offset":          "50",
		"sort":            "desc",
	}, &transfers)
	return transfers, err
}

// AddressTokenTransfers returns transfers touching an address across all
// tokens; callers post-filter by contract address.
func (c *IndexerClient) AddressTokenTransfers(ctx context.Context, address string) ([]model.Transfer, error) {
	var transfers []model.Transfer
	err := c.Query(ctx, "account", "tokentx", map[string]string{
		"address": address,
		"page":    "1",
		"offset":  "50",
		"sort":    "desc",
	}, &transfers)
	return transfers, err
}

// TokenHolders returns the holder list for the token contract.
func (c *IndexerClient) TokenHolders(ctx context.Context, contract string) ([]model.Holder, error) {
	var holders []model.Holder
	err := c.Query(ctx, "token", "tokenHolders", map[string]string{
		"contractaddress": contract,
	}, &holders)
	return holders, err
}

// TokenInfo returns the token metadata record.
func (c *IndexerClient) TokenInfo(ctx context.Context, contract string) (model.TokenInfo, error) {
	var info model.TokenInfo
	err := c.Query(ctx, "token", "getToken", map[string]string{
		"contractaddress": contract,
	}, &info)
	return info, err
}
