package api

import (
	"errors"
	"math/big"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carbondash/internal/dashboard"
	"carbondash/internal/pricing"
)

// Handler serves the dashboard's read-only endpoints. Every fetch-backed
// response carries the winning tier so the UI can flag demo data.
type Handler struct {
	dash        *dashboard.CachedService
	pool        *dashboard.PoolService
	slippageBps int
	logger      *zap.Logger
}

func NewHandler(dash *dashboard.CachedService, pool *dashboard.PoolService, defaultSlippageBps int, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		dash:        dash,
		pool:        pool,
		slippageBps: defaultSlippageBps,
		logger:      logger.Named("api"),
	}
}

func (h *Handler) GetTransfers(c *gin.Context) {
	c.JSON(http.StatusOK, h.dash.Transfers(c.Request.Context()))
}

func (h *Handler) GetHolders(c *gin.Context) {
	c.JSON(http.StatusOK, h.dash.Holders(c.Request.Context()))
}

func (h *Handler) GetTokenInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.dash.TokenInfo(c.Request.Context()))
}

func (h *Handler) GetPool(c *gin.Context) {
	overview, err := h.pool.Overview(c.Request.Context())
	if err != nil {
		h.logger.Warn("pool overview failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, overview)
}

// GetQuote prices a swap from live reserves. Query parameters: amount
// (base units, decimal string), side (base_in or quote_in), and an
// optional slippage_bps override.
func (h *Handler) GetQuote(c *gin.Context) {
	input, ok := parseBigInt(c.Query("amount"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive integer in base units"})
		return
	}

	side := pricing.Side(c.DefaultQuery("side", string(pricing.BaseIn)))

	slippageBps := h.slippageBps
	if raw := c.Query("slippage_bps"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "slippage_bps must be an integer"})
			return
		}
		slippageBps = parsed
	}

	reserves, err := h.pool.Reserves(c.Request.Context())
	if err != nil {
		h.logger.Warn("reserve read failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	quote, err := pricing.Quote(reserves, side, input, slippageBps)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, pricing.ErrInvalidReserves) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quote)
}

func parseBigInt(raw string) (*big.Int, bool) {
	if raw == "" {
		return nil, false
	}
	value, ok := new(big.Int).SetString(raw, 10)
	if !ok || value.Sign() <= 0 {
		return nil, false
	}
	return value, true
}
