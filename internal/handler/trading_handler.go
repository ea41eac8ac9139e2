package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dex-sniper/internal/repository"
	"github.com/dex-sniper/internal/trader"
	"github.com/dex-sniper/pkg/response"
)

// TradingHandler handles auto-trader API requests
type TradingHandler struct {
	trader *trader.AutoTrader
	ledger *repository.Ledger
}

// NewTradingHandler creates a new TradingHandler. The ledger may be nil
// when the server runs without a database.
func NewTradingHandler(t *trader.AutoTrader, ledger *repository.Ledger) *TradingHandler {
	return &TradingHandler{
		trader: t,
		ledger: ledger,
	}
}

// ManualTrade executes an operator-initiated trade
// POST /api/v1/trading/manual
func (h *TradingHandler) ManualTrade(c *gin.Context) {
	var req trader.ManualTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	trade, err := h.trader.ExecuteManualTrade(req)
	if err != nil {
		switch {
		case errors.Is(err, trader.ErrInvalidAction):
			response.BadRequest(c, err.Error())
		case errors.Is(err, trader.ErrInsufficientFunds):
			response.UnprocessableEntity(c, err.Error())
		case errors.Is(err, trader.ErrExecutionFailed):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, "failed to execute trade")
		}
		return
	}

	response.Created(c, trade)
}

// GetStatus returns the trader state and cycle counters
// GET /api/v1/trading/status
func (h *TradingHandler) GetStatus(c *gin.Context) {
	response.Success(c, h.trader.GetStatus())
}

// GetStatistics returns the aggregate trading statistics
// GET /api/v1/trading/statistics
func (h *TradingHandler) GetStatistics(c *gin.Context) {
	response.Success(c, h.trader.GetStatistics())
}

// GetPositions returns all open positions
// GET /api/v1/trading/positions
func (h *TradingHandler) GetPositions(c *gin.Context) {
	positions := h.trader.GetActivePositions()
	response.Success(c, gin.H{
		"positions": positions,
		"count":     len(positions),
	})
}

// GetHistory returns recent trade executions, newest first
// GET /api/v1/trading/history?limit=50
func (h *TradingHandler) GetHistory(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			response.BadRequest(c, "limit must be an integer between 1 and 500")
			return
		}
		limit = parsed
	}

	trades := h.trader.GetTradeHistory(limit)
	response.Success(c, gin.H{
		"trades": trades,
		"count":  len(trades),
	})
}

// GetClosedPositions returns the durable closed-position ledger
// GET /api/v1/trading/closed?page=1&page_size=20
func (h *TradingHandler) GetClosedPositions(c *gin.Context) {
	if h.ledger == nil {
		response.Success(c, gin.H{"records": []any{}, "total": 0})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	records, total, err := h.ledger.RecentClosedPositions(page, pageSize)
	if err != nil {
		response.InternalError(c, "failed to load closed positions")
		return
	}

	response.Success(c, gin.H{
		"records":   records,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// Start starts the trading loop
// POST /api/v1/trading/start
func (h *TradingHandler) Start(c *gin.Context) {
	if err := h.trader.StartTrading(); err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"status": h.trader.Status()})
}

// Stop stops the trading loop
// POST /api/v1/trading/stop
func (h *TradingHandler) Stop(c *gin.Context) {
	h.trader.StopTrading()
	response.Success(c, gin.H{"status": h.trader.Status()})
}

// Pause pauses new entries; open positions are still managed
// POST /api/v1/trading/pause
func (h *TradingHandler) Pause(c *gin.Context) {
	if err := h.trader.PauseTrading(); err != nil {
		response.Conflict(c, err.Error())
		return
	}
	response.Success(c, gin.H{"status": h.trader.Status()})
}

// Resume resumes a paused trader
// POST /api/v1/trading/resume
func (h *TradingHandler) Resume(c *gin.Context) {
	if err := h.trader.ResumeTrading(); err != nil {
		response.Conflict(c, err.Error())
		return
	}
	response.Success(c, gin.H{"status": h.trader.Status()})
}

// UpdateConfigRequest is a partial update of the trading parameters.
// Omitted fields keep their current values.
type UpdateConfigRequest struct {
	MaxPositionSizeETH  *float64 `json:"max_position_size_eth" binding:"omitempty,gt=0"`
	MinLiquidityUSD     *float64 `json:"min_liquidity_usd" binding:"omitempty,gte=0"`
	MaxRiskScore        *float64 `json:"max_risk_score" binding:"omitempty,gte=0,lte=10"`
	ProfitTargetPercent *float64 `json:"profit_target_percent" binding:"omitempty,gt=0"`
	StopLossPercent     *float64 `json:"stop_loss_percent" binding:"omitempty,gt=0"`
	MaxSlippagePercent  *float64 `json:"max_slippage_percent" binding:"omitempty,gt=0"`
	CooldownMinutes     *int     `json:"cooldown_minutes" binding:"omitempty,gte=0"`
	MaxOpenPositions    *int     `json:"max_open_positions" binding:"omitempty,gt=0"`
}

// GetConfig returns the active trading parameters
// GET /api/v1/trading/config
func (h *TradingHandler) GetConfig(c *gin.Context) {
	response.Success(c, h.trader.GetConfig())
}

// UpdateConfig applies a partial config update. Changes take effect on
// the next cycle; already-open positions keep their original exits.
// PUT /api/v1/trading/config
func (h *TradingHandler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cfg := h.trader.GetConfig()
	if req.MaxPositionSizeETH != nil {
		cfg.MaxPositionSizeETH = *req.MaxPositionSizeETH
	}
	if req.MinLiquidityUSD != nil {
		cfg.MinLiquidityUSD = *req.MinLiquidityUSD
	}
	if req.MaxRiskScore != nil {
		cfg.MaxRiskScore = *req.MaxRiskScore
	}
	if req.ProfitTargetPercent != nil {
		cfg.ProfitTargetPercent = *req.ProfitTargetPercent
	}
	if req.StopLossPercent != nil {
		cfg.StopLossPercent = *req.StopLossPercent
	}
	if req.MaxSlippagePercent != nil {
		cfg.MaxSlippagePercent = *req.MaxSlippagePercent
	}
	if req.CooldownMinutes != nil {
		cfg.CooldownMinutes = *req.CooldownMinutes
	}
	if req.MaxOpenPositions != nil {
		cfg.MaxOpenPositions = *req.MaxOpenPositions
	}

	h.trader.Configure(cfg)
	response.Success(c, h.trader.GetConfig())
}

// RegisterRoutes registers trading routes. The control middlewares run
// in front of every endpoint that mutates the trader; the read-only
// surface stays open to any authenticated operator.
func (h *TradingHandler) RegisterRoutes(rg *gin.RouterGroup, control ...gin.HandlerFunc) {
	trading := rg.Group("/trading")
	{
		trading.GET("/status", h.GetStatus)
		trading.GET("/statistics", h.GetStatistics)
		trading.GET("/positions", h.GetPositions)
		trading.GET("/history", h.GetHistory)
		trading.GET("/closed", h.GetClosedPositions)
		trading.GET("/config", h.GetConfig)

		ops := trading.Group("", control...)
		ops.POST("/manual", h.ManualTrade)
		ops.POST("/start", h.Start)
		ops.POST("/stop", h.Stop)
		ops.POST("/pause", h.Pause)
		ops.POST("/resume", h.Resume)
		ops.PUT("/config", h.UpdateConfig)
	}
}
