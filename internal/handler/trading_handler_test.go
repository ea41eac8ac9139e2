package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dex-sniper/internal/config"
	"github.com/dex-sniper/internal/executor"
	"github.com/dex-sniper/internal/handler"
	"github.com/dex-sniper/internal/middleware"
	"github.com/dex-sniper/internal/models"
	"github.com/dex-sniper/internal/optimizer"
	"github.com/dex-sniper/internal/risk"
	"github.com/dex-sniper/internal/sizing"
	"github.com/dex-sniper/internal/trader"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type emptyDiscovery struct{}

func (emptyDiscovery) GetRecentTokens(network string) []models.TokenRecord { return nil }

type emptyPrices struct{}

func (emptyPrices) GetCurrentPrice(network, tokenAddress string) (float64, error) {
	return 0, errors.New("no price for token")
}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *trader.AutoTrader) {
	t.Helper()

	cfg := config.TradingConfig{WalletBalanceETH: 1.0}
	cfg.ApplyDefaults()

	autoTrader := trader.New(cfg, trader.Deps{
		Executor:  executor.NewOrderExecutor(),
		Discovery: emptyDiscovery{},
		Prices:    emptyPrices{},
		Assessor:  risk.NewHeuristicAssessor(),
		Sizer:     sizing.NewRiskAdjustedSizer(),
	})

	router := gin.New()
	v1 := router.Group("/api/v1")
	handler.NewTradingHandler(autoTrader, nil).RegisterRoutes(v1)
	handler.NewOptimizerHandler(optimizer.New(optimizer.LevelBalanced)).RegisterRoutes(v1)
	return router, autoTrader
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetStatusEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/trading/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)

	var report trader.StatusReport
	require.NoError(t, json.Unmarshal(resp.Data, &report))
	assert.Equal(t, trader.StatusStopped, report.Status)
	assert.False(t, report.Running)
	assert.Equal(t, 1.0, report.WalletBalanceETH)
}

func TestStartStopEndpoints(t *testing.T) {
	router, autoTrader := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/trading/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, trader.StatusRunning, autoTrader.Status())

	w = doRequest(router, http.MethodPost, "/api/v1/trading/pause", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, trader.StatusPaused, autoTrader.Status())

	w = doRequest(router, http.MethodPost, "/api/v1/trading/resume", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, trader.StatusRunning, autoTrader.Status())

	w = doRequest(router, http.MethodPost, "/api/v1/trading/stop", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, trader.StatusStopped, autoTrader.Status())
}

func TestPauseWhenStoppedConflicts(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/trading/pause", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/trading/resume", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestManualTradeEndpoint(t *testing.T) {
	router, autoTrader := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/trading/manual", gin.H{
		"token_address": "0xabc",
		"network":       "ethereum",
		"symbol":        "TST",
		"action":        "BUY",
		"amount_eth":    0.1,
		"price_usd":     1.5,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	var trade models.TradeExecution
	require.NoError(t, json.Unmarshal(resp.Data, &trade))
	assert.Equal(t, models.OrderSideBuy, trade.Action)
	assert.NotEmpty(t, trade.TradeID)

	assert.InDelta(t, 1.0-0.1-0.002, autoTrader.WalletBalance(), 1e-9)
}

func TestManualTradeValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	// Missing required fields.
	w := doRequest(router, http.MethodPost, "/api/v1/trading/manual", gin.H{
		"token_address": "0xabc",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown action.
	w = doRequest(router, http.MethodPost, "/api/v1/trading/manual", gin.H{
		"token_address": "0xabc",
		"network":       "ethereum",
		"action":        "SHORT",
		"amount_eth":    0.1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// More than the wallet holds.
	w = doRequest(router, http.MethodPost, "/api/v1/trading/manual", gin.H{
		"token_address": "0xabc",
		"network":       "ethereum",
		"action":        "BUY",
		"amount_eth":    50.0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHistoryLimitValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/trading/history?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/trading/history?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/trading/history", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestConfigEndpoints(t *testing.T) {
	router, autoTrader := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/trading/config", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPut, "/api/v1/trading/config", gin.H{
		"max_risk_score":     2.0,
		"max_open_positions": 5,
	})
	require.Equal(t, http.StatusOK, w.Code)

	cfg := autoTrader.GetConfig()
	assert.Equal(t, 2.0, cfg.MaxRiskScore)
	assert.Equal(t, 5, cfg.MaxOpenPositions)
	// Untouched fields keep their values.
	assert.Equal(t, 20.0, cfg.ProfitTargetPercent)

	// An explicit zero disables the cooldown instead of silently
	// falling back to the default.
	w = doRequest(router, http.MethodPut, "/api/v1/trading/config", gin.H{
		"cooldown_minutes": 0,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, autoTrader.GetConfig().CooldownMinutes)

	// Out-of-range update is rejected.
	w = doRequest(router, http.MethodPut, "/api/v1/trading/config", gin.H{
		"max_risk_score": 25.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOptimizerEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/optimizer/report", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	var report optimizer.Report
	require.NoError(t, json.Unmarshal(resp.Data, &report))
	assert.Equal(t, "no_data", report.Status)

	w = doRequest(router, http.MethodPost, "/api/v1/optimizer/analyze", optimizer.TradeOutcome{
		ExecutionTimeMs: 2500,
		GasUsed:         100000,
		GasPriceWei:     20e9,
		ActualSlippage:  0.005,
		ProfitLossUSD:   12,
	})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	var analysis optimizer.PerformanceAnalysis
	require.NoError(t, json.Unmarshal(resp.Data, &analysis))
	assert.Equal(t, 10.0, analysis.OverallScore)

	w = doRequest(router, http.MethodGet, "/api/v1/optimizer/params", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestControlEndpointsRequireAdmin(t *testing.T) {
	cfg := config.TradingConfig{WalletBalanceETH: 1.0}
	cfg.ApplyDefaults()
	autoTrader := trader.New(cfg, trader.Deps{
		Executor:  executor.NewOrderExecutor(),
		Discovery: emptyDiscovery{},
		Prices:    emptyPrices{},
		Assessor:  risk.NewHeuristicAssessor(),
		Sizer:     sizing.NewRiskAdjustedSizer(),
	})

	asRole := func(role models.OperatorRole) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(middleware.ContextKeyOperatorRole, role)
			c.Next()
		}
	}

	observer := gin.New()
	handler.NewTradingHandler(autoTrader, nil).
		RegisterRoutes(observer.Group("/api/v1"), asRole(models.RoleObserver), middleware.RequireAdmin())

	// Observers keep the read-only surface but cannot drive the trader.
	w := doRequest(observer, http.MethodGet, "/api/v1/trading/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(observer, http.MethodPost, "/api/v1/trading/start", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doRequest(observer, http.MethodPut, "/api/v1/trading/config", gin.H{"max_risk_score": 2.0})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, trader.StatusStopped, autoTrader.Status())

	admin := gin.New()
	handler.NewTradingHandler(autoTrader, nil).
		RegisterRoutes(admin.Group("/api/v1"), asRole(models.RoleAdmin), middleware.RequireAdmin())

	w = doRequest(admin, http.MethodPost, "/api/v1/trading/start", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, trader.StatusRunning, autoTrader.Status())
	autoTrader.StopTrading()
}

func TestClosedPositionsWithoutLedger(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/trading/closed", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
