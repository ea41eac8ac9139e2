package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dex-sniper/internal/optimizer"
	"github.com/dex-sniper/pkg/response"
)

// OptimizerHandler handles performance optimizer API requests
type OptimizerHandler struct {
	optimizer *optimizer.TradingPerformanceOptimizer
}

// NewOptimizerHandler creates a new OptimizerHandler
func NewOptimizerHandler(opt *optimizer.TradingPerformanceOptimizer) *OptimizerHandler {
	return &OptimizerHandler{
		optimizer: opt,
	}
}

// GetReport returns the 24h performance report
// GET /api/v1/optimizer/report
func (h *OptimizerHandler) GetReport(c *gin.Context) {
	response.Success(c, h.optimizer.GetPerformanceReport())
}

// GetParams returns the currently recommended execution parameters
// GET /api/v1/optimizer/params
func (h *OptimizerHandler) GetParams(c *gin.Context) {
	response.Success(c, gin.H{
		"level":  h.optimizer.Level(),
		"params": h.optimizer.RecommendedParams(),
	})
}

// Analyze scores a single trade outcome and records its snapshots
// POST /api/v1/optimizer/analyze
func (h *OptimizerHandler) Analyze(c *gin.Context) {
	var outcome optimizer.TradeOutcome
	if err := c.ShouldBindJSON(&outcome); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, h.optimizer.AnalyzeTradePerformance(outcome))
}

// RegisterRoutes registers optimizer routes
func (h *OptimizerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	opt := rg.Group("/optimizer")
	{
		opt.GET("/report", h.GetReport)
		opt.GET("/params", h.GetParams)
		opt.POST("/analyze", h.Analyze)
	}
}
