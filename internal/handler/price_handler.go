package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/dex-sniper/internal/feed"
	"github.com/dex-sniper/pkg/response"
)

// PriceHandler handles price feed API requests
type PriceHandler struct {
	feed *feed.Service
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(feedService *feed.Service) *PriceHandler {
	return &PriceHandler{
		feed: feedService,
	}
}

// GetPrice returns the current price for a token
// GET /api/v1/prices/:network/:token
func (h *PriceHandler) GetPrice(c *gin.Context) {
	network := c.Param("network")
	token := c.Param("token")

	price, err := h.feed.GetCurrentPrice(network, token)
	if err != nil {
		if errors.Is(err, feed.ErrPriceNotFound) {
			response.NotFound(c, "no price for token")
			return
		}
		response.InternalError(c, "failed to load price")
		return
	}

	response.Success(c, gin.H{
		"network":       network,
		"token_address": token,
		"price_usd":     price,
	})
}

// GetPrices returns all known prices for a network
// GET /api/v1/prices/:network
func (h *PriceHandler) GetPrices(c *gin.Context) {
	network := c.Param("network")

	prices := h.feed.GetAllPrices(network)
	if len(prices) == 0 {
		response.NotFound(c, "no prices found for network")
		return
	}

	response.Success(c, gin.H{
		"network": network,
		"prices":  prices,
	})
}

// GetRecentTokens returns recently listed tokens on a network
// GET /api/v1/tokens/:network/recent
func (h *PriceHandler) GetRecentTokens(c *gin.Context) {
	network := c.Param("network")

	tokens := h.feed.GetRecentTokens(network)
	response.Success(c, gin.H{
		"network": network,
		"tokens":  tokens,
		"count":   len(tokens),
	})
}

// GetNetworkStatus returns connection status for all network feeds
// GET /api/v1/networks/status
func (h *PriceHandler) GetNetworkStatus(c *gin.Context) {
	response.Success(c, h.feed.NetworkStatus())
}

// RegisterRoutes registers price feed routes
func (h *PriceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	prices := rg.Group("/prices")
	{
		prices.GET("/:network", h.GetPrices)
		prices.GET("/:network/:token", h.GetPrice)
	}

	tokens := rg.Group("/tokens")
	{
		tokens.GET("/:network/recent", h.GetRecentTokens)
	}

	networks := rg.Group("/networks")
	{
		networks.GET("/status", h.GetNetworkStatus)
	}
}
