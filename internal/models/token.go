package models

import (
	"time"
)

// TokenRecord is a token surfaced by the discovery feed.
type TokenRecord struct {
	Address      string    `json:"address"`
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	Network      string    `json:"network"`
	PriceUSD     float64   `json:"price_usd"`
	LiquidityUSD float64   `json:"liquidity_usd"`
	Volume24hUSD float64   `json:"volume_24h_usd"`
	ListedAt     time.Time `json:"listed_at"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// Age returns how long the token has been listed.
func (t *TokenRecord) Age(now time.Time) time.Duration {
	if t.ListedAt.IsZero() {
		return 0
	}
	return now.Sub(t.ListedAt)
}
