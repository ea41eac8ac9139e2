package feed

import (
	"context"

	"github.com/dex-sniper/internal/models"
)

// PriceUpdate is a real-time price tick for one token on one network.
type PriceUpdate struct {
	Network      string  `json:"network"`
	TokenAddress string  `json:"token_address"`
	PriceUSD     float64 `json:"price_usd"`
	LiquidityUSD float64 `json:"liquidity_usd"`
	Timestamp    int64   `json:"timestamp"`
}

// Subscriber receives events pushed by a stream provider.
type Subscriber interface {
	OnPriceUpdate(update PriceUpdate)
	OnTokenListed(token models.TokenRecord)
}

// Provider is a network stream that surfaces new token listings and
// price ticks.
type Provider interface {
	// Connect establishes the stream connection
	Connect(ctx context.Context) error

	// SetSubscriber sets the event subscriber
	SetSubscriber(subscriber Subscriber)

	// IsConnected reports the connection state
	IsConnected() bool

	// Network returns the network this provider streams
	Network() string

	// Close closes the stream connection
	Close() error
}
