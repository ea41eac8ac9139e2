package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dex-sniper/internal/models"
)

type fakeProvider struct {
	network    string
	connected  bool
	subscriber Subscriber
	closed     bool
}

func (p *fakeProvider) Connect(ctx context.Context) error {
	p.connected = true
	return nil
}

func (p *fakeProvider) SetSubscriber(s Subscriber) { p.subscriber = s }
func (p *fakeProvider) IsConnected() bool          { return p.connected }
func (p *fakeProvider) Network() string            { return p.network }
func (p *fakeProvider) Close() error {
	p.connected = false
	p.closed = true
	return nil
}

func TestServiceStartStop(t *testing.T) {
	s := NewService(nil, time.Second, 10)
	provider := &fakeProvider{network: "ethereum"}
	s.AddProvider(provider)

	require.NoError(t, s.Start(context.Background()))
	assert.NotNil(t, provider.subscriber)
	assert.True(t, provider.connected)
	assert.Equal(t, map[string]bool{"ethereum": true}, s.NetworkStatus())

	s.Stop()
	assert.True(t, provider.closed)
	assert.Equal(t, map[string]bool{"ethereum": false}, s.NetworkStatus())
}

func TestPriceUpdatesServedFromMemory(t *testing.T) {
	s := NewService(nil, time.Second, 10)

	s.OnPriceUpdate(PriceUpdate{
		Network:      "ethereum",
		TokenAddress: "0xaaa",
		PriceUSD:     1.25,
		LiquidityUSD: 100000,
		Timestamp:    time.Now().UnixMilli(),
	})

	price, err := s.GetCurrentPrice("ethereum", "0xaaa")
	require.NoError(t, err)
	assert.Equal(t, 1.25, price)

	// Later updates replace earlier ones.
	s.OnPriceUpdate(PriceUpdate{Network: "ethereum", TokenAddress: "0xaaa", PriceUSD: 1.30})
	price, err = s.GetCurrentPrice("ethereum", "0xaaa")
	require.NoError(t, err)
	assert.Equal(t, 1.30, price)

	_, err = s.GetCurrentPrice("ethereum", "0xmissing")
	assert.ErrorIs(t, err, ErrPriceNotFound)
	_, err = s.GetCurrentPrice("base", "0xaaa")
	assert.ErrorIs(t, err, ErrPriceNotFound)
}

func TestGetAllPricesReturnsCopy(t *testing.T) {
	s := NewService(nil, time.Second, 10)
	s.OnPriceUpdate(PriceUpdate{Network: "ethereum", TokenAddress: "0xaaa", PriceUSD: 1})
	s.OnPriceUpdate(PriceUpdate{Network: "ethereum", TokenAddress: "0xbbb", PriceUSD: 2})

	prices := s.GetAllPrices("ethereum")
	assert.Len(t, prices, 2)

	delete(prices, "0xaaa")
	assert.Len(t, s.GetAllPrices("ethereum"), 2)
}

func TestRecentTokensWindow(t *testing.T) {
	s := NewService(nil, time.Second, 3)

	for i := 0; i < 5; i++ {
		s.OnTokenListed(models.TokenRecord{
			Address: fmt.Sprintf("0x%03d", i),
			Network: "ethereum",
			Symbol:  "TOK",
		})
	}

	tokens := s.GetRecentTokens("ethereum")
	require.Len(t, tokens, 3)
	// Oldest first within the bounded window.
	assert.Equal(t, "0x002", tokens[0].Address)
	assert.Equal(t, "0x004", tokens[2].Address)

	assert.Empty(t, s.GetRecentTokens("base"))
}

func TestRecentTokensPerNetwork(t *testing.T) {
	s := NewService(nil, time.Second, 10)

	s.OnTokenListed(models.TokenRecord{Address: "0xaaa", Network: "ethereum"})
	s.OnTokenListed(models.TokenRecord{Address: "0xbbb", Network: "base"})

	assert.Len(t, s.GetRecentTokens("ethereum"), 1)
	assert.Len(t, s.GetRecentTokens("base"), 1)
}
