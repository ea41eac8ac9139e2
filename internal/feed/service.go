package feed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/dex-sniper/internal/models"
	"github.com/redis/go-redis/v9"
)

var (
	ErrPriceNotFound = errors.New("no price for token")
)

// Service fans in events from the per-network stream providers and
// serves them to the rest of the system: latest prices (memory + Redis
// cache) and the rolling window of recently discovered tokens.
type Service struct {
	redis     *redis.Client
	providers map[string]Provider

	prices    map[string]map[string]PriceUpdate // network -> token -> price
	pricesMux sync.RWMutex

	recent    map[string][]models.TokenRecord // network -> newest-last window
	recentCap int
	recentMux sync.RWMutex

	priceTTL time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// NewService creates a feed Service
func NewService(redisClient *redis.Client, priceTTL time.Duration, recentCap int) *Service {
	if priceTTL <= 0 {
		priceTTL = 5 * time.Second
	}
	if recentCap <= 0 {
		recentCap = 200
	}
	return &Service{
		redis:     redisClient,
		providers: make(map[string]Provider),
		prices:    make(map[string]map[string]PriceUpdate),
		recent:    make(map[string][]models.TokenRecord),
		recentCap: recentCap,
		priceTTL:  priceTTL,
	}
}

// AddProvider registers a network stream provider. Must be called before
// Start.
func (s *Service) AddProvider(p Provider) {
	s.providers[p.Network()] = p
	s.prices[p.Network()] = make(map[string]PriceUpdate)
}

// Start connects all registered providers
func (s *Service) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	for network, provider := range s.providers {
		provider.SetSubscriber(s)
		if err := provider.Connect(s.ctx); err != nil {
			log.Printf("[Feed] Failed to connect %s stream: %v", network, err)
			continue
		}
	}

	log.Printf("[Feed] Started with %d network streams", len(s.providers))
	return nil
}

// Stop closes all provider connections
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	for network, provider := range s.providers {
		if err := provider.Close(); err != nil {
			log.Printf("[Feed] Error closing %s stream: %v", network, err)
		}
	}
}

// OnPriceUpdate implements Subscriber
func (s *Service) OnPriceUpdate(update PriceUpdate) {
	s.pricesMux.Lock()
	if s.prices[update.Network] == nil {
		s.prices[update.Network] = make(map[string]PriceUpdate)
	}
	s.prices[update.Network][update.TokenAddress] = update
	s.pricesMux.Unlock()

	if s.redis == nil || s.ctx == nil {
		return
	}

	// Cache in Redis and publish for downstream consumers
	key := fmt.Sprintf("price:%s:%s", update.Network, update.TokenAddress)
	s.redis.HSet(s.ctx, key, map[string]interface{}{
		"price":     update.PriceUSD,
		"liquidity": update.LiquidityUSD,
		"timestamp": update.Timestamp,
	})
	s.redis.Expire(s.ctx, key, s.priceTTL)
	s.redis.Publish(s.ctx, "price_updates",
		fmt.Sprintf("%s:%s:%.12f", update.Network, update.TokenAddress, update.PriceUSD))
}

// OnTokenListed implements Subscriber
func (s *Service) OnTokenListed(token models.TokenRecord) {
	s.recentMux.Lock()
	window := append(s.recent[token.Network], token)
	if len(window) > s.recentCap {
		window = window[len(window)-s.recentCap:]
	}
	s.recent[token.Network] = window
	s.recentMux.Unlock()

	log.Printf("[Feed] New listing on %s: %s (%s) liquidity=$%.0f",
		token.Network, token.Symbol, token.Address, token.LiquidityUSD)
}

// GetCurrentPrice returns the latest price for a token on a network.
// The in-memory map is checked first, then the Redis cache.
func (s *Service) GetCurrentPrice(network, tokenAddress string) (float64, error) {
	s.pricesMux.RLock()
	if prices, ok := s.prices[network]; ok {
		if update, ok := prices[tokenAddress]; ok {
			s.pricesMux.RUnlock()
			return update.PriceUSD, nil
		}
	}
	s.pricesMux.RUnlock()

	if s.redis != nil && s.ctx != nil {
		key := fmt.Sprintf("price:%s:%s", network, tokenAddress)
		if val, err := s.redis.HGet(s.ctx, key, "price").Result(); err == nil {
			if price, err := strconv.ParseFloat(val, 64); err == nil && price > 0 {
				return price, nil
			}
		}
	}

	return 0, ErrPriceNotFound
}

// GetAllPrices returns the latest in-memory prices for a network
func (s *Service) GetAllPrices(network string) map[string]PriceUpdate {
	s.pricesMux.RLock()
	defer s.pricesMux.RUnlock()

	out := make(map[string]PriceUpdate, len(s.prices[network]))
	for token, update := range s.prices[network] {
		out[token] = update
	}
	return out
}

// GetRecentTokens returns the discovery window for a network, oldest
// first (discovery order).
func (s *Service) GetRecentTokens(network string) []models.TokenRecord {
	s.recentMux.RLock()
	defer s.recentMux.RUnlock()

	window := s.recent[network]
	out := make([]models.TokenRecord, len(window))
	copy(out, window)
	return out
}

// NetworkStatus returns the connection state per network
func (s *Service) NetworkStatus() map[string]bool {
	status := make(map[string]bool, len(s.providers))
	for network, provider := range s.providers {
		status[network] = provider.IsConnected()
	}
	return status
}
