package dexws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dex-sniper/internal/feed"
	"github.com/dex-sniper/internal/models"
	"github.com/gorilla/websocket"
)

const (
	pingInterval         = 30 * time.Second
	reconnectDelay       = 5 * time.Second
	maxReconnectAttempts = 10
)

// Client is a WebSocket client for a DEX indexer stream. One client
// serves one network; it surfaces new pair listings and price ticks to
// its subscriber.
type Client struct {
	network string
	wsURL   string

	conn        *websocket.Conn
	connMux     sync.RWMutex
	isConnected bool

	subscriber feed.Subscriber
	subMux     sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	reconnectAttempts int
}

// NewClient creates a stream client for one network
func NewClient(network, wsURL string) *Client {
	return &Client{
		network: network,
		wsURL:   wsURL,
	}
}

// Network returns the network this client streams
func (c *Client) Network() string {
	return c.network
}

// IsConnected returns whether the WebSocket is connected
func (c *Client) IsConnected() bool {
	c.connMux.RLock()
	defer c.connMux.RUnlock()
	return c.isConnected
}

// SetSubscriber sets the event subscriber
func (c *Client) SetSubscriber(subscriber feed.Subscriber) {
	c.subMux.Lock()
	defer c.subMux.Unlock()
	c.subscriber = subscriber
}

// Connect establishes the WebSocket connection and starts the read and
// ping loops.
func (c *Client) Connect(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	if err := c.connect(); err != nil {
		return err
	}

	c.wg.Add(1)
	go c.messageLoop()

	c.wg.Add(1)
	go c.pingLoop()

	return nil
}

// connect establishes the WebSocket connection
func (c *Client) connect() error {
	c.connMux.Lock()
	defer c.connMux.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.Dial(c.wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s stream: %w", c.network, err)
	}

	c.conn = conn
	c.isConnected = true
	c.reconnectAttempts = 0

	log.Printf("[DexStream:%s] WebSocket connected", c.network)

	// Subscribe to new pairs and ticks for this chain
	msg := map[string]interface{}{
		"method": "SUBSCRIBE",
		"params": []string{"pairs." + c.network, "ticks." + c.network},
		"id":     time.Now().UnixNano(),
	}
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	return nil
}

// streamMessage is the envelope used by the indexer stream.
type streamMessage struct {
	Type  string  `json:"type"`
	Token string  `json:"token"`
	Price float64 `json:"price_usd"`
	Liq   float64 `json:"liquidity_usd"`
	Ts    int64   `json:"ts"`
	Pair  *struct {
		Address      string  `json:"address"`
		Symbol       string  `json:"symbol"`
		Name         string  `json:"name"`
		PriceUSD     float64 `json:"price_usd"`
		LiquidityUSD float64 `json:"liquidity_usd"`
		Volume24h    float64 `json:"volume_24h_usd"`
		ListedAt     int64   `json:"listed_at"`
	} `json:"pair,omitempty"`
}

// messageLoop handles incoming WebSocket messages
func (c *Client) messageLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		c.connMux.RLock()
		conn := c.conn
		c.connMux.RUnlock()

		if conn == nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[DexStream:%s] WebSocket error: %v", c.network, err)
			}
			c.handleDisconnect()
			continue
		}

		c.handleMessage(message)
	}
}

// handleMessage processes a WebSocket message
func (c *Client) handleMessage(message []byte) {
	var msg streamMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return
	}

	c.subMux.RLock()
	subscriber := c.subscriber
	c.subMux.RUnlock()

	if subscriber == nil {
		return
	}

	switch msg.Type {
	case "tick":
		if msg.Token == "" {
			return
		}
		subscriber.OnPriceUpdate(feed.PriceUpdate{
			Network:      c.network,
			TokenAddress: msg.Token,
			PriceUSD:     msg.Price,
			LiquidityUSD: msg.Liq,
			Timestamp:    msg.Ts,
		})

	case "listing":
		if msg.Pair == nil || msg.Pair.Address == "" {
			return
		}
		subscriber.OnTokenListed(models.TokenRecord{
			Address:      msg.Pair.Address,
			Symbol:       msg.Pair.Symbol,
			Name:         msg.Pair.Name,
			Network:      c.network,
			PriceUSD:     msg.Pair.PriceUSD,
			LiquidityUSD: msg.Pair.LiquidityUSD,
			Volume24hUSD: msg.Pair.Volume24h,
			ListedAt:     time.UnixMilli(msg.Pair.ListedAt),
			DiscoveredAt: time.Now(),
		})
	}
}

// handleDisconnect handles WebSocket disconnection
func (c *Client) handleDisconnect() {
	c.connMux.Lock()
	c.isConnected = false
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMux.Unlock()

	for c.reconnectAttempts < maxReconnectAttempts {
		select {
		case <-c.ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}

		c.reconnectAttempts++
		log.Printf("[DexStream:%s] Attempting reconnect %d/%d", c.network, c.reconnectAttempts, maxReconnectAttempts)

		if err := c.connect(); err != nil {
			log.Printf("[DexStream:%s] Reconnect failed: %v", c.network, err)
			continue
		}

		return
	}

	log.Printf("[DexStream:%s] Max reconnect attempts reached", c.network)
}

// pingLoop sends periodic ping messages to keep the connection alive
func (c *Client) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.connMux.RLock()
			conn := c.conn
			isConnected := c.isConnected
			c.connMux.RUnlock()

			if !isConnected || conn == nil {
				continue
			}

			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[DexStream:%s] Ping failed: %v", c.network, err)
			}
		}
	}
}

// Close closes the WebSocket connection
func (c *Client) Close() error {
	if c.cancel != nil {
		c.cancel()
	}

	c.connMux.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.isConnected = false
	c.connMux.Unlock()

	c.wg.Wait()
	return nil
}
