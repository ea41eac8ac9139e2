package models

import (
	"time"
)

// OrderSide represents the order side
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// OrderType represents the order type
type OrderType string

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusFilled    OrderStatus = "FILLED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusFailed    OrderStatus = "FAILED"
)

// IsTerminal returns true once the order can no longer change state.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusFilled || s == OrderStatusCancelled || s == OrderStatusFailed
}

// OrderParams is the input to the order executor.
type OrderParams struct {
	TokenAddress      string    `json:"token_address"`
	Network           string    `json:"network"`
	Side              OrderSide `json:"side"`
	Type              OrderType `json:"type"`
	AmountETH         float64   `json:"amount_eth"`
	SlippageTolerance float64   `json:"slippage_tolerance"` // fraction, e.g. 0.05
	GasPriceGwei      float64   `json:"gas_price_gwei"`
	PriceUSD          float64   `json:"price_usd"` // execution reference price
}

// OrderResult is the executor's record of a single order. Execution
// failures are reported through Status/Error, never raised, so the
// trading loop can treat them as data.
type OrderResult struct {
	OrderID           string      `json:"order_id"`
	ClientOrderID     string      `json:"client_order_id"`
	TokenAddress      string      `json:"token_address"`
	Network           string      `json:"network"`
	Side              OrderSide   `json:"side"`
	Type              OrderType   `json:"type"`
	AmountETH         float64     `json:"amount_eth"`
	SlippageTolerance float64     `json:"slippage_tolerance"`
	PriceUSD          float64     `json:"price_usd"`
	GasFeeETH         float64     `json:"gas_fee_eth"`
	Status            OrderStatus `json:"status"`
	TransactionHash   string      `json:"transaction_hash,omitempty"`
	Error             string      `json:"error,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	ExecutedAt        time.Time   `json:"executed_at,omitempty"`
}

// Filled reports whether the order resolved successfully.
func (r *OrderResult) Filled() bool {
	return r.Status == OrderStatusFilled
}
