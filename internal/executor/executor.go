package executor

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dex-sniper/internal/models"
	"github.com/dex-sniper/pkg/idgen"
	"github.com/google/uuid"
)

const (
	// Flat simulated network fee charged on every fill.
	simulatedGasFeeETH = 0.002
)

// OrderExecutor is the single point of truth for order state. In this
// simulated implementation every valid order resolves synchronously to
// FILLED; invalid orders resolve to FAILED with an error message. The
// contract deliberately reports failures as data instead of returning an
// error, so the trading loop can keep running through bad submissions.
type OrderExecutor struct {
	mu          sync.RWMutex
	orders      map[string]*models.OrderResult
	nextOrderID uint64
}

// NewOrderExecutor creates a new OrderExecutor
func NewOrderExecutor() *OrderExecutor {
	return &OrderExecutor{
		orders: make(map[string]*models.OrderResult),
	}
}

// ExecuteOrder submits an order and returns its resolved record. The
// order id is assigned exactly once from a monotonic counter and never
// reused for the lifetime of the process.
func (e *OrderExecutor) ExecuteOrder(params models.OrderParams) *models.OrderResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextOrderID++
	now := time.Now()

	result := &models.OrderResult{
		OrderID:           fmt.Sprintf("ord-%d", e.nextOrderID),
		ClientOrderID:     uuid.New().String(),
		TokenAddress:      params.TokenAddress,
		Network:           params.Network,
		Side:              params.Side,
		Type:              params.Type,
		AmountETH:         params.AmountETH,
		SlippageTolerance: params.SlippageTolerance,
		PriceUSD:          params.PriceUSD,
		Status:            models.OrderStatusPending,
		CreatedAt:         now,
	}
	if result.Type == "" {
		result.Type = models.OrderTypeMarket
	}

	if err := validateParams(params); err != nil {
		result.Status = models.OrderStatusFailed
		result.Error = err.Error()
		log.Printf("[OrderExecutor] order %s rejected: %v", result.OrderID, err)
	} else {
		result.Status = models.OrderStatusFilled
		result.ExecutedAt = now
		result.GasFeeETH = simulatedGasFeeETH
		result.TransactionHash = idgen.NewTransactionHash()
	}

	e.orders[result.OrderID] = result
	return result
}

// GetOrderStatus returns the stored record for an order id, or nil for
// unknown ids. An unknown id is not an error condition.
func (e *OrderExecutor) GetOrderStatus(orderID string) *models.OrderResult {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.orders[orderID]
}

// OrderCount returns the number of orders seen so far.
func (e *OrderExecutor) OrderCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.orders)
}

func validateParams(params models.OrderParams) error {
	if params.TokenAddress == "" {
		return fmt.Errorf("token address is required")
	}
	if params.Side != models.OrderSideBuy && params.Side != models.OrderSideSell {
		return fmt.Errorf("invalid order side %q", params.Side)
	}
	if params.AmountETH <= 0 {
		return fmt.Errorf("amount must be positive, got %f", params.AmountETH)
	}
	if params.SlippageTolerance < 0 || params.SlippageTolerance > 1 {
		return fmt.Errorf("slippage tolerance %f out of range [0,1]", params.SlippageTolerance)
	}
	return nil
}
