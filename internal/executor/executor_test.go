package executor

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dex-sniper/internal/models"
)

func validParams() models.OrderParams {
	return models.OrderParams{
		TokenAddress:      "0xabc",
		Network:           "ethereum",
		Side:              models.OrderSideBuy,
		Type:              models.OrderTypeMarket,
		AmountETH:         0.1,
		SlippageTolerance: 0.05,
		PriceUSD:          1.5,
	}
}

func TestExecuteOrderFills(t *testing.T) {
	e := NewOrderExecutor()

	result := e.ExecuteOrder(validParams())

	assert.Equal(t, "ord-1", result.OrderID)
	assert.NotEmpty(t, result.ClientOrderID)
	assert.Equal(t, models.OrderStatusFilled, result.Status)
	assert.True(t, result.Filled())
	assert.Empty(t, result.Error)
	assert.NotEmpty(t, result.TransactionHash)
	assert.InDelta(t, 0.002, result.GasFeeETH, 1e-12)
	assert.False(t, result.ExecutedAt.IsZero())
}

func TestExecuteOrderValidationFailuresAreData(t *testing.T) {
	e := NewOrderExecutor()

	tests := []struct {
		name   string
		mutate func(*models.OrderParams)
	}{
		{"missing token", func(p *models.OrderParams) { p.TokenAddress = "" }},
		{"bad side", func(p *models.OrderParams) { p.Side = "HOLD" }},
		{"zero amount", func(p *models.OrderParams) { p.AmountETH = 0 }},
		{"negative amount", func(p *models.OrderParams) { p.AmountETH = -1 }},
		{"slippage above one", func(p *models.OrderParams) { p.SlippageTolerance = 1.5 }},
		{"negative slippage", func(p *models.OrderParams) { p.SlippageTolerance = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)

			result := e.ExecuteOrder(params)
			assert.Equal(t, models.OrderStatusFailed, result.Status)
			assert.False(t, result.Filled())
			assert.NotEmpty(t, result.Error)
			assert.Empty(t, result.TransactionHash)
			assert.Zero(t, result.GasFeeETH)
		})
	}
}

func TestOrderIDsAreMonotonicAndNeverReused(t *testing.T) {
	e := NewOrderExecutor()

	for i := 1; i <= 5; i++ {
		result := e.ExecuteOrder(validParams())
		assert.Equal(t, fmt.Sprintf("ord-%d", i), result.OrderID)
	}
	assert.Equal(t, 5, e.OrderCount())
}

func TestGetOrderStatus(t *testing.T) {
	e := NewOrderExecutor()

	result := e.ExecuteOrder(validParams())

	stored := e.GetOrderStatus(result.OrderID)
	require.NotNil(t, stored)
	assert.Equal(t, result.OrderID, stored.OrderID)
	assert.Equal(t, models.OrderStatusFilled, stored.Status)

	// Unknown ids resolve to nil, not an error.
	assert.Nil(t, e.GetOrderStatus("ord-999"))
}

func TestConcurrentExecutions(t *testing.T) {
	e := NewOrderExecutor()

	var wg sync.WaitGroup
	ids := make(chan string, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- e.ExecuteOrder(validParams()).OrderID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate order id %s", id)
		seen[id] = true
	}
	assert.Equal(t, 100, e.OrderCount())
}
