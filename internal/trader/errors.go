package trader

import (
	"errors"
)

var (
	// ErrInsufficientFunds means the wallet cannot cover the computed
	// position size.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAction means a manual trade carried an action other
	// than BUY or SELL.
	ErrInvalidAction = errors.New("invalid trade action")

	// ErrExecutionFailed wraps an order the executor resolved to FAILED.
	ErrExecutionFailed = errors.New("trade execution failed")

	// ErrNotRunning is returned for lifecycle transitions that require
	// an active trader.
	ErrNotRunning = errors.New("trader is not running")

	// ErrNotPaused is returned when resuming a trader that is not paused.
	ErrNotPaused = errors.New("trader is not paused")
)
