package trader

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/dex-sniper/internal/config"
	"github.com/dex-sniper/internal/models"
	"github.com/dex-sniper/internal/optimizer"
	"github.com/dex-sniper/internal/risk"
	"github.com/dex-sniper/internal/sizing"
)

// Status is the trader-level state machine state.
type Status string

const (
	StatusStopped  Status = "STOPPED"
	StatusStarting Status = "STARTING"
	StatusRunning  Status = "RUNNING"
	StatusPaused   Status = "PAUSED"
	StatusError    Status = "ERROR"
)

// Discovery surfaces recently listed tokens per network.
type Discovery interface {
	GetRecentTokens(network string) []models.TokenRecord
}

// PriceSource resolves the current price of a token on a network.
type PriceSource interface {
	GetCurrentPrice(network, tokenAddress string) (float64, error)
}

// OrderSink accepts order submissions and resolves them to a result.
// Failures come back as data on the result, never as a raised error.
type OrderSink interface {
	ExecuteOrder(params models.OrderParams) *models.OrderResult
}

// Ledger is the durable sink for trade outcomes. Writes are best-effort
// from the trader's point of view.
type Ledger interface {
	RecordTrade(trade *models.TradeExecution) error
	CloseTrade(tradeID string, profitLoss float64, closedAt time.Time) error
	RecordClosedPosition(record *models.ClosedPositionRecord) error
}

// OutcomeSink receives trade outcomes for performance analysis.
type OutcomeSink interface {
	AnalyzeTradePerformance(outcome optimizer.TradeOutcome) optimizer.PerformanceAnalysis
}

// Deps are the collaborators an AutoTrader is wired with. Executor,
// Discovery, Prices, Assessor and Sizer are required; Ledger and
// Outcomes may be nil.
type Deps struct {
	Executor  OrderSink
	Discovery Discovery
	Prices    PriceSource
	Assessor  risk.Assessor
	Sizer     sizing.PositionSizer
	Ledger    Ledger
	Outcomes  OutcomeSink
}

// AutoTrader drives the automated trading cycle: scan discoveries,
// filter by risk and liquidity, size and open positions, and manage
// open positions for exit conditions. All working state lives in
// memory; the ledger only mirrors it durably.
type AutoTrader struct {
	mu   sync.RWMutex
	cfg  config.TradingConfig
	deps Deps

	status   Status
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	walletBalanceETH float64
	activePositions  map[string]*models.Position // token address -> position
	tradeHistory     []*models.TradeExecution
	lastTradeTime    time.Time
	stats            models.TradingStatistics
	cyclesCompleted  uint64
	lastCycleError   string
}

// New creates an AutoTrader with the given configuration and
// collaborators.
func New(cfg config.TradingConfig, deps Deps) *AutoTrader {
	cfg.ApplyDefaults()
	return &AutoTrader{
		cfg:              cfg,
		deps:             deps,
		status:           StatusStopped,
		walletBalanceETH: cfg.WalletBalanceETH,
		activePositions:  make(map[string]*models.Position),
	}
}

// Configure replaces the trading thresholds. Allowed in any state; the
// next cycle picks up the new values. A zero CooldownMinutes disables
// the cooldown window; other zero fields fall back to defaults.
func (t *AutoTrader) Configure(cfg config.TradingConfig) {
	noCooldown := cfg.CooldownMinutes == 0
	cfg.ApplyDefaults()
	if noCooldown {
		cfg.CooldownMinutes = 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cfg = cfg
	log.Printf("[AutoTrader] Reconfigured: networks=%v maxRisk=%.1f minLiquidity=%.0f maxPositions=%d",
		cfg.Networks, cfg.MaxRiskScore, cfg.MinLiquidityUSD, cfg.MaxOpenPositions)
}

// GetConfig returns a copy of the active trading configuration.
func (t *AutoTrader) GetConfig() config.TradingConfig {
	return t.config()
}

// StartTrading starts the main loop. Calling it on a RUNNING trader is
// an idempotent no-op; on a PAUSED trader it resumes.
func (t *AutoTrader) StartTrading() error {
	t.mu.Lock()

	if t.running {
		if t.status == StatusPaused {
			t.status = StatusRunning
			t.mu.Unlock()
			log.Printf("[AutoTrader] Resumed via start")
			return nil
		}
		t.mu.Unlock()
		log.Printf("[AutoTrader] Already running, start ignored")
		return nil
	}

	t.status = StatusStarting
	if err := t.checkDeps(); err != nil {
		t.status = StatusError
		t.mu.Unlock()
		return fmt.Errorf("failed to start trader: %w", err)
	}

	t.running = true
	t.status = StatusRunning
	t.stopChan = make(chan struct{})
	t.mu.Unlock()

	t.wg.Add(1)
	go t.loop()

	log.Printf("[AutoTrader] Started (cycle=%v, networks=%v)", t.config().CycleInterval, t.config().Networks)
	return nil
}

// PauseTrading pauses new entries. Open positions keep being managed so
// protective exits still fire while paused.
func (t *AutoTrader) PauseTrading() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running || t.status != StatusRunning {
		return ErrNotRunning
	}
	t.status = StatusPaused
	log.Printf("[AutoTrader] Paused")
	return nil
}

// ResumeTrading resumes a paused trader.
func (t *AutoTrader) ResumeTrading() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return ErrNotRunning
	}
	if t.status != StatusPaused {
		return ErrNotPaused
	}
	t.status = StatusRunning
	log.Printf("[AutoTrader] Resumed")
	return nil
}

// StopTrading stops the loop from any state and waits for the current
// iteration to finish, so shutdown never interrupts a mutation.
func (t *AutoTrader) StopTrading() {
	t.mu.Lock()
	if !t.running {
		t.status = StatusStopped
		t.mu.Unlock()
		return
	}
	t.running = false
	close(t.stopChan)
	t.mu.Unlock()

	t.wg.Wait()

	t.mu.Lock()
	t.status = StatusStopped
	t.mu.Unlock()
	log.Printf("[AutoTrader] Stopped")
}

func (t *AutoTrader) checkDeps() error {
	if t.deps.Executor == nil {
		return fmt.Errorf("order executor not configured")
	}
	if t.deps.Discovery == nil {
		return fmt.Errorf("discovery feed not configured")
	}
	if t.deps.Prices == nil {
		return fmt.Errorf("price source not configured")
	}
	if t.deps.Assessor == nil {
		return fmt.Errorf("risk assessor not configured")
	}
	if t.deps.Sizer == nil {
		return fmt.Errorf("position sizer not configured")
	}
	return nil
}

// loop runs trading cycles until stopped. A cycle error is logged and
// stretches the sleep to the error backoff; it never terminates the
// loop.
func (t *AutoTrader) loop() {
	defer t.wg.Done()

	for {
		delay := t.config().CycleInterval
		if err := t.runCycle(); err != nil {
			log.Printf("[AutoTrader] Cycle error: %v", err)
			delay = t.config().ErrorBackoff
		}

		select {
		case <-t.stopChan:
			return
		case <-time.After(delay):
		}
	}
}

// Status returns the current trader state.
func (t *AutoTrader) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// StatusReport is the dashboard view of the trader.
type StatusReport struct {
	Status           Status                   `json:"status"`
	Running          bool                     `json:"running"`
	ActivePositions  int                      `json:"active_positions"`
	WalletBalanceETH float64                  `json:"wallet_balance_eth"`
	LastTradeTime    *time.Time               `json:"last_trade_time,omitempty"`
	CyclesCompleted  uint64                   `json:"cycles_completed"`
	LastCycleError   string                   `json:"last_cycle_error,omitempty"`
	Networks         []string                 `json:"networks"`
	Statistics       models.TradingStatistics `json:"statistics"`
}

// GetStatus returns a snapshot of the trader state.
func (t *AutoTrader) GetStatus() StatusReport {
	t.mu.RLock()
	defer t.mu.RUnlock()

	report := StatusReport{
		Status:           t.status,
		Running:          t.running,
		ActivePositions:  len(t.activePositions),
		WalletBalanceETH: t.walletBalanceETH,
		CyclesCompleted:  t.cyclesCompleted,
		LastCycleError:   t.lastCycleError,
		Networks:         append([]string(nil), t.cfg.Networks...),
		Statistics:       t.stats,
	}
	if !t.lastTradeTime.IsZero() {
		ltt := t.lastTradeTime
		report.LastTradeTime = &ltt
	}
	return report
}

// GetStatistics recomputes the aggregate from the full ledger.
func (t *AutoTrader) GetStatistics() models.TradingStatistics {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return models.ComputeStatistics(t.tradeHistory, len(t.activePositions))
}

// GetActivePositions returns open positions ordered by open time, so
// the listing is deterministic despite map-backed storage.
func (t *AutoTrader) GetActivePositions() []models.Position {
	t.mu.RLock()
	defer t.mu.RUnlock()

	positions := make([]models.Position, 0, len(t.activePositions))
	for _, pos := range t.activePositions {
		positions = append(positions, *pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].OpenedAt.Before(positions[j].OpenedAt)
	})
	return positions
}

// GetTradeHistory returns up to limit most recent trades, newest first.
func (t *AutoTrader) GetTradeHistory(limit int) []models.TradeExecution {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := len(t.tradeHistory)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]models.TradeExecution, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, *t.tradeHistory[i])
	}
	return out
}

// WalletBalance returns the available simulated balance.
func (t *AutoTrader) WalletBalance() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.walletBalanceETH
}

// config returns a copy of the current configuration.
func (t *AutoTrader) config() config.TradingConfig {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cfg
}
