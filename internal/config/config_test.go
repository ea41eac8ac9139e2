package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 0.0.0.0
  port: 8080
  mode: debug
database:
  host: localhost
  port: 5432
  user: sniper
  password: secret
  dbname: sniper
  sslmode: disable
jwt:
  secret: test-secret
  expire_hours: 24
trading:
  networks: [ethereum, base]
  max_position_size_eth: 0.2
  min_liquidity_usd: 75000
optimizer:
  level: aggressive
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"ethereum", "base"}, cfg.Trading.Networks)
	assert.Equal(t, 0.2, cfg.Trading.MaxPositionSizeETH)
	assert.Equal(t, 75000.0, cfg.Trading.MinLiquidityUSD)
	assert.Equal(t, "aggressive", cfg.Optimizer.Level)

	// Unset thresholds pick up defaults.
	assert.Equal(t, 3.0, cfg.Trading.MaxRiskScore)
	assert.Equal(t, 20.0, cfg.Trading.ProfitTargetPercent)
	assert.Equal(t, 10.0, cfg.Trading.StopLossPercent)
	assert.Equal(t, 10, cfg.Trading.MaxOpenPositions)
	assert.Equal(t, 24*time.Hour, cfg.Trading.MaxHoldingTime)
	assert.Equal(t, 30*time.Second, cfg.Trading.CycleInterval)
	assert.Equal(t, 60*time.Second, cfg.Trading.ErrorBackoff)
	assert.Equal(t, 5*time.Minute, cfg.Trading.Cooldown())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
trading:
  networks: [ethereum]
`)

	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TRADING_NETWORKS", "base, arbitrum")
	t.Setenv("TRADING_MAX_RISK_SCORE", "2.5")
	t.Setenv("OPTIMIZER_LEVEL", "conservative")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"base", "arbitrum"}, cfg.Trading.Networks)
	assert.Equal(t, 2.5, cfg.Trading.MaxRiskScore)
	assert.Equal(t, "conservative", cfg.Optimizer.Level)
}

func TestApplyDefaultsDoesNotOverrideSetValues(t *testing.T) {
	cfg := TradingConfig{
		MaxRiskScore:     7.0,
		MaxOpenPositions: 3,
		CooldownMinutes:  1,
	}
	cfg.ApplyDefaults()

	assert.Equal(t, 7.0, cfg.MaxRiskScore)
	assert.Equal(t, 3, cfg.MaxOpenPositions)
	assert.Equal(t, time.Minute, cfg.Cooldown())
	assert.Equal(t, 1.0, cfg.WalletBalanceETH)
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "sniper",
		Password: "secret",
		DBName:   "sniper",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=sniper password=secret dbname=sniper sslmode=disable",
		db.DSN())
}
