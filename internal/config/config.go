package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Feed      FeedConfig      `yaml:"feed"`
	Trading   TradingConfig   `yaml:"trading"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

// FeedConfig configures the per-network DEX stream clients.
type FeedConfig struct {
	Networks  []NetworkConfig `yaml:"networks"`
	PriceTTL  time.Duration   `yaml:"price_ttl"`
	RecentCap int             `yaml:"recent_cap"`
}

type NetworkConfig struct {
	Name      string `yaml:"name"`
	StreamURL string `yaml:"stream_url"`
}

// TradingConfig carries the auto-trader thresholds. Zero values are
// replaced with defaults by ApplyDefaults.
type TradingConfig struct {
	Networks            []string      `yaml:"networks"`
	WalletBalanceETH    float64       `yaml:"wallet_balance_eth"`
	MaxPositionSizeETH  float64       `yaml:"max_position_size_eth"`
	MinLiquidityUSD     float64       `yaml:"min_liquidity_usd"`
	MaxRiskScore        float64       `yaml:"max_risk_score"`
	ProfitTargetPercent float64       `yaml:"profit_target_percent"`
	StopLossPercent     float64       `yaml:"stop_loss_percent"`
	MaxSlippagePercent  float64       `yaml:"max_slippage_percent"`
	CooldownMinutes     int           `yaml:"cooldown_minutes"`
	MaxOpenPositions    int           `yaml:"max_open_positions"`
	MaxHoldingTime      time.Duration `yaml:"max_holding_time"`
	CycleInterval       time.Duration `yaml:"cycle_interval"`
	ErrorBackoff        time.Duration `yaml:"error_backoff"`
}

type OptimizerConfig struct {
	Level string `yaml:"level"`
}

// Load loads configuration from file and environment variables
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.loadFromEnv()
	cfg.Trading.ApplyDefaults()
	cfg.Feed.ApplyDefaults()

	return cfg, nil
}

// ApplyDefaults fills unset trading thresholds with the documented defaults.
func (c *TradingConfig) ApplyDefaults() {
	if len(c.Networks) == 0 {
		c.Networks = []string{"ethereum"}
	}
	if c.WalletBalanceETH <= 0 {
		c.WalletBalanceETH = 1.0
	}
	if c.MaxPositionSizeETH <= 0 {
		c.MaxPositionSizeETH = 0.1
	}
	if c.MinLiquidityUSD <= 0 {
		c.MinLiquidityUSD = 50000
	}
	if c.MaxRiskScore <= 0 {
		c.MaxRiskScore = 3.0
	}
	if c.ProfitTargetPercent <= 0 {
		c.ProfitTargetPercent = 20.0
	}
	if c.StopLossPercent <= 0 {
		c.StopLossPercent = 10.0
	}
	if c.MaxSlippagePercent <= 0 {
		c.MaxSlippagePercent = 5.0
	}
	if c.CooldownMinutes <= 0 {
		c.CooldownMinutes = 5
	}
	if c.MaxOpenPositions <= 0 {
		c.MaxOpenPositions = 10
	}
	if c.MaxHoldingTime <= 0 {
		c.MaxHoldingTime = 24 * time.Hour
	}
	if c.CycleInterval <= 0 {
		c.CycleInterval = 30 * time.Second
	}
	if c.ErrorBackoff <= 0 {
		c.ErrorBackoff = 60 * time.Second
	}
}

// Cooldown returns the configured cooldown as a duration. Zero means
// the cooldown window is disabled.
func (c *TradingConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownMinutes) * time.Minute
}

// ApplyDefaults fills unset feed settings.
func (c *FeedConfig) ApplyDefaults() {
	if c.PriceTTL <= 0 {
		c.PriceTTL = 5 * time.Second
	}
	if c.RecentCap <= 0 {
		c.RecentCap = 200
	}
}

func (c *Config) loadFromEnv() {
	// Server
	if v := os.Getenv("SERVER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("SERVER_MODE"); v != "" {
		c.Server.Mode = v
	}

	// Database
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.DBName = v
	}

	// Redis
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Redis.Port = port
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}

	// JWT
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}
	if v := os.Getenv("JWT_EXPIRE_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			c.JWT.ExpireHours = hours
		}
	}

	// Trading
	if v := os.Getenv("TRADING_NETWORKS"); v != "" {
		c.Trading.Networks = splitAndTrim(v)
	}
	if v := os.Getenv("TRADING_MAX_POSITION_SIZE_ETH"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Trading.MaxPositionSizeETH = f
		}
	}
	if v := os.Getenv("TRADING_MAX_RISK_SCORE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Trading.MaxRiskScore = f
		}
	}
	if v := os.Getenv("OPTIMIZER_LEVEL"); v != "" {
		c.Optimizer.Level = v
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}
