package qdie

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultMaxSlots = 20

// Config tunes the simulator, the throw pool and the command's outputs.
type Config struct {
	SchedulingTimeout time.Duration `env:"QDIE_SCHEDULING_TIMEOUT"`
	MaxSlots          int           `env:"QDIE_MAX_SLOTS"`
	Workers           int           `env:"QDIE_WORKERS"`
	MaxWorkers        int           `env:"QDIE_MAX_WORKERS"`
	RetryAttempts     int           `env:"QDIE_RETRY_ATTEMPTS"`
	RetryInitial      time.Duration `env:"QDIE_RETRY_INITIAL"`
	BreakerFailures   int           `env:"QDIE_BREAKER_FAILURES"`
	BreakerReset      time.Duration `env:"QDIE_BREAKER_RESET"`
	LedgerPath        string        `env:"QDIE_LEDGER_PATH"`
	ChartPath         string        `env:"QDIE_CHART_PATH"`
	Seed              uint64        `env:"QDIE_SEED"`
}

/*
NewConfig returns the defaults: a 20 slot register cap, four workers and
three attempts per throw behind a breaker that opens after five failures.
*/
func NewConfig() *Config {
	return &Config{
		SchedulingTimeout: 10 * time.Second,
		MaxSlots:          defaultMaxSlots,
		Workers:           4,
		MaxWorkers:        16,
		RetryAttempts:     3,
		RetryInitial:      10 * time.Millisecond,
		BreakerFailures:   5,
		BreakerReset:      time.Second,
	}
}

// LoadConfig overlays QDIE_* environment variables onto the defaults.
func LoadConfig() (*Config, error) {
	cfg := NewConfig()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
