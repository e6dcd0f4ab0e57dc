// internal/workers/screening/predict-disorder/config.go
package predictdisorder

import (
	"time"

	"devscreen-workers/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	MaxJobsActive int
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	cfg := &Config{
		Timeout:       config.GetDuration(wcfg.Timeout),
		MaxJobsActive: wcfg.MaxJobsActive,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 70 * time.Second
	}
	if cfg.MaxJobsActive <= 0 {
		cfg.MaxJobsActive = 5
	}
	return cfg
}
