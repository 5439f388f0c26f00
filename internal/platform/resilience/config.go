package resilience

import "time"

// CircuitBreakerConfig tunes a CircuitBreaker. Zero values fall back to the
// defaults below; Enabled=false makes the breaker a pass-through.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

const (
	defaultFailureThreshold = 3
	defaultOpenTimeout      = 30 * time.Second
	defaultHalfOpenMaxReq   = 1
)

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: defaultFailureThreshold,
		OpenTimeout:      defaultOpenTimeout,
		HalfOpenMaxReq:   defaultHalfOpenMaxReq,
	}
}

func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	cfg.FailureThreshold = atLeastOne(cfg.FailureThreshold, defaultFailureThreshold)
	cfg.HalfOpenMaxReq = atLeastOne(cfg.HalfOpenMaxReq, defaultHalfOpenMaxReq)
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaultOpenTimeout
	}
	return cfg
}

func atLeastOne(v, fallback int) int {
	if v < 1 {
		return fallback
	}
	return v
}
