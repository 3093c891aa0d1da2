package resilience

import "time"

// CircuitBreakerConfig tunes the breaker guarding an upstream dependency.
// Out-of-range fields fall back to the defaults when normalized.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

// NormalizeCircuitBreakerConfig replaces out-of-range fields with their
// defaults. Enabled passes through so a disabled breaker stays disabled.
func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	out := DefaultCircuitBreakerConfig()
	out.Enabled = cfg.Enabled
	if cfg.FailureThreshold >= 1 {
		out.FailureThreshold = cfg.FailureThreshold
	}
	if cfg.OpenTimeout > 0 {
		out.OpenTimeout = cfg.OpenTimeout
	}
	if cfg.HalfOpenMaxReq >= 1 {
		out.HalfOpenMaxReq = cfg.HalfOpenMaxReq
	}
	return out
}
