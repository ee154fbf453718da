package config

import "time"

// RateLimitConfig tunes the token bucket guarding the endpoints that
// mutate seat state: hold, booking and payment.  Seat map reads are
// never throttled, so the defaults are sized for a checkout
// conversation rather than general API traffic: a short burst while a
// user picks and re-picks seats, then roughly one request per second.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

// LoadRateLimitConfig reads the limiter knobs from the environment and
// clamps them into a usable range.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 20),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 15*time.Minute),
        KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
        Prefix:         envStr("RATE_LIMIT_PREFIX", "ti:rl"),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    return sanitizeRateLimit(cfg)
}

// sanitizeRateLimit clamps nonsense values instead of failing startup.
// A misconfigured limiter should degrade to a stricter limiter, never
// keep the booking flow from serving at all.
func sanitizeRateLimit(cfg RateLimitConfig) RateLimitConfig {
    if cfg.Capacity < 1 {
        cfg.Capacity = 1
    }
    if cfg.RefillTokens < 1 {
        cfg.RefillTokens = 1
    }
    if cfg.RefillInterval <= 0 {
        cfg.RefillInterval = time.Second
    }
    // Bucket state must outlive several refill cycles, or an idle
    // bucket expires mid-checkout and hands the client a full burst
    // again.
    if min := 5 * cfg.RefillInterval; cfg.TTL < min {
        cfg.TTL = min
    }
    return cfg
}
