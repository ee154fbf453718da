package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
    for _, key := range []string{
        "RATE_LIMIT_ENABLED", "RATE_LIMIT_CAPACITY", "RATE_LIMIT_REFILL_TOKENS",
        "RATE_LIMIT_REFILL_INTERVAL", "RATE_LIMIT_TTL", "RATE_LIMIT_KEY_STRATEGY",
        "RATE_LIMIT_PREFIX", "RATE_LIMIT_DEBUG",
    } {
        t.Setenv(key, "")
    }

    cfg := LoadRateLimitConfig()
    assert.True(t, cfg.Enabled)
    assert.Equal(t, 20, cfg.Capacity)
    assert.Equal(t, 1, cfg.RefillTokens)
    assert.Equal(t, time.Second, cfg.RefillInterval)
    assert.Equal(t, 15*time.Minute, cfg.TTL)
    assert.Equal(t, "ip_route", cfg.KeyStrategy)
    assert.Equal(t, "ti:rl", cfg.Prefix)
    assert.False(t, cfg.Debug)
}

func TestLoadRateLimitConfigClampsNonsense(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
    t.Setenv("RATE_LIMIT_TTL", "1s")

    cfg := LoadRateLimitConfig()
    assert.Equal(t, 1, cfg.Capacity)
    assert.Equal(t, 1, cfg.RefillTokens)
    assert.Equal(t, 2*time.Second, cfg.RefillInterval)
    // TTL is raised to cover several refill cycles.
    assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestEnvHelpersFallBackOnGarbage(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "lots")
    t.Setenv("RATE_LIMIT_ENABLED", "definitely")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "soon")

    cfg := LoadRateLimitConfig()
    assert.Equal(t, 20, cfg.Capacity)
    assert.True(t, cfg.Enabled)
    assert.Equal(t, time.Second, cfg.RefillInterval)
}
