package config

import (
    "os"
    "strconv"
    "time"
)

// EngineConfig tunes the in-memory reservation engine.  Every knob has a
// sensible default so the engine runs without any environment at all.
type EngineConfig struct {
    HoldTTL       time.Duration // how long a seat hold survives before it expires
    SweepInterval time.Duration // how often the background sweeper reclaims holds
    BookingTTL    time.Duration // how long a booking may stay PENDING (0 disables expiry)
    ExpiryEvery   time.Duration // how often the booking expiry worker runs
}

// LoadEngineConfig reads the engine knobs from the environment.
func LoadEngineConfig() EngineConfig {
    return EngineConfig{
        HoldTTL:       envDur("HOLD_TTL", 5*time.Minute),
        SweepInterval: envDur("SWEEP_INTERVAL", 30*time.Second),
        BookingTTL:    envDur("BOOKING_TTL", 0),
        ExpiryEvery:   envDur("BOOKING_EXPIRY_INTERVAL", time.Minute),
    }
}

// The env* helpers below back every optional knob in this package.
// Unlike must()/mustInt() they never abort startup: an unset or
// unparsable value silently falls back to the default, because none of
// the optional knobs are worth refusing to serve traffic over.

func envStr(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func envBool(key string, def bool) bool {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    b, err := strconv.ParseBool(v)
    if err != nil {
        return def
    }
    return b
}

func envInt(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        return def
    }
    return n
}

func envDur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    d, err := time.ParseDuration(v)
    if err != nil {
        return def
    }
    return d
}
