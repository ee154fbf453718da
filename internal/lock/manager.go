// Package lock grants, releases and expires time-bounded holds on
// seats.  A hold is not a standalone record: it lives as the HELD
// status plus token and expiry stamped onto each covered seat in the
// inventory, and every hold operation goes through the inventory's
// all-or-nothing transition primitive.
package lock

import (
    "context"
    "errors"
    "log"
    "time"

    "github.com/iliyamo/ticket-inventory/internal/inventory"
    "github.com/iliyamo/ticket-inventory/internal/model"
)

// DefaultHoldTTL is how long a hold protects its seats unless the
// manager is configured otherwise.
const DefaultHoldTTL = 5 * time.Minute

// ErrTokenRequired is returned when AcquireHold is called without a
// holder token.  The token is an opaque session identifier supplied by
// the caller; holds cannot be correlated to a purchase flow without it.
var ErrTokenRequired = errors.New("holder token is required")

// HoldResult describes a granted hold.
type HoldResult struct {
    SeatIDs   []uint64
    ExpiresAt time.Time
}

// Manager performs temporary, reversible reservation of seats prior to
// payment.
type Manager struct {
    inv *inventory.Store
    ttl time.Duration
}

// NewManager returns a Manager granting holds with the given TTL.  A
// non-positive TTL falls back to DefaultHoldTTL.
func NewManager(inv *inventory.Store, ttl time.Duration) *Manager {
    if ttl <= 0 {
        ttl = DefaultHoldTTL
    }
    return &Manager{inv: inv, ttl: ttl}
}

// TTL reports the hold duration the manager grants.
func (m *Manager) TTL() time.Duration { return m.ttl }

// AcquireHold places a hold on every requested seat or on none of
// them.  A seat is eligible when it is not booked and not covered by a
// live hold; an expired hold does not protect a seat even before it is
// swept.  Re-requesting seats already live-held by the same token is
// rejected like any other conflict.  On conflict the returned error is
// an *inventory.AvailabilityError naming the ineligible seats.
func (m *Manager) AcquireHold(ctx context.Context, showID uint64, seatIDs []uint64, holderToken string) (*HoldResult, error) {
    if holderToken == "" {
        return nil, ErrTokenRequired
    }
    ids := dedupe(seatIDs)
    if len(ids) == 0 {
        return nil, inventory.ErrNoSeats
    }
    // Stale holds never block a legitimate request: sweep first, and
    // treat anything that expired since as free in the predicate too.
    if _, err := m.inv.Sweep(ctx, showID, time.Now().UTC()); err != nil {
        return nil, err
    }
    expiresAt := time.Now().UTC().Add(m.ttl)
    err := m.inv.Transition(ctx, showID, ids,
        func(seat model.Seat, now time.Time) bool {
            return seat.Available(now)
        },
        func(seat *model.Seat, _ time.Time) {
            seat.Status = model.SeatHeld
            seat.HoldToken = holderToken
            exp := expiresAt
            seat.HoldExpiresAt = &exp
        },
    )
    if err != nil {
        return nil, err
    }
    return &HoldResult{SeatIDs: ids, ExpiresAt: expiresAt}, nil
}

// ReleaseHold clears the hold state of the given seats.  Seats that
// are not currently held are left alone; releasing them again is a
// no-op, not an error.  Booked seats are never touched.
func (m *Manager) ReleaseHold(ctx context.Context, showID uint64, seatIDs []uint64) error {
    ids := dedupe(seatIDs)
    if len(ids) == 0 {
        return inventory.ErrNoSeats
    }
    return m.inv.Transition(ctx, showID, ids,
        func(model.Seat, time.Time) bool { return true },
        func(seat *model.Seat, _ time.Time) {
            if seat.Status == model.SeatHeld {
                inventory.ClearHold(seat)
            }
        },
    )
}

// SweepExpired reclaims every seat of the show whose hold lapsed
// without a booking. It reports how many seats were returned to FREE.
func (m *Manager) SweepExpired(ctx context.Context, showID uint64) (int, error) {
    return m.inv.Sweep(ctx, showID, time.Now().UTC())
}

// RunSweeper periodically reclaims expired holds across every show
// until the context is cancelled.  The lazy sweeps performed before
// reads and bookings make the engine correct without it; the periodic
// pass only keeps listings tidy between requests.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
    ticker := time.NewTicker(interval)
    defer ticker.Stop()
    log.Printf("hold sweeper started (interval %s)", interval)
    for {
        select {
        case <-ctx.Done():
            log.Println("hold sweeper stopped")
            return
        case <-ticker.C:
            n, err := m.inv.SweepAll(ctx, time.Now().UTC())
            if err != nil {
                log.Printf("hold sweeper: %v", err)
                continue
            }
            if n > 0 {
                log.Printf("hold sweeper: reclaimed %d seats", n)
            }
        }
    }
}

// dedupe drops zero and repeated seat IDs while preserving order.
func dedupe(ids []uint64) []uint64 {
    out := make([]uint64, 0, len(ids))
    seen := make(map[uint64]struct{}, len(ids))
    for _, id := range ids {
        if id == 0 {
            continue
        }
        if _, ok := seen[id]; ok {
            continue
        }
        seen[id] = struct{}{}
        out = append(out, id)
    }
    return out
}
