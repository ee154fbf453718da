package inventory

import (
    "context"
    "sync"
    "time"

    "github.com/iliyamo/ticket-inventory/internal/model"
)

// Layout constants for the fixed deterministic seat grid allocated to
// every show: rows A through E with twenty seats each.
var rowLabels = []string{"A", "B", "C", "D", "E"}

const seatsPerRow = 20

// defaultAcquireTimeout bounds how long a caller may wait for a show's
// critical section before receiving ErrBusy.
const defaultAcquireTimeout = 2 * time.Second

// showInventory is the seat table of a single show.  All reads and
// writes of its seats happen inside the critical section guarded by
// sem, a one-slot semaphore that supports timed acquisition.
type showInventory struct {
    sem   chan struct{}
    seats map[uint64]*model.Seat
    order []uint64 // seat IDs in row/number order for deterministic listing
}

func (si *showInventory) acquire(ctx context.Context, timeout time.Duration) error {
    timer := time.NewTimer(timeout)
    defer timer.Stop()
    select {
    case si.sem <- struct{}{}:
        return nil
    case <-timer.C:
        return ErrBusy
    case <-ctx.Done():
        return ctx.Err()
    }
}

func (si *showInventory) release() { <-si.sem }

// Store is the single source of truth for seat availability.  Each
// show owns an independent seat table with its own critical section,
// so contention on one show never blocks operations on another.
type Store struct {
    mu             sync.RWMutex // guards the shows map and seat ID allocation
    shows          map[uint64]*showInventory
    nextSeatID     uint64
    acquireTimeout time.Duration
}

// Option adjusts Store construction.
type Option func(*Store)

// WithAcquireTimeout overrides how long operations wait for a show's
// critical section before giving up with ErrBusy.  Non-positive values
// are ignored.
func WithAcquireTimeout(d time.Duration) Option {
    return func(s *Store) {
        if d > 0 {
            s.acquireTimeout = d
        }
    }
}

// NewStore returns an empty Store with the default critical-section
// acquisition timeout.
func NewStore(opts ...Option) *Store {
    s := &Store{
        shows:          make(map[uint64]*showInventory),
        nextSeatID:     1,
        acquireTimeout: defaultAcquireTimeout,
    }
    for _, opt := range opts {
        opt(s)
    }
    return s
}

// Materialize allocates the fixed 5x20 seat layout for a show.  The
// allocation happens exactly once; calling Materialize again for the
// same show returns ErrAlreadyMaterialized and changes nothing.
func (s *Store) Materialize(showID uint64) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.shows[showID]; ok {
        return ErrAlreadyMaterialized
    }
    si := &showInventory{
        sem:   make(chan struct{}, 1),
        seats: make(map[uint64]*model.Seat, len(rowLabels)*seatsPerRow),
        order: make([]uint64, 0, len(rowLabels)*seatsPerRow),
    }
    for _, row := range rowLabels {
        for n := uint32(1); n <= seatsPerRow; n++ {
            id := s.nextSeatID
            s.nextSeatID++
            si.seats[id] = &model.Seat{
                ID:         id,
                ShowID:     showID,
                RowLabel:   row,
                SeatNumber: n,
                Status:     model.SeatFree,
            }
            si.order = append(si.order, id)
        }
    }
    s.shows[showID] = si
    return nil
}

func (s *Store) show(showID uint64) (*showInventory, error) {
    s.mu.RLock()
    si, ok := s.shows[showID]
    s.mu.RUnlock()
    if !ok {
        return nil, ErrShowNotFound
    }
    return si, nil
}

// ListSeats returns a snapshot of every seat of the show in row/number
// order.  It reports the stored state as-is: expired holds are not
// cleared here, callers that need live availability must sweep first.
func (s *Store) ListSeats(ctx context.Context, showID uint64) ([]model.Seat, error) {
    si, err := s.show(showID)
    if err != nil {
        return nil, err
    }
    if err := si.acquire(ctx, s.acquireTimeout); err != nil {
        return nil, err
    }
    defer si.release()
    out := make([]model.Seat, 0, len(si.order))
    for _, id := range si.order {
        out = append(out, *si.seats[id])
    }
    return out, nil
}

// Transition is the all-or-nothing bulk primitive.  Inside one
// exclusive critical section it checks that every requested seat
// satisfies the eligibility predicate and, only if all do, applies the
// mutation to all of them.  When any seat is ineligible nothing is
// written and an *AvailabilityError identifies the offending seats.
// The predicate and mutation receive the same observation instant, so
// a decision made against an expiring hold stays consistent with the
// write that follows it.
func (s *Store) Transition(
    ctx context.Context,
    showID uint64,
    seatIDs []uint64,
    eligible func(seat model.Seat, now time.Time) bool,
    apply func(seat *model.Seat, now time.Time),
) error {
    if len(seatIDs) == 0 {
        return ErrNoSeats
    }
    si, err := s.show(showID)
    if err != nil {
        return err
    }
    if err := si.acquire(ctx, s.acquireTimeout); err != nil {
        return err
    }
    defer si.release()

    now := time.Now().UTC()
    targets := make([]*model.Seat, 0, len(seatIDs))
    var ineligible []uint64
    for _, id := range seatIDs {
        seat, ok := si.seats[id]
        if !ok {
            return ErrSeatNotFound
        }
        if eligible(*seat, now) {
            targets = append(targets, seat)
        } else {
            ineligible = append(ineligible, id)
        }
    }
    if len(ineligible) > 0 {
        return &AvailabilityError{
            Requested: len(seatIDs),
            Eligible:  len(targets),
            SeatIDs:   ineligible,
        }
    }
    for _, seat := range targets {
        apply(seat, now)
    }
    return nil
}

// Sweep clears every expired hold of the show, returning the seats to
// FREE, and reports how many it flipped.  Sweeping is idempotent over
// the current time: running it lazily before a read or periodically
// from a background task yields the same state.
func (s *Store) Sweep(ctx context.Context, showID uint64, now time.Time) (int, error) {
    si, err := s.show(showID)
    if err != nil {
        return 0, err
    }
    if err := si.acquire(ctx, s.acquireTimeout); err != nil {
        return 0, err
    }
    defer si.release()
    swept := 0
    for _, id := range si.order {
        seat := si.seats[id]
        if seat.HoldExpired(now) {
            clearHold(seat)
            swept++
        }
    }
    return swept, nil
}

// SweepAll sweeps every materialized show.  Shows are swept one at a
// time; sweeping never takes more than one show's critical section at
// once.
func (s *Store) SweepAll(ctx context.Context, now time.Time) (int, error) {
    s.mu.RLock()
    ids := make([]uint64, 0, len(s.shows))
    for id := range s.shows {
        ids = append(ids, id)
    }
    s.mu.RUnlock()
    total := 0
    for _, id := range ids {
        n, err := s.Sweep(ctx, id, now)
        if err != nil {
            return total, err
        }
        total += n
    }
    return total, nil
}

// clearHold resets a seat's hold fields and returns it to FREE.
func clearHold(seat *model.Seat) {
    seat.Status = model.SeatFree
    seat.HoldToken = ""
    seat.HoldExpiresAt = nil
}

// ClearHold exposes the hold reset for packages that mutate seats via
// Transition apply callbacks.
func ClearHold(seat *model.Seat) { clearHold(seat) }
