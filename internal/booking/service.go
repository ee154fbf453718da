// Package booking converts holds into durable, payment-pending
// reservations and owns the booking/seat consistency invariant: the
// seat set of any PENDING or CONFIRMED booking is disjoint from every
// other PENDING or CONFIRMED booking of the same show.
package booking

import (
    "context"
    "errors"
    "log"
    "sync"
    "time"

    "github.com/iliyamo/ticket-inventory/internal/inventory"
    "github.com/iliyamo/ticket-inventory/internal/model"
)

// ErrBookingNotFound is returned when no booking matches the given ID.
var ErrBookingNotFound = errors.New("booking not found")

// ErrHoldMismatch is returned when a requested seat is live-held by a
// different holder token.  The committing caller must present the token
// it acquired the hold with; another session's live hold cannot be
// converted out from under it.
var ErrHoldMismatch = errors.New("seat held by another session")

// ErrNotPending is returned when a status transition is attempted on a
// booking that already left PENDING.
var ErrNotPending = errors.New("booking is not pending")

// UserDirectory resolves a booking's owner.  Implementations return
// repository.ErrUserNotFound when the email is unknown.
type UserDirectory interface {
    GetByEmail(ctx context.Context, email string) (model.User, error)
}

// ShowCatalog supplies show pricing.  Implementations return
// repository.ErrShowNotFound when the show is unknown.
type ShowCatalog interface {
    GetByID(ctx context.Context, id uint64) (model.Show, error)
}

// Service creates and finalizes bookings against the seat inventory.
type Service struct {
    inv   *inventory.Store
    users UserDirectory
    shows ShowCatalog

    mu     sync.RWMutex
    byID   map[uint64]*model.Booking
    byUser map[uint64][]uint64
    nextID uint64
}

// NewService returns a booking service backed by the given inventory
// and collaborator directories.
func NewService(inv *inventory.Store, users UserDirectory, shows ShowCatalog) *Service {
    return &Service{
        inv:    inv,
        users:  users,
        shows:  shows,
        byID:   make(map[uint64]*model.Booking),
        byUser: make(map[uint64][]uint64),
        nextID: 1,
    }
}

// Create promotes a hold into a PENDING booking.  Expired holds are
// swept first, the user and show must resolve, and every seat must be
// bookable: not already booked, and either free or live-held with the
// caller's holder token.  The seat flips and the booking insert happen
// as one all-or-nothing step; a losing concurrent caller observes the
// post-transition state and fails cleanly.
func (s *Service) Create(ctx context.Context, userEmail string, showID uint64, seatIDs []uint64, holderToken string) (*model.Booking, error) {
    seatIDs = dedupe(seatIDs)
    if len(seatIDs) == 0 {
        return nil, inventory.ErrNoSeats
    }
    if _, err := s.inv.Sweep(ctx, showID, time.Now().UTC()); err != nil {
        return nil, err
    }
    user, err := s.users.GetByEmail(ctx, userEmail)
    if err != nil {
        return nil, err
    }
    show, err := s.shows.GetByID(ctx, showID)
    if err != nil {
        return nil, err
    }

    s.mu.Lock()
    bookingID := s.nextID
    s.nextID++
    s.mu.Unlock()

    // The predicate runs inside the inventory's critical section, so
    // the classification it records is consistent with the decision.
    var bookedSeen, foreignSeen bool
    err = s.inv.Transition(ctx, showID, seatIDs,
        func(seat model.Seat, now time.Time) bool {
            if seat.Status == model.SeatBooked {
                bookedSeen = true
                return false
            }
            if seat.Status == model.SeatHeld && !seat.HoldExpired(now) && seat.HoldToken != holderToken {
                foreignSeen = true
                return false
            }
            return true
        },
        func(seat *model.Seat, _ time.Time) {
            inventory.ClearHold(seat)
            seat.Status = model.SeatBooked
            id := bookingID
            seat.BookingID = &id
        },
    )
    if err != nil {
        var avail *inventory.AvailabilityError
        if errors.As(err, &avail) && foreignSeen && !bookedSeen {
            return nil, ErrHoldMismatch
        }
        return nil, err
    }

    now := time.Now().UTC()
    b := &model.Booking{
        ID:               bookingID,
        UserID:           user.ID,
        ShowID:           showID,
        SeatIDs:          append([]uint64(nil), seatIDs...),
        TotalAmountCents: uint32(len(seatIDs)) * show.PriceCents,
        Status:           model.BookingPending,
        CreatedAt:        now,
        UpdatedAt:        now,
    }
    s.mu.Lock()
    s.byID[b.ID] = b
    s.byUser[user.ID] = append(s.byUser[user.ID], b.ID)
    s.mu.Unlock()
    return s.snapshot(b), nil
}

// Get returns the booking with the given ID.
func (s *Service) Get(ctx context.Context, id uint64) (*model.Booking, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    b, ok := s.byID[id]
    if !ok {
        return nil, ErrBookingNotFound
    }
    return s.snapshot(b), nil
}

// ListByUser returns every booking of a user, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    ids := s.byUser[userID]
    out := make([]model.Booking, 0, len(ids))
    for i := len(ids) - 1; i >= 0; i-- {
        out = append(out, *s.snapshot(s.byID[ids[i]]))
    }
    return out, nil
}

// Confirm moves a PENDING booking to CONFIRMED and records the payment
// reference.  Seats stay booked.  Only the payment ledger calls this.
func (s *Service) Confirm(ctx context.Context, id uint64, paymentRef string) (*model.Booking, error) {
    return s.finalize(id, model.BookingConfirmed, paymentRef)
}

// Cancel moves a PENDING booking to CANCELLED and returns every one of
// its seats to FREE so they can be re-sold.  If the seats cannot be
// released the booking stays PENDING and the error is reported; a
// cancelled booking never holds seats hostage.
func (s *Service) Cancel(ctx context.Context, id uint64, paymentRef string) (*model.Booking, error) {
    b, err := s.finalize(id, model.BookingCancelled, paymentRef)
    if err != nil {
        return nil, err
    }
    err = s.inv.Transition(ctx, b.ShowID, b.SeatIDs,
        func(seat model.Seat, _ time.Time) bool {
            return seat.Status == model.SeatBooked && seat.BookingID != nil && *seat.BookingID == id
        },
        func(seat *model.Seat, _ time.Time) {
            seat.Status = model.SeatFree
            seat.BookingID = nil
        },
    )
    if err != nil {
        // Roll the status back so the seats are not stranded behind a
        // CANCELLED booking; the caller may retry.
        s.mu.Lock()
        if stored, ok := s.byID[id]; ok {
            stored.Status = model.BookingPending
            stored.PaymentRef = nil
        }
        s.mu.Unlock()
        return nil, err
    }
    return b, nil
}

func (s *Service) finalize(id uint64, to model.BookingStatus, paymentRef string) (*model.Booking, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.byID[id]
    if !ok {
        return nil, ErrBookingNotFound
    }
    if b.Status != model.BookingPending {
        return nil, ErrNotPending
    }
    b.Status = to
    b.UpdatedAt = time.Now().UTC()
    if paymentRef != "" {
        ref := paymentRef
        b.PaymentRef = &ref
    }
    return s.snapshot(b), nil
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

// snapshot copies a booking so callers never share the stored struct.
func (s *Service) snapshot(b *model.Booking) *model.Booking {
    cp := *b
    cp.SeatIDs = append([]uint64(nil), b.SeatIDs...)
    if b.PaymentRef != nil {
        ref := *b.PaymentRef
        cp.PaymentRef = &ref
    }
    return &cp
}

// RunExpiry cancels bookings that stayed PENDING longer than ttl,
// releasing their seats.  A payment callback that never arrives would
// otherwise leak seats forever.  The worker is optional; pass it only
// when a booking TTL is configured.
func (s *Service) RunExpiry(ctx context.Context, ttl, interval time.Duration) {
    ticker := time.NewTicker(interval)
    defer ticker.Stop()
    log.Printf("booking expiry worker started (ttl %s, interval %s)", ttl, interval)
    for {
        select {
        case <-ctx.Done():
            log.Println("booking expiry worker stopped")
            return
        case <-ticker.C:
            s.expirePending(ctx, ttl)
        }
    }
}

func (s *Service) expirePending(ctx context.Context, ttl time.Duration) {
    cutoff := time.Now().UTC().Add(-ttl)
    s.mu.RLock()
    var stale []uint64
    for id, b := range s.byID {
        if b.Status == model.BookingPending && b.CreatedAt.Before(cutoff) {
            stale = append(stale, id)
        }
    }
    s.mu.RUnlock()
    for _, id := range stale {
        if _, err := s.Cancel(ctx, id, ""); err != nil {
            log.Printf("booking expiry: cancel %d: %v", id, err)
        } else {
            log.Printf("booking %d expired, seats released", id)
        }
    }
}
