// Package payment simulates the gateway round trip and applies its
// outcome to bookings: success confirms, failure cancels and frees the
// booking's seats.
package payment

import (
    "context"
    "errors"
    "sync"
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/ticket-inventory/internal/booking"
    "github.com/iliyamo/ticket-inventory/internal/model"
)

// ErrPaymentNotFound is returned when no payment matches the given
// transaction ID.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrBookingNotPending is returned when payment is initiated for a
// booking that is not PENDING.
var ErrBookingNotPending = errors.New("booking is not pending")

// ErrPaymentInFlight is returned when a booking already has a pending
// payment.  A booking carries at most one payment at a time.
var ErrPaymentInFlight = errors.New("booking already has a pending payment")

// ErrAlreadyFinalized is returned when confirming a payment that was
// already finalized.  Confirmation is a one-shot terminal transition;
// a later callback can never overwrite the recorded outcome.
var ErrAlreadyFinalized = errors.New("payment already finalized")

// ErrInvalidOutcome is returned when the confirmation outcome is
// neither SUCCESS nor FAILED.
var ErrInvalidOutcome = errors.New("outcome must be SUCCESS or FAILED")

// Ledger records payment attempts and drives booking finalization.
type Ledger struct {
    bookings *booking.Service

    mu        sync.Mutex
    byTxn     map[string]*model.Payment
    byBooking map[uint64]string // booking -> pending transaction ID
}

// NewLedger returns a Ledger finalizing bookings on the given service.
func NewLedger(bookings *booking.Service) *Ledger {
    return &Ledger{
        bookings:  bookings,
        byTxn:     make(map[string]*model.Payment),
        byBooking: make(map[uint64]string),
    }
}

// Initiate records a PENDING payment against a PENDING booking and
// returns it with a fresh transaction ID.  The booking is untouched
// until the confirmation callback arrives.
func (l *Ledger) Initiate(ctx context.Context, bookingID uint64, amountCents uint32, method string) (*model.Payment, error) {
    b, err := l.bookings.Get(ctx, bookingID)
    if err != nil {
        return nil, err
    }
    if b.Status != model.BookingPending {
        return nil, ErrBookingNotPending
    }
    l.mu.Lock()
    defer l.mu.Unlock()
    if _, busy := l.byBooking[bookingID]; busy {
        return nil, ErrPaymentInFlight
    }
    now := time.Now().UTC()
    p := &model.Payment{
        TransactionID: uuid.NewString(),
        BookingID:     bookingID,
        AmountCents:   amountCents,
        Method:        method,
        Status:        model.PaymentPending,
        CreatedAt:     now,
        UpdatedAt:     now,
    }
    l.byTxn[p.TransactionID] = p
    l.byBooking[bookingID] = p.TransactionID
    return snapshot(p), nil
}

// Confirm finalizes a payment exactly once and applies the outcome to
// the linked booking: SUCCESS confirms it, FAILED cancels it and
// returns its seats to FREE.  The payment is only finalized after the
// booking transition succeeds, so a failed seat release leaves the
// payment pending and retryable.
func (l *Ledger) Confirm(ctx context.Context, transactionID string, outcome model.PaymentStatus) (*model.Payment, error) {
    if outcome != model.PaymentSuccess && outcome != model.PaymentFailed {
        return nil, ErrInvalidOutcome
    }
    l.mu.Lock()
    defer l.mu.Unlock()
    p, ok := l.byTxn[transactionID]
    if !ok {
        return nil, ErrPaymentNotFound
    }
    if p.Status != model.PaymentPending {
        return nil, ErrAlreadyFinalized
    }

    var err error
    if outcome == model.PaymentSuccess {
        _, err = l.bookings.Confirm(ctx, p.BookingID, transactionID)
    } else {
        _, err = l.bookings.Cancel(ctx, p.BookingID, transactionID)
    }
    if err != nil {
        return nil, err
    }

    p.Status = outcome
    p.UpdatedAt = time.Now().UTC()
    delete(l.byBooking, p.BookingID)
    return snapshot(p), nil
}

// Get returns the payment with the given transaction ID.
func (l *Ledger) Get(ctx context.Context, transactionID string) (*model.Payment, error) {
    l.mu.Lock()
    defer l.mu.Unlock()
    p, ok := l.byTxn[transactionID]
    if !ok {
        return nil, ErrPaymentNotFound
    }
    return snapshot(p), nil
}

func snapshot(p *model.Payment) *model.Payment {
    cp := *p
    return &cp
}
