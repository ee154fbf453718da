package payment_test

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/ticket-inventory/internal/booking"
    "github.com/iliyamo/ticket-inventory/internal/inventory"
    "github.com/iliyamo/ticket-inventory/internal/lock"
    "github.com/iliyamo/ticket-inventory/internal/model"
    "github.com/iliyamo/ticket-inventory/internal/payment"
    "github.com/iliyamo/ticket-inventory/internal/repository"
)

type stubUsers map[string]model.User

func (s stubUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
    u, ok := s[email]
    if !ok {
        return model.User{}, repository.ErrUserNotFound
    }
    return u, nil
}

type stubShows map[uint64]model.Show

func (s stubShows) GetByID(_ context.Context, id uint64) (model.Show, error) {
    sh, ok := s[id]
    if !ok {
        return model.Show{}, repository.ErrShowNotFound
    }
    return sh, nil
}

type fixture struct {
    store  *inventory.Store
    locks  *lock.Manager
    svc    *booking.Service
    ledger *payment.Ledger
    seats  []model.Seat
}

func newFixture(t *testing.T) *fixture {
    t.Helper()
    store := inventory.NewStore()
    require.NoError(t, store.Materialize(1))
    seats, err := store.ListSeats(context.Background(), 1)
    require.NoError(t, err)
    users := stubUsers{"alice@example.com": {ID: 10, Email: "alice@example.com"}}
    shows := stubShows{1: {ID: 1, PriceCents: 1000}}
    svc := booking.NewService(store, users, shows)
    return &fixture{
        store:  store,
        locks:  lock.NewManager(store, 5*time.Minute),
        svc:    svc,
        ledger: payment.NewLedger(svc),
        seats:  seats,
    }
}

func (f *fixture) book(t *testing.T, seatIDs []uint64) *model.Booking {
    t.Helper()
    b, err := f.svc.Create(context.Background(), "alice@example.com", 1, seatIDs, "session")
    require.NoError(t, err)
    return b
}

func TestInitiatePayment(t *testing.T) {
    f := newFixture(t)
    b := f.book(t, []uint64{f.seats[0].ID})

    p, err := f.ledger.Initiate(context.Background(), b.ID, b.TotalAmountCents, "card")
    require.NoError(t, err)
    assert.Equal(t, model.PaymentPending, p.Status)
    assert.Equal(t, b.ID, p.BookingID)
    assert.NotEmpty(t, p.TransactionID)

    // The booking is untouched until confirmation.
    got, err := f.svc.Get(context.Background(), b.ID)
    require.NoError(t, err)
    assert.Equal(t, model.BookingPending, got.Status)
    assert.Nil(t, got.PaymentRef)
}

func TestInitiateRejectsNonPendingBooking(t *testing.T) {
    f := newFixture(t)
    b := f.book(t, []uint64{f.seats[0].ID})
    p, err := f.ledger.Initiate(context.Background(), b.ID, b.TotalAmountCents, "card")
    require.NoError(t, err)
    _, err = f.ledger.Confirm(context.Background(), p.TransactionID, model.PaymentSuccess)
    require.NoError(t, err)

    _, err = f.ledger.Initiate(context.Background(), b.ID, b.TotalAmountCents, "card")
    assert.ErrorIs(t, err, payment.ErrBookingNotPending)

    _, err = f.ledger.Initiate(context.Background(), 999, 100, "card")
    assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestInitiateRejectsSecondPendingPayment(t *testing.T) {
    f := newFixture(t)
    b := f.book(t, []uint64{f.seats[0].ID})
    _, err := f.ledger.Initiate(context.Background(), b.ID, b.TotalAmountCents, "card")
    require.NoError(t, err)

    _, err = f.ledger.Initiate(context.Background(), b.ID, b.TotalAmountCents, "card")
    assert.ErrorIs(t, err, payment.ErrPaymentInFlight)
}

func TestConfirmSuccessConfirmsBooking(t *testing.T) {
    f := newFixture(t)
    ids := []uint64{f.seats[0].ID, f.seats[1].ID}
    b := f.book(t, ids)
    p, err := f.ledger.Initiate(context.Background(), b.ID, b.TotalAmountCents, "card")
    require.NoError(t, err)

    final, err := f.ledger.Confirm(context.Background(), p.TransactionID, model.PaymentSuccess)
    require.NoError(t, err)
    assert.Equal(t, model.PaymentSuccess, final.Status)

    got, err := f.svc.Get(context.Background(), b.ID)
    require.NoError(t, err)
    assert.Equal(t, model.BookingConfirmed, got.Status)
    require.NotNil(t, got.PaymentRef)
    assert.Equal(t, p.TransactionID, *got.PaymentRef)

    seats, err := f.store.ListSeats(context.Background(), 1)
    require.NoError(t, err)
    assert.Equal(t, model.SeatBooked, seats[0].Status, "seats stay booked on success")
    assert.Equal(t, model.SeatBooked, seats[1].Status)
}

func TestConfirmFailureCancelsBookingAndFreesSeats(t *testing.T) {
    f := newFixture(t)
    ids := []uint64{f.seats[0].ID, f.seats[1].ID}
    b := f.book(t, ids)
    p, err := f.ledger.Initiate(context.Background(), b.ID, b.TotalAmountCents, "card")
    require.NoError(t, err)

    final, err := f.ledger.Confirm(context.Background(), p.TransactionID, model.PaymentFailed)
    require.NoError(t, err)
    assert.Equal(t, model.PaymentFailed, final.Status)

    got, err := f.svc.Get(context.Background(), b.ID)
    require.NoError(t, err)
    assert.Equal(t, model.BookingCancelled, got.Status)

    seats, err := f.store.ListSeats(context.Background(), 1)
    require.NoError(t, err)
    assert.Equal(t, model.SeatFree, seats[0].Status)
    assert.Equal(t, model.SeatFree, seats[1].Status)

    // And another caller can claim them straight away.
    _, err = f.locks.AcquireHold(context.Background(), 1, ids, "session-b")
    assert.NoError(t, err)
}

func TestConfirmIsOneShot(t *testing.T) {
    f := newFixture(t)
    b := f.book(t, []uint64{f.seats[0].ID})
    p, err := f.ledger.Initiate(context.Background(), b.ID, b.TotalAmountCents, "card")
    require.NoError(t, err)

    _, err = f.ledger.Confirm(context.Background(), p.TransactionID, model.PaymentSuccess)
    require.NoError(t, err)

    // A second callback with the opposite outcome must not overwrite.
    _, err = f.ledger.Confirm(context.Background(), p.TransactionID, model.PaymentFailed)
    assert.ErrorIs(t, err, payment.ErrAlreadyFinalized)

    got, err := f.ledger.Get(context.Background(), p.TransactionID)
    require.NoError(t, err)
    assert.Equal(t, model.PaymentSuccess, got.Status)
}

func TestConfirmValidation(t *testing.T) {
    f := newFixture(t)
    _, err := f.ledger.Confirm(context.Background(), "missing", model.PaymentSuccess)
    assert.ErrorIs(t, err, payment.ErrPaymentNotFound)

    b := f.book(t, []uint64{f.seats[0].ID})
    p, err := f.ledger.Initiate(context.Background(), b.ID, b.TotalAmountCents, "card")
    require.NoError(t, err)
    _, err = f.ledger.Confirm(context.Background(), p.TransactionID, model.PaymentPending)
    assert.ErrorIs(t, err, payment.ErrInvalidOutcome)
}

// TestCheckoutRoundTrip walks the full flow the engine exists for:
// hold two seats, book them, initiate payment, fail the payment, and
// watch the seats come back on the market.
func TestCheckoutRoundTrip(t *testing.T) {
    f := newFixture(t)
    ids := []uint64{f.seats[0].ID, f.seats[1].ID}

    hold, err := f.locks.AcquireHold(context.Background(), 1, ids, "session-a")
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().UTC().Add(5*time.Minute), hold.ExpiresAt, 2*time.Second)

    b, err := f.svc.Create(context.Background(), "alice@example.com", 1, ids, "session-a")
    require.NoError(t, err)
    assert.Equal(t, uint32(2000), b.TotalAmountCents)
    assert.Equal(t, model.BookingPending, b.Status)

    p, err := f.ledger.Initiate(context.Background(), b.ID, b.TotalAmountCents, "card")
    require.NoError(t, err)
    assert.Equal(t, model.PaymentPending, p.Status)

    _, err = f.ledger.Confirm(context.Background(), p.TransactionID, model.PaymentFailed)
    require.NoError(t, err)

    got, err := f.svc.Get(context.Background(), b.ID)
    require.NoError(t, err)
    assert.Equal(t, model.BookingCancelled, got.Status)

    // S1 and S2 are free again and immediately re-holdable.
    rehold, err := f.locks.AcquireHold(context.Background(), 1, ids, "session-b")
    require.NoError(t, err)
    assert.Equal(t, ids, rehold.SeatIDs)
}
