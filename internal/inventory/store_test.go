package inventory_test

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/ticket-inventory/internal/inventory"
    "github.com/iliyamo/ticket-inventory/internal/model"
)

func anyFree(seat model.Seat, now time.Time) bool { return seat.Available(now) }

func holdWith(token string, expiresAt time.Time) func(*model.Seat, time.Time) {
    return func(seat *model.Seat, _ time.Time) {
        seat.Status = model.SeatHeld
        seat.HoldToken = token
        exp := expiresAt
        seat.HoldExpiresAt = &exp
    }
}

func TestMaterializeLayout(t *testing.T) {
    store := inventory.NewStore()
    require.NoError(t, store.Materialize(1))

    seats, err := store.ListSeats(context.Background(), 1)
    require.NoError(t, err)
    require.Len(t, seats, 100)

    // First row is A1..A20, then B1 follows.
    assert.Equal(t, "A", seats[0].RowLabel)
    assert.Equal(t, uint32(1), seats[0].SeatNumber)
    assert.Equal(t, "A", seats[19].RowLabel)
    assert.Equal(t, uint32(20), seats[19].SeatNumber)
    assert.Equal(t, "B", seats[20].RowLabel)
    assert.Equal(t, "E", seats[99].RowLabel)

    for _, seat := range seats {
        assert.Equal(t, model.SeatFree, seat.Status)
        assert.Equal(t, uint64(1), seat.ShowID)
    }
}

func TestMaterializeIsOneShot(t *testing.T) {
    store := inventory.NewStore()
    require.NoError(t, store.Materialize(7))
    assert.ErrorIs(t, store.Materialize(7), inventory.ErrAlreadyMaterialized)
}

func TestListSeatsUnknownShow(t *testing.T) {
    store := inventory.NewStore()
    _, err := store.ListSeats(context.Background(), 99)
    assert.ErrorIs(t, err, inventory.ErrShowNotFound)
}

func TestTransitionAllOrNothing(t *testing.T) {
    store := inventory.NewStore()
    require.NoError(t, store.Materialize(1))
    seats, err := store.ListSeats(context.Background(), 1)
    require.NoError(t, err)
    s1, s2 := seats[0].ID, seats[1].ID

    // Occupy s2 with a live hold.
    expiry := time.Now().UTC().Add(5 * time.Minute)
    require.NoError(t, store.Transition(context.Background(), 1, []uint64{s2}, anyFree, holdWith("other", expiry)))

    // Claiming both must grant nothing.
    err = store.Transition(context.Background(), 1, []uint64{s1, s2}, anyFree, holdWith("mine", expiry))
    var avail *inventory.AvailabilityError
    require.ErrorAs(t, err, &avail)
    assert.Equal(t, 2, avail.Requested)
    assert.Equal(t, 1, avail.Eligible)
    assert.Equal(t, []uint64{s2}, avail.SeatIDs)

    // s1 must be untouched.
    seats, err = store.ListSeats(context.Background(), 1)
    require.NoError(t, err)
    assert.Equal(t, model.SeatFree, seats[0].Status)
    assert.Empty(t, seats[0].HoldToken)
}

func TestTransitionRejectsForeignSeat(t *testing.T) {
    store := inventory.NewStore()
    require.NoError(t, store.Materialize(1))
    require.NoError(t, store.Materialize(2))
    other, err := store.ListSeats(context.Background(), 2)
    require.NoError(t, err)

    err = store.Transition(context.Background(), 1, []uint64{other[0].ID}, anyFree, holdWith("x", time.Now().Add(time.Minute)))
    assert.ErrorIs(t, err, inventory.ErrSeatNotFound)

    err = store.Transition(context.Background(), 1, nil, anyFree, holdWith("x", time.Now().Add(time.Minute)))
    assert.ErrorIs(t, err, inventory.ErrNoSeats)
}

func TestConcurrentTransitionsOneWinner(t *testing.T) {
    store := inventory.NewStore()
    require.NoError(t, store.Materialize(1))
    seats, err := store.ListSeats(context.Background(), 1)
    require.NoError(t, err)
    contested := []uint64{seats[0].ID, seats[1].ID, seats[2].ID}

    const callers = 16
    var wg sync.WaitGroup
    successes := make(chan string, callers)
    start := make(chan struct{})
    for i := 0; i < callers; i++ {
        wg.Add(1)
        token := fmt.Sprintf("caller-%d", i)
        go func() {
            defer wg.Done()
            <-start
            err := store.Transition(context.Background(), 1, contested, anyFree,
                holdWith(token, time.Now().UTC().Add(time.Minute)))
            if err == nil {
                successes <- token
            }
        }()
    }
    close(start)
    wg.Wait()
    close(successes)

    var winners []string
    for tok := range successes {
        winners = append(winners, tok)
    }
    require.Len(t, winners, 1, "exactly one caller must win the contested seats")

    seats, err = store.ListSeats(context.Background(), 1)
    require.NoError(t, err)
    for _, id := range contested {
        for _, seat := range seats {
            if seat.ID == id {
                assert.Equal(t, model.SeatHeld, seat.Status)
                assert.Equal(t, winners[0], seat.HoldToken)
            }
        }
    }
}

func TestSweepClearsOnlyExpiredHolds(t *testing.T) {
    store := inventory.NewStore()
    require.NoError(t, store.Materialize(1))
    seats, err := store.ListSeats(context.Background(), 1)
    require.NoError(t, err)
    expired, live := seats[0].ID, seats[1].ID

    past := time.Now().UTC().Add(-time.Minute)
    future := time.Now().UTC().Add(time.Minute)
    require.NoError(t, store.Transition(context.Background(), 1, []uint64{expired}, anyFree, holdWith("stale", past)))
    require.NoError(t, store.Transition(context.Background(), 1, []uint64{live}, anyFree, holdWith("live", future)))

    swept, err := store.Sweep(context.Background(), 1, time.Now().UTC())
    require.NoError(t, err)
    assert.Equal(t, 1, swept)

    seats, err = store.ListSeats(context.Background(), 1)
    require.NoError(t, err)
    assert.Equal(t, model.SeatFree, seats[0].Status)
    assert.Empty(t, seats[0].HoldToken)
    assert.Equal(t, model.SeatHeld, seats[1].Status)

    // Sweeping again is a no-op.
    swept, err = store.Sweep(context.Background(), 1, time.Now().UTC())
    require.NoError(t, err)
    assert.Zero(t, swept)
}

func TestSweepAllCoversEveryShow(t *testing.T) {
    store := inventory.NewStore()
    require.NoError(t, store.Materialize(1))
    require.NoError(t, store.Materialize(2))
    past := time.Now().UTC().Add(-time.Second)
    for _, showID := range []uint64{1, 2} {
        seats, err := store.ListSeats(context.Background(), showID)
        require.NoError(t, err)
        require.NoError(t, store.Transition(context.Background(), showID, []uint64{seats[0].ID}, anyFree, holdWith("stale", past)))
    }
    swept, err := store.SweepAll(context.Background(), time.Now().UTC())
    require.NoError(t, err)
    assert.Equal(t, 2, swept)
}

func TestTransitionErrorIsNotBusy(t *testing.T) {
    // ErrBusy is reserved for critical-section timeouts; a plain
    // availability conflict must not be mistaken for one.
    store := inventory.NewStore()
    require.NoError(t, store.Materialize(1))
    seats, err := store.ListSeats(context.Background(), 1)
    require.NoError(t, err)
    id := seats[0].ID
    require.NoError(t, store.Transition(context.Background(), 1, []uint64{id}, anyFree, holdWith("a", time.Now().Add(time.Minute))))
    err = store.Transition(context.Background(), 1, []uint64{id}, anyFree, holdWith("b", time.Now().Add(time.Minute)))
    assert.False(t, errors.Is(err, inventory.ErrBusy))
    var avail *inventory.AvailabilityError
    assert.ErrorAs(t, err, &avail)
}

func TestBusyWhenCriticalSectionHeld(t *testing.T) {
    store := inventory.NewStore(inventory.WithAcquireTimeout(20 * time.Millisecond))
    require.NoError(t, store.Materialize(1))
    seats, err := store.ListSeats(context.Background(), 1)
    require.NoError(t, err)

    // Park a transition inside the show's critical section; the
    // predicate runs while the section is held, so blocking there
    // keeps it occupied until we let go.
    entered := make(chan struct{})
    release := make(chan struct{})
    done := make(chan struct{})
    go func() {
        defer close(done)
        _ = store.Transition(context.Background(), 1, []uint64{seats[0].ID},
            func(model.Seat, time.Time) bool {
                close(entered)
                <-release
                return true
            },
            func(*model.Seat, time.Time) {})
    }()
    <-entered

    _, err = store.ListSeats(context.Background(), 1)
    assert.ErrorIs(t, err, inventory.ErrBusy)

    err = store.Transition(context.Background(), 1, []uint64{seats[1].ID}, anyFree, holdWith("b", time.Now().Add(time.Minute)))
    assert.ErrorIs(t, err, inventory.ErrBusy)

    close(release)
    <-done

    // With the section free again the same calls go through.
    _, err = store.ListSeats(context.Background(), 1)
    assert.NoError(t, err)
}
