package model

import "time"

// SeatStatus enumerates the lifecycle states of a seat within a show.
// A seat is FREE until someone holds or books it.  HELD is always
// accompanied by a hold token and an expiry timestamp; once the expiry
// passes the seat is treated as FREE again even before a sweep removes
// the stale hold.  BOOKED is terminal for the lifetime of the booking.
type SeatStatus string

const (
    SeatFree   SeatStatus = "FREE"
    SeatHeld   SeatStatus = "HELD"
    SeatBooked SeatStatus = "BOOKED"
)

// Seat is the unit of inventory for a show.  Seats are materialized
// once when the show is created and their identities never change.
//
// Fields:
//  ID            – identifier unique across all shows.
//  ShowID        – the show this seat belongs to.
//  RowLabel      – letter designating the row (A..E).
//  SeatNumber    – number of the seat within the row (1..20).
//  Status        – FREE, HELD or BOOKED.
//  HoldToken     – opaque caller-supplied token; set only while HELD.
//  HoldExpiresAt – when the current hold lapses; set only while HELD.
//  BookingID     – the booking that owns this seat; set only while BOOKED.
type Seat struct {
    ID            uint64
    ShowID        uint64
    RowLabel      string
    SeatNumber    uint32
    Status        SeatStatus
    HoldToken     string
    HoldExpiresAt *time.Time
    BookingID     *uint64
}

// HoldExpired reports whether the seat carries a hold whose expiry has
// passed at the given instant.  An expired hold no longer protects the
// seat; it merely has not been swept yet.
func (s Seat) HoldExpired(now time.Time) bool {
    return s.Status == SeatHeld && s.HoldExpiresAt != nil && !s.HoldExpiresAt.After(now)
}

// Available reports whether the seat can be claimed by a new hold or
// booking at the given instant: it is FREE, or HELD with an expired hold.
func (s Seat) Available(now time.Time) bool {
    if s.Status == SeatFree {
        return true
    }
    return s.HoldExpired(now)
}
