package model

import "time"

// BookingStatus enumerates the states of a booking.  A booking is
// created PENDING and moves exactly once, driven by the payment
// ledger: CONFIRMED on payment success, CANCELLED on payment failure.
// There is no transition out of CONFIRMED or CANCELLED.
type BookingStatus string

const (
    BookingPending   BookingStatus = "PENDING"
    BookingConfirmed BookingStatus = "CONFIRMED"
    BookingCancelled BookingStatus = "CANCELLED"
)

// Booking records a user's claim on a set of seats for a show.  The
// seat set is fixed at creation time.  The seats of a CONFIRMED or
// PENDING booking are disjoint from those of every other CONFIRMED or
// PENDING booking for the same show.
//
// Fields:
//  ID               – auto-assigned identifier.
//  UserID           – user who made the booking.
//  ShowID           – show being booked.
//  SeatIDs          – seats covered by the booking; non-empty, immutable.
//  TotalAmountCents – total price in cents for all seats.
//  Status           – PENDING, CONFIRMED or CANCELLED.
//  PaymentRef       – transaction ID of the settling payment, if any.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last status change.
type Booking struct {
    ID               uint64
    UserID           uint64
    ShowID           uint64
    SeatIDs          []uint64
    TotalAmountCents uint32
    Status           BookingStatus
    PaymentRef       *string
    CreatedAt        time.Time
    UpdatedAt        time.Time
}
