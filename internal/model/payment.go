package model

import "time"

// PaymentStatus enumerates the states of a payment attempt.  A payment
// starts PENDING and is finalized exactly once by the confirmation
// callback to SUCCESS or FAILED.
type PaymentStatus string

const (
    PaymentPending PaymentStatus = "PENDING"
    PaymentSuccess PaymentStatus = "SUCCESS"
    PaymentFailed  PaymentStatus = "FAILED"
)

// Payment records one round trip to the payment gateway for a booking.
//
// Fields:
//  TransactionID – globally unique identifier generated at initiation.
//  BookingID     – booking being paid for.
//  AmountCents   – amount charged in cents.
//  Method        – payment method supplied by the caller (e.g. "card").
//  Status        – PENDING, SUCCESS or FAILED.
//  CreatedAt     – when the payment was initiated.
//  UpdatedAt     – when the payment was finalized.
type Payment struct {
    TransactionID string
    BookingID     uint64
    AmountCents   uint32
    Method        string
    Status        PaymentStatus
    CreatedAt     time.Time
    UpdatedAt     time.Time
}
