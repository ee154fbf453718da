// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingSettledEvent is published whenever a payment outcome settles a
// booking, confirmed and cancelled alike.  It carries enough for
// downstream consumers to log, notify, or feed analytics without
// querying the service.
type BookingSettledEvent struct {
    BookingID        uint64   `json:"booking_id"`
    UserID           uint64   `json:"user_id"`
    ShowID           uint64   `json:"show_id"`
    Status           string   `json:"status"` // CONFIRMED | CANCELLED
    TransactionID    string   `json:"transaction_id"`
    SeatLabels       []string `json:"seats"`
    TotalAmountCents uint32   `json:"total_amount_cents"`
    SettledAt        string   `json:"settled_at"`
}
