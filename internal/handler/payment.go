package handler

import (
    "context"
    "fmt"
    "math/rand"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/ticket-inventory/internal/booking"
    "github.com/iliyamo/ticket-inventory/internal/inventory"
    "github.com/iliyamo/ticket-inventory/internal/model"
    "github.com/iliyamo/ticket-inventory/internal/payment"
    "github.com/iliyamo/ticket-inventory/internal/queue"
    queue_publisher "github.com/iliyamo/ticket-inventory/internal/service"
)

// PaymentHandler drives the payment lifecycle.  A confirmed or failed
// payment settles its booking; settlements are announced on the broker
// best-effort so a broker outage never blocks the customer.
type PaymentHandler struct {
    Ledger   *payment.Ledger
    Bookings *booking.Service
    Inv      *inventory.Store

    // Publish is swappable for tests; defaults to the RabbitMQ publisher.
    Publish func(ctx context.Context, ev queue.BookingSettledEvent) error
}

func NewPaymentHandler(l *payment.Ledger, b *booking.Service, inv *inventory.Store) *PaymentHandler {
    return &PaymentHandler{Ledger: l, Bookings: b, Inv: inv, Publish: queue_publisher.PublishBookingSettled}
}

type initiatePaymentReq struct {
    BookingID   uint64 `json:"booking_id"`
    AmountCents uint32 `json:"amount_cents"`
    Method      string `json:"method"`
}

type confirmPaymentReq struct {
    TransactionID string `json:"transaction_id"`
    Status        string `json:"status"` // SUCCESS | FAILED
}

type mockCallbackReq struct {
    TransactionID string `json:"transaction_id"`
}

type paymentView struct {
    TransactionID string    `json:"transaction_id"`
    BookingID     uint64    `json:"booking_id"`
    AmountCents   uint32    `json:"amount_cents"`
    Method        string    `json:"method"`
    Status        string    `json:"status"`
    CreatedAt     time.Time `json:"created_at"`
}

func viewPayment(p *model.Payment) paymentView {
    return paymentView{
        TransactionID: p.TransactionID,
        BookingID:     p.BookingID,
        AmountCents:   p.AmountCents,
        Method:        p.Method,
        Status:        string(p.Status),
        CreatedAt:     p.CreatedAt,
    }
}

// Initiate opens a PENDING payment against a PENDING booking.
func (h *PaymentHandler) Initiate(c echo.Context) error {
    var req initiatePaymentReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    method := strings.TrimSpace(req.Method)
    if method == "" {
        method = "card"
    }

    p, err := h.Ledger.Initiate(c.Request().Context(), req.BookingID, req.AmountCents, method)
    if err != nil {
        return writeDomainError(c, err)
    }
    return c.JSON(http.StatusCreated, viewPayment(p))
}

// Confirm settles a payment with a terminal outcome.  SUCCESS confirms
// the booking, FAILED cancels it and frees its seats.  A settled
// payment cannot be confirmed twice.
func (h *PaymentHandler) Confirm(c echo.Context) error {
    var req confirmPaymentReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    outcome := model.PaymentStatus(strings.ToUpper(strings.TrimSpace(req.Status)))

    p, err := h.Ledger.Confirm(c.Request().Context(), req.TransactionID, outcome)
    if err != nil {
        return writeDomainError(c, err)
    }

    h.announceSettlement(p)
    return c.JSON(http.StatusOK, viewPayment(p))
}

// MockCallback simulates the gateway's asynchronous callback: roughly
// four out of five payments succeed.
func (h *PaymentHandler) MockCallback(c echo.Context) error {
    var req mockCallbackReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.TransactionID) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "transaction_id required"})
    }

    outcome := model.PaymentSuccess
    if rand.Intn(100) >= 80 {
        outcome = model.PaymentFailed
    }

    p, err := h.Ledger.Confirm(c.Request().Context(), req.TransactionID, outcome)
    if err != nil {
        return writeDomainError(c, err)
    }

    h.announceSettlement(p)
    return c.JSON(http.StatusOK, viewPayment(p))
}

// Get returns one payment by transaction ID.
func (h *PaymentHandler) Get(c echo.Context) error {
    p, err := h.Ledger.Get(c.Request().Context(), c.Param("txn"))
    if err != nil {
        return writeDomainError(c, err)
    }
    return c.JSON(http.StatusOK, viewPayment(p))
}

// announceSettlement publishes a booking.settled event in the
// background.  Failures are the publisher's to log; the payment flow
// never waits on the broker.
func (h *PaymentHandler) announceSettlement(p *model.Payment) {
    b, err := h.Bookings.Get(context.Background(), p.BookingID)
    if err != nil {
        return
    }
    ev := queue.BookingSettledEvent{
        BookingID:        b.ID,
        UserID:           b.UserID,
        ShowID:           b.ShowID,
        Status:           string(b.Status),
        TransactionID:    p.TransactionID,
        SeatLabels:       h.seatLabels(b.ShowID, b.SeatIDs),
        TotalAmountCents: b.TotalAmountCents,
        SettledAt:        time.Now().UTC().Format(time.RFC3339),
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        _ = h.Publish(ctx, ev)
    }()
}

func (h *PaymentHandler) seatLabels(showID uint64, seatIDs []uint64) []string {
    seats, err := h.Inv.ListSeats(context.Background(), showID)
    if err != nil {
        return nil
    }
    byID := make(map[uint64]model.Seat, len(seats))
    for _, s := range seats {
        byID[s.ID] = s
    }
    labels := make([]string, 0, len(seatIDs))
    for _, id := range seatIDs {
        if s, ok := byID[id]; ok {
            labels = append(labels, fmt.Sprintf("%s%d", s.RowLabel, s.SeatNumber))
        }
    }
    return labels
}
