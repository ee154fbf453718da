package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/ticket-inventory/internal/booking"
    "github.com/iliyamo/ticket-inventory/internal/model"
)

// BookingHandler promotes holds into bookings and serves booking state.
type BookingHandler struct {
    Bookings *booking.Service
}

func NewBookingHandler(b *booking.Service) *BookingHandler {
    return &BookingHandler{Bookings: b}
}

type createBookingReq struct {
    UserEmail   string   `json:"user_email"`
    ShowID      uint64   `json:"show_id"`
    SeatIDs     []uint64 `json:"seat_ids"`
    HolderToken string   `json:"holder_token"`
}

type bookingView struct {
    ID               uint64    `json:"id"`
    UserID           uint64    `json:"user_id"`
    ShowID           uint64    `json:"show_id"`
    SeatIDs          []uint64  `json:"seat_ids"`
    TotalAmountCents uint32    `json:"total_amount_cents"`
    Status           string    `json:"status"`
    PaymentRef       *string   `json:"payment_ref,omitempty"`
    CreatedAt        time.Time `json:"created_at"`
}

func viewBooking(b *model.Booking) bookingView {
    return bookingView{
        ID:               b.ID,
        UserID:           b.UserID,
        ShowID:           b.ShowID,
        SeatIDs:          b.SeatIDs,
        TotalAmountCents: b.TotalAmountCents,
        Status:           string(b.Status),
        PaymentRef:       b.PaymentRef,
        CreatedAt:        b.CreatedAt,
    }
}

// Create converts a seat hold into a PENDING booking.  The holder token
// must match the one used for the hold; a mismatch is rejected rather
// than silently stealing another session's seats.
func (h *BookingHandler) Create(c echo.Context) error {
    var req createBookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.UserEmail = strings.ToLower(strings.TrimSpace(req.UserEmail))
    if req.UserEmail == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_email required"})
    }

    b, err := h.Bookings.Create(c.Request().Context(), req.UserEmail, req.ShowID, req.SeatIDs, req.HolderToken)
    if err != nil {
        return writeDomainError(c, err)
    }
    return c.JSON(http.StatusCreated, viewBooking(b))
}

// Get returns one booking by ID.
func (h *BookingHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    b, err := h.Bookings.Get(c.Request().Context(), id)
    if err != nil {
        return writeDomainError(c, err)
    }
    return c.JSON(http.StatusOK, viewBooking(b))
}

// Mine lists the authenticated user's bookings, newest first.
func (h *BookingHandler) Mine(c echo.Context) error {
    uid, ok := currentUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    list, err := h.Bookings.ListByUser(c.Request().Context(), uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
    }
    views := make([]bookingView, 0, len(list))
    for i := range list {
        views = append(views, viewBooking(&list[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": views})
}
