package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/ticket-inventory/internal/booking"
    "github.com/iliyamo/ticket-inventory/internal/inventory"
    "github.com/iliyamo/ticket-inventory/internal/lock"
    "github.com/iliyamo/ticket-inventory/internal/payment"
    "github.com/iliyamo/ticket-inventory/internal/repository"
)

// pathID parses a numeric :id style path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}

// currentUserID extracts the authenticated user's ID set by the JWT
// middleware.  Numeric JWT claims decode as float64.
func currentUserID(c echo.Context) (uint64, bool) {
    switch v := c.Get("user_id").(type) {
    case float64:
        return uint64(v), true
    case uint64:
        return v, true
    case string:
        if n, err := strconv.ParseUint(v, 10, 64); err == nil {
            return n, true
        }
    }
    return 0, false
}

// writeDomainError maps engine and repository errors onto HTTP responses.
// Seat contention surfaces as 409 with the offending seat IDs so clients
// can re-render their seat map, and ErrBusy as a retryable 503.
func writeDomainError(c echo.Context, err error) error {
    var avail *inventory.AvailabilityError
    switch {
    case errors.As(err, &avail):
        return c.JSON(http.StatusConflict, echo.Map{
            "error":             "seats unavailable",
            "unavailable_seats": avail.SeatIDs,
            "requested":         avail.Requested,
            "eligible":          avail.Eligible,
        })
    case errors.Is(err, inventory.ErrBusy):
        c.Response().Header().Set("Retry-After", "1")
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "show busy, retry"})
    case errors.Is(err, booking.ErrHoldMismatch):
        return c.JSON(http.StatusConflict, echo.Map{"error": "seats held by another session"})
    case errors.Is(err, inventory.ErrShowNotFound),
        errors.Is(err, repository.ErrShowNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
    case errors.Is(err, inventory.ErrSeatNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
    case errors.Is(err, booking.ErrBookingNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    case errors.Is(err, payment.ErrPaymentNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
    case errors.Is(err, repository.ErrUserNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
    case errors.Is(err, repository.ErrMovieNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
    case errors.Is(err, repository.ErrTheatreNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "theatre not found"})
    case errors.Is(err, inventory.ErrNoSeats),
        errors.Is(err, lock.ErrTokenRequired),
        errors.Is(err, payment.ErrInvalidOutcome):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, booking.ErrNotPending),
        errors.Is(err, payment.ErrBookingNotPending),
        errors.Is(err, payment.ErrPaymentInFlight),
        errors.Is(err, payment.ErrAlreadyFinalized),
        errors.Is(err, inventory.ErrAlreadyMaterialized):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    }
    c.Logger().Errorf("internal error: %v", err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
