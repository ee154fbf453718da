package handler

import (
    "fmt"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/ticket-inventory/internal/inventory"
    "github.com/iliyamo/ticket-inventory/internal/lock"
    "github.com/iliyamo/ticket-inventory/internal/model"
)

// SeatHandler exposes the live seat map and the hold lifecycle.
type SeatHandler struct {
    Inv   *inventory.Store
    Locks *lock.Manager
}

func NewSeatHandler(inv *inventory.Store, locks *lock.Manager) *SeatHandler {
    return &SeatHandler{Inv: inv, Locks: locks}
}

type seatView struct {
    ID            uint64     `json:"id"`
    Label         string     `json:"label"`
    Status        string     `json:"status"`
    HoldExpiresAt *time.Time `json:"hold_expires_at,omitempty"`
}

type holdReq struct {
    SeatIDs     []uint64 `json:"seat_ids"`
    HolderToken string   `json:"holder_token"`
}

type releaseReq struct {
    SeatIDs []uint64 `json:"seat_ids"`
}

// List returns the seat map for a show.  Expired holds are reclaimed
// first so callers always see FREE for a seat whose hold lapsed, even
// if the background sweeper has not come around yet.
func (h *SeatHandler) List(c echo.Context) error {
    showID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    if _, err := h.Locks.SweepExpired(ctx, showID); err != nil {
        return writeDomainError(c, err)
    }
    seats, err := h.Inv.ListSeats(ctx, showID)
    if err != nil {
        return writeDomainError(c, err)
    }

    views := make([]seatView, 0, len(seats))
    for _, s := range seats {
        v := seatView{
            ID:     s.ID,
            Label:  fmt.Sprintf("%s%d", s.RowLabel, s.SeatNumber),
            Status: string(s.Status),
        }
        if s.Status == model.SeatHeld {
            v.HoldExpiresAt = s.HoldExpiresAt
        }
        views = append(views, v)
    }
    return c.JSON(http.StatusOK, echo.Map{"show_id": showID, "seats": views})
}

// Hold places a TTL hold on a batch of seats for one holder token.
// All requested seats are granted or none are.
func (h *SeatHandler) Hold(c echo.Context) error {
    showID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req holdReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    res, err := h.Locks.AcquireHold(c.Request().Context(), showID, req.SeatIDs, req.HolderToken)
    if err != nil {
        return writeDomainError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "show_id":    showID,
        "seat_ids":   res.SeatIDs,
        "expires_at": res.ExpiresAt,
    })
}

// Release drops holds early.  Releasing a free or booked seat is a
// no-op, so retries are safe.
func (h *SeatHandler) Release(c echo.Context) error {
    showID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req releaseReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    if err := h.Locks.ReleaseHold(c.Request().Context(), showID, req.SeatIDs); err != nil {
        return writeDomainError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
