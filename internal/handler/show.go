package handler

import (
    "context"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/ticket-inventory/internal/inventory"
    "github.com/iliyamo/ticket-inventory/internal/model"
    "github.com/iliyamo/ticket-inventory/internal/repository"
)

// ShowHandler creates and lists shows.  Creating a show also
// materializes its seat layout in the inventory, so seats are holdable
// the moment the show exists.
type ShowHandler struct {
    Shows    *repository.ShowRepo
    Movies   *repository.MovieRepo
    Theatres *repository.TheatreRepo
    Inv      *inventory.Store
}

func NewShowHandler(s *repository.ShowRepo, m *repository.MovieRepo, t *repository.TheatreRepo, inv *inventory.Store) *ShowHandler {
    return &ShowHandler{Shows: s, Movies: m, Theatres: t, Inv: inv}
}

type createShowReq struct {
    MovieID    uint64 `json:"movie_id"`
    TheatreID  uint64 `json:"theatre_id"`
    ShowDate   string `json:"show_date"` // YYYY-MM-DD
    ShowTime   string `json:"show_time"` // HH:MM
    PriceCents uint32 `json:"price_cents"`
}

// Create inserts a show and materializes its 100-seat layout.
func (h *ShowHandler) Create(c echo.Context) error {
    var req createShowReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    date, err := time.Parse("2006-01-02", req.ShowDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_date must be YYYY-MM-DD"})
    }
    if _, err := time.Parse("15:04", req.ShowTime); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_time must be HH:MM"})
    }
    if req.PriceCents == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_cents required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    // Validate the references so a show can never dangle.
    if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
        return writeDomainError(c, err)
    }
    if _, err := h.Theatres.GetByID(ctx, req.TheatreID); err != nil {
        return writeDomainError(c, err)
    }

    s := model.Show{
        MovieID:    req.MovieID,
        TheatreID:  req.TheatreID,
        ShowDate:   date,
        ShowTime:   req.ShowTime,
        PriceCents: req.PriceCents,
    }
    if err := h.Shows.Create(ctx, &s); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create show failed"})
    }
    if err := h.Inv.Materialize(s.ID); err != nil {
        return writeDomainError(c, err)
    }
    return c.JSON(http.StatusCreated, s)
}

// Get returns one show by ID.
func (h *ShowHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    s, err := h.Shows.GetByID(ctx, id)
    if err != nil {
        return writeDomainError(c, err)
    }
    return c.JSON(http.StatusOK, s)
}

// ListForMovie returns the shows of one movie, optionally filtered
// with ?city= and ?date=.
func (h *ShowHandler) ListForMovie(c echo.Context) error {
    movieID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Movies.GetByID(ctx, movieID); err != nil {
        return writeDomainError(c, err)
    }
    shows, err := h.Shows.ListByMovie(ctx, movieID, strings.TrimSpace(c.QueryParam("city")), strings.TrimSpace(c.QueryParam("date")))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list shows failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"shows": shows})
}

// List returns shows filtered with ?movie_id=, ?city= and ?date=.
func (h *ShowHandler) List(c echo.Context) error {
    movieID, _ := strconv.ParseUint(c.QueryParam("movie_id"), 10, 64)
    city := strings.TrimSpace(c.QueryParam("city"))
    date := strings.TrimSpace(c.QueryParam("date"))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    shows, err := h.Shows.ListByMovie(ctx, movieID, city, date)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list shows failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"shows": shows})
}
