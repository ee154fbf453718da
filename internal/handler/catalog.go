package handler

import (
    "context"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/ticket-inventory/internal/model"
    "github.com/iliyamo/ticket-inventory/internal/repository"
)

// CatalogHandler serves the movie and theatre reference data.  These
// endpoints exist so shows have something to point at; the interesting
// state lives in the seat inventory.
type CatalogHandler struct {
    Movies   *repository.MovieRepo
    Theatres *repository.TheatreRepo
}

func NewCatalogHandler(m *repository.MovieRepo, t *repository.TheatreRepo) *CatalogHandler {
    return &CatalogHandler{Movies: m, Theatres: t}
}

type createMovieReq struct {
    Title       string  `json:"title"`
    Description string  `json:"description"`
    DurationMin uint32  `json:"duration_min"`
    Genre       string  `json:"genre"`
    Rating      string  `json:"rating"`
    PosterURL   *string `json:"poster_url"`
    ReleaseDate string  `json:"release_date"` // YYYY-MM-DD
}

type createTheatreReq struct {
    Name       string `json:"name"`
    City       string `json:"city"`
    Address    string `json:"address"`
    TotalSeats uint32 `json:"total_seats"`
}

// CreateMovie inserts a new movie.
func (h *CatalogHandler) CreateMovie(c echo.Context) error {
    var req createMovieReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Title = strings.TrimSpace(req.Title)
    if req.Title == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
    }
    release, err := time.Parse("2006-01-02", req.ReleaseDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "release_date must be YYYY-MM-DD"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    m := model.Movie{
        Title:       req.Title,
        Description: req.Description,
        DurationMin: req.DurationMin,
        Genre:       req.Genre,
        Rating:      req.Rating,
        PosterURL:   req.PosterURL,
        ReleaseDate: release,
    }
    if err := h.Movies.Create(ctx, &m); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
    }
    return c.JSON(http.StatusCreated, m)
}

// GetMovie returns one movie by ID.
func (h *CatalogHandler) GetMovie(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    m, err := h.Movies.GetByID(ctx, id)
    if err != nil {
        return writeDomainError(c, err)
    }
    return c.JSON(http.StatusOK, m)
}

// ListMovies returns a page of movies.  ?offset= and ?limit= control
// paging; limit is capped by the repository.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
    offset, _ := strconv.Atoi(c.QueryParam("offset"))
    limit, _ := strconv.Atoi(c.QueryParam("limit"))
    if limit <= 0 {
        limit = 20
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    movies, err := h.Movies.List(ctx, offset, limit)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list movies failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}

// CreateTheatre inserts a new theatre.
func (h *CatalogHandler) CreateTheatre(c echo.Context) error {
    var req createTheatreReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    req.City = strings.TrimSpace(req.City)
    if req.Name == "" || req.City == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/city required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    t := model.Theatre{
        Name:       req.Name,
        City:       req.City,
        Address:    req.Address,
        TotalSeats: req.TotalSeats,
    }
    if err := h.Theatres.Create(ctx, &t); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create theatre failed"})
    }
    return c.JSON(http.StatusCreated, t)
}

// ListTheatres returns theatres, optionally filtered with ?city=.
func (h *CatalogHandler) ListTheatres(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    theatres, err := h.Theatres.ListByCity(ctx, strings.TrimSpace(c.QueryParam("city")))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list theatres failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"theatres": theatres})
}
