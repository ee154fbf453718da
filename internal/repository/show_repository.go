package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/ticket-inventory/internal/model"
)

// ShowRepo provides access to the 'shows' table.  The engine consults
// it for seat pricing; the HTTP layer uses it for catalog browsing and
// show creation.
type ShowRepo struct{ DB *sql.DB }

func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{DB: db} }

// Create inserts a show and populates the generated ID on the record.
// Seat materialization is the caller's responsibility: the inventory
// allocates the layout once the ID is known.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO shows (movie_id, theatre_id, show_date, show_time, price_cents) VALUES (?,?,?,?,?)",
        s.MovieID, s.TheatreID, s.ShowDate.UTC().Format("2006-01-02"), s.ShowTime, s.PriceCents)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    return nil
}

// GetByID fetches a show by id.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (model.Show, error) {
    var s model.Show
    err := r.DB.QueryRowContext(ctx,
        "SELECT id, movie_id, theatre_id, show_date, show_time, price_cents, created_at FROM shows WHERE id = ?", id).
        Scan(&s.ID, &s.MovieID, &s.TheatreID, &s.ShowDate, &s.ShowTime, &s.PriceCents, &s.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Show{}, ErrShowNotFound
    }
    return s, err
}

// ListByMovie returns shows for a movie, optionally filtered by the
// theatre's city and/or the show date ("2006-01-02").
func (r *ShowRepo) ListByMovie(ctx context.Context, movieID uint64, city, date string) ([]model.Show, error) {
    query := `SELECT s.id, s.movie_id, s.theatre_id, s.show_date, s.show_time, s.price_cents, s.created_at
              FROM shows s JOIN theatres t ON t.id = s.theatre_id
              WHERE s.movie_id = ?`
    args := []interface{}{movieID}
    if city != "" {
        query += " AND t.city = ?"
        args = append(args, city)
    }
    if date != "" {
        query += " AND s.show_date = ?"
        args = append(args, date)
    }
    query += " ORDER BY s.show_date, s.show_time"
    rows, err := r.DB.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    shows := make([]model.Show, 0)
    for rows.Next() {
        var s model.Show
        if err := rows.Scan(&s.ID, &s.MovieID, &s.TheatreID, &s.ShowDate, &s.ShowTime, &s.PriceCents, &s.CreatedAt); err != nil {
            return nil, err
        }
        shows = append(shows, s)
    }
    return shows, rows.Err()
}

// ListIDs returns the IDs of every show.  The server uses it at
// startup to materialize seat inventory for shows already on record.
func (r *ShowRepo) ListIDs(ctx context.Context) ([]uint64, error) {
    rows, err := r.DB.QueryContext(ctx, "SELECT id FROM shows ORDER BY id")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var ids []uint64
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    return ids, rows.Err()
}
