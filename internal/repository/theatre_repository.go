package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/ticket-inventory/internal/model"
)

// TheatreRepo provides access to the 'theatres' table.
type TheatreRepo struct{ DB *sql.DB }

func NewTheatreRepo(db *sql.DB) *TheatreRepo { return &TheatreRepo{DB: db} }

// Create inserts a theatre and populates the generated ID on the record.
func (r *TheatreRepo) Create(ctx context.Context, t *model.Theatre) error {
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO theatres (name, city, address, total_seats) VALUES (?,?,?,?)",
        t.Name, t.City, t.Address, t.TotalSeats)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    return nil
}

// GetByID fetches a theatre by id.
func (r *TheatreRepo) GetByID(ctx context.Context, id uint64) (model.Theatre, error) {
    var t model.Theatre
    err := r.DB.QueryRowContext(ctx,
        "SELECT id, name, city, address, total_seats, created_at FROM theatres WHERE id = ?", id).
        Scan(&t.ID, &t.Name, &t.City, &t.Address, &t.TotalSeats, &t.CreatedAt)
    if err == sql.ErrNoRows {
        return model.Theatre{}, ErrTheatreNotFound
    }
    return t, err
}

// ListByCity returns all theatres in a city ordered by name.
func (r *TheatreRepo) ListByCity(ctx context.Context, city string) ([]model.Theatre, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT id, name, city, address, total_seats, created_at FROM theatres WHERE city = ? ORDER BY name", city)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    theatres := make([]model.Theatre, 0)
    for rows.Next() {
        var t model.Theatre
        if err := rows.Scan(&t.ID, &t.Name, &t.City, &t.Address, &t.TotalSeats, &t.CreatedAt); err != nil {
            return nil, err
        }
        theatres = append(theatres, t)
    }
    return theatres, rows.Err()
}
