package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/ticket-inventory/internal/model"
)

// MovieRepo provides access to the 'movies' table.  Movies are
// read-mostly reference data consumed by catalog browsing.
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

// Create inserts a movie and populates the generated ID on the record.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO movies (title, description, duration_min, genre, rating, poster_url, release_date)
         VALUES (?,?,?,?,?,?,?)`,
        m.Title, m.Description, m.DurationMin, m.Genre, m.Rating, m.PosterURL,
        m.ReleaseDate.UTC().Format("2006-01-02"))
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    m.ID = uint64(id)
    return nil
}

// GetByID fetches a movie by id.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
    var m model.Movie
    var poster sql.NullString
    err := r.DB.QueryRowContext(ctx,
        `SELECT id, title, description, duration_min, genre, rating, poster_url, release_date, created_at
         FROM movies WHERE id = ?`, id).
        Scan(&m.ID, &m.Title, &m.Description, &m.DurationMin, &m.Genre, &m.Rating, &poster, &m.ReleaseDate, &m.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Movie{}, ErrMovieNotFound
    }
    if err != nil {
        return model.Movie{}, err
    }
    if poster.Valid {
        p := poster.String
        m.PosterURL = &p
    }
    return m, nil
}

// List returns movies ordered by id with simple offset pagination.
func (r *MovieRepo) List(ctx context.Context, offset, limit int) ([]model.Movie, error) {
    if limit <= 0 || limit > 100 {
        limit = 100
    }
    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, title, description, duration_min, genre, rating, poster_url, release_date, created_at
         FROM movies ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    movies := make([]model.Movie, 0)
    for rows.Next() {
        var m model.Movie
        var poster sql.NullString
        if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.DurationMin, &m.Genre, &m.Rating, &poster, &m.ReleaseDate, &m.CreatedAt); err != nil {
            return nil, err
        }
        if poster.Valid {
            p := poster.String
            m.PosterURL = &p
        }
        movies = append(movies, m)
    }
    return movies, rows.Err()
}
