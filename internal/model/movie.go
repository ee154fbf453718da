package model

import "time"

// Movie is read-only catalog reference data.
type Movie struct {
    ID          uint64
    Title       string
    Description string
    DurationMin uint32
    Genre       string
    Rating      string
    PosterURL   *string
    ReleaseDate time.Time
    CreatedAt   time.Time
}
