package model

import "time"

// Show represents a scheduled screening of a movie in a theatre.  Every
// show gets a fixed 5x20 seat layout materialized in the inventory at
// creation time.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being screened.
//  TheatreID  – theatre where the screening takes place.
//  ShowDate   – calendar date of the screening.
//  ShowTime   – start time in "15:04" form.
//  PriceCents – per-seat price in cents; booking totals derive from it.
//  CreatedAt  – creation timestamp.
type Show struct {
    ID         uint64
    MovieID    uint64
    TheatreID  uint64
    ShowDate   time.Time
    ShowTime   string
    PriceCents uint32
    CreatedAt  time.Time
}
