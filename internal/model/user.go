package model

import "time"

// User mirrors the 'users' table.  Only the booking service consults
// it, and only to validate a booking's owner.
type User struct {
    ID           uint64
    Email        string
    FirstName    string
    LastName     string
    PasswordHash string
    CreatedAt    time.Time
}
