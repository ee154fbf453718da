package model

import "time"

// Theatre is read-only catalog reference data.  TotalSeats describes
// capacity for display purposes; the authoritative per-show layout is
// materialized by the inventory.
type Theatre struct {
    ID         uint64
    Name       string
    City       string
    Address    string
    TotalSeats uint32
    CreatedAt  time.Time
}
