// Package inventory owns the per-show seat tables and the bulk
// transition primitive every higher operation relies on.  This file
// defines the sentinel errors shared by the package so that handlers
// and services can distinguish failure scenarios with errors.Is and
// errors.As.
package inventory

import (
    "errors"
    "fmt"
)

// ErrShowNotFound is returned when the requested show has no
// materialized inventory.
var ErrShowNotFound = errors.New("show inventory not found")

// ErrSeatNotFound is returned when a seat ID does not belong to the
// show it was requested against.
var ErrSeatNotFound = errors.New("seat does not belong to show")

// ErrNoSeats is returned when an operation is invoked with an empty
// seat set.
var ErrNoSeats = errors.New("seat set must not be empty")

// ErrAlreadyMaterialized is returned when Materialize is called twice
// for the same show.  Seat layouts are allocated exactly once.
var ErrAlreadyMaterialized = errors.New("show inventory already materialized")

// ErrBusy is returned when the per-show critical section could not be
// entered within the acquisition timeout.  The operation did not run;
// callers may retry.
var ErrBusy = errors.New("inventory busy, retry")

// AvailabilityError reports a failed all-or-nothing transition: at
// least one requested seat did not satisfy the eligibility predicate,
// so no seat was modified.
type AvailabilityError struct {
    Requested int      // number of seats requested
    Eligible  int      // number of seats that satisfied the predicate
    SeatIDs   []uint64 // the ineligible seat IDs
}

func (e *AvailabilityError) Error() string {
    return fmt.Sprintf("%d of %d requested seats unavailable", e.Requested-e.Eligible, e.Requested)
}
