// Package repository provides MySQL data access for the reference
// collaborators of the reservation engine: users and the catalog
// (movies, theatres, shows).  This file defines sentinel errors shared
// across the repositories so that services and handlers can translate
// failures without string matching.
package repository

import "errors"

// ErrUserNotFound is returned when no user matches the given email or ID.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when registering an email that is already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrMovieNotFound is returned when no movie matches the given ID.
var ErrMovieNotFound = errors.New("movie not found")

// ErrTheatreNotFound is returned when no theatre matches the given ID.
var ErrTheatreNotFound = errors.New("theatre not found")

// ErrShowNotFound is returned when no show matches the given ID.
var ErrShowNotFound = errors.New("show not found")
