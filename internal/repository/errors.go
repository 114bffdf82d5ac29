// Package repository contains the data access layer. Each repository wraps a
// *sql.DB handle and exposes context-aware CRUD methods; row absence is
// reported through the sentinel errors below so handlers can map them to
// HTTP statuses without string matching.
package repository

import "errors"

var (
	// ErrEmailExists indicates a duplicate email on user creation.
	ErrEmailExists = errors.New("email already exists")
	// ErrTheaterNotFound indicates no theater row matched the query.
	ErrTheaterNotFound = errors.New("theater not found")
	// ErrTheaterExists indicates the owner already has a theater.
	ErrTheaterExists = errors.New("theater already exists for owner")
	// ErrMovieNotFound indicates no movie row matched the query.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrShowNotFound indicates no show row matched the query.
	ErrShowNotFound = errors.New("show not found")
)
