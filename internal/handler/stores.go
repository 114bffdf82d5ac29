// Package handler implements the HTTP handlers of the booking API.
package handler

import (
	"context"
	"time"

	"github.com/cinepass/movie-booking/internal/queue"
	"github.com/cinepass/movie-booking/internal/repository"
)

// Handlers depend on narrow store interfaces rather than concrete
// repositories so tests can substitute in-memory fakes. The repository
// package satisfies all of them.

// TheaterStore persists theaters.
type TheaterStore interface {
	GetByOwner(ctx context.Context, ownerID uint64) (*repository.Theater, error)
	Create(ctx context.Context, t *repository.Theater) error
	Update(ctx context.Context, t *repository.Theater) error
}

// ShowStore persists shows.
type ShowStore interface {
	ListByTheater(ctx context.Context, theaterID uint64) ([]repository.Show, error)
	FindOverlapping(ctx context.Context, theaterID uint64, start, end time.Time) ([]repository.Show, error)
	Create(ctx context.Context, s *repository.Show) error
	GetByID(ctx context.Context, id uint64) (*repository.Show, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error
}

// MovieStore persists the movie catalog.
type MovieStore interface {
	List(ctx context.Context) ([]repository.Movie, error)
	GetByID(ctx context.Context, id uint64) (*repository.Movie, error)
	Create(ctx context.Context, m *repository.Movie) error
	Update(ctx context.Context, m *repository.Movie) error
	Delete(ctx context.Context, id uint64) error
}

// EventPublisher pushes a domain event to the broker. Failures are advisory.
type EventPublisher func(ctx context.Context, ev queue.ShowScheduledEvent) error
