package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// MovieSummary is the slice of movie data embedded in show listings.
type MovieSummary struct {
	Title string `json:"title"`
	Genre string `json:"genre"`
}

// TheaterSummary is the slice of theater data embedded in show listings.
type TheaterSummary struct {
	Name string `json:"name"`
}

// Show is a scheduled screening of a movie at a theater. A show occupies the
// interval [StartTime, StartTime + movie duration); the overlap queries below
// derive the end from the movies table rather than storing it.
type Show struct {
	ID         uint64          `json:"id"`
	TheaterID  uint64          `json:"theaterId"`
	MovieID    uint64          `json:"movieId"`
	StartTime  time.Time       `json:"startTime"`
	BasePrice  float64         `json:"basePrice"`
	TotalSeats uint32          `json:"totalSeats"`
	CreatedAt  time.Time       `json:"-"`
	Movie      *MovieSummary   `json:"movie,omitempty"`
	Theater    *TheaterSummary `json:"theater,omitempty"`
}

// ShowRepo manages persistence for shows.
type ShowRepo struct{ db *sql.DB }

func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// Create inserts a new show and assigns the generated ID plus DB defaults
// back onto the struct.
func (r *ShowRepo) Create(ctx context.Context, s *Show) error {
	const q = `INSERT INTO shows (theater_id, movie_id, starts_at, base_price, total_seats) VALUES (?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, s.TheaterID, s.MovieID, s.StartTime.UTC(), s.BasePrice, s.TotalSeats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT id, theater_id, movie_id, starts_at, base_price, total_seats, created_at FROM shows WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, s.ID).Scan(
		&s.ID, &s.TheaterID, &s.MovieID, &s.StartTime, &s.BasePrice, &s.TotalSeats, &s.CreatedAt,
	)
}

// GetByID retrieves a show with its embedded movie and theater summaries.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*Show, error) {
	const q = `SELECT s.id, s.theater_id, s.movie_id, s.starts_at, s.base_price, s.total_seats, s.created_at,
                      m.title, m.genre, t.name
               FROM shows s
               JOIN movies m ON m.id = s.movie_id
               JOIN theaters t ON t.id = s.theater_id
               WHERE s.id = ?`
	var (
		s  Show
		ms MovieSummary
		ts TheaterSummary
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.TheaterID, &s.MovieID, &s.StartTime, &s.BasePrice, &s.TotalSeats, &s.CreatedAt,
		&ms.Title, &ms.Genre, &ts.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	s.Movie, s.Theater = &ms, &ts
	return &s, nil
}

// ListByTheater returns all shows scheduled at a theater ordered by start
// time, each carrying its movie and theater summaries. No shows yields an
// empty slice and nil error.
func (r *ShowRepo) ListByTheater(ctx context.Context, theaterID uint64) ([]Show, error) {
	const q = `SELECT s.id, s.theater_id, s.movie_id, s.starts_at, s.base_price, s.total_seats, s.created_at,
                      m.title, m.genre, t.name
               FROM shows s
               JOIN movies m ON m.id = s.movie_id
               JOIN theaters t ON t.id = s.theater_id
               WHERE s.theater_id = ?
               ORDER BY s.starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []Show{}
	for rows.Next() {
		var (
			s  Show
			ms MovieSummary
			ts TheaterSummary
		)
		if err := rows.Scan(
			&s.ID, &s.TheaterID, &s.MovieID, &s.StartTime, &s.BasePrice, &s.TotalSeats, &s.CreatedAt,
			&ms.Title, &ms.Genre, &ts.Name,
		); err != nil {
			return nil, err
		}
		s.Movie, s.Theater = &ms, &ts
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// FindOverlapping returns shows at the theater whose screening interval
// intersects [start, end). A show's interval ends at starts_at plus its
// movie's duration.
func (r *ShowRepo) FindOverlapping(ctx context.Context, theaterID uint64, start, end time.Time) ([]Show, error) {
	const q = `SELECT s.id, s.theater_id, s.movie_id, s.starts_at, s.base_price, s.total_seats, s.created_at,
                      m.title, m.genre, t.name
               FROM shows s
               JOIN movies m ON m.id = s.movie_id
               JOIN theaters t ON t.id = s.theater_id
               WHERE s.theater_id = ?
                 AND NOT (DATE_ADD(s.starts_at, INTERVAL m.duration_min MINUTE) <= ? OR s.starts_at >= ?)`
	rows, err := r.db.QueryContext(ctx, q, theaterID, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var overlaps []Show
	for rows.Next() {
		var (
			s  Show
			ms MovieSummary
			ts TheaterSummary
		)
		if err := rows.Scan(
			&s.ID, &s.TheaterID, &s.MovieID, &s.StartTime, &s.BasePrice, &s.TotalSeats, &s.CreatedAt,
			&ms.Title, &ms.Genre, &ts.Name,
		); err != nil {
			return nil, err
		}
		s.Movie, s.Theater = &ms, &ts
		overlaps = append(overlaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return overlaps, nil
}

// DeleteByIDAndOwner removes a show when it belongs to the owner's theater.
func (r *ShowRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	const q = `DELETE s FROM shows s
               JOIN theaters t ON t.id = s.theater_id
               WHERE s.id = ? AND t.owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShowNotFound
	}
	return nil
}
