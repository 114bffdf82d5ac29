package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Movie is read-only reference data for scheduling: what can be shown, not
// where or when. Duration feeds the show overlap check.
type Movie struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	DurationMin uint32 `json:"duration"`
}

// MovieRepo manages persistence for the movie catalog.
type MovieRepo struct{ db *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// List returns the full catalog ordered by title. An empty catalog yields an
// empty slice and nil error.
func (r *MovieRepo) List(ctx context.Context) ([]Movie, error) {
	const q = `SELECT id, title, genre, duration_min FROM movies ORDER BY title ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []Movie{}
	for rows.Next() {
		var m Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Genre, &m.DurationMin); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a movie, returning ErrMovieNotFound when absent.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*Movie, error) {
	const q = `SELECT id, title, genre, duration_min FROM movies WHERE id = ? LIMIT 1`
	var m Movie
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Title, &m.Genre, &m.DurationMin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Create inserts a movie and assigns the generated ID.
func (r *MovieRepo) Create(ctx context.Context, m *Movie) error {
	const q = `INSERT INTO movies (title, genre, duration_min) VALUES (?,?,?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Genre, m.DurationMin)
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

// Update rewrites title, genre and duration for an existing movie.
func (r *MovieRepo) Update(ctx context.Context, m *Movie) error {
	const q = `UPDATE movies SET title = ?, genre = ?, duration_min = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Genre, m.DurationMin, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ? LIMIT 1`, m.ID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMovieNotFound
		}
		return err
	}
	return nil
}

// Delete removes a movie by id, returning ErrMovieNotFound when absent.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
