package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Theater represents a venue owned by a single OWNER user. Amenities are
// free-form labels ("IMAX", "parking") stored as a comma-separated column.
type Theater struct {
	ID        uint64   `json:"id"`
	OwnerID   uint64   `json:"-"`
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	Amenities []string `json:"amenities"`
}

// TheaterRepo manages persistence for theaters.
type TheaterRepo struct{ db *sql.DB }

func NewTheaterRepo(db *sql.DB) *TheaterRepo { return &TheaterRepo{db: db} }

// Create inserts a theater for an owner. One theater per owner is enforced
// by a unique index on owner_id; a duplicate insert maps to ErrTheaterExists.
func (r *TheaterRepo) Create(ctx context.Context, t *Theater) error {
	const q = `INSERT INTO theaters (owner_id, name, location, amenities) VALUES (?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, t.OwnerID, t.Name, t.Location, joinAmenities(t.Amenities))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrTheaterExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByOwner returns the single theater affiliated with the given owner.
func (r *TheaterRepo) GetByOwner(ctx context.Context, ownerID uint64) (*Theater, error) {
	const q = `SELECT id, owner_id, name, location, amenities FROM theaters WHERE owner_id = ? LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, q, ownerID))
}

// GetByID returns a theater by primary key.
func (r *TheaterRepo) GetByID(ctx context.Context, id uint64) (*Theater, error) {
	const q = `SELECT id, owner_id, name, location, amenities FROM theaters WHERE id = ? LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// Update modifies name, location and amenities of an owner's theater.
// Returns ErrTheaterNotFound when the row does not exist or belongs to a
// different owner.
func (r *TheaterRepo) Update(ctx context.Context, t *Theater) error {
	const q = `UPDATE theaters SET name = ?, location = ?, amenities = ? WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Location, joinAmenities(t.Amenities), t.ID, t.OwnerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// distinguish "missing" from "unchanged values"
		var one int
		err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM theaters WHERE id = ? AND owner_id = ? LIMIT 1`, t.ID, t.OwnerID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTheaterNotFound
		}
		return err
	}
	return nil
}

func (r *TheaterRepo) scanOne(row *sql.Row) (*Theater, error) {
	var (
		t   Theater
		csv string
	)
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Name, &t.Location, &csv); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTheaterNotFound
		}
		return nil, err
	}
	t.Amenities = splitAmenities(csv)
	return &t, nil
}

func joinAmenities(a []string) string {
	out := make([]string, 0, len(a))
	for _, s := range a {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, ",")
}

func splitAmenities(csv string) []string {
	out := []string{}
	for _, s := range strings.Split(csv, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
