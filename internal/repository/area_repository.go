package repository

import (
	"context"
	"database/sql"

	"table-reservation-service/internal/model"
)

// AreaRepo reads the venue's area definitions.  Areas are static
// reference data: four rows loaded once at startup and treated as
// immutable for the lifetime of the process.
type AreaRepo struct {
	db *sql.DB
}

// NewAreaRepo returns a new AreaRepo bound to the given database.
func NewAreaRepo(db *sql.DB) *AreaRepo { return &AreaRepo{db: db} }

// ListAll returns every configured area ordered by primary key.
func (r *AreaRepo) ListAll(ctx context.Context) ([]model.Area, error) {
	const q = `SELECT id, area_key, name, capacity, allows_children, allows_smoking, max_guests
               FROM areas ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	areas := make([]model.Area, 0, 4)
	for rows.Next() {
		var a model.Area
		if err := rows.Scan(&a.ID, &a.Key, &a.Name, &a.Capacity, &a.AllowsChildren, &a.AllowsSmoking, &a.MaxGuests); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return areas, nil
}
