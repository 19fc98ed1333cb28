package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel comparisons

	"github.com/mkoberg/restaurant-reservation/internal/model"
)

// TableRepo provides methods to create, update and retrieve restaurant
// tables. It embeds a database handle to perform queries and commands.
// The repository performs no business validation of its own; the
// booking service is expected to have validated inputs.
type TableRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sql.DB) *TableRepo {
	return &TableRepo{db: db}
}

// DB exposes the underlying handle so callers can open transactions
// spanning multiple repositories.
func (r *TableRepo) DB() *sql.DB { return r.db }

// List returns all tables ordered by id.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	const q = `SELECT id, name, seats, has_projector FROM tables ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Table, 0)
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.Name, &t.Seats, &t.HasProjector); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a single table. It returns ErrTableNotFound when no
// row with the given id exists.
func (r *TableRepo) GetByID(ctx context.Context, id int64) (*model.Table, error) {
	const q = `SELECT id, name, seats, has_projector FROM tables WHERE id = ?`
	var t model.Table
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Seats, &t.HasProjector)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create inserts a new table and populates the generated ID on the
// provided model.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const q = `INSERT INTO tables (name, seats, has_projector) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Seats, t.HasProjector)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// Update overwrites name, seats and projector flag for the table with
// the given id. Existence must be verified by the caller beforehand; an
// update that changes nothing reports zero affected rows on MySQL and
// cannot be distinguished from a missing row here.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	const q = `UPDATE tables SET name = ?, seats = ?, has_projector = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, t.Name, t.Seats, t.HasProjector, t.ID)
	return err
}

// Delete removes the table with the given id. It returns
// ErrTableNotFound when no row was deleted. The reservation-reference
// guard lives in the booking service, not here.
func (r *TableRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM tables WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTableNotFound
	}
	return nil
}

// Count returns the total number of tables. Used by the statistics
// aggregator for occupancy and by the seeder to detect an empty registry.
func (r *TableRepo) Count(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM tables`
	var n int
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
