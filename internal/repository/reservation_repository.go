package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/mkoberg/restaurant-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations and the
// append-only cancellation history. A reservation occupies exactly one
// slot, the (date, time, table_id) triple, and the schema enforces the
// no-double-booking invariant with a unique key on that triple. All
// timestamp columns are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = "id, guest_name, `date`, `time`, party_size, table_id, status, created_at, confirmed_at"

// scanReservation reads one row into a model.Reservation. confirmed_at
// is nullable and mapped to a nil pointer when absent.
func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	var status string
	var confirmedAt sql.NullTime
	if err := row.Scan(&res.ID, &res.GuestName, &res.Date, &res.Time, &res.PartySize,
		&res.TableID, &status, &res.CreatedAt, &confirmedAt); err != nil {
		return nil, err
	}
	res.Status = model.ReservationStatus(status)
	if confirmedAt.Valid {
		t := confirmedAt.Time
		res.ConfirmedAt = &t
	}
	return &res, nil
}

// isDuplicateSlot reports whether the error is a MySQL duplicate-key
// violation (error 1062), raised by the uq_slot unique key when a
// second reservation targets an occupied slot.
func isDuplicateSlot(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// Insert stores a new reservation. The status defaults to PENDING and
// created_at defaults to the current time in the database. On success
// the generated id, status and timestamps are populated on the provided
// record. When the slot is already occupied the unique key rejects the
// insert and ErrSlotTaken is returned; this is what makes the booking
// engine's check-then-insert sequence safe under concurrency.
func (r *ReservationRepo) Insert(ctx context.Context, res *model.Reservation) error {
	const q = "INSERT INTO reservations (guest_name, `date`, `time`, party_size, table_id) VALUES (?, ?, ?, ?, ?)"
	result, err := r.db.ExecContext(ctx, q, res.GuestName, res.Date, res.Time, res.PartySize, res.TableID)
	if err != nil {
		if isDuplicateSlot(err) {
			return ErrSlotTaken
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = id
	// Query back the full row to populate status and timestamps
	sel := "SELECT " + reservationColumns + " FROM reservations WHERE id = ?"
	stored, err := scanReservation(r.db.QueryRowContext(ctx, sel, res.ID))
	if err != nil {
		return err
	}
	*res = *stored
	return nil
}

// GetByID returns a single reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id int64) (*model.Reservation, error) {
	q := "SELECT " + reservationColumns + " FROM reservations WHERE id = ?"
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// FindConflict returns the live reservation occupying the exact
// (date, time, table) slot, or nil when the slot is free. Matching is
// on the exact triple; seating-duration overlap is deliberately not
// considered.
func (r *ReservationRepo) FindConflict(ctx context.Context, date, timeOfDay string, tableID int64) (*model.Reservation, error) {
	q := "SELECT " + reservationColumns + " FROM reservations WHERE `date` = ? AND `time` = ? AND table_id = ? LIMIT 1"
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, date, timeOfDay, tableID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

// Remove deletes the reservation and appends a cancellation history
// entry as a single transaction: either both happen or neither. It
// returns ErrReservationNotFound when the id does not exist, in which
// case no history entry is written.
func (r *ReservationRepo) Remove(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReservationNotFound
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cancellations (reservation_id, cancelled_at) VALUES (?, UTC_TIMESTAMP())`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListAll returns every live reservation ordered by date then time.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
	q := "SELECT " + reservationColumns + " FROM reservations ORDER BY `date`, `time`"
	return r.queryReservations(ctx, q)
}

// ListForTable returns all reservations for one table ordered by date
// then time.
func (r *ReservationRepo) ListForTable(ctx context.Context, tableID int64) ([]model.Reservation, error) {
	q := "SELECT " + reservationColumns + " FROM reservations WHERE table_id = ? ORDER BY `date`, `time`"
	return r.queryReservations(ctx, q, tableID)
}

func (r *ReservationRepo) queryReservations(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus sets the reservation status. The first time the status
// leaves PENDING, confirmed_at is stamped with the current time; the
// stamp is never moved afterwards, so re-applying a non-pending status
// is idempotent with respect to the timestamp. The prior status is read
// FOR UPDATE inside a transaction so two concurrent transitions cannot
// both stamp the column.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id int64, status model.ReservationStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var prior string
	err = tx.QueryRowContext(ctx, `SELECT status FROM reservations WHERE id = ? FOR UPDATE`, id).Scan(&prior)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReservationNotFound
		}
		return err
	}
	if prior == string(model.StatusPending) && status != model.StatusPending {
		_, err = tx.ExecContext(ctx,
			`UPDATE reservations SET status = ?, confirmed_at = COALESCE(confirmed_at, UTC_TIMESTAMP()) WHERE id = ?`,
			string(status), id)
	} else {
		_, err = tx.ExecContext(ctx, `UPDATE reservations SET status = ? WHERE id = ?`, string(status), id)
	}
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ExistsForTable reports whether any live reservation, regardless of
// status, references the given table. Used as the table-deletion guard.
func (r *ReservationRepo) ExistsForTable(ctx context.Context, tableID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM reservations WHERE table_id = ?)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, tableID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// BookedTableIDs returns the ids of all tables already booked for the
// given date and time. Used to flag taken tables in availability
// listings without one query per table.
func (r *ReservationRepo) BookedTableIDs(ctx context.Context, date, timeOfDay string) ([]int64, error) {
	const q = "SELECT table_id FROM reservations WHERE `date` = ? AND `time` = ?"
	rows, err := r.db.QueryContext(ctx, q, date, timeOfDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListCancellations returns the full cancellation history, oldest first.
func (r *ReservationRepo) ListCancellations(ctx context.Context) ([]model.Cancellation, error) {
	const q = `SELECT id, reservation_id, cancelled_at FROM cancellations ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Cancellation, 0)
	for rows.Next() {
		var c model.Cancellation
		if err := rows.Scan(&c.ID, &c.ReservationID, &c.CancelledAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountReservations counts all live reservations.
func (r *ReservationRepo) CountReservations(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `SELECT COUNT(*) FROM reservations`)
}

// CountCancellations counts the cancellation history entries.
func (r *ReservationRepo) CountCancellations(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `SELECT COUNT(*) FROM cancellations`)
}

// CountByStatus counts live reservations carrying the given status.
func (r *ReservationRepo) CountByStatus(ctx context.Context, status model.ReservationStatus) (int, error) {
	const q = `SELECT COUNT(*) FROM reservations WHERE status = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, string(status)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *ReservationRepo) countQuery(ctx context.Context, q string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
