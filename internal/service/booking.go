// Package service implements the business rules of the reservation
// system: the booking engine and the statistics aggregator. Both sit
// between the HTTP handlers and the repositories and never touch the
// database directly; all storage access goes through the narrow store
// interfaces declared here, which the repository package satisfies.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mkoberg/restaurant-reservation/internal/model"
	"github.com/mkoberg/restaurant-reservation/internal/repository"
)

// ErrInvalidArgument is returned for malformed input: empty guest name,
// non-positive seats or party size, unparseable date or time.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrCapacityExceeded is returned when a party does not fit the target
// table.
var ErrCapacityExceeded = errors.New("party size exceeds table capacity")

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ReservationStore is the persistence surface the booking engine needs
// for reservations and the cancellation history.
type ReservationStore interface {
	Insert(ctx context.Context, res *model.Reservation) error
	GetByID(ctx context.Context, id int64) (*model.Reservation, error)
	FindConflict(ctx context.Context, date, timeOfDay string, tableID int64) (*model.Reservation, error)
	Remove(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]model.Reservation, error)
	ListForTable(ctx context.Context, tableID int64) ([]model.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status model.ReservationStatus) error
	ExistsForTable(ctx context.Context, tableID int64) (bool, error)
	BookedTableIDs(ctx context.Context, date, timeOfDay string) ([]int64, error)
}

// TableStore is the persistence surface for the table registry.
type TableStore interface {
	List(ctx context.Context) ([]model.Table, error)
	GetByID(ctx context.Context, id int64) (*model.Table, error)
	Create(ctx context.Context, t *model.Table) error
	Update(ctx context.Context, t *model.Table) error
	Delete(ctx context.Context, id int64) error
}

// BookingService is the booking engine. It validates requests, enforces
// the no-double-booking and capacity invariants, drives the status
// state machine and guards table deletion. It is the only writer to
// both stores.
type BookingService struct {
	reservations ReservationStore
	tables       TableStore
}

// NewBookingService constructs a BookingService and panics if a
// dependency is nil, mirroring process wiring errors early.
func NewBookingService(reservations ReservationStore, tables TableStore) *BookingService {
	if reservations == nil || tables == nil {
		panic("nil store passed to NewBookingService")
	}
	return &BookingService{reservations: reservations, tables: tables}
}

// validateSlot checks the date and time formats shared by booking and
// availability queries.
func validateSlot(date, timeOfDay string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidArgument)
	}
	if _, err := time.Parse(timeLayout, timeOfDay); err != nil {
		return fmt.Errorf("%w: time must be HH:MM", ErrInvalidArgument)
	}
	return nil
}

// CreateReservation books a table for a guest. Checks run in a fixed,
// documented order: input validation, table lookup, slot conflict, then
// capacity. The conflict check comes before the capacity check so that
// a taken slot is always reported as ErrSlotTaken, regardless of
// whether the party would have fit. No mutation happens on any failure
// path. The pre-check only produces the friendly error; the invariant
// itself is held by the store's conditional insert, which returns
// ErrSlotTaken when a concurrent booking wins the race.
func (s *BookingService) CreateReservation(ctx context.Context, guestName, date, timeOfDay string, partySize int, tableID int64) (*model.Reservation, error) {
	guestName = strings.TrimSpace(guestName)
	if guestName == "" {
		return nil, fmt.Errorf("%w: guest name is required", ErrInvalidArgument)
	}
	if partySize < 1 {
		return nil, fmt.Errorf("%w: party size must be at least 1", ErrInvalidArgument)
	}
	if err := validateSlot(date, timeOfDay); err != nil {
		return nil, err
	}
	table, err := s.tables.GetByID(ctx, tableID)
	if err != nil {
		return nil, err
	}
	conflict, err := s.reservations.FindConflict(ctx, date, timeOfDay, tableID)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, repository.ErrSlotTaken
	}
	if partySize > table.Seats {
		return nil, fmt.Errorf("%w: %d guests on a table with %d seats", ErrCapacityExceeded, partySize, table.Seats)
	}
	res := &model.Reservation{
		GuestName: guestName,
		Date:      date,
		Time:      timeOfDay,
		PartySize: partySize,
		TableID:   tableID,
	}
	if err := s.reservations.Insert(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// CancelReservation removes the reservation and records the
// cancellation in the history, atomically. Cancelling is not
// idempotent: a second call for the same id fails with
// ErrReservationNotFound.
func (s *BookingService) CancelReservation(ctx context.Context, id int64) error {
	return s.reservations.Remove(ctx, id)
}

// SetStatus applies a status transition. Any valid status may follow
// any other; only unknown status values and missing reservations are
// rejected. The first transition away from PENDING stamps the
// confirmation timestamp in the store.
func (s *BookingService) SetStatus(ctx context.Context, id int64, status model.ReservationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, status)
	}
	return s.reservations.UpdateStatus(ctx, id, status)
}

// GetReservation returns a single reservation by id.
func (s *BookingService) GetReservation(ctx context.Context, id int64) (*model.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

// ListReservations returns every live reservation ordered by date and time.
func (s *BookingService) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	return s.reservations.ListAll(ctx)
}

// ListReservationsForTable returns all reservations on one table.
func (s *BookingService) ListReservationsForTable(ctx context.Context, tableID int64) ([]model.Reservation, error) {
	if _, err := s.tables.GetByID(ctx, tableID); err != nil {
		return nil, err
	}
	return s.reservations.ListForTable(ctx, tableID)
}

// IsSlotTaken reports whether the exact (date, time, table) slot is
// already booked. Pure query; never mutates state.
func (s *BookingService) IsSlotTaken(ctx context.Context, date, timeOfDay string, tableID int64) (bool, error) {
	if err := validateSlot(date, timeOfDay); err != nil {
		return false, err
	}
	conflict, err := s.reservations.FindConflict(ctx, date, timeOfDay, tableID)
	if err != nil {
		return false, err
	}
	return conflict != nil, nil
}

// FindAvailableTables lists tables suitable for the party at the given
// slot. Tables with fewer seats than the party, or without a projector
// when one is required, are omitted entirely. Tables that pass the
// filter but are already booked for the slot are included with
// Taken=true so callers can render them while blocking selection.
func (s *BookingService) FindAvailableTables(ctx context.Context, date, timeOfDay string, partySize int, requireProjector bool) ([]model.TableAvailability, error) {
	if partySize < 1 {
		return nil, fmt.Errorf("%w: party size must be at least 1", ErrInvalidArgument)
	}
	if err := validateSlot(date, timeOfDay); err != nil {
		return nil, err
	}
	tables, err := s.tables.List(ctx)
	if err != nil {
		return nil, err
	}
	bookedIDs, err := s.reservations.BookedTableIDs(ctx, date, timeOfDay)
	if err != nil {
		return nil, err
	}
	booked := make(map[int64]struct{}, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = struct{}{}
	}
	out := make([]model.TableAvailability, 0, len(tables))
	for _, t := range tables {
		if t.Seats < partySize {
			continue
		}
		if requireProjector && !t.HasProjector {
			continue
		}
		_, taken := booked[t.ID]
		out = append(out, model.TableAvailability{Table: t, Taken: taken})
	}
	return out, nil
}

// ListTables returns all tables in the registry.
func (s *BookingService) ListTables(ctx context.Context) ([]model.Table, error) {
	return s.tables.List(ctx)
}

// GetTable returns a single table by id.
func (s *BookingService) GetTable(ctx context.Context, id int64) (*model.Table, error) {
	return s.tables.GetByID(ctx, id)
}

// AddTable registers a new table. The name must be non-empty and the
// seat count at least 1.
func (s *BookingService) AddTable(ctx context.Context, name string, seats int, hasProjector bool) (*model.Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: table name is required", ErrInvalidArgument)
	}
	if seats < 1 {
		return nil, fmt.Errorf("%w: seats must be at least 1", ErrInvalidArgument)
	}
	t := &model.Table{Name: name, Seats: seats, HasProjector: hasProjector}
	if err := s.tables.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTable overwrites a table's attributes. It verifies existence
// first so a missing id surfaces as ErrTableNotFound.
func (s *BookingService) UpdateTable(ctx context.Context, id int64, name string, seats int, hasProjector bool) (*model.Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: table name is required", ErrInvalidArgument)
	}
	if seats < 1 {
		return nil, fmt.Errorf("%w: seats must be at least 1", ErrInvalidArgument)
	}
	if _, err := s.tables.GetByID(ctx, id); err != nil {
		return nil, err
	}
	t := &model.Table{ID: id, Name: name, Seats: seats, HasProjector: hasProjector}
	if err := s.tables.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTable removes a table from the registry. It fails with
// ErrTableInUse while any live reservation, whatever its status,
// references the table. The cancellation history cannot hold the
// deletion back: its entries carry only the reservation id and the
// referenced rows are gone.
func (s *BookingService) DeleteTable(ctx context.Context, id int64) error {
	if _, err := s.tables.GetByID(ctx, id); err != nil {
		return err
	}
	inUse, err := s.reservations.ExistsForTable(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return repository.ErrTableInUse
	}
	return s.tables.Delete(ctx, id)
}
