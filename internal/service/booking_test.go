package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoberg/restaurant-reservation/internal/model"
	"github.com/mkoberg/restaurant-reservation/internal/repository"
)

// memStore is an in-memory ReservationStore. It enforces the same slot
// uniqueness and cancellation bookkeeping as the MySQL repository so the
// engine can be exercised without a database.
type memStore struct {
	nextID        int64
	reservations  map[int64]*model.Reservation
	cancellations []model.Cancellation
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, reservations: map[int64]*model.Reservation{}}
}

func (m *memStore) Insert(_ context.Context, res *model.Reservation) error {
	for _, r := range m.reservations {
		if r.Date == res.Date && r.Time == res.Time && r.TableID == res.TableID {
			return repository.ErrSlotTaken
		}
	}
	res.ID = m.nextID
	m.nextID++
	res.Status = model.StatusPending
	res.CreatedAt = time.Now().UTC()
	cp := *res
	m.reservations[res.ID] = &cp
	return nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (*model.Reservation, error) {
	r, ok := m.reservations[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) FindConflict(_ context.Context, date, timeOfDay string, tableID int64) (*model.Reservation, error) {
	for _, r := range m.reservations {
		if r.Date == date && r.Time == timeOfDay && r.TableID == tableID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) Remove(_ context.Context, id int64) error {
	if _, ok := m.reservations[id]; !ok {
		return repository.ErrReservationNotFound
	}
	delete(m.reservations, id)
	m.cancellations = append(m.cancellations, model.Cancellation{
		ID:            int64(len(m.cancellations) + 1),
		ReservationID: id,
		CancelledAt:   time.Now().UTC(),
	})
	return nil
}

func (m *memStore) ListAll(_ context.Context) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		out = append(out, *r)
	}
	return out, nil
}

func (m *memStore) ListForTable(_ context.Context, tableID int64) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0)
	for _, r := range m.reservations {
		if r.TableID == tableID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id int64, status model.ReservationStatus) error {
	r, ok := m.reservations[id]
	if !ok {
		return repository.ErrReservationNotFound
	}
	if r.Status == model.StatusPending && status != model.StatusPending && r.ConfirmedAt == nil {
		now := time.Now().UTC()
		r.ConfirmedAt = &now
	}
	r.Status = status
	return nil
}

func (m *memStore) ExistsForTable(_ context.Context, tableID int64) (bool, error) {
	for _, r := range m.reservations {
		if r.TableID == tableID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) BookedTableIDs(_ context.Context, date, timeOfDay string) ([]int64, error) {
	var ids []int64
	for _, r := range m.reservations {
		if r.Date == date && r.Time == timeOfDay {
			ids = append(ids, r.TableID)
		}
	}
	return ids, nil
}

// memTables is an in-memory TableStore.
type memTables struct {
	nextID int64
	tables map[int64]*model.Table
}

func newMemTables() *memTables {
	return &memTables{nextID: 1, tables: map[int64]*model.Table{}}
}

func (m *memTables) List(_ context.Context) ([]model.Table, error) {
	out := make([]model.Table, 0, len(m.tables))
	for id := int64(1); id < m.nextID; id++ {
		if t, ok := m.tables[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memTables) GetByID(_ context.Context, id int64) (*model.Table, error) {
	t, ok := m.tables[id]
	if !ok {
		return nil, repository.ErrTableNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTables) Create(_ context.Context, t *model.Table) error {
	t.ID = m.nextID
	m.nextID++
	cp := *t
	m.tables[t.ID] = &cp
	return nil
}

func (m *memTables) Update(_ context.Context, t *model.Table) error {
	if _, ok := m.tables[t.ID]; !ok {
		return nil // repository reports nothing for missing rows; engine checks first
	}
	cp := *t
	m.tables[t.ID] = &cp
	return nil
}

func (m *memTables) Delete(_ context.Context, id int64) error {
	if _, ok := m.tables[id]; !ok {
		return repository.ErrTableNotFound
	}
	delete(m.tables, id)
	return nil
}

func (m *memTables) Count(_ context.Context) (int, error) { return len(m.tables), nil }

func newTestEngine(t *testing.T) (*BookingService, *memStore, *memTables) {
	t.Helper()
	store := newMemStore()
	tables := newMemTables()
	return NewBookingService(store, tables), store, tables
}

func addTable(t *testing.T, svc *BookingService, name string, seats int, projector bool) *model.Table {
	t.Helper()
	tbl, err := svc.AddTable(context.Background(), name, seats, projector)
	require.NoError(t, err)
	return tbl
}

func TestCreateReservation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEngine(t)
	tbl := addTable(t, svc, "Window 1", 4, false)

	res, err := svc.CreateReservation(ctx, "Alice", "2026-09-01", "19:00", 2, tbl.ID)
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.Equal(t, "Alice", res.GuestName)
	assert.Nil(t, res.ConfirmedAt)
}

func TestCreateReservationValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEngine(t)
	tbl := addTable(t, svc, "Window 1", 4, false)

	cases := []struct {
		name  string
		guest string
		date  string
		time  string
		party int
	}{
		{name: "empty guest", guest: "  ", date: "2026-09-01", time: "19:00", party: 2},
		{name: "bad date", guest: "Alice", date: "01.09.2026", time: "19:00", party: 2},
		{name: "bad time", guest: "Alice", date: "2026-09-01", time: "7pm", party: 2},
		{name: "zero party", guest: "Alice", date: "2026-09-01", time: "19:00", party: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateReservation(ctx, tc.guest, tc.date, tc.time, tc.party, tbl.ID)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestCreateReservationUnknownTable(t *testing.T) {
	svc, _, _ := newTestEngine(t)
	_, err := svc.CreateReservation(context.Background(), "Alice", "2026-09-01", "19:00", 2, 99)
	assert.ErrorIs(t, err, repository.ErrTableNotFound)
}

func TestCreateReservationSlotTaken(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestEngine(t)
	tbl := addTable(t, svc, "Window 1", 4, false)

	_, err := svc.CreateReservation(ctx, "Alice", "2026-09-01", "19:00", 2, tbl.ID)
	require.NoError(t, err)

	_, err = svc.CreateReservation(ctx, "Bob", "2026-09-01", "19:00", 2, tbl.ID)
	assert.ErrorIs(t, err, repository.ErrSlotTaken)

	// The failed attempt must not leave any trace.
	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// A party too large for a table whose slot is also taken must see the
// conflict, not the capacity error: the slot check runs first.
func TestCreateReservationConflictBeforeCapacity(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEngine(t)
	tbl := addTable(t, svc, "Window 1", 4, false)

	_, err := svc.CreateReservation(ctx, "Alice", "2026-09-01", "19:00", 2, tbl.ID)
	require.NoError(t, err)

	_, err = svc.CreateReservation(ctx, "Carl", "2026-09-01", "19:00", 5, tbl.ID)
	assert.ErrorIs(t, err, repository.ErrSlotTaken)
}

func TestCreateReservationCapacityExceeded(t *testing.T) {
	svc, _, _ := newTestEngine(t)
	tbl := addTable(t, svc, "Window 1", 4, false)

	_, err := svc.CreateReservation(context.Background(), "Carl", "2026-09-01", "19:00", 5, tbl.ID)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestCreateReservationSameTimeDifferentTable(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEngine(t)
	t1 := addTable(t, svc, "Window 1", 4, false)
	t2 := addTable(t, svc, "Window 2", 4, false)

	_, err := svc.CreateReservation(ctx, "Alice", "2026-09-01", "19:00", 2, t1.ID)
	require.NoError(t, err)
	_, err = svc.CreateReservation(ctx, "Bob", "2026-09-01", "19:00", 2, t2.ID)
	assert.NoError(t, err)
}

func TestCancelReservation(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestEngine(t)
	tbl := addTable(t, svc, "Window 1", 4, false)

	res, err := svc.CreateReservation(ctx, "Alice", "2026-09-01", "19:00", 2, tbl.ID)
	require.NoError(t, err)

	require.NoError(t, svc.CancelReservation(ctx, res.ID))

	_, err = svc.GetReservation(ctx, res.ID)
	assert.ErrorIs(t, err, repository.ErrReservationNotFound)
	require.Len(t, store.cancellations, 1)
	assert.Equal(t, res.ID, store.cancellations[0].ReservationID)

	// Cancelling is not idempotent: the second call fails and writes no
	// further history.
	err = svc.CancelReservation(ctx, res.ID)
	assert.ErrorIs(t, err, repository.ErrReservationNotFound)
	assert.Len(t, store.cancellations, 1)

	// The freed slot can be booked again.
	_, err = svc.CreateReservation(ctx, "Bob", "2026-09-01", "19:00", 2, tbl.ID)
	assert.NoError(t, err)
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEngine(t)
	tbl := addTable(t, svc, "Window 1", 4, false)

	res, err := svc.CreateReservation(ctx, "Alice", "2026-09-01", "19:00", 2, tbl.ID)
	require.NoError(t, err)

	err = svc.SetStatus(ctx, res.ID, model.ReservationStatus("WAITLISTED"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = svc.SetStatus(ctx, 99, model.StatusConfirmed)
	assert.ErrorIs(t, err, repository.ErrReservationNotFound)

	require.NoError(t, svc.SetStatus(ctx, res.ID, model.StatusConfirmed))
	got, err := svc.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, got.Status)
	require.NotNil(t, got.ConfirmedAt)
	stamped := *got.ConfirmedAt

	// A later transition changes the status but never moves the stamp.
	require.NoError(t, svc.SetStatus(ctx, res.ID, model.StatusAttended))
	got, err = svc.GetReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAttended, got.Status)
	require.NotNil(t, got.ConfirmedAt)
	assert.Equal(t, stamped, *got.ConfirmedAt)
}

func TestIsSlotTaken(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEngine(t)
	tbl := addTable(t, svc, "Window 1", 4, false)

	taken, err := svc.IsSlotTaken(ctx, "2026-09-01", "19:00", tbl.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	_, err = svc.CreateReservation(ctx, "Alice", "2026-09-01", "19:00", 2, tbl.ID)
	require.NoError(t, err)

	taken, err = svc.IsSlotTaken(ctx, "2026-09-01", "19:00", tbl.ID)
	require.NoError(t, err)
	assert.True(t, taken)

	// Adjacent slots stay free: matching is on the exact triple.
	taken, err = svc.IsSlotTaken(ctx, "2026-09-01", "20:00", tbl.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestFindAvailableTables(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEngine(t)
	addTable(t, svc, "Small", 2, false)
	big := addTable(t, svc, "Big", 6, false)
	media := addTable(t, svc, "Media", 6, true)

	_, err := svc.CreateReservation(ctx, "Alice", "2026-09-01", "19:00", 4, big.ID)
	require.NoError(t, err)

	got, err := svc.FindAvailableTables(ctx, "2026-09-01", "19:00", 4, false)
	require.NoError(t, err)
	// The two-seater is omitted entirely; the booked six-seater is
	// listed but flagged.
	require.Len(t, got, 2)
	assert.Equal(t, big.ID, got[0].Table.ID)
	assert.True(t, got[0].Taken)
	assert.Equal(t, media.ID, got[1].Table.ID)
	assert.False(t, got[1].Taken)

	got, err = svc.FindAvailableTables(ctx, "2026-09-01", "19:00", 4, true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, media.ID, got[0].Table.ID)

	_, err = svc.FindAvailableTables(ctx, "2026-09-01", "19:00", 0, false)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddTableValidation(t *testing.T) {
	svc, _, _ := newTestEngine(t)

	_, err := svc.AddTable(context.Background(), " ", 4, false)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.AddTable(context.Background(), "Window 1", 0, false)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUpdateTable(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEngine(t)
	tbl := addTable(t, svc, "Window 1", 4, false)

	got, err := svc.UpdateTable(ctx, tbl.ID, "Terrace 1", 6, true)
	require.NoError(t, err)
	assert.Equal(t, "Terrace 1", got.Name)
	assert.Equal(t, 6, got.Seats)
	assert.True(t, got.HasProjector)

	_, err = svc.UpdateTable(ctx, 99, "Terrace 1", 6, true)
	assert.ErrorIs(t, err, repository.ErrTableNotFound)
}

func TestDeleteTableGuard(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestEngine(t)
	tbl := addTable(t, svc, "Window 1", 4, false)

	res, err := svc.CreateReservation(ctx, "Alice", "2026-09-01", "19:00", 2, tbl.ID)
	require.NoError(t, err)

	// A live reservation blocks deletion regardless of its status.
	err = svc.DeleteTable(ctx, tbl.ID)
	assert.ErrorIs(t, err, repository.ErrTableInUse)

	require.NoError(t, svc.SetStatus(ctx, res.ID, model.StatusAttended))
	err = svc.DeleteTable(ctx, tbl.ID)
	assert.ErrorIs(t, err, repository.ErrTableInUse)

	// After cancellation only the history references the reservation,
	// and history never blocks table deletion.
	require.NoError(t, svc.CancelReservation(ctx, res.ID))
	assert.NoError(t, svc.DeleteTable(ctx, tbl.ID))

	err = svc.DeleteTable(ctx, tbl.ID)
	assert.ErrorIs(t, err, repository.ErrTableNotFound)
}
