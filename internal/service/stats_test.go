package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoberg/restaurant-reservation/internal/model"
)

// statsFixture serves canned data to the aggregator.
type statsFixture struct {
	all           []model.Reservation
	reservations  int
	cancellations int
	byStatus      map[model.ReservationStatus]int
	tables        int
}

func (f *statsFixture) ListAll(context.Context) ([]model.Reservation, error) {
	return f.all, nil
}

func (f *statsFixture) CountReservations(context.Context) (int, error) {
	return f.reservations, nil
}

func (f *statsFixture) CountCancellations(context.Context) (int, error) {
	return f.cancellations, nil
}

func (f *statsFixture) CountByStatus(_ context.Context, status model.ReservationStatus) (int, error) {
	return f.byStatus[status], nil
}

func (f *statsFixture) Count(context.Context) (int, error) { return f.tables, nil }

func newStatsService(f *statsFixture) *StatsService {
	return NewStatsService(f, f)
}

func reservationAt(date, timeOfDay string) model.Reservation {
	return model.Reservation{Date: date, Time: timeOfDay}
}

func TestPopularTimes(t *testing.T) {
	ctx := context.Background()
	svc := newStatsService(&statsFixture{all: []model.Reservation{
		reservationAt("2026-09-01", "18:00"),
		reservationAt("2026-09-02", "18:00"),
		reservationAt("2026-09-01", "19:00"),
		reservationAt("2026-09-01", "20:00"),
	}})

	got, err := svc.PopularTimes(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"18:00", "19:00"}, got)

	// Ties break on ascending time, so the order is deterministic.
	got, err = svc.PopularTimes(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"18:00", "19:00", "20:00"}, got)

	got, err = svc.PopularTimes(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPopularTimesEmpty(t *testing.T) {
	svc := newStatsService(&statsFixture{})
	got, err := svc.PopularTimes(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCancellationRate(t *testing.T) {
	ctx := context.Background()

	svc := newStatsService(&statsFixture{reservations: 3, cancellations: 1})
	rate, err := svc.CancellationRate(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, rate, 1e-9)

	svc = newStatsService(&statsFixture{})
	rate, err = svc.CancellationRate(ctx)
	require.NoError(t, err)
	assert.Zero(t, rate)
}

func TestNoShowRate(t *testing.T) {
	ctx := context.Background()

	svc := newStatsService(&statsFixture{byStatus: map[model.ReservationStatus]int{
		model.StatusAttended: 9,
		model.StatusNoShow:   1,
	}})
	rate, err := svc.NoShowRate(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, rate, 1e-9)

	// Pending and confirmed visits are unresolved and do not count.
	svc = newStatsService(&statsFixture{byStatus: map[model.ReservationStatus]int{
		model.StatusPending: 5,
	}})
	rate, err = svc.NoShowRate(ctx)
	require.NoError(t, err)
	assert.Zero(t, rate)
}

func TestAverageReservationsPerDay(t *testing.T) {
	ctx := context.Background()

	svc := newStatsService(&statsFixture{all: []model.Reservation{
		reservationAt("2026-09-01", "18:00"),
		reservationAt("2026-09-01", "19:00"),
		reservationAt("2026-09-02", "18:00"),
	}})
	avg, err := svc.AverageReservationsPerDay(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, avg, 1e-9)

	svc = newStatsService(&statsFixture{})
	avg, err = svc.AverageReservationsPerDay(ctx)
	require.NoError(t, err)
	assert.Zero(t, avg)
}

func TestAverageOccupancy(t *testing.T) {
	ctx := context.Background()

	// One slot with both tables booked: 100 percent.
	svc := newStatsService(&statsFixture{
		tables: 2,
		all: []model.Reservation{
			{Date: "2026-09-01", Time: "19:00", TableID: 1},
			{Date: "2026-09-01", Time: "19:00", TableID: 2},
		},
	})
	occ, err := svc.AverageOccupancy(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, occ, 1e-9)

	// A full slot and a half-full slot average to 75 percent.
	svc = newStatsService(&statsFixture{
		tables: 2,
		all: []model.Reservation{
			{Date: "2026-09-01", Time: "19:00", TableID: 1},
			{Date: "2026-09-01", Time: "19:00", TableID: 2},
			{Date: "2026-09-01", Time: "20:00", TableID: 1},
		},
	})
	occ, err = svc.AverageOccupancy(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, occ, 1e-9)

	// No tables yields zero, not a division error.
	svc = newStatsService(&statsFixture{all: []model.Reservation{
		reservationAt("2026-09-01", "19:00"),
	}})
	occ, err = svc.AverageOccupancy(ctx)
	require.NoError(t, err)
	assert.Zero(t, occ)
}

func TestAverageLeadTimeHours(t *testing.T) {
	created := time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC)
	svc := newStatsService(&statsFixture{all: []model.Reservation{
		{Date: "2026-09-01", Time: "19:00", CreatedAt: created},
		{Date: "2026-09-01", Time: "21:00", CreatedAt: created},
	}})

	avg, err := svc.AverageLeadTimeHours(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 3.0, avg, 1e-9)
}

func TestAverageProcessingTimeHours(t *testing.T) {
	created := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	confirmed := created.Add(90 * time.Minute)
	svc := newStatsService(&statsFixture{all: []model.Reservation{
		{Date: "2026-09-01", Time: "19:00", CreatedAt: created, ConfirmedAt: &confirmed},
		// Never confirmed; excluded from the average.
		{Date: "2026-09-01", Time: "20:00", CreatedAt: created},
	}})

	avg, err := svc.AverageProcessingTimeHours(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1.5, avg, 1e-9)
}

func TestBuildSummary(t *testing.T) {
	svc := newStatsService(&statsFixture{
		reservations:  2,
		cancellations: 2,
		tables:        4,
		byStatus: map[model.ReservationStatus]int{
			model.StatusAttended: 1,
			model.StatusNoShow:   1,
		},
		all: []model.Reservation{
			reservationAt("2026-09-01", "19:00"),
			reservationAt("2026-09-02", "19:00"),
		},
	})

	sum, err := svc.BuildSummary(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Reservations)
	assert.Equal(t, 2, sum.Cancellations)
	assert.Equal(t, 1, sum.NoShows)
	assert.Equal(t, 1, sum.Attended)
	assert.InDelta(t, 50.0, sum.CancellationRate, 1e-9)
	assert.InDelta(t, 50.0, sum.NoShowRate, 1e-9)
	assert.Equal(t, []string{"19:00"}, sum.PopularTimes)
	assert.InDelta(t, 1.0, sum.AvgReservationsPerDay, 1e-9)
	assert.InDelta(t, 25.0, sum.AvgOccupancyPercent, 1e-9)
}

func TestBuildSummaryEmpty(t *testing.T) {
	svc := newStatsService(&statsFixture{})
	sum, err := svc.BuildSummary(context.Background(), 3)
	require.NoError(t, err)
	assert.Zero(t, sum.Reservations)
	assert.Zero(t, sum.CancellationRate)
	assert.Zero(t, sum.NoShowRate)
	assert.Empty(t, sum.PopularTimes)
	assert.Zero(t, sum.AvgOccupancyPercent)
	assert.Zero(t, sum.AvgLeadTimeHours)
	assert.Zero(t, sum.AvgProcessingTimeHours)
}
