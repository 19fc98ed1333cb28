package service

import (
	"context"
	"sort"
	"time"

	"github.com/mkoberg/restaurant-reservation/internal/model"
)

// StatsStore is the read-only persistence surface the statistics
// aggregator scans. It is a subset of what ReservationRepo offers.
type StatsStore interface {
	ListAll(ctx context.Context) ([]model.Reservation, error)
	CountReservations(ctx context.Context) (int, error)
	CountCancellations(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status model.ReservationStatus) (int, error)
}

// TableCounter reports the registry size, needed for occupancy.
type TableCounter interface {
	Count(ctx context.Context) (int, error)
}

// StatsService computes derived metrics over the reservation store.
// Every operation is a pure read: nothing here mutates state, and all
// metrics return zero-valued defaults on an empty population instead of
// failing. Storage errors are always propagated.
type StatsService struct {
	store  StatsStore
	tables TableCounter
}

// NewStatsService constructs a StatsService and panics on nil dependencies.
func NewStatsService(store StatsStore, tables TableCounter) *StatsService {
	if store == nil || tables == nil {
		panic("nil store passed to NewStatsService")
	}
	return &StatsService{store: store, tables: tables}
}

// ReservationCount counts all live reservations.
func (s *StatsService) ReservationCount(ctx context.Context) (int, error) {
	return s.store.CountReservations(ctx)
}

// CancellationCount is the size of the cancellation history.
func (s *StatsService) CancellationCount(ctx context.Context) (int, error) {
	return s.store.CountCancellations(ctx)
}

// NoShowCount counts reservations marked NOSHOW.
func (s *StatsService) NoShowCount(ctx context.Context) (int, error) {
	return s.store.CountByStatus(ctx, model.StatusNoShow)
}

// AttendedCount counts reservations marked ATTENDED.
func (s *StatsService) AttendedCount(ctx context.Context) (int, error) {
	return s.store.CountByStatus(ctx, model.StatusAttended)
}

// CancellationRate is the share of cancellations among all bookings
// ever made, as a percentage: cancels / (live + cancels) * 100.
func (s *StatsService) CancellationRate(ctx context.Context) (float64, error) {
	live, err := s.store.CountReservations(ctx)
	if err != nil {
		return 0, err
	}
	cancels, err := s.store.CountCancellations(ctx)
	if err != nil {
		return 0, err
	}
	if live+cancels == 0 {
		return 0, nil
	}
	return float64(cancels) / float64(live+cancels) * 100.0, nil
}

// NoShowRate is the share of no-shows among resolved visits, as a
// percentage: noShows / (attended + noShows) * 100.
func (s *StatsService) NoShowRate(ctx context.Context) (float64, error) {
	noShows, err := s.store.CountByStatus(ctx, model.StatusNoShow)
	if err != nil {
		return 0, err
	}
	attended, err := s.store.CountByStatus(ctx, model.StatusAttended)
	if err != nil {
		return 0, err
	}
	if attended+noShows == 0 {
		return 0, nil
	}
	return float64(noShows) / float64(attended+noShows) * 100.0, nil
}

// PopularTimes groups live reservations by time of day and returns the
// limit most frequent times, most popular first. Ties are broken by
// ascending time so the result is deterministic.
func (s *StatsService) PopularTimes(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, r := range all {
		counts[r.Time]++
	}
	times := make([]string, 0, len(counts))
	for t := range counts {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool {
		if counts[times[i]] != counts[times[j]] {
			return counts[times[i]] > counts[times[j]]
		}
		return times[i] < times[j]
	})
	if len(times) > limit {
		times = times[:limit]
	}
	return times, nil
}

// AverageReservationsPerDay is the mean of per-date reservation counts:
// reservations are grouped by date and the group sizes averaged. Days
// without any reservation do not enter the denominator.
func (s *StatsService) AverageReservationsPerDay(ctx context.Context) (float64, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(all) == 0 {
		return 0, nil
	}
	days := make(map[string]int)
	for _, r := range all {
		days[r.Date]++
	}
	return float64(len(all)) / float64(len(days)), nil
}

// AverageOccupancy computes, for each (date, time) slot holding at
// least one reservation, the ratio of booked tables to all tables, and
// averages that ratio across slots, expressed as a percentage. Returns
// 0 when there are no tables or no reservations.
func (s *StatsService) AverageOccupancy(ctx context.Context) (float64, error) {
	tableCount, err := s.tables.Count(ctx)
	if err != nil {
		return 0, err
	}
	if tableCount == 0 {
		return 0, nil
	}
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(all) == 0 {
		return 0, nil
	}
	slots := make(map[string]int)
	for _, r := range all {
		slots[r.Date+" "+r.Time]++
	}
	var sum float64
	for _, n := range slots {
		sum += float64(n) / float64(tableCount)
	}
	return sum / float64(len(slots)) * 100.0, nil
}

// AverageLeadTimeHours is the mean interval, in hours, between a
// reservation's creation and its scheduled date and time, across all
// live reservations.
func (s *StatsService) AverageLeadTimeHours(ctx context.Context) (float64, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	var sum float64
	var n int
	for _, r := range all {
		scheduled, err := time.Parse(dateLayout+" "+timeLayout, r.Date+" "+r.Time)
		if err != nil {
			continue
		}
		sum += scheduled.Sub(r.CreatedAt).Hours()
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

// AverageProcessingTimeHours is the mean interval, in hours, between
// creation and the first status confirmation. Reservations never
// confirmed are excluded from both numerator and denominator.
func (s *StatsService) AverageProcessingTimeHours(ctx context.Context) (float64, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	var sum float64
	var n int
	for _, r := range all {
		if r.ConfirmedAt == nil {
			continue
		}
		sum += r.ConfirmedAt.Sub(r.CreatedAt).Hours()
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

// Summary bundles every metric for the statistics endpoint.
type Summary struct {
	Reservations           int      `json:"reservations"`
	Cancellations          int      `json:"cancellations"`
	NoShows                int      `json:"no_shows"`
	Attended               int      `json:"attended"`
	CancellationRate       float64  `json:"cancellation_rate"`
	NoShowRate             float64  `json:"no_show_rate"`
	PopularTimes           []string `json:"popular_times"`
	AvgReservationsPerDay  float64  `json:"avg_reservations_per_day"`
	AvgOccupancyPercent    float64  `json:"avg_occupancy_percent"`
	AvgLeadTimeHours       float64  `json:"avg_lead_time_hours"`
	AvgProcessingTimeHours float64  `json:"avg_processing_time_hours"`
}

// BuildSummary assembles the full metric set in one call for the HTTP
// layer. popularLimit bounds the popular-times list.
func (s *StatsService) BuildSummary(ctx context.Context, popularLimit int) (*Summary, error) {
	out := &Summary{}
	var err error
	if out.Reservations, err = s.ReservationCount(ctx); err != nil {
		return nil, err
	}
	if out.Cancellations, err = s.CancellationCount(ctx); err != nil {
		return nil, err
	}
	if out.NoShows, err = s.NoShowCount(ctx); err != nil {
		return nil, err
	}
	if out.Attended, err = s.AttendedCount(ctx); err != nil {
		return nil, err
	}
	if out.CancellationRate, err = s.CancellationRate(ctx); err != nil {
		return nil, err
	}
	if out.NoShowRate, err = s.NoShowRate(ctx); err != nil {
		return nil, err
	}
	if out.PopularTimes, err = s.PopularTimes(ctx, popularLimit); err != nil {
		return nil, err
	}
	if out.AvgReservationsPerDay, err = s.AverageReservationsPerDay(ctx); err != nil {
		return nil, err
	}
	if out.AvgOccupancyPercent, err = s.AverageOccupancy(ctx); err != nil {
		return nil, err
	}
	if out.AvgLeadTimeHours, err = s.AverageLeadTimeHours(ctx); err != nil {
		return nil, err
	}
	if out.AvgProcessingTimeHours, err = s.AverageProcessingTimeHours(ctx); err != nil {
		return nil, err
	}
	return out, nil
}
