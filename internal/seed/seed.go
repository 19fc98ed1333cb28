// Package seed populates an empty table registry with a starter layout.
package seed

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mkoberg/restaurant-reservation/internal/service"
)

// seedCount is the number of tables created on first boot.
const seedCount = 15

// Tables inserts a default floor layout when the registry is empty.
// Seat counts cycle from 2 to 8 so the room offers a mix of small and
// large tables; none of the seeded tables has a projector. A non-empty
// registry is left untouched.
func Tables(ctx context.Context, booking *service.BookingService, count func(context.Context) (int, error)) error {
	n, err := count(ctx)
	if err != nil {
		return fmt.Errorf("count tables: %w", err)
	}
	if n > 0 {
		return nil
	}
	for i := 0; i < seedCount; i++ {
		name := fmt.Sprintf("Table %d", i+1)
		seats := 2 + (i % 7)
		if _, err := booking.AddTable(ctx, name, seats, false); err != nil {
			return fmt.Errorf("seed table %q: %w", name, err)
		}
	}
	logrus.WithField("tables", seedCount).Info("seeded empty table registry")
	return nil
}
