// Package repository defines error types that are reused across the
// repositories. These sentinel values allow higher layers such as the
// booking service and handlers to distinguish between failure
// scenarios. For example, ErrSlotTaken indicates that the requested
// (date, time, table) slot already holds a live reservation, while
// ErrTableInUse signals that a table cannot be deleted because
// reservations still reference it.
package repository

import "errors"

// ErrTableNotFound is returned when a table lookup fails.
var ErrTableNotFound = errors.New("table not found")

// ErrReservationNotFound is returned when a reservation lookup,
// deletion or status update targets an id that does not exist.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrSlotTaken is returned when an insert would violate the
// no-double-booking invariant: the (date, time, table) triple is
// already occupied by a live reservation. Handlers should translate
// this into an HTTP 409 response.
var ErrSlotTaken = errors.New("slot already booked")

// ErrTableInUse is returned when a table deletion cannot proceed
// because reservations still reference the table. Handlers should
// translate this into an HTTP 409 response.
var ErrTableInUse = errors.New("table has reservations")
