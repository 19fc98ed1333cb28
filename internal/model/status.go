package model

import "strings"

// ReservationStatus is the lifecycle state of a reservation.  Any valid
// status may follow any other; there is no transition graph.  Note that
// cancellation is modeled as deletion plus a Cancellation history entry,
// not as a status write, so a live reservation normally never carries
// StatusCancelled.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusAttended  ReservationStatus = "ATTENDED"
	StatusNoShow    ReservationStatus = "NOSHOW"
	StatusCancelled ReservationStatus = "CANCELLED"
)

// ParseReservationStatus normalizes raw input (trimming whitespace,
// ignoring case) into a ReservationStatus.  The second return value is
// false when the input does not name a known status.
func ParseReservationStatus(raw string) (ReservationStatus, bool) {
	s := ReservationStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// Valid reports whether the status is one of the known enumeration values.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusAttended, StatusNoShow, StatusCancelled:
		return true
	}
	return false
}

// String returns the status as stored in the database.
func (s ReservationStatus) String() string { return string(s) }
