package model

import "time"

// Reservation records a guest booking for a specific table at an exact
// date and time.  A slot (date, time, table) can hold at most one live
// reservation; cancelling frees the slot again.
//
// Fields:
//  ID          – primary key identifier; zero until persisted.
//  GuestName   – name the booking was made under; never empty.
//  Date        – calendar date in YYYY-MM-DD form.
//  Time        – time of day in HH:MM form.
//  PartySize   – number of guests; at least 1 and never more than the
//                table's seat count at booking time.
//  TableID     – table the reservation occupies.
//  Status      – lifecycle state, PENDING on creation.
//  CreatedAt   – creation timestamp, set once by the store.
//  ConfirmedAt – stamped the first time the status leaves PENDING; nil
//                until then and immutable afterwards.
type Reservation struct {
	ID          int64             `json:"id"`                     // reservations.id
	GuestName   string            `json:"guest_name"`             // reservations.guest_name
	Date        string            `json:"date"`                   // reservations.date
	Time        string            `json:"time"`                   // reservations.time
	PartySize   int               `json:"party_size"`             // reservations.party_size
	TableID     int64             `json:"table_id"`               // reservations.table_id
	Status      ReservationStatus `json:"status"`                 // reservations.status
	CreatedAt   time.Time         `json:"created_at"`             // reservations.created_at
	ConfirmedAt *time.Time        `json:"confirmed_at,omitempty"` // reservations.confirmed_at (nullable)
}

// Cancellation is an append-only history entry written when a
// reservation is deleted.  Entries are never mutated or removed.
type Cancellation struct {
	ID            int64     `json:"id"`             // cancellations.id
	ReservationID int64     `json:"reservation_id"` // cancellations.reservation_id
	CancelledAt   time.Time `json:"cancelled_at"`   // cancellations.cancelled_at
}
