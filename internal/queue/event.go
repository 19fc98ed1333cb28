// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationBookedEvent is published when a reservation is successfully
// created. It carries enough information for downstream consumers to
// log, notify or feed analytics without querying the primary database.
type ReservationBookedEvent struct {
	ReservationID int64  `json:"reservation_id"`
	GuestName     string `json:"guest_name"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	PartySize     int    `json:"party_size"`
	TableID       int64  `json:"table_id"`
	TableName     string `json:"table_name"`
	CreatedAt     string `json:"created_at"`
}

// ReservationCancelledEvent is published after a reservation has been
// deleted and its cancellation history entry written.
type ReservationCancelledEvent struct {
	ReservationID int64  `json:"reservation_id"`
	CancelledAt   string `json:"cancelled_at"`
}
