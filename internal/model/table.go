package model

// Table describes a physical table on the restaurant floor.  Tables are
// the unit a reservation is booked against: a slot is the combination of
// a table with a date and a time.
//
// Fields:
//  ID           – primary key identifier, assigned by the registry.
//  Name         – human readable label shown to staff ("Table 3").
//  Seats        – seating capacity; a reservation's party size must not
//                 exceed it.
//  HasProjector – whether the table is equipped with a projector, used
//                 when guests request one for business dinners.
type Table struct {
	ID           int64  `json:"id"`            // tables.id
	Name         string `json:"name"`          // tables.name
	Seats        int    `json:"seats"`         // tables.seats
	HasProjector bool   `json:"has_projector"` // tables.has_projector
}

// TableAvailability pairs a table with its booking state for a specific
// slot.  Tables that fail the capacity or projector filter are never
// included; tables that pass but are already booked carry Taken=true so
// a caller can render them while blocking selection.
type TableAvailability struct {
	Table Table `json:"table"`
	Taken bool  `json:"taken"`
}
