package model

import (
	"time"

	"mesa/shared/model"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID               = "id"
	FieldPhone            = "phone"
	FieldTableID          = "table_id"
	FieldPartySize        = "party_size"
	FieldScheduledAt      = "scheduled_at"
	FieldStatus           = "status"
	FieldConfirmationCode = "confirmation_code"
)

// Reservation lifecycle. Confirmed is the only live status; cancelled is
// terminal and frees the table, the row itself is kept for audit and lookup.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Reservation binds a customer (by phone, the natural key) to a table for a
// fixed service window starting at ScheduledAt. The window length is
// configuration and is not persisted.
type Reservation struct {
	ID               string    `db:"id"`
	Phone            string    `db:"phone"`
	TableID          string    `db:"table_id"`
	PartySize        int       `db:"party_size"`
	ScheduledAt      time.Time `db:"scheduled_at"`
	Status           string    `db:"status"`
	ConfirmationCode string    `db:"confirmation_code"`
	model.Metadata
}

// CustomerReservation is a reservation row joined with its table, as read
// back for customer-facing listings.
type CustomerReservation struct {
	Reservation
	TableNumber string `db:"table_number"`
	TableArea   string `db:"table_area"`
}

// Window is the half-open time interval [Start, End) a reservation occupies
// on its table.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds the allocation window for a reservation starting at the
// given time with the configured service duration.
func NewWindow(start time.Time, duration time.Duration) Window {
	return Window{
		Start: start,
		End:   start.Add(duration),
	}
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Overlaps reports whether two half-open windows intersect.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}
