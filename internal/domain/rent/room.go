// Package rent holds the rent-ledger entities and the pure evaluation logic
// for payment status and due dates.
package rent

import (
	"fmt"

	"github.com/xvolv/tenant/internal/domain/calendar"
)

// Room is a rentable unit. Tenancy is the current (active or last) tenancy,
// nil when no renter was ever assigned. Payments carries every payment
// record for the room.
type Room struct {
	ID       string
	Name     string
	OwnerID  string
	Tenancy  *Tenancy
	Payments []PaymentRecord
}

// Tenancy links a renter to a room for an interval bounded by the move-in
// and move-out dates. DueDay is fixed at move-in and is the day-of-month on
// which rent is expected every following month.
type Tenancy struct {
	ID         string
	RoomID     string
	RenterID   string
	RenterName string
	MoveIn     calendar.EthiopianDate
	MoveOut    *calendar.EthiopianDate
	DueDay     int
}

// Active reports whether the tenancy currently occupies its room.
func (t *Tenancy) Active() bool {
	return t != nil && t.MoveOut == nil
}

// Validate checks the stored dates and the due day. Rows assembled from
// persistence go through this before any calendar arithmetic; an invalid
// tenancy is skipped by the scan, never fatal to it.
func (t *Tenancy) Validate() error {
	if err := t.MoveIn.Validate(); err != nil {
		return fmt.Errorf("tenancy %s move-in: %w", t.ID, err)
	}
	if t.MoveOut != nil {
		if err := t.MoveOut.Validate(); err != nil {
			return fmt.Errorf("tenancy %s move-out: %w", t.ID, err)
		}
	}
	if t.DueDay < 1 || t.DueDay > 30 {
		return fmt.Errorf("tenancy %s: due day %d out of range", t.ID, t.DueDay)
	}
	return nil
}

// PaymentRecord is the landlord-maintained payment state of one rent cell.
// (RoomID, Year, Month) is a unique key. The engine only reads these.
type PaymentRecord struct {
	RoomID   string
	Year     int
	Month    int
	IsPaid   bool
	RenterID string
}

// PaymentFor returns the record for the given billing period, or nil.
func PaymentFor(payments []PaymentRecord, year, month int) *PaymentRecord {
	for i := range payments {
		if payments[i].Year == year && payments[i].Month == month {
			return &payments[i]
		}
	}
	return nil
}
