package rent

import (
	"context"

	"github.com/xvolv/tenant/internal/domain/calendar"
)

// Repository defines the persistence operations for rooms, tenancies and
// payment records. The notification engine only reads; the writes serve the
// surrounding application (payment toggles, renter assignment).
type Repository interface {
	// ListRoomsWithTenanciesAndPayments loads every room together with its
	// current tenancy (if any) and its full payment history.
	ListRoomsWithTenanciesAndPayments(ctx context.Context) ([]*Room, error)
	GetRoom(ctx context.Context, roomID string) (*Room, error)

	CreateRoom(ctx context.Context, room *Room) error
	// AssignTenancy creates a tenancy for a room. A room with an active
	// tenancy rejects a new one until the prior one is ended.
	AssignTenancy(ctx context.Context, t *Tenancy) error
	EndTenancy(ctx context.Context, tenancyID string, moveOut calendar.EthiopianDate) error

	// SetPayment upserts the record keyed by (RoomID, Year, Month).
	SetPayment(ctx context.Context, rec *PaymentRecord) error
}
