// Package notification holds the notification decision policy, the
// deduplication ledger contract and the localized message templates.
package notification

import "fmt"

// Kind identifies the notification being sent for a tenancy and period.
type Kind string

const (
	KindMoveInToday    Kind = "MOVE_IN_TODAY"
	KindMoveInTomorrow Kind = "MOVE_IN_TOMORROW"
	KindDueSoon        Kind = "DUE_SOON"
	KindDueToday       Kind = "DUE_TODAY"
	KindOverdue        Kind = "OVERDUE"
	KindPaid           Kind = "PAID"
)

// Decision is the outcome of one policy evaluation: at most one notification
// per tenancy per pass. DayDistance carries the due-soon days-ahead count or
// the overdue elapsed-days count, depending on Kind.
type Decision struct {
	TenancyID   string
	Kind        Kind
	DayDistance int
}

// Key identifies one deliverable notification: a (tenancy, billing period,
// kind) triple. A given key must be dispatched at most once per period.
type Key struct {
	TenancyID string
	Year      int
	Month     int
	Kind      Kind
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d:%d:%s", k.TenancyID, k.Year, k.Month, k.Kind)
}
