package notification

// dueSoonWindow is how many days before the due date reminders begin.
const dueSoonWindow = 3

// PolicyInput is everything the decision policy looks at. The caller derives
// these facts; the policy itself performs no I/O.
type PolicyInput struct {
	// DayDistance is the signed distance to the current period's due date;
	// for overdue tenancies it is the negated true elapsed-day count.
	DayDistance    int
	PaidThisMonth  bool
	MoveInToday    bool
	MoveInTomorrow bool
}

// Decide returns the notification owed today for the tenancy, or nil.
//
// Priority order: move-in-today fires regardless of payment state, then
// move-in-tomorrow; a paid current month suppresses everything else (paid
// confirmations are sent synchronously at toggle time, not by this policy);
// then due-today, due-soon inside the window, and overdue. A distance
// beyond the window yields nothing.
func Decide(tenancyID string, in PolicyInput) *Decision {
	switch {
	case in.MoveInToday:
		return &Decision{TenancyID: tenancyID, Kind: KindMoveInToday}
	case in.MoveInTomorrow:
		return &Decision{TenancyID: tenancyID, Kind: KindMoveInTomorrow}
	case in.PaidThisMonth:
		return nil
	case in.DayDistance == 0:
		return &Decision{TenancyID: tenancyID, Kind: KindDueToday}
	case in.DayDistance > 0 && in.DayDistance <= dueSoonWindow:
		return &Decision{TenancyID: tenancyID, Kind: KindDueSoon, DayDistance: in.DayDistance}
	case in.DayDistance < 0:
		return &Decision{TenancyID: tenancyID, Kind: KindOverdue, DayDistance: -in.DayDistance}
	default:
		return nil
	}
}
