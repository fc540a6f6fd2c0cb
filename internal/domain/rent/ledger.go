package rent

import "github.com/xvolv/tenant/internal/domain/calendar"

// CellStatus is the derived state of one (room, billing period) rent cell.
// It is never persisted; it is a pure function of the tenancy, the payment
// records and "today".
type CellStatus string

const (
	StatusPaid          CellStatus = "PAID"
	StatusUnpaid        CellStatus = "UNPAID"
	StatusOverdue       CellStatus = "OVERDUE"
	StatusVacant        CellStatus = "VACANT"
	StatusNotApplicable CellStatus = "NOT_APPLICABLE"
)

// EvaluateCell computes the rent-cell status for the (year, month) billing
// period of the tenancy's room.
//
// A nil tenancy means the room was never occupied: every cell is
// NOT_APPLICABLE. A month whose first day falls before the move-in ordinal,
// or on/after the move-out ordinal, is VACANT. An explicit paid record
// always wins. Otherwise the cell defaults to UNPAID and is promoted to
// OVERDUE when the period is strictly past, or is the current period and
// today is past the due day; the promotion applies equally whether the
// record is absent or present-but-unpaid.
func EvaluateCell(t *Tenancy, payments []PaymentRecord, year, month int, today calendar.EthiopianDate) CellStatus {
	if t == nil {
		return StatusNotApplicable
	}

	// Occupancy is month-granular: the move-in month is the first billable
	// period, the move-out month is already vacant.
	first := calendar.EthiopianDate{Year: year, Month: month, Day: 1}
	if first.Ordinal() < t.MoveIn.FirstOfMonth().Ordinal() {
		return StatusVacant
	}
	if t.MoveOut != nil && first.Ordinal() >= t.MoveOut.FirstOfMonth().Ordinal() {
		return StatusVacant
	}

	if rec := PaymentFor(payments, year, month); rec != nil && rec.IsPaid {
		return StatusPaid
	}

	// Period comparison on the linear ordinal, never on converted dates.
	period := year*calendar.MonthsPerYear + month
	current := today.MonthOrdinal()
	switch {
	case period < current:
		return StatusOverdue
	case period == current && today.Day > clampDueDay(t.DueDay, year, month):
		return StatusOverdue
	default:
		return StatusUnpaid
	}
}

func clampDueDay(dueDay, year, month int) int {
	if n := calendar.DaysInMonth(year, month); dueDay > n {
		return n
	}
	return dueDay
}
