package rent

import "github.com/xvolv/tenant/internal/domain/calendar"

// DueDate returns the due date of the current billing period and the signed
// day distance to it. The due day is clamped to the month's actual length,
// so a due day of 30 falls on Pagume 5 (or 6) in the 13th month; it never
// rolls into the next month. A negative distance means overdue.
//
// The distance is an ordinal difference, so it stays exact even when the
// clamp moves the due date.
func DueDate(t *Tenancy, today calendar.EthiopianDate) (calendar.EthiopianDate, int) {
	due := calendar.EthiopianDate{
		Year:  today.Year,
		Month: today.Month,
		Day:   clampDueDay(t.DueDay, today.Year, today.Month),
	}
	return due, due.Ordinal() - today.Ordinal()
}

// OverdueSince finds the earliest billing period inside the occupancy window
// that evaluates to OVERDUE and returns its due date together with the true
// number of days elapsed since then. Elapsed days are computed on ordinals
// across month and year boundaries, so rent overdue since a previous month
// reports the full elapsed count rather than a same-month remainder.
//
// ok is false when nothing is overdue.
func OverdueSince(t *Tenancy, payments []PaymentRecord, today calendar.EthiopianDate) (due calendar.EthiopianDate, days int, ok bool) {
	if t == nil {
		return calendar.EthiopianDate{}, 0, false
	}
	for period := t.MoveIn.MonthOrdinal(); period <= today.MonthOrdinal(); period++ {
		year := period / calendar.MonthsPerYear
		month := period % calendar.MonthsPerYear
		if EvaluateCell(t, payments, year, month, today) != StatusOverdue {
			continue
		}
		due = calendar.EthiopianDate{
			Year:  year,
			Month: month,
			Day:   clampDueDay(t.DueDay, year, month),
		}
		return due, today.Ordinal() - due.Ordinal(), true
	}
	return calendar.EthiopianDate{}, 0, false
}
