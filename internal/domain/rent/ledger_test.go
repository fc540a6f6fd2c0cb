package rent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvolv/tenant/internal/domain/calendar"
	"github.com/xvolv/tenant/internal/domain/rent"
)

func date(t *testing.T, year, month, day int) calendar.EthiopianDate {
	t.Helper()
	d, err := calendar.New(year, month, day)
	require.NoError(t, err)
	return d
}

func tenancy(t *testing.T, moveInYear, moveInMonth, moveInDay int) *rent.Tenancy {
	t.Helper()
	moveIn := date(t, moveInYear, moveInMonth, moveInDay)
	return &rent.Tenancy{
		ID:         "ten-1",
		RoomID:     "room-1",
		RenterName: "Abebe Kebede",
		MoveIn:     moveIn,
		DueDay:     moveIn.Day,
	}
}

func paid(year, month int) rent.PaymentRecord {
	return rent.PaymentRecord{RoomID: "room-1", Year: year, Month: month, IsPaid: true}
}

func unpaid(year, month int) rent.PaymentRecord {
	return rent.PaymentRecord{RoomID: "room-1", Year: year, Month: month, IsPaid: false}
}

func TestEvaluateCell_NoTenancyEver_NotApplicable(t *testing.T) {
	today := date(t, 2016, 5, 10)
	for month := 0; month < calendar.MonthsPerYear; month++ {
		assert.Equal(t, rent.StatusNotApplicable, rent.EvaluateCell(nil, nil, 2016, month, today))
	}
}

func TestEvaluateCell_BeforeMoveIn_Vacant(t *testing.T) {
	ten := tenancy(t, 2016, 4, 15)
	today := date(t, 2016, 6, 10)

	assert.Equal(t, rent.StatusVacant, rent.EvaluateCell(ten, nil, 2016, 3, today))
	assert.Equal(t, rent.StatusVacant, rent.EvaluateCell(ten, nil, 2015, 12, today))
	// The move-in month itself is billable.
	assert.NotEqual(t, rent.StatusVacant, rent.EvaluateCell(ten, nil, 2016, 4, today))
}

func TestEvaluateCell_OnOrAfterMoveOut_Vacant(t *testing.T) {
	ten := tenancy(t, 2016, 4, 10)
	out := date(t, 2016, 9, 30)
	ten.MoveOut = &out
	today := date(t, 2016, 10, 5)

	assert.Equal(t, rent.StatusVacant, rent.EvaluateCell(ten, nil, 2016, 9, today))
	assert.Equal(t, rent.StatusVacant, rent.EvaluateCell(ten, nil, 2016, 10, today))
	assert.NotEqual(t, rent.StatusVacant, rent.EvaluateCell(ten, nil, 2016, 8, today))
}

func TestEvaluateCell_ExplicitPaidAlwaysWins(t *testing.T) {
	ten := tenancy(t, 2016, 4, 15)
	payments := []rent.PaymentRecord{paid(2016, 4)}

	// Even long past the due day, paid stays paid.
	today := date(t, 2016, 8, 29)
	assert.Equal(t, rent.StatusPaid, rent.EvaluateCell(ten, payments, 2016, 4, today))
}

func TestEvaluateCell_PastMonthWithoutRecord_Overdue(t *testing.T) {
	ten := tenancy(t, 2016, 4, 15)
	today := date(t, 2016, 6, 2)

	assert.Equal(t, rent.StatusOverdue, rent.EvaluateCell(ten, nil, 2016, 4, today))
	assert.Equal(t, rent.StatusOverdue, rent.EvaluateCell(ten, nil, 2016, 5, today))
}

func TestEvaluateCell_ExplicitUnpaidPromotesSameAsAbsent(t *testing.T) {
	ten := tenancy(t, 2016, 4, 15)
	today := date(t, 2016, 6, 2)
	payments := []rent.PaymentRecord{unpaid(2016, 4)}

	assert.Equal(t, rent.StatusOverdue, rent.EvaluateCell(ten, payments, 2016, 4, today))
}

func TestEvaluateCell_CurrentMonth_DueDayBoundary(t *testing.T) {
	ten := tenancy(t, 2016, 4, 15)

	onDueDay := date(t, 2016, 6, 15)
	assert.Equal(t, rent.StatusUnpaid, rent.EvaluateCell(ten, nil, 2016, 6, onDueDay))

	dayAfter := date(t, 2016, 6, 16)
	assert.Equal(t, rent.StatusOverdue, rent.EvaluateCell(ten, nil, 2016, 6, dayAfter))
}

func TestEvaluateCell_FutureMonth_Unpaid(t *testing.T) {
	ten := tenancy(t, 2016, 4, 15)
	today := date(t, 2016, 6, 20)

	assert.Equal(t, rent.StatusUnpaid, rent.EvaluateCell(ten, nil, 2016, 7, today))
}

func TestDueDate_SameMonthDistance(t *testing.T) {
	ten := tenancy(t, 2016, 2, 10)

	due, dist := rent.DueDate(ten, date(t, 2016, 6, 8))
	assert.Equal(t, date(t, 2016, 6, 10), due)
	assert.Equal(t, 2, dist)

	_, dist = rent.DueDate(ten, date(t, 2016, 6, 10))
	assert.Equal(t, 0, dist)

	_, dist = rent.DueDate(ten, date(t, 2016, 6, 13))
	assert.Equal(t, -3, dist)
}

func TestDueDate_ClampsToShortMonth(t *testing.T) {
	ten := tenancy(t, 2016, 2, 30)

	due, dist := rent.DueDate(ten, date(t, 2016, 12, 2))
	assert.Equal(t, date(t, 2016, 12, 5), due, "due day 30 clamps to Pagume's length, no rollover")
	assert.Equal(t, 3, dist)

	due, _ = rent.DueDate(ten, date(t, 2015, 12, 1))
	assert.Equal(t, 6, due.Day, "leap-year Pagume is one day longer")
}

func TestOverdueSince_CrossMonthElapsedDays(t *testing.T) {
	ten := tenancy(t, 2016, 4, 10)
	// Month 4 paid, month 5 never paid, today is month 6 day 20.
	payments := []rent.PaymentRecord{paid(2016, 4)}
	today := date(t, 2016, 6, 20)

	due, days, ok := rent.OverdueSince(ten, payments, today)
	require.True(t, ok)
	assert.Equal(t, date(t, 2016, 5, 10), due)
	// One full month plus ten days, not a same-month remainder.
	assert.Equal(t, 40, days)
}

func TestOverdueSince_NothingOverdue(t *testing.T) {
	ten := tenancy(t, 2016, 4, 10)
	payments := []rent.PaymentRecord{paid(2016, 4), paid(2016, 5)}
	today := date(t, 2016, 6, 5)

	_, _, ok := rent.OverdueSince(ten, payments, today)
	assert.False(t, ok)
}

func TestTenancyValidate(t *testing.T) {
	ten := tenancy(t, 2016, 4, 15)
	require.NoError(t, ten.Validate())

	bad := *ten
	bad.MoveIn = calendar.EthiopianDate{Year: 2016, Month: 12, Day: 10}
	err := bad.Validate()
	require.Error(t, err)
	var calErr *calendar.Error
	assert.ErrorAs(t, err, &calErr)

	badDue := *ten
	badDue.DueDay = 0
	assert.Error(t, badDue.Validate())
}
