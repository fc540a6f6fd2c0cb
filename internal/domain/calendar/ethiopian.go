// Package calendar bridges the Ethiopian calendar, which all business dates
// in this system use, and the Gregorian calendar used by the host clock.
//
// The Ethiopian year has 13 months: twelve of 30 days and Pagume, which has
// 5 days (6 in a leap year). Months are addressed by a zero-based index
// 0..12 throughout, matching how billing periods are stored.
package calendar

import "fmt"

// MonthsPerYear is the number of months in an Ethiopian year.
const MonthsPerYear = 13

// PagumeIndex is the zero-based index of the short 13th month.
const PagumeIndex = 12

// EthiopianDate is an immutable calendar date. Month is a zero-based index.
type EthiopianDate struct {
	Year  int
	Month int
	Day   int
}

// Error reports an attempt to construct a date that does not exist,
// e.g. Pagume 6 in a non-leap year.
type Error struct {
	Year  int
	Month int
	Day   int
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid ethiopian date: year=%d month=%d day=%d", e.Year, e.Month, e.Day)
}

// IsLeapYear reports whether the Ethiopian year has a 6-day Pagume.
// The leap year precedes the Gregorian leap year, falling on year % 4 == 3.
func IsLeapYear(year int) bool {
	return year%4 == 3
}

// DaysInMonth returns the length of the given month in the given year.
func DaysInMonth(year, month int) int {
	if month == PagumeIndex {
		if IsLeapYear(year) {
			return 6
		}
		return 5
	}
	return 30
}

// New validates and constructs an EthiopianDate.
func New(year, month, day int) (EthiopianDate, error) {
	if year < 1 || month < 0 || month >= MonthsPerYear || day < 1 || day > DaysInMonth(year, month) {
		return EthiopianDate{}, &Error{Year: year, Month: month, Day: day}
	}
	return EthiopianDate{Year: year, Month: month, Day: day}, nil
}

// Validate re-checks a date assembled from stored fields.
func (d EthiopianDate) Validate() error {
	_, err := New(d.Year, d.Month, d.Day)
	return err
}

// FirstOfMonth returns the first day of d's month.
func (d EthiopianDate) FirstOfMonth() EthiopianDate {
	return EthiopianDate{Year: d.Year, Month: d.Month, Day: 1}
}

// MonthOrdinal maps d's billing period onto a single comparable integer.
// Period comparisons must use this, never converted Gregorian dates.
func (d EthiopianDate) MonthOrdinal() int {
	return d.Year*MonthsPerYear + d.Month
}

// Weekday returns the day of week, Monday-first (0 = Monday .. 6 = Sunday).
func (d EthiopianDate) Weekday() int {
	return d.Ordinal() % 7
}

// AddDays returns the date n days after d (n may be negative), rolling over
// months and years, including the short Pagume.
func (d EthiopianDate) AddDays(n int) EthiopianDate {
	return fromJDN(d.Ordinal() + n)
}

func (d EthiopianDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d EC", d.Year, d.Month+1, d.Day)
}
