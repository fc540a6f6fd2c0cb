package calendar

import "time"

// Conversions run through Julian Day Numbers so that day arithmetic and
// weekday facts are exact across the Ethiopian new-year boundary
// (September 11/12 Gregorian, shifting with the leap cycle).

// ethiopicEpoch is the JDN offset of the Amete Mihret era.
const ethiopicEpoch = 1723856

// Ordinal returns the date's Julian Day Number. Differences of ordinals are
// exact elapsed-day counts regardless of month or year boundaries.
func (d EthiopianDate) Ordinal() int {
	year, month := d.Year, d.Month+1
	return ethiopicEpoch + 365 + 365*(year-1) + year/4 + 30*month + d.Day - 31
}

func fromJDN(jdn int) EthiopianDate {
	elapsed := jdn - ethiopicEpoch
	r := elapsed % 1461
	n := r%365 + 365*(r/1460)
	return EthiopianDate{
		Year:  4*(elapsed/1461) + r/365 - r/1460,
		Month: n / 30,
		Day:   n%30 + 1,
	}
}

// FromTime converts the calendar day of t (in t's location) to an
// EthiopianDate.
func FromTime(t time.Time) EthiopianDate {
	y, m, d := t.Date()
	return fromJDN(gregorianJDN(y, int(m), d))
}

// Gregorian converts d to a Gregorian time.Time at midnight UTC.
func (d EthiopianDate) Gregorian() time.Time {
	y, m, day := jdnToGregorian(d.Ordinal())
	return time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC)
}

func gregorianJDN(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

func jdnToGregorian(jdn int) (year, month, day int) {
	a := jdn + 32044
	b := (4*a + 3) / 146097
	c := a - 146097*b/4
	d := (4*c + 3) / 1461
	e := c - 1461*d/4
	m := (5*e + 2) / 153
	day = e - (153*m+2)/5 + 1
	month = m + 3 - 12*(m/10)
	year = 100*b + d - 4800 + m/10
	return year, month, day
}
