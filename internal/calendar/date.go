// Package calendar implements a proleptic Gregorian date with astronomical
// year numbering (year 0 is 1 BCE, year -1 is 2 BCE). Dates are plain values
// and cover the full int range, which time.Time cannot represent sensibly for
// dates tens of thousands of years before the common era.
package calendar

import "time"

// Date is an immutable calendar day. Month is zero based (0 = January).
// The zero value is not normalized; build dates with New, Parse or FromISO.
type Date struct {
	year    int
	month   int
	day     int
	weekday int
}

// Fallback is the value substituted for unparseable date strings when the
// caller opts into the fallback policy.
var Fallback = New(0, 0, 1)

// unixEpochJDN is the integral (noon based) Julian Day Number of 1970-01-01.
const unixEpochJDN = 2440588

const msPerDay = 86_400_000

// New builds a normalized date. Out of range days and months roll over into
// the neighbouring month or year, so New(2024, 0, 0) is 2023-12-31 and
// New(2023, 13, 1) is 2024-02-01.
func New(year, month, day int) Date {
	d := Date{year: year, month: month, day: day}
	d.normalize()
	d.weekday = zeller(d.year, d.month, d.day)
	return d
}

// FromTime converts the calendar day of t (in t's location) to a Date.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return New(y, int(m)-1, d)
}

// Today returns the current UTC day.
func Today() Date {
	return FromTime(time.Now().UTC())
}

// day overflow is resolved before month overflow; (year, month) pairs stay
// meaningful while month is out of range because DaysInMonth folds it.
func (d *Date) normalize() {
	for d.day <= 0 {
		d.month--
		if d.month < 0 {
			d.month += 12
			d.year--
		}
		d.day += DaysInMonth(d.year, d.month)
	}
	for {
		n := DaysInMonth(d.year, d.month)
		if d.day <= n {
			break
		}
		d.day -= n
		d.month++
		if d.month > 11 {
			d.month -= 12
			d.year++
		}
	}
	d.year += floorDiv(d.month, 12)
	d.month = floorMod(d.month, 12)
}

// IsLeap reports whether the astronomical year has 366 days.
func IsLeap(year int) bool {
	return year%4 == 0 && year%100 != 0 || year%400 == 0
}

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the length of a zero based month. Months outside 0..11
// are folded into the adjacent years first.
func DaysInMonth(year, month int) int {
	year += floorDiv(month, 12)
	month = floorMod(month, 12)
	if month == 1 && IsLeap(year) {
		return 29
	}
	return monthDays[month]
}

func (d Date) Year() int    { return d.year }
func (d Date) Month() int   { return d.month }
func (d Date) Day() int     { return d.day }
func (d Date) Weekday() int { return d.weekday }

// zeller computes the day of week with Sunday = 0. January and February count
// as months 13 and 14 of the previous year; floored division keeps the formula
// valid for negative years.
func zeller(year, month, day int) int {
	m := month + 1
	y := year
	if m < 3 {
		m += 12
		y--
	}
	k := floorMod(y, 100)
	j := floorDiv(y, 100)
	h := floorMod(day+(13*(m+1))/5+k+k/4+floorDiv(j, 4)+5*j, 7)
	return (h + 6) % 7
}

// dayNumber is the integral Julian Day Number (noon based).
func (d Date) dayNumber() int {
	m := d.month + 1
	a := (14 - m) / 12
	y := d.year + 4800 - a
	mm := m + 12*a - 3
	return d.day + (153*mm+2)/5 + 365*y + floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400) - 32045
}

// JDN returns the Julian Day Number referenced to midnight, so consecutive
// days always differ by exactly 1.
func (d Date) JDN() float64 {
	return float64(d.dayNumber()) - 0.5
}

// UnixMilli returns milliseconds since 1970-01-01 computed from the day
// delta alone. It is independent of any time zone.
func (d Date) UnixMilli() int64 {
	return int64(d.dayNumber()-unixEpochJDN) * msPerDay
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return fromDaysSinceEpoch(d.dayNumber() - unixEpochJDN + n)
}

func fromDaysSinceEpoch(z int) Date {
	z += 719468
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day := doy - (153*mp+2)/5 + 1
	month := mp + 2
	if mp >= 10 {
		month = mp - 10
		y++
	}
	return New(y, month, day)
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int {
	switch {
	case d.year != o.year:
		return cmpInt(d.year, o.year)
	case d.month != o.month:
		return cmpInt(d.month, o.month)
	default:
		return cmpInt(d.day, o.day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }
func (d Date) Equal(o Date) bool  { return d.Compare(o) == 0 }

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
