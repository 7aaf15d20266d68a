package calendar

import (
	"strconv"
	"strings"
)

// Humanize describes the gap between target and now, e.g.
// "3 years, 2 months, and 5 days ago" or "1 day from now". Equal dates
// render as "today".
func Humanize(target, now Date) string {
	c := target.Compare(now)
	if c == 0 {
		return "today"
	}
	from, to, suffix := target, now, "ago"
	if c > 0 {
		from, to, suffix = now, target, "from now"
	}
	years, months, days := span(from, to)

	var parts []string
	if years != 0 {
		parts = append(parts, plural(years, "year"))
	}
	if months != 0 {
		parts = append(parts, plural(months, "month"))
	}
	if days != 0 {
		parts = append(parts, plural(days, "day"))
	}
	return joinParts(parts) + " " + suffix
}

// span decomposes from..to (from <= to) into years, months and days.
// A borrowed month contributes the length of the month it is borrowed from,
// i.e. the months preceding to's month.
func span(from, to Date) (years, months, days int) {
	years = to.year - from.year
	months = to.month - from.month
	days = to.day - from.day
	for back := 1; days < 0; back++ {
		months--
		days += DaysInMonth(to.year, to.month-back)
	}
	if months < 0 {
		years--
		months += 12
	}
	return years, months, days
}

func plural(n int, unit string) string {
	s := strconv.Itoa(n) + " " + unit
	if n != 1 {
		s += "s"
	}
	return s
}

func joinParts(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
}
