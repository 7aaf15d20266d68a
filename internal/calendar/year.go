package calendar

import (
	"fmt"
	"strconv"
	"strings"
)

const bceSuffix = " BCE"

// FormatYear renders an astronomical year as a label: 1 -> "1",
// 0 -> "1 BCE", -134999 -> "135000 BCE".
func FormatYear(year int) string {
	if year > 0 {
		return strconv.Itoa(year)
	}
	return strconv.Itoa(DisplayYear(year)) + bceSuffix
}

// ParseYear is the exact inverse of FormatYear: it accepts only the labels
// FormatYear can produce, so "0 BCE", "-5" and "+7" are rejected.
func ParseYear(label string) (int, error) {
	label = strings.TrimSpace(label)
	if n, ok := strings.CutSuffix(label, bceSuffix); ok {
		v, err := parseDisplayYear(label, strings.TrimSpace(n))
		if err != nil {
			return 0, err
		}
		return -(v - 1), nil
	}
	return parseDisplayYear(label, label)
}

// parseDisplayYear reads a positive, unsigned decimal year number.
func parseDisplayYear(label, n string) (int, error) {
	if n == "" || strings.TrimLeft(n, "0123456789") != "" {
		return 0, fmt.Errorf("calendar: bad year label %q", label)
	}
	v, err := strconv.Atoi(n)
	if err != nil {
		return 0, fmt.Errorf("calendar: bad year label %q: %w", label, err)
	}
	if v < 1 {
		return 0, fmt.Errorf("calendar: bad year label %q: year must be at least 1", label)
	}
	return v, nil
}
