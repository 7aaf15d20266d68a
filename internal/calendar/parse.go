package calendar

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrUnparseable = errors.New("calendar: unparseable date")

var (
	isoRe   = regexp.MustCompile(`^([+-]?\d+)-(\d{2})-(\d{2})(?:T.*)?$`)
	slashRe = regexp.MustCompile(`(?i)^(\d{1,2})/(\d{1,2})/(\d+)(?:\s*(BCE|BC|CE|AD))?$`)
	longRe  = regexp.MustCompile(`(?i)^([a-z]+)\.?\s+(\d{1,2}),?\s+(\d+)(?:\s*(BCE|BC|CE|AD))?$`)
)

var monthByName = map[string]int{
	"january": 0, "jan": 0,
	"february": 1, "feb": 1,
	"march": 2, "mar": 2,
	"april": 3, "apr": 3,
	"may": 4,
	"june": 5, "jun": 5,
	"july": 6, "jul": 6,
	"august": 7, "aug": 7,
	"september": 8, "sep": 8, "sept": 8,
	"october": 9, "oct": 9,
	"november": 10, "nov": 10,
	"december": 11, "dec": 11,
}

// Parse reads a date in one of the accepted forms, tried in order:
//
//	-134999-07-21        extended ISO, signed year, 1-indexed month
//	5/13/1971, 1/1/500 BCE
//	May 13, 1971         optional BCE/BC/CE/AD era
//
// Era-less display years are taken as-is; BCE years map to astronomical
// numbering (1 BCE = 0).
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrUnparseable
	}
	if d, err := FromISO(s); err == nil {
		return d, nil
	}
	if m := slashRe.FindStringSubmatch(s); m != nil {
		month, err1 := strconv.Atoi(m[1])
		day, err2 := strconv.Atoi(m[2])
		year, err3 := strconv.Atoi(m[3])
		if err := errors.Join(err1, err2, err3); err != nil {
			return Date{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
		}
		return New(applyEra(year, m[4]), month-1, day), nil
	}
	if m := longRe.FindStringSubmatch(s); m != nil {
		month, ok := monthByName[strings.ToLower(m[1])]
		if !ok {
			return Date{}, fmt.Errorf("%w: unknown month %q", ErrUnparseable, m[1])
		}
		day, err1 := strconv.Atoi(m[2])
		year, err2 := strconv.Atoi(m[3])
		if err := errors.Join(err1, err2); err != nil {
			return Date{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
		}
		return New(applyEra(year, m[4]), month, day), nil
	}
	return Date{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
}

// ParseOrFallback never fails: unrecognized input yields Fallback.
func ParseOrFallback(s string) Date {
	d, err := Parse(s)
	if err != nil {
		return Fallback
	}
	return d
}

// FromISO parses the extended ISO form produced by Date.ISO. The sign is
// optional on input.
func FromISO(s string) (Date, error) {
	m := isoRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Date{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
	}
	year, err1 := strconv.Atoi(m[1])
	month, err2 := strconv.Atoi(m[2])
	day, err3 := strconv.Atoi(m[3])
	if err := errors.Join(err1, err2, err3); err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
	}
	return New(year, month-1, day), nil
}

func applyEra(displayYear int, era string) int {
	switch strings.ToUpper(era) {
	case "BCE", "BC":
		return -(displayYear - 1)
	}
	return displayYear
}

// ISO renders the date as sign + at least six year digits + month + day,
// e.g. +001971-05-13 or -134999-07-21.
func (d Date) ISO() string {
	sign := '+'
	y := d.year
	if y < 0 {
		sign = '-'
		y = -y
	}
	return fmt.Sprintf("%c%06d-%02d-%02d", sign, y, d.month+1, d.day)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.ISO()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	v, err := FromISO(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
