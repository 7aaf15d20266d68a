package calendar

import (
	"fmt"
	"golang.org/x/text/language"
	"strconv"
	"strings"
)

// FormatOptions mirrors the subset of locale formatting options the catalog
// uses. Empty fields are omitted from the output.
type FormatOptions struct {
	Weekday string // "long"
	Month   string // "long", "2-digit", "numeric"
	Day     string // "2-digit", "numeric"
	Year    string // "2-digit", "numeric"
	Era     string // "short"
}

type localeNames struct {
	months   [12]string
	weekdays [7]string
}

var supportedLocales = []language.Tag{
	language.English,
	language.Spanish,
	language.French,
	language.German,
}

var localeMatcher = language.NewMatcher(supportedLocales)

var names = []localeNames{
	{
		months:   [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
		weekdays: [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	},
	{
		months:   [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
		weekdays: [7]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"},
	},
	{
		months:   [12]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
		weekdays: [7]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"},
	},
	{
		months:   [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
		weekdays: [7]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
	},
}

func namesFor(locale string) localeNames {
	_, idx, conf := localeMatcher.Match(language.Make(locale))
	if conf == language.No || idx < 0 || idx >= len(names) {
		return names[0]
	}
	return names[idx]
}

// DisplayYear converts an astronomical year to the positive number shown to
// readers: 0 -> 1 (BCE), -1 -> 2 (BCE).
func DisplayYear(year int) int {
	if year > 0 {
		return year
	}
	return -year + 1
}

// Format renders the date in a locale-style layout. Month, day and year are
// joined by '/' unless the month is spelled out, in which case the layout is
// "May 13, 1971". Years at or before year 0 carry a " BCE" suffix; " CE" is
// only added when Era is "short".
func (d Date) Format(locale string, opts FormatOptions) string {
	if opts == (FormatOptions{}) {
		opts = FormatOptions{Month: "numeric", Day: "numeric", Year: "numeric"}
	}
	n := namesFor(locale)

	var month, day, year string
	switch opts.Month {
	case "long":
		month = n.months[d.month]
	case "2-digit":
		month = fmt.Sprintf("%02d", d.month+1)
	case "numeric":
		month = strconv.Itoa(d.month + 1)
	}
	switch opts.Day {
	case "2-digit":
		day = fmt.Sprintf("%02d", d.day)
	case "numeric":
		day = strconv.Itoa(d.day)
	}
	dy := DisplayYear(d.year)
	switch opts.Year {
	case "2-digit":
		year = fmt.Sprintf("%02d", dy%100)
	case "numeric":
		year = strconv.Itoa(dy)
	}
	if year != "" {
		if d.year <= 0 {
			year += " BCE"
		} else if opts.Era == "short" {
			year += " CE"
		}
	}

	var out string
	if opts.Month == "long" {
		var b strings.Builder
		b.WriteString(month)
		if day != "" {
			b.WriteString(" ")
			b.WriteString(day)
			if year != "" {
				b.WriteString(",")
			}
		}
		if year != "" {
			if b.Len() > 0 {
				b.WriteString(" ")
			}
			b.WriteString(year)
		}
		out = b.String()
	} else {
		parts := make([]string, 0, 3)
		for _, p := range []string{month, day, year} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		out = strings.Join(parts, "/")
	}

	if opts.Weekday == "long" {
		wd := n.weekdays[d.weekday]
		if out == "" {
			return wd
		}
		return wd + ", " + out
	}
	return out
}

// String renders "May 13, 1971" style English text.
func (d Date) String() string {
	return d.Format("en-US", FormatOptions{Month: "long", Day: "numeric", Year: "numeric"})
}
