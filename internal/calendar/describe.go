package calendar

// Description is a date rendered every way the catalog exposes it.
type Description struct {
	ISO       string  `json:"iso"`
	Year      int     `json:"year"`
	Month     int     `json:"month"` // 1-12
	Day       int     `json:"day"`
	Weekday   string  `json:"weekday"`
	YearLabel string  `json:"year_label"`
	Formatted string  `json:"formatted"`
	JDN       float64 `json:"jdn"`
	UnixMilli int64   `json:"unix_ms"`
	Relative  string  `json:"relative"`
}

func Describe(d Date, locale string, today Date) Description {
	return Description{
		ISO:       d.ISO(),
		Year:      d.year,
		Month:     d.month + 1,
		Day:       d.day,
		Weekday:   namesFor(locale).weekdays[d.weekday],
		YearLabel: FormatYear(d.year),
		Formatted: d.Format(locale, FormatOptions{Month: "long", Day: "numeric", Year: "numeric"}),
		JDN:       d.JDN(),
		UnixMilli: d.UnixMilli(),
		Relative:  Humanize(d, today),
	}
}
