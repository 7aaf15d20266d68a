package catalog

import (
	"fmt"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/calendar"
	"sort"
	"strings"
)

// AllYears is the year filter value that disables the year constraint.
const AllYears = "All Years"

// YearCount is the number of episodes dated in one astronomical year.
type YearCount struct {
	Year  int
	Count int
}

// PeriodGroup is a span of years shown as one era in the year listing.
type PeriodGroup struct {
	Start int
	End   int
	Count int
}

func (g PeriodGroup) Label() string {
	if g.Start == g.End {
		return calendar.FormatYear(g.Start)
	}
	return calendar.FormatYear(g.Start) + "-" + calendar.FormatYear(g.End)
}

// Contains reports whether year falls inside the inclusive span.
func (g PeriodGroup) Contains(year int) bool {
	return year >= g.Start && year <= g.End
}

// GroupPeriods folds sorted years-with-data into eras.
//
// Years are accumulated left to right until the running episode count reaches
// threshold (or the years run out), which closes a group. Closed groups whose
// spans touch (next.Start == prev.End+1) are then merged. Years without data
// are never treated as adjacent, so a merge never bridges a calendar gap.
func GroupPeriods(years []YearCount, threshold int) []PeriodGroup {
	if len(years) == 0 {
		return nil
	}
	if threshold < 1 {
		threshold = 1
	}

	closed := make([]PeriodGroup, 0, len(years))
	var cur PeriodGroup
	open := false
	for i, yc := range years {
		if !open {
			cur = PeriodGroup{Start: yc.Year}
			open = true
		}
		cur.End = yc.Year
		cur.Count += yc.Count
		if cur.Count >= threshold || i == len(years)-1 {
			closed = append(closed, cur)
			open = false
		}
	}

	merged := make([]PeriodGroup, 0, len(closed))
	run := closed[0]
	for _, g := range closed[1:] {
		if g.Start == run.End+1 {
			run.End = g.End
			run.Count += g.Count
			continue
		}
		merged = append(merged, run)
		run = g
	}
	return append(merged, run)
}

// PeriodLabels renders groups and re-sorts the labels by parsed start year.
// The sort restores chronological order should the grouping passes ever
// emit groups out of order.
func PeriodLabels(groups []PeriodGroup) []string {
	type keyed struct {
		label string
		start int
	}
	ks := make([]keyed, 0, len(groups))
	for _, g := range groups {
		label := g.Label()
		start, _, err := ParsePeriodLabel(label)
		if err != nil {
			start = g.Start
		}
		ks = append(ks, keyed{label: label, start: start})
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].start < ks[j].start })

	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = k.label
	}
	return out
}

// ParsePeriodLabel inverts PeriodGroup.Label. A label is split on '-' only
// when the dash separates two year labels; endpoints come back ordered.
func ParsePeriodLabel(label string) (start, end int, err error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, 0, fmt.Errorf("catalog: empty period label")
	}
	if i := strings.Index(label[1:], "-"); i >= 0 {
		left, right := label[:i+1], label[i+2:]
		if start, err = calendar.ParseYear(left); err != nil {
			return 0, 0, err
		}
		if end, err = calendar.ParseYear(right); err != nil {
			return 0, 0, err
		}
		if start > end {
			start, end = end, start
		}
		return start, end, nil
	}
	year, err := calendar.ParseYear(label)
	if err != nil {
		return 0, 0, err
	}
	return year, year, nil
}
