// Package season maps calendar dates to seasons. A year splits into three
// fixed seasons: Jan-Apr, May-Aug, Sep-Dec, anchored to KST. Seasons never
// overlap and partition the year exactly.
package season

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// KST is the reference timezone for all season and poll-date math.
// Fixed offset; Korea does not observe DST.
var KST = time.FixedZone("KST", 9*60*60)

var ErrInvalidSeasonID = errors.New("invalid season id")

// quarterMonths[q-1] is the inclusive [first, last] month of quarter q.
var quarterMonths = [3][2]time.Month{
	{time.January, time.April},
	{time.May, time.August},
	{time.September, time.December},
}

// Season identifies one ranking season, e.g. "2026-2".
type Season struct {
	Year    int
	Quarter int
}

// Parse parses a season id of the form "YYYY-Q" with quarter 1..3.
func Parse(id string) (Season, error) {
	parts := strings.Split(id, "-")
	if len(parts) != 2 {
		return Season{}, fmt.Errorf("%w: %q", ErrInvalidSeasonID, id)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year <= 0 {
		return Season{}, fmt.Errorf("%w: %q", ErrInvalidSeasonID, id)
	}
	quarter, err := strconv.Atoi(parts[1])
	if err != nil || quarter < 1 || quarter > 3 {
		return Season{}, fmt.Errorf("%w: %q", ErrInvalidSeasonID, id)
	}
	return Season{Year: year, Quarter: quarter}, nil
}

// At returns the season containing the given instant, evaluated in KST.
// Callers pass an explicit as-of time; only the outermost entry points
// default it to the wall clock.
func At(asOf time.Time) Season {
	t := asOf.In(KST)
	month := t.Month()
	quarter := 1
	switch {
	case month <= time.April:
		quarter = 1
	case month <= time.August:
		quarter = 2
	default:
		quarter = 3
	}
	return Season{Year: t.Year(), Quarter: quarter}
}

func (s Season) ID() string {
	return fmt.Sprintf("%d-%d", s.Year, s.Quarter)
}

// DateRange returns the inclusive [start, end] dates of the season at KST
// midnight. End is the last day of the season's final month.
func (s Season) DateRange() (start, end time.Time) {
	months := quarterMonths[s.Quarter-1]
	start = time.Date(s.Year, months[0], 1, 0, 0, 0, 0, KST)
	// Day 0 of the following month is the last day of months[1].
	end = time.Date(s.Year, months[1]+1, 0, 0, 0, 0, 0, KST)
	return start, end
}

// Contains reports whether the given date (compared by KST calendar day)
// falls inside the season.
func (s Season) Contains(date time.Time) bool {
	start, end := s.DateRange()
	d := time.Date(date.In(KST).Year(), date.In(KST).Month(), date.In(KST).Day(), 0, 0, 0, 0, KST)
	return !d.Before(start) && !d.After(end)
}

// Previous returns the immediately preceding season within the same year.
// Quarter 1 has no carry-in source: ratings never carry across a year
// boundary.
func (s Season) Previous() (Season, bool) {
	if s.Quarter <= 1 {
		return Season{}, false
	}
	return Season{Year: s.Year, Quarter: s.Quarter - 1}, true
}
