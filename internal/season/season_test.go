package season

import (
	"errors"
	"testing"
	"time"
)

func TestParse_Valid(t *testing.T) {
	s, err := Parse("2026-2")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if s.Year != 2026 || s.Quarter != 2 {
		t.Fatalf("season=%+v want 2026-2", s)
	}
	if s.ID() != "2026-2" {
		t.Fatalf("id=%q want 2026-2", s.ID())
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, id := range []string{"", "2026", "2026-0", "2026-4", "abcd-1", "2026-x", "2026-1-1"} {
		if _, err := Parse(id); !errors.Is(err, ErrInvalidSeasonID) {
			t.Fatalf("Parse(%q) err=%v want ErrInvalidSeasonID", id, err)
		}
	}
}

func TestDateRange_PartitionsYear(t *testing.T) {
	var prevEnd time.Time
	for q := 1; q <= 3; q++ {
		s := Season{Year: 2026, Quarter: q}
		start, end := s.DateRange()
		if !start.Before(end) {
			t.Fatalf("q%d: start %v not before end %v", q, start, end)
		}
		if q == 1 {
			want := time.Date(2026, time.January, 1, 0, 0, 0, 0, KST)
			if !start.Equal(want) {
				t.Fatalf("q1 start=%v want %v", start, want)
			}
		} else {
			// Contiguous: each quarter starts the day after the previous ends.
			if !start.Equal(prevEnd.AddDate(0, 0, 1)) {
				t.Fatalf("q%d start=%v want day after %v", q, start, prevEnd)
			}
		}
		prevEnd = end
	}
	want := time.Date(2026, time.December, 31, 0, 0, 0, 0, KST)
	if !prevEnd.Equal(want) {
		t.Fatalf("q3 end=%v want %v", prevEnd, want)
	}
}

func TestDateRange_LastDays(t *testing.T) {
	_, end := Season{Year: 2026, Quarter: 1}.DateRange()
	if end.Day() != 30 || end.Month() != time.April {
		t.Fatalf("q1 end=%v want Apr 30", end)
	}
	_, end = Season{Year: 2026, Quarter: 2}.DateRange()
	if end.Day() != 31 || end.Month() != time.August {
		t.Fatalf("q2 end=%v want Aug 31", end)
	}
}

func TestAt_QuarterBoundariesKST(t *testing.T) {
	cases := []struct {
		asOf time.Time
		want Season
	}{
		{time.Date(2026, time.April, 30, 23, 59, 0, 0, KST), Season{2026, 1}},
		{time.Date(2026, time.May, 1, 0, 0, 0, 0, KST), Season{2026, 2}},
		{time.Date(2026, time.September, 1, 0, 0, 0, 0, KST), Season{2026, 3}},
		// 2026-08-31 15:30 UTC is already Sep 1 00:30 KST.
		{time.Date(2026, time.August, 31, 15, 30, 0, 0, time.UTC), Season{2026, 3}},
		{time.Date(2026, time.December, 31, 23, 0, 0, 0, KST), Season{2026, 3}},
	}
	for _, tc := range cases {
		if got := At(tc.asOf); got != tc.want {
			t.Fatalf("At(%v)=%+v want %+v", tc.asOf, got, tc.want)
		}
	}
}

func TestContains(t *testing.T) {
	s := Season{Year: 2026, Quarter: 2}
	if !s.Contains(time.Date(2026, time.May, 1, 0, 0, 0, 0, KST)) {
		t.Fatalf("May 1 should be in q2")
	}
	if !s.Contains(time.Date(2026, time.August, 31, 12, 0, 0, 0, KST)) {
		t.Fatalf("Aug 31 should be in q2")
	}
	if s.Contains(time.Date(2026, time.April, 30, 0, 0, 0, 0, KST)) {
		t.Fatalf("Apr 30 should not be in q2")
	}
}

func TestPrevious(t *testing.T) {
	if _, ok := (Season{Year: 2026, Quarter: 1}).Previous(); ok {
		t.Fatalf("quarter 1 must have no previous season")
	}
	prev, ok := (Season{Year: 2026, Quarter: 3}).Previous()
	if !ok || prev != (Season{Year: 2026, Quarter: 2}) {
		t.Fatalf("prev=%+v ok=%v want 2026-2", prev, ok)
	}
}
