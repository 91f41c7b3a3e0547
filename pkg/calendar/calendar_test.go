package calendar

import (
	"testing"
	"time"
)

func TestStartOfWeekMonday(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday itself", time.Date(2024, 3, 11, 15, 4, 0, 0, time.UTC), time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)},
		{"wednesday", time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC), time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)},
		{"sunday rolls back six days", time.Date(2024, 3, 17, 23, 59, 0, 0, time.UTC), time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)},
		{"across month boundary", time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC), time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StartOfWeek(tc.in, time.Monday)
			if !got.Equal(tc.want) {
				t.Errorf("StartOfWeek(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestStartOfWeekSunday(t *testing.T) {
	in := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	if got := StartOfWeek(in, time.Sunday); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestEndOfWeek(t *testing.T) {
	in := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	want := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	if got := EndOfWeek(in, time.Monday); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDaysBetweenUsesCalendarDays(t *testing.T) {
	a := time.Date(2024, 3, 11, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, 3, 12, 0, 1, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 1 {
		t.Errorf("expected 1 day across midnight, got %d", got)
	}
	if got := DaysBetween(b, a); got != -1 {
		t.Errorf("expected -1 going backwards, got %d", got)
	}

	c := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	d := time.Date(2024, 3, 11, 23, 59, 59, 0, time.UTC)
	if got := DaysBetween(c, d); got != 0 {
		t.Errorf("expected 0 within a day, got %d", got)
	}
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2024-03-31 is a 23-hour day in Madrid.
	a := time.Date(2024, 3, 30, 12, 0, 0, 0, loc)
	b := time.Date(2024, 4, 1, 1, 0, 0, 0, loc)
	if got := DaysBetween(a, b); got != 2 {
		t.Errorf("expected 2 days across DST switch, got %d", got)
	}
	if got := StartOfDay(time.Date(2024, 3, 31, 18, 0, 0, 0, loc)); got.Hour() != 0 {
		t.Errorf("expected midnight, got %v", got)
	}
}

func TestIsSameDayConvertsIntoFirstLocation(t *testing.T) {
	east := time.FixedZone("UTC+3", 3*3600)
	a := time.Date(2024, 3, 12, 1, 0, 0, 0, east)
	b := time.Date(2024, 3, 12, 0, 30, 0, 0, time.UTC) // 03:30 on the 12th in UTC+3, a is 22:00 on the 11th in UTC
	if !IsSameDay(a, b) {
		t.Errorf("expected same day when read in %s", east)
	}
	if IsSameDay(b, a) {
		t.Errorf("expected different days when read in UTC")
	}
}

func TestDayArithmetic(t *testing.T) {
	d := Day{Year: 2024, Month: time.February, Day: 28}
	if got := d.AddDays(1); got != (Day{2024, time.February, 29}) {
		t.Errorf("expected leap day, got %v", got)
	}
	if got := d.AddDays(2); got != (Day{2024, time.March, 1}) {
		t.Errorf("expected March 1, got %v", got)
	}
	if got := d.AddDays(-28).String(); got != "2024-01-31" {
		t.Errorf("expected 2024-01-31, got %s", got)
	}
	if !d.Before(d.AddDays(1)) || d.AddDays(1).Before(d) {
		t.Errorf("Before is inconsistent")
	}
	if d.Compare(d) != 0 || d.Compare(d.AddDays(3)) != -1 || d.AddDays(3).Compare(d) != 1 {
		t.Errorf("Compare is inconsistent")
	}
	if d.Weekday() != time.Wednesday {
		t.Errorf("expected Wednesday, got %v", d.Weekday())
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-03-11")
	if err != nil {
		t.Fatalf("ParseDay failed: %v", err)
	}
	if d != (Day{2024, time.March, 11}) {
		t.Errorf("unexpected day %v", d)
	}
	if _, err := ParseDay("11/03/2024"); err == nil {
		t.Errorf("expected error for malformed date")
	}
}

func TestEndOfDayAndMonth(t *testing.T) {
	in := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	if got := EndOfDay(in); !got.Equal(time.Date(2024, 3, 13, 23, 59, 59, 999999999, time.UTC)) {
		t.Errorf("unexpected end of day %v", got)
	}
	if got := StartOfMonth(in); !got.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start of month %v", got)
	}
	if !WithinInclusive(in, StartOfDay(in), EndOfDay(in)) {
		t.Errorf("expected instant within its own day")
	}
}
