package stats

import (
	"testing"
	"time"

	"github.com/fastygo/deadliner/domain"
)

func TestComputeDayHealthNone(t *testing.T) {
	got := ComputeDayHealth(nil, nil, at(12, 0), at(13, 12))
	if got.Status != HealthNone || got.Score != 0 || got.Date != "2024-03-12" {
		t.Fatalf("expected empty day, got %+v", got)
	}
}

func TestComputeDayHealthScores(t *testing.T) {
	today := at(20, 12)
	deadlines := []domain.Deadline{
		doneDeadline("a", at(12, 20), at(12, 9), ""),
		doneDeadline("b", at(15, 20), at(12, 11), ""),
		doneDeadline("c", at(14, 9), at(14, 8), ""),
		doneDeadline("d", at(14, 9), at(14, 8), ""),
		doneDeadline("e", at(14, 9), at(14, 8), ""),
		doneDeadline("f", at(14, 9), at(14, 8), ""),
	}
	sessions := []domain.FocusSession{
		workSession(at(12, 13), 50),
		session(domain.SessionShortBreak, at(12, 14), 5, true),
		workSession(at(14, 10), 61),
	}

	cases := []struct {
		day        int
		wantStatus HealthStatus
		wantScore  int
		wantFocus  int
	}{
		// 2 * 15 + 50 / 2
		{12, HealthStable, 55, 50},
		// capped at 50 + 30
		{14, HealthVital, 80, 61},
	}
	for _, tc := range cases {
		got := ComputeDayHealth(deadlines, sessions, at(tc.day, 0), today)
		if got.Status != tc.wantStatus || got.Score != tc.wantScore || got.FocusMinutes != tc.wantFocus {
			t.Errorf("day %d: got %+v", tc.day, got)
		}
	}
}

func TestComputeDayHealthOverdue(t *testing.T) {
	today := at(13, 12)
	deadlines := []domain.Deadline{
		doneDeadline("late", at(10, 9), at(10, 15), ""),
		openDeadline("missed", at(11, 9)),
		openDeadline("pending", at(13, 18)),
	}

	late := ComputeDayHealth(deadlines, nil, at(10, 0), today)
	if late.CompletedCount != 1 || late.OverdueCount != 1 {
		t.Fatalf("expected completed and overdue on the 10th, got %+v", late)
	}
	if late.Score != 0 || late.Status != HealthFlatline {
		t.Fatalf("expected flatline, got %+v", late)
	}

	missed := ComputeDayHealth(deadlines, nil, at(11, 0), today)
	if missed.OverdueCount != 1 || missed.Status != HealthFlatline {
		t.Fatalf("expected missed deadline to flatline, got %+v", missed)
	}

	pending := ComputeDayHealth(deadlines, nil, at(13, 0), today)
	if pending.OverdueCount != 0 || pending.Status != HealthNone {
		t.Fatalf("expected pending day to be none, got %+v", pending)
	}
}

func TestComputeDayHealthWeakAndCritical(t *testing.T) {
	today := at(20, 12)
	deadlines := []domain.Deadline{
		doneDeadline("a", at(5, 20), at(5, 9), ""),
		doneDeadline("b", at(5, 20), at(5, 10), ""),
	}
	sessions := []domain.FocusSession{workSession(at(6, 9), 20)}

	if got := ComputeDayHealth(deadlines, sessions, at(5, 0), today); got.Status != HealthWeak || got.Score != 30 {
		t.Fatalf("expected weak 30, got %+v", got)
	}
	if got := ComputeDayHealth(deadlines, sessions, at(6, 0), today); got.Status != HealthCritical || got.Score != 10 {
		t.Fatalf("expected critical 10, got %+v", got)
	}
}

func TestComputeMonthHealth(t *testing.T) {
	today := at(20, 12)
	deadlines := []domain.Deadline{doneDeadline("a", at(5, 20), at(5, 9), "")}

	month := ComputeMonthHealth(deadlines, nil, at(15, 0), today)
	if len(month) != 31 {
		t.Fatalf("expected 31 days, got %d", len(month))
	}
	if month[0].Date != "2024-03-01" || month[30].Date != "2024-03-31" {
		t.Fatalf("unexpected range %s..%s", month[0].Date, month[30].Date)
	}
	if month[4].CompletedCount != 1 || month[4].Status != HealthCritical {
		t.Fatalf("expected activity on the 5th, got %+v", month[4])
	}

	feb := ComputeMonthHealth(nil, nil, time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC), today)
	if len(feb) != 29 {
		t.Fatalf("expected 29 days in February 2024, got %d", len(feb))
	}
}

func TestHealthStatusLabel(t *testing.T) {
	for _, s := range []HealthStatus{HealthVital, HealthStable, HealthWeak, HealthCritical, HealthFlatline, HealthNone} {
		if s.Label() == "" {
			t.Errorf("missing label for %s", s)
		}
	}
}
