package stats

import (
	"testing"
	"time"

	"github.com/fastygo/deadliner/domain"
)

func TestComputeWeeklyEmpty(t *testing.T) {
	got := ComputeWeekly(nil, nil, at(13, 12))
	if got.CompletedTotal != 0 || got.TotalFocusMinutes != 0 || got.FocusSessionsCount != 0 || got.TodaySessionsCount != 0 {
		t.Fatalf("expected zero stats, got %+v", got)
	}
	if got.CompletedByCategory == nil || len(got.CompletedByCategory) != 0 {
		t.Fatalf("expected empty non-nil category map, got %#v", got.CompletedByCategory)
	}
}

func TestComputeWeeklyCountsOnlyCurrentWeek(t *testing.T) {
	// Wednesday 13 March 2024; the week runs Monday 11 to Sunday 17.
	now := at(13, 12)
	deadlines := []domain.Deadline{
		doneDeadline("mon", at(11, 9), time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), "work"),
		doneDeadline("wed", at(13, 9), at(13, 8), "work"),
		doneDeadline("sun", at(17, 9), time.Date(2024, 3, 17, 23, 59, 59, 0, time.UTC), ""),
		doneDeadline("prev", at(10, 9), at(10, 23), "work"),
		doneDeadline("next", at(18, 9), at(18, 0), "work"),
		openDeadline("open", at(14, 9)),
	}

	got := ComputeWeekly(deadlines, nil, now)
	if got.CompletedTotal != 3 {
		t.Fatalf("expected 3 completions, got %d", got.CompletedTotal)
	}
	if got.CompletedByCategory["work"] != 2 || got.CompletedByCategory[Uncategorized] != 1 {
		t.Fatalf("unexpected category split: %#v", got.CompletedByCategory)
	}

	sum := 0
	for _, n := range got.CompletedByCategory {
		sum += n
	}
	if sum != got.CompletedTotal {
		t.Fatalf("category sum %d != total %d", sum, got.CompletedTotal)
	}
}

func TestComputeWeeklyFocusExcludesBreaks(t *testing.T) {
	now := at(13, 12)
	sessions := []domain.FocusSession{
		workSession(at(11, 10), 25),
		workSession(at(13, 9), 50),
		session(domain.SessionShortBreak, at(13, 10), 5, true),
		session(domain.SessionLongBreak, at(13, 11), 15, true),
		session(domain.SessionWork, at(13, 11), 25, false),
		workSession(at(10, 10), 25),
	}

	got := ComputeWeekly(nil, sessions, now)
	if got.TotalFocusMinutes != 75 {
		t.Fatalf("expected 75 focus minutes, got %d", got.TotalFocusMinutes)
	}
	if got.FocusSessionsCount != 2 {
		t.Fatalf("expected 2 sessions, got %d", got.FocusSessionsCount)
	}
	if got.TodaySessionsCount != 1 {
		t.Fatalf("expected 1 session today, got %d", got.TodaySessionsCount)
	}
}

func TestComputeWeeklyUsesReferenceLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	// Sunday 23:30 UTC is already Monday in UTC+3, so it belongs to the next week there.
	done := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	deadlines := []domain.Deadline{doneDeadline("edge", done, done, "")}

	if got := ComputeWeekly(deadlines, nil, time.Date(2024, 3, 13, 12, 0, 0, 0, loc)); got.CompletedTotal != 1 {
		t.Fatalf("expected completion in UTC+3 week, got %d", got.CompletedTotal)
	}
	if got := ComputeWeekly(deadlines, nil, at(13, 12)); got.CompletedTotal != 0 {
		t.Fatalf("expected no completion in UTC week, got %d", got.CompletedTotal)
	}
}

func TestComputeWeeklyIsIdempotent(t *testing.T) {
	now := at(13, 12)
	deadlines := []domain.Deadline{doneDeadline("a", at(12, 9), at(12, 9), "x")}
	sessions := []domain.FocusSession{workSession(at(12, 9), 25)}

	first := ComputeWeekly(deadlines, sessions, now)
	second := ComputeWeekly(deadlines, sessions, now)
	if first.CompletedTotal != second.CompletedTotal || first.TotalFocusMinutes != second.TotalFocusMinutes ||
		first.CompletedByCategory["x"] != second.CompletedByCategory["x"] {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
}
