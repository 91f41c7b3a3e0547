package stats

import (
	"testing"
	"time"

	"github.com/fastygo/deadliner/domain"
)

func TestComputeStreakEmpty(t *testing.T) {
	got := ComputeStreak(nil, nil, at(13, 12))
	if got != (StreakStats{}) {
		t.Fatalf("expected zero streak, got %+v", got)
	}
}

func TestComputeStreakCountsBackFromToday(t *testing.T) {
	now := at(13, 20)
	deadlines := []domain.Deadline{
		doneDeadline("a", at(13, 9), at(13, 9), ""),
		doneDeadline("b", at(12, 9), at(12, 9), ""),
	}
	sessions := []domain.FocusSession{workSession(at(11, 9), 25)}

	got := ComputeStreak(deadlines, sessions, now)
	if got.CurrentStreak != 3 || !got.TodayActive {
		t.Fatalf("expected current 3 and today active, got %+v", got)
	}
}

func TestComputeStreakSurvivesUntilEndOfToday(t *testing.T) {
	now := at(13, 8)
	deadlines := []domain.Deadline{
		doneDeadline("a", at(12, 9), at(12, 9), ""),
		doneDeadline("b", at(11, 9), at(11, 9), ""),
	}

	got := ComputeStreak(deadlines, nil, now)
	if got.CurrentStreak != 2 || got.TodayActive {
		t.Fatalf("expected current 2 from yesterday, got %+v", got)
	}
}

func TestComputeStreakBrokenWhenYesterdayIdle(t *testing.T) {
	now := at(13, 8)
	deadlines := []domain.Deadline{
		doneDeadline("a", at(11, 9), at(11, 9), ""),
		doneDeadline("b", at(10, 9), at(10, 9), ""),
		doneDeadline("c", at(9, 9), at(9, 9), ""),
	}

	got := ComputeStreak(deadlines, nil, now)
	if got.CurrentStreak != 0 {
		t.Fatalf("expected broken streak, got %d", got.CurrentStreak)
	}
	if got.LongestStreak != 3 {
		t.Fatalf("expected longest 3, got %d", got.LongestStreak)
	}
}

func TestComputeStreakIgnoresBreaksAndUnfinished(t *testing.T) {
	now := at(13, 20)
	sessions := []domain.FocusSession{
		session(domain.SessionShortBreak, at(13, 9), 5, true),
		session(domain.SessionWork, at(13, 10), 25, false),
	}

	got := ComputeStreak(nil, sessions, now)
	if got.CurrentStreak != 0 || got.LongestStreak != 0 || got.TodayActive {
		t.Fatalf("expected no activity, got %+v", got)
	}
}

func TestComputeStreakLongestAtLeastCurrent(t *testing.T) {
	now := at(20, 12)
	var deadlines []domain.Deadline
	for _, day := range []int{1, 2, 5, 6, 7, 8, 18, 19, 20} {
		deadlines = append(deadlines, doneDeadline("d", at(day, 9), at(day, 9), ""))
	}

	got := ComputeStreak(deadlines, nil, now)
	if got.CurrentStreak != 3 {
		t.Fatalf("expected current 3, got %d", got.CurrentStreak)
	}
	if got.LongestStreak != 4 {
		t.Fatalf("expected longest 4, got %d", got.LongestStreak)
	}
	if got.LongestStreak < got.CurrentStreak {
		t.Fatalf("longest %d < current %d", got.LongestStreak, got.CurrentStreak)
	}
}

func TestComputeStreakWalkIsBounded(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	var deadlines []domain.Deadline
	for i := 0; i < MaxStreakWalk+30; i++ {
		day := now.AddDate(0, 0, -i)
		deadlines = append(deadlines, doneDeadline("d", day, day, ""))
	}

	got := ComputeStreak(deadlines, nil, now)
	if got.CurrentStreak != MaxStreakWalk {
		t.Fatalf("expected current capped at %d, got %d", MaxStreakWalk, got.CurrentStreak)
	}
	if got.LongestStreak != MaxStreakWalk+30 {
		t.Fatalf("expected longest %d, got %d", MaxStreakWalk+30, got.LongestStreak)
	}
}
