package srs

import (
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/open-spaced-repetition/go-fsrs/v3"
)

func testNow(t *testing.T) time.Time {
	t.Helper()
	now, err := time.Parse(time.RFC3339, "2025-06-10T09:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	return now
}

func TestEmptyState(t *testing.T) {
	is := is.New(t)
	s := NewScheduler(DefaultParameters())
	now := testNow(t)

	state := s.EmptyState(now)
	is.Equal(state.State, fsrs.New)
	is.Equal(state.Due, now)
	is.Equal(state.Reps, uint64(0))
}

func TestScheduleReviewAdvancesState(t *testing.T) {
	is := is.New(t)
	s := NewScheduler(DefaultParameters())
	now := testNow(t)
	state := s.EmptyState(now)

	res, err := s.ScheduleReview(state, Remembered, now)
	is.NoErr(err)
	is.Equal(res.State.Reps, uint64(1))
	is.Equal(res.State.LastReview, now)
	is.True(res.State.State != fsrs.New)
	is.True(res.Due.After(now))
	is.True(res.IntervalDays >= 0)
}

func TestScheduleReviewInvalidOutcome(t *testing.T) {
	is := is.New(t)
	s := NewScheduler(DefaultParameters())
	now := testNow(t)

	_, err := s.ScheduleReview(s.EmptyState(now), Outcome(99), now)
	is.True(errors.Is(err, ErrInvalidOutcome))
}

// Remembering must never schedule a card sooner than forgetting it would,
// from any state we can reach.
func TestRememberedIntervalNeverBelowForgot(t *testing.T) {
	is := is.New(t)
	s := NewScheduler(DefaultParameters())
	now := testNow(t)
	state := s.EmptyState(now)

	// Walk the card through a mix of outcomes and check the invariant at
	// every step.
	outcomes := []Outcome{Remembered, Remembered, Forgot, Remembered, Forgot, Remembered, Remembered}
	for i, outcome := range outcomes {
		forgot, err := s.ScheduleReview(state, Forgot, now)
		is.NoErr(err)
		remembered, err := s.ScheduleReview(state, Remembered, now)
		is.NoErr(err)
		if remembered.IntervalDays < forgot.IntervalDays {
			t.Fatalf("step %d: remembered interval %d < forgot interval %d",
				i, remembered.IntervalDays, forgot.IntervalDays)
		}

		res, err := s.ScheduleReview(state, outcome, now)
		is.NoErr(err)
		state = res.State
		now = res.Due
	}
}

func TestPreviewIntervalsDoesNotMutate(t *testing.T) {
	is := is.New(t)
	s := NewScheduler(DefaultParameters())
	now := testNow(t)

	state := s.EmptyState(now)
	before := state
	s.PreviewIntervals(state, now)
	is.Equal(state, before)

	// Same check from a reviewed state.
	res, err := s.ScheduleReview(state, Remembered, now)
	is.NoErr(err)
	state = res.State
	before = state
	s.PreviewIntervals(state, res.Due)
	is.Equal(state, before)
}

func TestPreviewAgreesWithScheduleReview(t *testing.T) {
	is := is.New(t)
	s := NewScheduler(DefaultParameters())
	now := testNow(t)
	state := s.EmptyState(now)

	preview := s.PreviewIntervals(state, now)
	forgot, err := s.ScheduleReview(state, Forgot, now)
	is.NoErr(err)
	remembered, err := s.ScheduleReview(state, Remembered, now)
	is.NoErr(err)

	is.Equal(preview.Forgot, forgot.IntervalDays)
	is.Equal(preview.Remembered, remembered.IntervalDays)
}

// A new card failed once and then answered correctly: review count climbs
// 1 then 2, and remembering must not shorten the schedule relative to
// failing again.
func TestForgotThenRemembered(t *testing.T) {
	is := is.New(t)
	s := NewScheduler(DefaultParameters())
	now := testNow(t)

	first, err := s.ScheduleReview(s.EmptyState(now), Forgot, now)
	is.NoErr(err)
	is.Equal(first.State.Reps, uint64(1))

	preview := s.PreviewIntervals(first.State, now)
	second, err := s.ScheduleReview(first.State, Remembered, now)
	is.NoErr(err)
	is.Equal(second.State.Reps, uint64(2))
	is.True(second.IntervalDays >= preview.Forgot)
}

func TestFormatInterval(t *testing.T) {
	cases := []struct {
		days int
		want string
	}{
		{0, "< 1 day"},
		{1, "1 day"},
		{2, "2 days"},
		{6, "6 days"},
		{7, "1 week"},
		{13, "1 week"},
		{14, "2 weeks"},
		{29, "4 weeks"},
		{30, "1 month"},
		{59, "1 month"},
		{60, "2 months"},
		{364, "12 months"},
		{365, "1 year"},
		{729, "1 year"},
		{730, "2 years"},
		{1095, "3 years"},
	}
	for _, c := range cases {
		if got := FormatInterval(c.days); got != c.want {
			t.Errorf("FormatInterval(%d) = %q, want %q", c.days, got, c.want)
		}
	}
}

func TestIsDueInclusive(t *testing.T) {
	is := is.New(t)
	now := testNow(t)

	is.True(IsDue(now, now))                   // equal counts as due
	is.True(IsDue(now.Add(-time.Minute), now)) // past
	is.True(!IsDue(now.Add(time.Minute), now)) // future
}

func TestStateName(t *testing.T) {
	is := is.New(t)
	is.Equal(StateName(fsrs.New), "New")
	is.Equal(StateName(fsrs.Learning), "Learning")
	is.Equal(StateName(fsrs.Review), "Review")
	is.Equal(StateName(fsrs.Relearning), "Relearning")
	is.Equal(StateName(fsrs.State(42)), "Unknown")
}

func TestCalculateRetention(t *testing.T) {
	is := is.New(t)
	is.Equal(CalculateRetention(0, 0), float64(0))
	is.Equal(CalculateRetention(80, 100), 0.8)
	is.Equal(CalculateRetention(3, 4), 0.75)
}
