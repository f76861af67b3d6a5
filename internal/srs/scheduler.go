// Package srs wraps the FSRS memory model behind the two-button review
// vocabulary the rest of the app speaks: a card was either remembered or
// forgotten. All scheduling math is pure; callers pass the clock in.
package srs

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/open-spaced-repetition/go-fsrs/v3"
)

var ErrInvalidOutcome = errors.New("invalid review outcome")

// Outcome is the two-button rating vocabulary.
type Outcome int

const (
	Forgot Outcome = iota + 1
	Remembered
)

func (o Outcome) String() string {
	switch o {
	case Forgot:
		return "forgot"
	case Remembered:
		return "remembered"
	default:
		return "unknown"
	}
}

// rating maps an outcome onto the FSRS four-point scale. Forgot is a lapse
// (Again); Remembered is a plain pass (Good).
func (o Outcome) rating() (fsrs.Rating, error) {
	switch o {
	case Forgot:
		return fsrs.Again, nil
	case Remembered:
		return fsrs.Good, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidOutcome, int(o))
	}
}

const DefaultMaximumIntervalDays = 365 * 5

// DefaultParameters returns the FSRS parameters used throughout.
// Fuzz stays off so that PreviewIntervals agrees exactly with what
// ScheduleReview will produce.
func DefaultParameters() fsrs.Parameters {
	params := fsrs.DefaultParam()
	params.EnableShortTerm = false
	params.EnableFuzz = false
	params.MaximumInterval = DefaultMaximumIntervalDays
	return params
}

type Scheduler struct {
	params fsrs.Parameters
	f      *fsrs.FSRS
}

func NewScheduler(params fsrs.Parameters) *Scheduler {
	return &Scheduler{params: params, f: fsrs.NewFSRS(params)}
}

// EmptyState is the memory state of a brand-new card: New lifecycle, due
// immediately, default stability and difficulty.
func (s *Scheduler) EmptyState(now time.Time) fsrs.Card {
	card := fsrs.NewCard()
	card.Due = now
	return card
}

// Result of scheduling one review.
type Result struct {
	State        fsrs.Card
	Due          time.Time
	IntervalDays int
}

// ScheduleReview applies one review outcome to a memory state and returns
// the successor state, its due date, and the interval in whole days. The
// input state is taken by value and never mutated.
func (s *Scheduler) ScheduleReview(state fsrs.Card, outcome Outcome, now time.Time) (Result, error) {
	rating, err := outcome.rating()
	if err != nil {
		return Result{}, err
	}
	scheduled := s.f.Repeat(state, now)[rating].Card
	return Result{
		State:        scheduled,
		Due:          scheduled.Due,
		IntervalDays: intervalDays(scheduled.Due, now),
	}, nil
}

// Preview holds the would-be intervals for each answer, for display before
// the user commits to one.
type Preview struct {
	Forgot     int
	Remembered int
}

// PreviewIntervals computes both branches without touching the state. It is
// guaranteed to agree with ScheduleReview for either outcome.
func (s *Scheduler) PreviewIntervals(state fsrs.Card, now time.Time) Preview {
	log := s.f.Repeat(state, now)
	return Preview{
		Forgot:     intervalDays(log[fsrs.Again].Card.Due, now),
		Remembered: intervalDays(log[fsrs.Good].Card.Due, now),
	}
}

// Retrievability estimates the probability of recalling the card right now.
func (s *Scheduler) Retrievability(state fsrs.Card, now time.Time) float64 {
	return s.f.GetRetrievability(state, now)
}

func intervalDays(due, now time.Time) int {
	days := int(math.Round(due.Sub(now).Hours() / 24.0))
	if days < 0 {
		return 0
	}
	return days
}

// FormatInterval renders an interval in days as a human label.
func FormatInterval(days int) string {
	switch {
	case days <= 0:
		return "< 1 day"
	case days == 1:
		return "1 day"
	case days < 7:
		return fmt.Sprintf("%d days", days)
	case days < 14:
		return "1 week"
	case days < 30:
		return fmt.Sprintf("%d weeks", int(math.Round(float64(days)/7.0)))
	case days < 60:
		return "1 month"
	case days < 365:
		return fmt.Sprintf("%d months", int(math.Round(float64(days)/30.0)))
	case days < 730:
		return "1 year"
	default:
		return fmt.Sprintf("%d years", int(math.Round(float64(days)/365.0)))
	}
}

// IsDue reports whether a card scheduled for due should be shown at asOf.
// A due date equal to asOf counts as due.
func IsDue(due, asOf time.Time) bool {
	return !due.After(asOf)
}

// StateName is the display name for a lifecycle state.
func StateName(state fsrs.State) string {
	switch state {
	case fsrs.New:
		return "New"
	case fsrs.Learning:
		return "Learning"
	case fsrs.Review:
		return "Review"
	case fsrs.Relearning:
		return "Relearning"
	default:
		return "Unknown"
	}
}

// CalculateRetention is the remembered fraction of total reviews, 0 when
// there were none.
func CalculateRetention(remembered, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(remembered) / float64(total)
}
