// Package session orchestrates review runs: it accepts a queue, steps a
// user through it, and records the outcome of every answer. Scheduling
// itself stays in srs; this package only sequences compute-then-persist.
package session

import (
	"time"

	"github.com/mkrech/studyvault/internal/queue"
)

// Session is one study run over an ordered card queue.
type Session struct {
	ID       string
	Mode     queue.Mode
	TopicIDs []string

	CardIDs          []string
	CurrentIndex     int
	CompletedCardIDs []string

	CardsReviewed   int
	CardsRemembered int
	CardsForgot     int

	StartedAt   time.Time
	CompletedAt time.Time // zero until the session is closed
	TotalTimeMs int64
	IsActive    bool
}

// Remaining is the number of unanswered cards in the queue.
func (s *Session) Remaining() int {
	if s.CurrentIndex >= len(s.CardIDs) {
		return 0
	}
	return len(s.CardIDs) - s.CurrentIndex
}

// CurrentCardID returns the id of the card up next, or "" when the queue
// is consumed.
func (s *Session) CurrentCardID() string {
	if s.CurrentIndex >= len(s.CardIDs) {
		return ""
	}
	return s.CardIDs[s.CurrentIndex]
}

// DailyStats is one aggregate row per calendar day, keyed by ISO date.
type DailyStats struct {
	Date            string
	CardsReviewed   int
	CardsRemembered int
	CardsForgot     int
	NewCardsLearned int
	TimeSpentMs     int64
}

// Streak summarizes consecutive days with at least one review.
type Streak struct {
	Current        int
	Longest        int
	LastReviewDate string // "" when there are no stats rows
}

// Stats are per-session derivatives for display.
type Stats struct {
	CardsReviewed        int
	CardsRemembered      int
	CardsForgot          int
	Accuracy             float64
	AverageTimePerCardMs int64
	TotalTimeMs          int64
}
