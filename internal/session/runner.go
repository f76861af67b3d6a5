package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/open-spaced-repetition/go-fsrs/v3"
	"github.com/rs/zerolog/log"

	"github.com/mkrech/studyvault/internal/deck"
	"github.com/mkrech/studyvault/internal/queue"
	"github.com/mkrech/studyvault/internal/srs"
)

var (
	ErrSessionActive   = errors.New("a review session is already active")
	ErrSessionNotFound = errors.New("no such session")
	ErrSessionClosed   = errors.New("session is no longer active")
	ErrQueueConsumed   = errors.New("session queue is already consumed")
)

const isoDate = "2006-01-02"

// Store is the persistence surface the runner needs. *store.Store
// satisfies it.
type Store interface {
	CardByID(id string) (*deck.Card, error)
	UpsertCard(c *deck.Card) error

	InsertSession(sess *Session) error
	UpsertSession(sess *Session) error
	SessionByID(id string) (*Session, error)
	ActiveSession() (*Session, error)

	DailyStatsFor(date string) (*DailyStats, error)
	UpsertDailyStats(st *DailyStats) error
	AllDailyStats() ([]DailyStats, error)
	DailyStatsRange(start, end string) ([]DailyStats, error)
}

// Runner drives review sessions. Each answer is computed by the scheduler
// first and only then persisted: card, session, daily stats, in that order.
type Runner struct {
	Store     Store
	Queue     *queue.Builder
	Scheduler *srs.Scheduler
	Nower     srs.Nower
}

func NewRunner(store Store, qb *queue.Builder, scheduler *srs.Scheduler) *Runner {
	return &Runner{Store: store, Queue: qb, Scheduler: scheduler, Nower: srs.RealNower{}}
}

// Start builds a queue and opens a session over it. At most one session may
// be active at a time. An empty queue still yields a session; the caller
// decides whether "nothing to review" is worth presenting.
func (r *Runner) Start(opts queue.Options) (*Session, error) {
	active, err := r.Store.ActiveSession()
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrSessionActive
	}

	result, err := r.Queue.BuildQueue(opts)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:        uuid.NewString(),
		Mode:      opts.Mode,
		TopicIDs:  opts.TopicIDs,
		CardIDs:   result.CardIDs,
		StartedAt: r.Nower.Now(),
		IsActive:  true,
	}
	if err := r.Store.InsertSession(sess); err != nil {
		return nil, err
	}
	log.Info().Str("session", sess.ID).Str("mode", string(sess.Mode)).
		Int("queued", len(sess.CardIDs)).
		Int("totalDue", result.TotalDue).
		Int("totalNew", result.TotalNew).
		Msg("session-started")
	return sess, nil
}

// AnswerResult reports the effect of one answered card.
type AnswerResult struct {
	Card         *deck.Card
	IntervalDays int
	Due          time.Time
	SessionDone  bool
}

// Answer scores the session's current card with the given outcome,
// persists everything the review touched, and advances the queue. Cards
// whose id no longer resolves are skipped, not errors. The session closes
// itself when the last card is answered.
func (r *Runner) Answer(sessionID string, outcome srs.Outcome) (*AnswerResult, error) {
	sess, err := r.Store.SessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if !sess.IsActive {
		return nil, ErrSessionClosed
	}

	card, err := r.resolveCurrent(sess)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrQueueConsumed
	}

	now := r.Nower.Now()
	wasNew := card.Memory.State == fsrs.New

	result, err := r.Scheduler.ScheduleReview(card.Memory, outcome, now)
	if err != nil {
		return nil, err
	}

	card.Memory = result.State
	card.UpdatedAt = now
	if err := r.Store.UpsertCard(card); err != nil {
		return nil, err
	}

	sess.CompletedCardIDs = append(sess.CompletedCardIDs, card.ID)
	sess.CurrentIndex++
	sess.CardsReviewed++
	if outcome == srs.Remembered {
		sess.CardsRemembered++
	} else {
		sess.CardsForgot++
	}
	done := sess.CurrentIndex >= len(sess.CardIDs)
	if done {
		r.close(sess, now)
	}
	if err := r.Store.UpsertSession(sess); err != nil {
		return nil, err
	}

	if err := r.recordReview(outcome == srs.Remembered, wasNew, now); err != nil {
		return nil, err
	}
	if done {
		if err := r.addTime(sess.TotalTimeMs, now); err != nil {
			return nil, err
		}
	}

	log.Info().Str("session", sess.ID).Str("card", card.ID).
		Str("outcome", outcome.String()).
		Int("intervalDays", result.IntervalDays).
		Time("due", result.Due).
		Msg("card-answered")

	return &AnswerResult{
		Card:         card,
		IntervalDays: result.IntervalDays,
		Due:          result.Due,
		SessionDone:  done,
	}, nil
}

// CurrentCard resolves the session's next card, skipping queue entries
// whose card no longer exists. Returns nil when the queue is consumed.
func (r *Runner) CurrentCard(sessionID string) (*deck.Card, error) {
	sess, err := r.Store.SessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return r.resolveCurrent(sess)
}

// resolveCurrent advances past dangling card references (treated as "no
// match", never an error) and persists any skips it made.
func (r *Runner) resolveCurrent(sess *Session) (*deck.Card, error) {
	skipped := false
	for sess.CurrentIndex < len(sess.CardIDs) {
		card, err := r.Store.CardByID(sess.CardIDs[sess.CurrentIndex])
		if err != nil {
			return nil, err
		}
		if card != nil {
			if skipped {
				if err := r.Store.UpsertSession(sess); err != nil {
					return nil, err
				}
			}
			return card, nil
		}
		log.Warn().Str("session", sess.ID).
			Str("card", sess.CardIDs[sess.CurrentIndex]).
			Msg("queued-card-missing")
		sess.CurrentIndex++
		skipped = true
	}
	if skipped {
		if err := r.Store.UpsertSession(sess); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// End closes a session before its queue is consumed and books the elapsed
// time into today's stats.
func (r *Runner) End(sessionID string) (*Session, error) {
	sess, err := r.Store.SessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if !sess.IsActive {
		return nil, ErrSessionClosed
	}

	now := r.Nower.Now()
	r.close(sess, now)
	if err := r.Store.UpsertSession(sess); err != nil {
		return nil, err
	}
	if err := r.addTime(sess.TotalTimeMs, now); err != nil {
		return nil, err
	}
	log.Info().Str("session", sess.ID).
		Int("reviewed", sess.CardsReviewed).
		Int64("totalTimeMs", sess.TotalTimeMs).
		Msg("session-ended")
	return sess, nil
}

func (r *Runner) close(sess *Session, now time.Time) {
	sess.IsActive = false
	sess.CompletedAt = now
	sess.TotalTimeMs = now.Sub(sess.StartedAt).Milliseconds()
}

func (r *Runner) recordReview(remembered, wasNew bool, now time.Time) error {
	st, err := r.statsRowFor(now)
	if err != nil {
		return err
	}
	st.CardsReviewed++
	if remembered {
		st.CardsRemembered++
	} else {
		st.CardsForgot++
	}
	if wasNew {
		st.NewCardsLearned++
	}
	return r.Store.UpsertDailyStats(st)
}

func (r *Runner) addTime(ms int64, now time.Time) error {
	st, err := r.statsRowFor(now)
	if err != nil {
		return err
	}
	st.TimeSpentMs += ms
	return r.Store.UpsertDailyStats(st)
}

func (r *Runner) statsRowFor(now time.Time) (*DailyStats, error) {
	date := now.Format(isoDate)
	st, err := r.Store.DailyStatsFor(date)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats row: %w", err)
	}
	if st == nil {
		st = &DailyStats{Date: date}
	}
	return st, nil
}

// SessionStats derives display statistics from a session.
func SessionStats(sess *Session) Stats {
	st := Stats{
		CardsReviewed:   sess.CardsReviewed,
		CardsRemembered: sess.CardsRemembered,
		CardsForgot:     sess.CardsForgot,
		TotalTimeMs:     sess.TotalTimeMs,
	}
	st.Accuracy = srs.CalculateRetention(sess.CardsRemembered, sess.CardsReviewed)
	if sess.CardsReviewed > 0 {
		st.AverageTimePerCardMs = sess.TotalTimeMs / int64(sess.CardsReviewed)
	}
	return st
}
