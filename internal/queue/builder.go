// Package queue selects and orders the cards for a review session:
// due cards first (mid-learning before review), a bounded injection of new
// material, and a topic-interleaving pass so related material is spaced
// apart.
package queue

import (
	"time"

	"github.com/open-spaced-repetition/go-fsrs/v3"
	"github.com/rs/zerolog/log"

	"github.com/mkrech/studyvault/internal/deck"
	"github.com/mkrech/studyvault/internal/srs"
)

type Mode string

const (
	ModeMicro    Mode = "micro"
	ModeStandard Mode = "standard"
	ModeTopic    Mode = "topic"
)

const (
	DefaultMicroLimit   = 12
	DefaultNewCardLimit = 5
)

// Options controls one queue build. Use NewOptions for the defaults;
// non-positive limits fall back to the package defaults.
type Options struct {
	Mode              Mode
	TopicIDs          []string
	MicroLimit        int
	NewCardLimit      int
	InterleaveRelated bool
}

func NewOptions(mode Mode) Options {
	return Options{
		Mode:              mode,
		MicroLimit:        DefaultMicroLimit,
		NewCardLimit:      DefaultNewCardLimit,
		InterleaveRelated: true,
	}
}

// Result is the ordered session queue. TotalDue counts the due pool after
// topic filtering and before new-card injection; TotalNew counts the new
// cards actually injected (after NewCardLimit).
type Result struct {
	CardIDs  []string
	TotalDue int
	TotalNew int
}

// Breakdown counts the due pools by lifecycle. Unlike Result.TotalNew, the
// New count reports the full pool without the injection limit; it is a
// capacity display, not session content.
type Breakdown struct {
	Learning int
	Review   int
	New      int
}

// CardSource supplies the card pools. NewCards must return cards in a
// stable order (creation order); the injection path truncates it without
// shuffling.
type CardSource interface {
	DueCards(before time.Time) ([]deck.Card, error)
	NewCards() ([]deck.Card, error)
}

type TopicSource interface {
	AllTopics() ([]deck.Topic, error)
}

type Builder struct {
	Cards  CardSource
	Topics TopicSource
	Nower  srs.Nower
}

func NewBuilder(cards CardSource, topics TopicSource) *Builder {
	return &Builder{Cards: cards, Topics: topics, Nower: srs.RealNower{}}
}

// BuildQueue assembles the ordered queue for a session. An empty result
// means nothing to review, never an error.
func (b *Builder) BuildQueue(opts Options) (Result, error) {
	microLimit := opts.MicroLimit
	if microLimit <= 0 {
		microLimit = DefaultMicroLimit
	}
	newCardLimit := opts.NewCardLimit
	if newCardLimit <= 0 {
		newCardLimit = DefaultNewCardLimit
	}

	now := b.Nower.Now()
	due, err := b.Cards.DueCards(now)
	if err != nil {
		return Result{}, err
	}
	due = filterByTopics(due, opts.TopicIDs)
	learning, review := partitionDue(due)

	newCards, err := b.Cards.NewCards()
	if err != nil {
		return Result{}, err
	}
	newCards = filterByTopics(newCards, opts.TopicIDs)
	if len(newCards) > newCardLimit {
		newCards = newCards[:newCardLimit]
	}

	// Hard priority order: cards mid-learning surface before due reviews,
	// which surface before new material.
	cards := make([]deck.Card, 0, len(learning)+len(review)+len(newCards))
	cards = append(cards, learning...)
	cards = append(cards, review...)
	cards = append(cards, newCards...)

	if opts.InterleaveRelated {
		topics, err := b.Topics.AllTopics()
		if err != nil {
			return Result{}, err
		}
		cards = interleaveByTopic(cards, NewRelationIndex(topics))
	}

	if opts.Mode == ModeMicro && len(cards) > microLimit {
		cards = cards[:microLimit]
	}

	ids := make([]string, len(cards))
	for i := range cards {
		ids[i] = cards[i].ID
	}

	log.Debug().Str("mode", string(opts.Mode)).
		Int("due", len(due)).
		Int("learning", len(learning)).
		Int("review", len(review)).
		Int("new", len(newCards)).
		Int("queued", len(ids)).
		Msg("queue-built")

	return Result{CardIDs: ids, TotalDue: len(due), TotalNew: len(newCards)}, nil
}

// DueCount is the size of the due pool after topic filtering.
func (b *Builder) DueCount(topicIDs []string) (int, error) {
	due, err := b.Cards.DueCards(b.Nower.Now())
	if err != nil {
		return 0, err
	}
	return len(filterByTopics(due, topicIDs)), nil
}

// DueBreakdown counts the learning/review/new pools independently.
func (b *Builder) DueBreakdown(topicIDs []string) (Breakdown, error) {
	due, err := b.Cards.DueCards(b.Nower.Now())
	if err != nil {
		return Breakdown{}, err
	}
	due = filterByTopics(due, topicIDs)
	learning, review := partitionDue(due)

	newCards, err := b.Cards.NewCards()
	if err != nil {
		return Breakdown{}, err
	}
	newCards = filterByTopics(newCards, topicIDs)

	return Breakdown{
		Learning: len(learning),
		Review:   len(review),
		New:      len(newCards),
	}, nil
}

// partitionDue splits the due pool by lifecycle. New-lifecycle cards are
// not part of the due pool; they enter a queue only through the bounded
// injection path.
func partitionDue(due []deck.Card) (learning, review []deck.Card) {
	for _, c := range due {
		switch c.State() {
		case fsrs.Learning, fsrs.Relearning:
			learning = append(learning, c)
		case fsrs.Review:
			review = append(review, c)
		case fsrs.New:
			// excluded by definition
		}
	}
	return learning, review
}

func filterByTopics(cards []deck.Card, topicIDs []string) []deck.Card {
	if len(topicIDs) == 0 {
		return cards
	}
	kept := cards[:0:0]
	for _, c := range cards {
		if c.HasAnyTopic(topicIDs) {
			kept = append(kept, c)
		}
	}
	return kept
}
