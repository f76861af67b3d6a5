package deck

import (
	"time"

	"github.com/google/uuid"
	"github.com/open-spaced-repetition/go-fsrs/v3"
)

type CardType string

const (
	CardTypeBasic   CardType = "basic"
	CardTypeCloze   CardType = "cloze"
	CardTypeFormula CardType = "formula"
)

// Card is a single unit of study material. Its scheduling state lives in
// Memory, which is only ever rewritten by the scheduler; everything else
// here is content and classification.
type Card struct {
	ID       string
	Type     CardType
	Front    string
	Back     string
	TopicIDs []string
	Tags     []string

	Memory fsrs.Card

	CreatedAt time.Time
	UpdatedAt time.Time

	// For cloze instances: which deletion this card tests (1-based).
	ClozeIndex int
	// For cloze/formula instances: the template they were generated from.
	Template string
}

type NewCardInput struct {
	Type       CardType
	Front      string
	Back       string
	TopicIDs   []string
	Tags       []string
	Template   string
	ClozeIndex int
}

// NewCard builds a card in the New state, due immediately.
func NewCard(in NewCardInput, now time.Time) *Card {
	mem := fsrs.NewCard()
	mem.Due = now
	return &Card{
		ID:         uuid.NewString(),
		Type:       in.Type,
		Front:      in.Front,
		Back:       in.Back,
		TopicIDs:   in.TopicIDs,
		Tags:       in.Tags,
		Memory:     mem,
		CreatedAt:  now,
		UpdatedAt:  now,
		ClozeIndex: in.ClozeIndex,
		Template:   in.Template,
	}
}

func (c *Card) State() fsrs.State { return c.Memory.State }

func (c *Card) Due() time.Time { return c.Memory.Due }

func (c *Card) ReviewCount() int { return int(c.Memory.Reps) }

// LastReview reports when the card was last answered. ok is false for a
// card that has never been reviewed.
func (c *Card) LastReview() (t time.Time, ok bool) {
	if c.Memory.Reps == 0 {
		return time.Time{}, false
	}
	return c.Memory.LastReview, true
}

// PrimaryTopic is the card's first topic id, or "" if it has none.
func (c *Card) PrimaryTopic() string {
	if len(c.TopicIDs) == 0 {
		return ""
	}
	return c.TopicIDs[0]
}

// HasAnyTopic reports whether the card carries at least one of the given
// topic ids. An empty filter matches everything.
func (c *Card) HasAnyTopic(topicIDs []string) bool {
	if len(topicIDs) == 0 {
		return true
	}
	for _, want := range topicIDs {
		for _, have := range c.TopicIDs {
			if have == want {
				return true
			}
		}
	}
	return false
}
