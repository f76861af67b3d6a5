package queue

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/open-spaced-repetition/go-fsrs/v3"

	"github.com/mkrech/studyvault/internal/deck"
)

type fakeCards struct {
	due   []deck.Card
	fresh []deck.Card
}

func (f fakeCards) DueCards(before time.Time) ([]deck.Card, error) { return f.due, nil }
func (f fakeCards) NewCards() ([]deck.Card, error)                 { return f.fresh, nil }

type fakeTopics struct {
	topics []deck.Topic
}

func (f fakeTopics) AllTopics() ([]deck.Topic, error) { return f.topics, nil }

type fakeNower struct{ now time.Time }

func (f fakeNower) Now() time.Time { return f.now }

func testCard(id, topicID string, state fsrs.State) deck.Card {
	c := deck.Card{ID: id, Type: deck.CardTypeBasic}
	if topicID != "" {
		c.TopicIDs = []string{topicID}
	}
	c.Memory.State = state
	return c
}

func newBuilder(due, fresh []deck.Card, topics []deck.Topic) *Builder {
	b := NewBuilder(fakeCards{due: due, fresh: fresh}, fakeTopics{topics: topics})
	b.Nower = fakeNower{now: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)}
	return b
}

func TestQueuePriorityOrder(t *testing.T) {
	is := is.New(t)
	due := []deck.Card{
		testCard("r1", "a", fsrs.Review),
		testCard("l1", "a", fsrs.Learning),
		testCard("r2", "b", fsrs.Review),
		testCard("l2", "b", fsrs.Relearning),
	}
	fresh := []deck.Card{testCard("n1", "a", fsrs.New)}

	opts := NewOptions(ModeStandard)
	opts.InterleaveRelated = false
	res, err := newBuilder(due, fresh, nil).BuildQueue(opts)
	is.NoErr(err)

	// learning (incl. relearning) first, then review, then new
	is.Equal(res.CardIDs, []string{"l1", "l2", "r1", "r2", "n1"})
	is.Equal(res.TotalDue, 4)
	is.Equal(res.TotalNew, 1)
}

func TestNewStateCardsExcludedFromDuePool(t *testing.T) {
	is := is.New(t)
	// A new-lifecycle card that is technically due must not enter the
	// queue through the due pool.
	due := []deck.Card{
		testCard("n1", "a", fsrs.New),
		testCard("r1", "a", fsrs.Review),
	}
	opts := NewOptions(ModeStandard)
	opts.InterleaveRelated = false
	res, err := newBuilder(due, nil, nil).BuildQueue(opts)
	is.NoErr(err)
	is.Equal(res.CardIDs, []string{"r1"})
	is.Equal(res.TotalDue, 2) // the due pool itself still counts it
}

func TestNewCardLimit(t *testing.T) {
	is := is.New(t)
	var fresh []deck.Card
	for i := 0; i < 9; i++ {
		fresh = append(fresh, testCard(fmt.Sprintf("n%d", i), "a", fsrs.New))
	}

	opts := NewOptions(ModeStandard)
	opts.InterleaveRelated = false
	opts.NewCardLimit = 3
	res, err := newBuilder(nil, fresh, nil).BuildQueue(opts)
	is.NoErr(err)

	// first three in retrieval order, no shuffling
	is.Equal(res.CardIDs, []string{"n0", "n1", "n2"})
	is.Equal(res.TotalNew, 3)
}

func TestMicroModeTruncates(t *testing.T) {
	is := is.New(t)
	var due []deck.Card
	for i := 0; i < 20; i++ {
		due = append(due, testCard(fmt.Sprintf("r%d", i), "a", fsrs.Review))
	}

	opts := NewOptions(ModeMicro)
	opts.InterleaveRelated = false
	opts.MicroLimit = 5
	res, err := newBuilder(due, nil, nil).BuildQueue(opts)
	is.NoErr(err)
	is.Equal(len(res.CardIDs), 5)

	// Shorter pools are untouched.
	opts.MicroLimit = 50
	res, err = newBuilder(due, nil, nil).BuildQueue(opts)
	is.NoErr(err)
	is.Equal(len(res.CardIDs), 20)
}

func TestTopicFilter(t *testing.T) {
	is := is.New(t)
	due := []deck.Card{
		testCard("r1", "a", fsrs.Review),
		testCard("r2", "b", fsrs.Review),
	}
	fresh := []deck.Card{
		testCard("n1", "a", fsrs.New),
		testCard("n2", "b", fsrs.New),
	}

	opts := NewOptions(ModeTopic)
	opts.InterleaveRelated = false
	opts.TopicIDs = []string{"a"}
	res, err := newBuilder(due, fresh, nil).BuildQueue(opts)
	is.NoErr(err)
	is.Equal(res.CardIDs, []string{"r1", "n1"})
	is.Equal(res.TotalDue, 1)
	is.Equal(res.TotalNew, 1)
}

func TestUnresolvableTopicFilterYieldsEmptyQueue(t *testing.T) {
	is := is.New(t)
	due := []deck.Card{testCard("r1", "a", fsrs.Review)}

	opts := NewOptions(ModeTopic)
	opts.TopicIDs = []string{"no-such-topic"}
	res, err := newBuilder(due, nil, nil).BuildQueue(opts)
	is.NoErr(err)
	is.Equal(len(res.CardIDs), 0) // nothing to review, not an error
}

func TestInterleaveIsPermutation(t *testing.T) {
	is := is.New(t)
	var due []deck.Card
	topics := []string{"a", "a", "b", "c", "b", "a", "c", "b"}
	for i, topic := range topics {
		due = append(due, testCard(fmt.Sprintf("c%d", i), topic, fsrs.Review))
	}

	opts := NewOptions(ModeStandard)
	res, err := newBuilder(due, nil, nil).BuildQueue(opts)
	is.NoErr(err)
	is.Equal(len(res.CardIDs), len(due))

	want := make([]string, len(due))
	for i := range due {
		want[i] = due[i].ID
	}
	got := append([]string(nil), res.CardIDs...)
	sort.Strings(want)
	sort.Strings(got)
	is.Equal(got, want)
}

func TestInterleaveAvoidsAdjacentTopics(t *testing.T) {
	is := is.New(t)
	due := []deck.Card{
		testCard("a1", "a", fsrs.Review),
		testCard("a2", "a", fsrs.Review),
		testCard("b1", "b", fsrs.Review),
		testCard("b2", "b", fsrs.Review),
	}
	byID := map[string]deck.Card{}
	for _, c := range due {
		byID[c.ID] = c
	}

	opts := NewOptions(ModeStandard)
	res, err := newBuilder(due, nil, nil).BuildQueue(opts)
	is.NoErr(err)
	is.Equal(len(res.CardIDs), 4)
	for i := 1; i < len(res.CardIDs); i++ {
		prevCard := byID[res.CardIDs[i-1]]
		curCard := byID[res.CardIDs[i]]
		prev := prevCard.PrimaryTopic()
		cur := curCard.PrimaryTopic()
		if prev == cur {
			t.Fatalf("consecutive same-topic cards at %d: %v", i, res.CardIDs)
		}
	}
}

func TestInterleaveAvoidsRelatedTopics(t *testing.T) {
	is := is.New(t)
	// Topic a declares b related; c is unrelated. After an "a" card the
	// next pick must be the "c" card even though "b" comes first in group
	// order.
	topics := []deck.Topic{
		{ID: "a", RelatedTopicIDs: []string{"b"}},
		{ID: "b"},
		{ID: "c"},
	}
	due := []deck.Card{
		testCard("a1", "a", fsrs.Review),
		testCard("b1", "b", fsrs.Review),
		testCard("c1", "c", fsrs.Review),
	}

	opts := NewOptions(ModeStandard)
	res, err := newBuilder(due, nil, topics).BuildQueue(opts)
	is.NoErr(err)
	is.Equal(res.CardIDs, []string{"a1", "c1", "b1"})
}

func TestInterleaveRelationIsDirected(t *testing.T) {
	is := is.New(t)
	// b declares a related, but a declares nothing: emitting an "a" card
	// does not penalize "b" as the follow-up.
	topics := []deck.Topic{
		{ID: "a"},
		{ID: "b", RelatedTopicIDs: []string{"a"}},
		{ID: "c"},
	}
	due := []deck.Card{
		testCard("a1", "a", fsrs.Review),
		testCard("b1", "b", fsrs.Review),
		testCard("c1", "c", fsrs.Review),
	}

	opts := NewOptions(ModeStandard)
	res, err := newBuilder(due, nil, topics).BuildQueue(opts)
	is.NoErr(err)
	is.Equal(res.CardIDs, []string{"a1", "b1", "c1"})
}

func TestInterleaveFallsBackWhenForced(t *testing.T) {
	is := is.New(t)
	// Three cards from one topic cannot be separated; interleaving must
	// still emit all of them.
	due := []deck.Card{
		testCard("a1", "a", fsrs.Review),
		testCard("a2", "a", fsrs.Review),
		testCard("a3", "a", fsrs.Review),
	}

	opts := NewOptions(ModeStandard)
	res, err := newBuilder(due, nil, nil).BuildQueue(opts)
	is.NoErr(err)
	is.Equal(res.CardIDs, []string{"a1", "a2", "a3"})
}

func TestInterleaveBypassesTinyInputs(t *testing.T) {
	is := is.New(t)
	due := []deck.Card{
		testCard("a1", "a", fsrs.Review),
		testCard("a2", "a", fsrs.Review),
	}

	opts := NewOptions(ModeStandard)
	res, err := newBuilder(due, nil, nil).BuildQueue(opts)
	is.NoErr(err)
	is.Equal(res.CardIDs, []string{"a1", "a2"})
}

// Four new cards across two topics: all are injected and no two
// consecutive cards share a topic.
func TestNewCardsOnlySession(t *testing.T) {
	is := is.New(t)
	fresh := []deck.Card{
		testCard("1", "a", fsrs.New),
		testCard("2", "a", fsrs.New),
		testCard("3", "b", fsrs.New),
		testCard("4", "b", fsrs.New),
	}
	byID := map[string]deck.Card{}
	for _, c := range fresh {
		byID[c.ID] = c
	}

	opts := NewOptions(ModeStandard)
	res, err := newBuilder(nil, fresh, nil).BuildQueue(opts)
	is.NoErr(err)
	is.Equal(res.TotalDue, 0)
	is.Equal(res.TotalNew, 4)
	is.Equal(len(res.CardIDs), 4)
	for i := 1; i < len(res.CardIDs); i++ {
		prevCard := byID[res.CardIDs[i-1]]
		curCard := byID[res.CardIDs[i]]
		is.True(prevCard.PrimaryTopic() != curCard.PrimaryTopic())
	}
}

func TestDueCount(t *testing.T) {
	is := is.New(t)
	due := []deck.Card{
		testCard("r1", "a", fsrs.Review),
		testCard("r2", "b", fsrs.Review),
		testCard("l1", "a", fsrs.Learning),
	}
	b := newBuilder(due, nil, nil)

	count, err := b.DueCount(nil)
	is.NoErr(err)
	is.Equal(count, 3)

	count, err = b.DueCount([]string{"a"})
	is.NoErr(err)
	is.Equal(count, 2)
}

func TestDueBreakdownIgnoresNewCardLimit(t *testing.T) {
	is := is.New(t)
	due := []deck.Card{
		testCard("l1", "a", fsrs.Learning),
		testCard("l2", "a", fsrs.Relearning),
		testCard("r1", "a", fsrs.Review),
	}
	var fresh []deck.Card
	for i := 0; i < 11; i++ {
		fresh = append(fresh, testCard(fmt.Sprintf("n%d", i), "a", fsrs.New))
	}
	b := newBuilder(due, fresh, nil)

	breakdown, err := b.DueBreakdown(nil)
	is.NoErr(err)
	is.Equal(breakdown.Learning, 2)
	is.Equal(breakdown.Review, 1)
	// The breakdown reports the whole pool; only BuildQueue bounds it.
	is.Equal(breakdown.New, 11)

	res, err := b.BuildQueue(NewOptions(ModeStandard))
	is.NoErr(err)
	is.Equal(res.TotalNew, DefaultNewCardLimit)
}
