package deck

import (
	"testing"
	"time"

	"github.com/open-spaced-repetition/go-fsrs/v3"
	"github.com/stretchr/testify/assert"
)

func TestNewCard(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	card := NewCard(NewCardInput{
		Type:     CardTypeBasic,
		Front:    "front",
		Back:     "back",
		TopicIDs: []string{"t1", "t2"},
	}, now)

	assert.NotEmpty(t, card.ID)
	assert.Equal(t, fsrs.New, card.State())
	assert.Equal(t, now, card.Due())
	assert.Equal(t, 0, card.ReviewCount())
	_, reviewed := card.LastReview()
	assert.False(t, reviewed)
	assert.Equal(t, "t1", card.PrimaryTopic())
}

func TestHasAnyTopic(t *testing.T) {
	card := &Card{TopicIDs: []string{"a", "b"}}
	assert.True(t, card.HasAnyTopic(nil)) // empty filter matches everything
	assert.True(t, card.HasAnyTopic([]string{"b", "z"}))
	assert.False(t, card.HasAnyTopic([]string{"z"}))

	bare := &Card{}
	assert.True(t, bare.HasAnyTopic(nil))
	assert.False(t, bare.HasAnyTopic([]string{"a"}))
	assert.Equal(t, "", bare.PrimaryTopic())
}

func TestBuildTopicTree(t *testing.T) {
	topics := []Topic{
		{ID: "root", Name: "Root"},
		{ID: "b", Name: "B", ParentID: "root", Order: 1},
		{ID: "a", Name: "A", ParentID: "root", Order: 0},
		{ID: "a1", Name: "A1", ParentID: "a"},
	}
	roots := BuildTopicTree(topics)
	assert.Len(t, roots, 1)
	assert.Equal(t, "Root", roots[0].Name)
	assert.Len(t, roots[0].Children, 2)
	// Siblings come back ordered by Order, not insertion.
	assert.Equal(t, "A", roots[0].Children[0].Name)
	assert.Equal(t, "B", roots[0].Children[1].Name)
	assert.Equal(t, "A1", roots[0].Children[0].Children[0].Name)
}

func TestBuildTopicTreeOrphan(t *testing.T) {
	topics := []Topic{
		{ID: "x", Name: "X", ParentID: "deleted-parent"},
		{ID: "y", Name: "Y"},
	}
	roots := BuildTopicTree(topics)
	assert.Len(t, roots, 2) // orphan promoted to root
}
