package queue

import "github.com/mkrech/studyvault/internal/deck"

// topicGroup is a per-topic arena with a read cursor. Cursors let the
// interleave pass run without mutating its input or reallocating queues.
type topicGroup struct {
	key   string
	cards []deck.Card
	next  int
}

func (g *topicGroup) empty() bool {
	return g.next >= len(g.cards)
}

func (g *topicGroup) pop() deck.Card {
	c := g.cards[g.next]
	g.next++
	return c
}

// interleaveByTopic reorders cards so that two consecutive cards come from
// the same topic, or from topics the previous card's topic declares
// related, only when no alternative remains. The output is always a
// permutation of the input. Inputs of two or fewer cards are returned as-is
// since no reordering can help.
func interleaveByTopic(cards []deck.Card, relations RelationIndex) []deck.Card {
	if len(cards) <= 2 {
		return cards
	}

	// Group by primary topic, preserving first-seen group order. Cards
	// without a topic share the "" sentinel group.
	var groups []*topicGroup
	byKey := map[string]*topicGroup{}
	for _, c := range cards {
		key := c.PrimaryTopic()
		g, ok := byKey[key]
		if !ok {
			g = &topicGroup{key: key}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.cards = append(g.cards, c)
	}

	out := make([]deck.Card, 0, len(cards))
	lastKey := ""
	var lastRelated []string
	emittedAny := false

	for len(out) < len(cards) {
		var picked *topicGroup
		for _, g := range groups {
			if g.empty() {
				continue
			}
			if emittedAny {
				if g.key == lastKey {
					continue
				}
				if containsString(lastRelated, g.key) {
					continue
				}
			}
			picked = g
			break
		}
		if picked == nil {
			// Every remaining topic collides with the previous card.
			// Take the first non-empty group to keep making progress.
			for _, g := range groups {
				if !g.empty() {
					picked = g
					break
				}
			}
		}
		card := picked.pop()
		out = append(out, card)
		lastKey = picked.key
		lastRelated = relations.Related(picked.key)
		emittedAny = true
	}

	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
