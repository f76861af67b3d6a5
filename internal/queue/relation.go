package queue

import "github.com/mkrech/studyvault/internal/deck"

// RelationIndex looks up the related-topic ids a topic declares. The
// relation is directed as stored: the interleaver only consults the set
// declared by the topic of the card it just emitted.
type RelationIndex map[string][]string

func NewRelationIndex(topics []deck.Topic) RelationIndex {
	idx := make(RelationIndex, len(topics))
	for _, t := range topics {
		idx[t.ID] = t.RelatedTopicIDs
	}
	return idx
}

// Related returns the declared related set for a topic id. Unknown ids
// (dangling references, the no-topic sentinel) have an empty set.
func (idx RelationIndex) Related(topicID string) []string {
	return idx[topicID]
}
