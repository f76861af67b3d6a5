package deck

import (
	"sort"
	"time"
)

// Topic is a hierarchical label. ParentID of "" means a root topic.
// RelatedTopicIDs is a directed set: A may declare B related without B
// declaring A. The interleaver reads it as declared and never symmetrizes.
type Topic struct {
	ID              string
	Name            string
	ParentID        string
	Color           string
	Icon            string
	RelatedTopicIDs []string
	Order           int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TopicNode is a topic plus its resolved children, ordered by Order.
type TopicNode struct {
	Topic
	Children []*TopicNode
}

// BuildTopicTree arranges a flat topic list into a forest. Topics whose
// parent cannot be resolved are promoted to roots rather than dropped.
func BuildTopicTree(topics []Topic) []*TopicNode {
	nodes := make(map[string]*TopicNode, len(topics))
	for _, t := range topics {
		nodes[t.ID] = &TopicNode{Topic: t}
	}

	var roots []*TopicNode
	for _, t := range topics {
		node := nodes[t.ID]
		if t.ParentID == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[t.ParentID]
		if !ok {
			// Orphaned topic, treat as root.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	var sortLevel func(nodes []*TopicNode)
	sortLevel = func(nodes []*TopicNode) {
		sort.SliceStable(nodes, func(i, j int) bool {
			return nodes[i].Order < nodes[j].Order
		})
		for _, n := range nodes {
			sortLevel(n.Children)
		}
	}
	sortLevel(roots)

	return roots
}
