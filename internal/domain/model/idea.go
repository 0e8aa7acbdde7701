package model

import (
	"sort"
	"strings"
)

// IdeaCount is how many ideas are requested per topic.
const IdeaCount = 10

// Topic is the user-chosen theme keying a list of ideas. It is an exact
// string key: no case or whitespace normalization is applied.
type Topic string

// IdeaList is an ordered list of coloring-page ideas for one topic, in
// generation (or load) order. Duplicates are kept.
type IdeaList []string

// IdeaRecord is the full durable state: at most one IdeaList per Topic.
type IdeaRecord map[Topic]IdeaList

// Topics returns the record's keys sorted lexically, which is also the key
// order of the serialized record.
func (r IdeaRecord) Topics() []Topic {
	topics := make([]Topic, 0, len(r))
	for t := range r {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i] < topics[j] })
	return topics
}

// ParseIdeas splits a model completion into ideas, one per line. Surrounding
// whitespace of the whole text is trimmed; lines themselves are kept as-is
// and no count is enforced.
func ParseIdeas(text string) IdeaList {
	return IdeaList(strings.Split(strings.TrimSpace(text), "\n"))
}
