// The topics package defines the assignment of documents to topics that biases
// the teleportation of the topic-sensitive PageRank, and the per-query topic
// distributions used to blend the per-topic ranks into a single score.
package topics

import (
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/vertex-lab/linkrank/pkg/models"
)

// Membership is an immutable map topicID --> set of member documents.
type Membership struct {
	topics  []uint32
	members map[uint32][]uint32
}

// Pair is the assignment of one document to one topic.
type Pair struct {
	DocID   uint32
	TopicID uint32
}

// NewMembership() groups the pairs by topic. Duplicated pairs collapse.
func NewMembership(pairs []Pair) (*Membership, error) {
	sets := make(map[uint32]mapset.Set[uint32])
	for _, p := range pairs {
		set, exists := sets[p.TopicID]
		if !exists {
			set = mapset.NewThreadUnsafeSet[uint32]()
			sets[p.TopicID] = set
		}
		set.Add(p.DocID)
	}
	return FromSets(sets)
}

// FromSets() returns the membership with the specified member sets, which are copied.
func FromSets(sets map[uint32]mapset.Set[uint32]) (*Membership, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: %w", models.ErrConfiguration, models.ErrEmptyMembership)
	}

	m := &Membership{
		topics:  make([]uint32, 0, len(sets)),
		members: make(map[uint32][]uint32, len(sets)),
	}

	for topicID, set := range sets {
		if set == nil || set.Cardinality() == 0 {
			return nil, fmt.Errorf("%w: %w: topic %d", models.ErrConfiguration, models.ErrEmptyTopic, topicID)
		}

		docs := set.ToSlice()
		slices.Sort(docs)
		m.members[topicID] = docs
		m.topics = append(m.topics, topicID)
	}

	slices.Sort(m.topics)
	return m, nil
}

// Topics() returns the topic IDs in ascending order.
func (m *Membership) Topics() []uint32 {
	return slices.Clone(m.topics)
}

// Len() returns the number of topics.
func (m *Membership) Len() int {
	return len(m.topics)
}

// Members() returns the sorted member documents of topicID without copying.
// The returned slice is shared and must not be modified.
func (m *Membership) Members(topicID uint32) []uint32 {
	return m.members[topicID]
}

// Contains() returns whether docID belongs to topicID.
func (m *Membership) Contains(topicID, docID uint32) bool {
	_, found := slices.BinarySearch(m.members[topicID], docID)
	return found
}

// Validate() returns an error if some member is outside [1, dim].
func (m *Membership) Validate(dim int) error {
	if m == nil {
		return fmt.Errorf("%w: %w", models.ErrConfiguration, models.ErrEmptyMembership)
	}

	for _, topicID := range m.topics {
		docs := m.members[topicID]
		if docs[0] < 1 || int(docs[len(docs)-1]) > dim {
			return fmt.Errorf("%w: %w: topic %d has members outside [1, %d]",
				models.ErrConfiguration, models.ErrNodeOutOfRange, topicID, dim)
		}
	}
	return nil
}

// DocumentTopics() returns the reverse mapping docID --> set of topics the document belongs to.
func (m *Membership) DocumentTopics() map[uint32]mapset.Set[uint32] {
	docTopics := make(map[uint32]mapset.Set[uint32])
	for _, topicID := range m.topics {
		for _, docID := range m.members[topicID] {
			set, exists := docTopics[docID]
			if !exists {
				set = mapset.NewThreadUnsafeSet[uint32]()
				docTopics[docID] = set
			}
			set.Add(topicID)
		}
	}
	return docTopics
}
