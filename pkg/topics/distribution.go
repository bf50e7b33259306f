package topics

import (
	"fmt"
	"slices"

	"github.com/vertex-lab/linkrank/pkg/models"
	"github.com/vertex-lab/linkrank/pkg/rank"
)

// Distribution maps a query key to the probability of each topic for that query.
type Distribution map[string]map[uint32]float64

// QueryKey() returns the key that identifies the query of a user.
func QueryKey(userID, queryID uint32) string {
	return fmt.Sprintf("%d-%d", userID, queryID)
}

// Queries() returns the query keys in ascending order.
func (d Distribution) Queries() []string {
	keys := make([]string, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Blend() returns the query-specific rank sum_t p(t | query) * r_t, where r_t
// is the rank vector of topic t, taken from the topic-sensitive result.
// Topics of the distribution absent from ranks return models.ErrTopicNotFound.
func (d Distribution) Blend(query string, topicIDs []uint32, ranks []rank.Vector) (rank.Vector, error) {
	probs, exists := d[query]
	if !exists {
		return nil, fmt.Errorf("query %q: %w", query, models.ErrTopicNotFound)
	}

	if len(topicIDs) != len(ranks) || len(ranks) == 0 {
		return nil, fmt.Errorf("%w: %d topics for %d vectors", models.ErrInconsistentSnapshot, len(topicIDs), len(ranks))
	}

	for topicID := range probs {
		if !slices.Contains(topicIDs, topicID) {
			return nil, fmt.Errorf("query %q, topic %d: %w", query, topicID, models.ErrTopicNotFound)
		}
	}

	// summing in topic order keeps the result deterministic
	blended := make(rank.Vector, ranks[0].Dimension())
	for i, topicID := range topicIDs {
		p, exists := probs[topicID]
		if !exists {
			continue
		}

		for j, score := range ranks[i] {
			blended[j] += p * score
		}
	}
	return blended, nil
}
