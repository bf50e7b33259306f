// The redistore package persists graphs and computed ranks in Redis.
//
// A graph of dimension N is stored as the hash "graph" (dimension, edges) and,
// for every node with links, the sets "follows:<nodeID>" and "followers:<nodeID>".
// The ranks computed by a run named <name> are stored as the hash "ranks:<name>"
// (dimension, iterations, converged, topics) and one string per vector
// "rank:<name>:<topicID>" of comma separated floats; the single vector of a
// global PageRank uses the topic "global".
package redistore

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vertex-lab/linkrank/pkg/models"
)

const (
	KeyGraph           string = "graph"
	KeyDimension       string = "dimension"
	KeyFollowsPrefix   string = "follows:"
	KeyFollowersPrefix string = "followers:"
	KeyRanksPrefix     string = "ranks:"
	KeyRankPrefix      string = "rank:"
	KeyGlobalTopic     string = "global"
)

// the number of nodes fetched or written in a single pipeline
const batchSize = 1000

// Store fulfills the models.RankStore and models.GraphSource interfaces.
type Store struct {
	client *redis.Client
}

// NewStore() returns a Store that uses the specified client.
func NewStore(cl *redis.Client) (*Store, error) {
	if cl == nil {
		return nil, models.ErrNilClientPointer
	}
	return &Store{client: cl}, nil
}

// Validate() returns an error if the store or its client are nil.
func (s *Store) Validate() error {
	if s == nil || s.client == nil {
		return models.ErrNilClientPointer
	}
	return nil
}

// KeyFollows() returns the Redis key for the follows of the specified nodeID
func KeyFollows(nodeID uint32) string {
	return fmt.Sprintf("%v%d", KeyFollowsPrefix, nodeID)
}

// KeyFollowers() returns the Redis key for the followers of the specified nodeID
func KeyFollowers(nodeID uint32) string {
	return fmt.Sprintf("%v%d", KeyFollowersPrefix, nodeID)
}

// KeyRanks() returns the Redis key for the metadata of the ranks with the specified name
func KeyRanks(name string) string {
	return KeyRanksPrefix + name
}

// KeyRank() returns the Redis key for the rank vector of a topic
func KeyRank(name string, topic string) string {
	return KeyRankPrefix + name + ":" + topic
}
