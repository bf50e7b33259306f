package redistore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vertex-lab/linkrank/pkg/models"
	"github.com/vertex-lab/linkrank/pkg/utils/redisutils"
)

// RanksFields are the fields of the ranks hash. This struct is used for serialize and deserialize.
type RanksFields struct {
	Dimension  int    `redis:"dimension"`
	Iterations int    `redis:"iterations"`
	Converged  bool   `redis:"converged"`
	Topics     string `redis:"topics"`
}

// SaveRanks() stores the snapshot under the given name, overwriting previous ones.
func (s *Store) SaveRanks(ctx context.Context, name string, snap *models.RankSnapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}

	if name == "" {
		return fmt.Errorf("%w: empty ranks name", models.ErrConfiguration)
	}

	if err := snap.Validate(); err != nil {
		return err
	}

	old, err := s.rankKeys(ctx, name)
	if err != nil {
		return err
	}

	fields := RanksFields{
		Dimension:  len(snap.Vectors[0]),
		Iterations: snap.Iterations,
		Converged:  snap.Converged,
		Topics:     redisutils.JoinIDs(snap.Topics),
	}

	pipe := s.client.TxPipeline()
	if len(old) > 0 {
		pipe.Del(ctx, old...)
	}

	pipe.HSet(ctx, KeyRanks(name), fields)
	for i, key := range vectorKeys(name, snap.Topics) {
		pipe.Set(ctx, key, redisutils.FormatVector(snap.Vectors[i]), 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store ranks %q: %w", name, err)
	}
	return nil
}

// LoadRanks() retrieves the snapshot stored under the given name.
func (s *Store) LoadRanks(ctx context.Context, name string) (*models.RankSnapshot, error) {
	fields, err := s.ranksFields(ctx, name)
	if err != nil {
		return nil, err
	}

	topics, err := redisutils.SplitIDs(fields.Topics)
	if err != nil {
		return nil, fmt.Errorf("ranks %q: %w", name, err)
	}

	pipe := s.client.Pipeline()
	keys := vectorKeys(name, topics)
	cmds := make([]*redis.StringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.Get(ctx, key)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch ranks %q: %w", name, err)
	}

	snap := &models.RankSnapshot{
		Topics:     topics,
		Vectors:    make([][]float64, len(keys)),
		Iterations: fields.Iterations,
		Converged:  fields.Converged,
	}

	for i, cmd := range cmds {
		vector, err := redisutils.ParseVector(cmd.Val())
		if err != nil {
			return nil, fmt.Errorf("ranks %q, key %s: %w", name, keys[i], err)
		}

		if len(vector) != fields.Dimension {
			return nil, fmt.Errorf("%w: key %s has %d entries, expected %d",
				models.ErrInconsistentSnapshot, keys[i], len(vector), fields.Dimension)
		}
		snap.Vectors[i] = vector
	}

	return snap, snap.Validate()
}

// DeleteRanks() removes the snapshot stored under the given name.
func (s *Store) DeleteRanks(ctx context.Context, name string) error {
	keys, err := s.rankKeys(ctx, name)
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		return models.ErrRanksNotFound
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *Store) ranksFields(ctx context.Context, name string) (*RanksFields, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	cmd := s.client.HGetAll(ctx, KeyRanks(name))
	if cmd.Err() != nil {
		return nil, cmd.Err()
	}

	// if an empty map is returned, it means the ranks were not found
	if len(cmd.Val()) == 0 {
		return nil, fmt.Errorf("%w: %q", models.ErrRanksNotFound, name)
	}

	var fields RanksFields
	if err := cmd.Scan(&fields); err != nil {
		return nil, err
	}
	return &fields, nil
}

// rankKeys() returns all the keys of the stored snapshot, or nil if there is none.
func (s *Store) rankKeys(ctx context.Context, name string) ([]string, error) {
	fields, err := s.ranksFields(ctx, name)
	if errors.Is(err, models.ErrRanksNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	topics, err := redisutils.SplitIDs(fields.Topics)
	if err != nil {
		return nil, err
	}
	return append(vectorKeys(name, topics), KeyRanks(name)), nil
}

// vectorKeys() returns the key of each vector of a snapshot.
func vectorKeys(name string, topics []uint32) []string {
	if len(topics) == 0 {
		return []string{KeyRank(name, KeyGlobalTopic)}
	}

	keys := make([]string, len(topics))
	for i, topicID := range topics {
		keys[i] = KeyRank(name, redisutils.FormatID(topicID))
	}
	return keys
}
