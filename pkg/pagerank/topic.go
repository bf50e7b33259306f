package pagerank

import (
	"fmt"
	"math"
	"sync"

	"github.com/vertex-lab/linkrank/pkg/graph"
	"github.com/vertex-lab/linkrank/pkg/models"
	"github.com/vertex-lab/linkrank/pkg/rank"
	"github.com/vertex-lab/linkrank/pkg/topics"
)

// tolerance on alpha + beta + gamma = 1
const weightsTolerance = 1e-12

// TopicSensitive computes one PageRank per topic. For the rank of topic t, the
// random surfer follows an out-link with probability alpha, jumps to a node
// chosen uniformly at random with probability beta, and jumps to a document of
// topic t with probability gamma = 1 - alpha - beta.
type TopicSensitive struct {
	graph      *graph.Graph
	membership *topics.Membership
	topics     []uint32

	alpha, beta, gamma float64
	policy             rank.Policy
	workers            int
}

// NewTopicSensitive() returns an Engine that computes the topic-sensitive PageRank
// of g, one vector per topic of the membership, ordered by ascending topic ID.
func NewTopicSensitive(
	g *graph.Graph,
	membership *topics.Membership,
	alpha, beta float64,
	policy rank.Policy,
	opts ...Option) (*Engine, error) {

	if g == nil {
		return nil, fmt.Errorf("%w: %w", models.ErrConfiguration, models.ErrNilGraph)
	}

	if err := membership.Validate(g.Dimension()); err != nil {
		return nil, err
	}

	gamma, err := Gamma(alpha, beta)
	if err != nil {
		return nil, err
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}

	config, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	stepper := &TopicSensitive{
		graph:      g,
		membership: membership,
		topics:     membership.Topics(),
		alpha:      alpha,
		beta:       beta,
		gamma:      gamma,
		policy:     policy,
		workers:    config.Workers,
	}

	config.Log.Info("topic-sensitive pagerank on %v: %d topics, alpha %v, beta %v, gamma %v, policy %v",
		g, membership.Len(), alpha, beta, gamma, policy)

	return newEngine(stepper, stepper.topics, policy, config), nil
}

// Gamma() returns the topic teleportation weight 1 - alpha - beta, or an error
// wrapping models.ErrConfiguration if any of the three weights is negative.
func Gamma(alpha, beta float64) (float64, error) {
	if math.IsNaN(alpha) || math.IsNaN(beta) || alpha < 0 || beta < 0 {
		return 0, fmt.Errorf("%w: alpha and beta must be non-negative, got %v and %v",
			models.ErrConfiguration, alpha, beta)
	}

	gamma := 1 - alpha - beta
	if gamma < -weightsTolerance {
		return 0, fmt.Errorf("%w: alpha + beta must not exceed 1, got %v",
			models.ErrConfiguration, alpha+beta)
	}
	return math.Max(gamma, 0), nil
}

// Initial() returns one uniform vector per topic.
func (p *TopicSensitive) Initial() Generation {
	gen := make(Generation, len(p.topics))
	for i := range gen {
		gen[i] = rank.Uniform(p.graph.Dimension())
	}
	return gen
}

// Step() updates the vector of every topic. The topics are independent, so with
// more than one worker they are computed concurrently.
func (p *TopicSensitive) Step(curr, next Generation) {
	if p.workers <= 1 || len(p.topics) == 1 {
		for i := range p.topics {
			p.stepTopic(i, curr[i], next[i], p.workers)
		}
		return
	}

	jobs := make(chan int, len(p.topics))
	for i := range p.topics {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < min(p.workers, len(p.topics)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				p.stepTopic(i, curr[i], next[i], 1)
			}
		}()
	}
	wg.Wait()
}

// stepTopic() computes next = beta/N + alpha * (M^T * curr + D/N) + gamma/|T| on the members of the topic.
func (p *TopicSensitive) stepTopic(i int, curr, next rank.Vector, workers int) {
	N := float64(p.graph.Dimension())
	propagate(p.graph, curr, next, p.beta/N, p.alpha, workers)

	members := p.membership.Members(p.topics[i])
	share := p.gamma / float64(len(members))
	for _, docID := range members {
		next[docID-1] += share
	}
}

// HasConverged() returns true only if the vector of every topic has converged.
func (p *TopicSensitive) HasConverged(prev, curr Generation) bool {
	if prev == nil {
		return false
	}

	for i := range p.topics {
		if !p.policy.HasConverged(prev[i], curr[i]) {
			return false
		}
	}
	return true
}
