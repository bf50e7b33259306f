/*
The input package reads the line-oriented text files the engines are fed with:

  - edge lists, one "from to" link per line;
  - doc-topic pairs, one "docID topicID" assignment per line;
  - topic distributions, one "userID queryID t1:p1 t2:p2 ..." query per line.

Fields are separated by whitespace. Blank lines and lines starting with '#'
are ignored. A line that can't be parsed either aborts the read (Abort, the
default) or is skipped with a WARN log (Skip).
*/
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vertex-lab/linkrank/pkg/graph"
	"github.com/vertex-lab/linkrank/pkg/models"
	"github.com/vertex-lab/linkrank/pkg/topics"
	"github.com/vertex-lab/linkrank/pkg/utils/logger"
)

// Policy is what a reader does with a malformed line.
type Policy int

const (
	Abort Policy = iota
	Skip
)

func (p Policy) String() string {
	switch p {
	case Abort:
		return "abort"
	case Skip:
		return "skip"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy() returns the policy with the specified name.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "abort":
		return Abort, nil
	case "skip":
		return Skip, nil
	default:
		return Abort, fmt.Errorf("%w: unknown input policy %q", models.ErrConfiguration, s)
	}
}

var errFieldCount = errors.New("wrong number of fields")
var errZeroTopic = errors.New("topic IDs start from 1")

type options struct {
	policy Policy
	log    *logger.Aggregate
}

type Option func(*options)

// WithPolicy() sets the policy for malformed lines.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithLogger() sets the logger that reports skipped lines.
func WithLogger(l *logger.Aggregate) Option {
	return func(o *options) {
		if l == nil {
			l = logger.Discard()
		}
		o.log = l
	}
}

// scan() calls parse on every meaningful line of r. Errors returned by parse
// are turned into a *models.MalformedInputError and handled according to the policy.
// It returns the number of lines parsed successfully.
func scan(r io.Reader, source string, opts []Option, parse func(fields []string) error) (int, error) {
	o := options{policy: Abort, log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	parsed, skipped, line := 0, 0, 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		if err := parse(strings.Fields(text)); err != nil {
			err = &models.MalformedInputError{Source: source, Line: line, Text: text, Err: err}
			if o.policy == Abort {
				return parsed, err
			}

			o.log.Warn("skipping line: %v", err)
			skipped++
			continue
		}
		parsed++
	}

	if err := scanner.Err(); err != nil {
		return parsed, fmt.Errorf("failed to read %s: %w", source, err)
	}

	if skipped > 0 {
		o.log.Warn("%s: skipped %d malformed lines", source, skipped)
	}
	return parsed, nil
}

// ReadEdges() adds to the builder every "from to" link of r.
// It returns the number of links read.
func ReadEdges(r io.Reader, source string, b *graph.Builder, opts ...Option) (int, error) {
	return scan(r, source, opts, func(fields []string) error {
		if len(fields) != 2 {
			return errFieldCount
		}

		from, err := parseID(fields[0])
		if err != nil {
			return err
		}

		to, err := parseID(fields[1])
		if err != nil {
			return err
		}

		return b.AddEdge(from, to)
	})
}

// ReadMembership() returns the topic membership made of every "docID topicID" pair of r.
func ReadMembership(r io.Reader, source string, opts ...Option) (*topics.Membership, error) {
	var pairs []topics.Pair
	_, err := scan(r, source, opts, func(fields []string) error {
		if len(fields) != 2 {
			return errFieldCount
		}

		docID, err := parseID(fields[0])
		if err != nil {
			return err
		}

		topicID, err := parseTopicID(fields[1])
		if err != nil {
			return err
		}

		pairs = append(pairs, topics.Pair{DocID: docID, TopicID: topicID})
		return nil
	})

	if err != nil {
		return nil, err
	}
	return topics.NewMembership(pairs)
}

// ReadDistribution() returns the topic distribution of every query of r.
// A query that appears twice keeps its last distribution.
func ReadDistribution(r io.Reader, source string, opts ...Option) (topics.Distribution, error) {
	dist := make(topics.Distribution)
	_, err := scan(r, source, opts, func(fields []string) error {
		if len(fields) < 3 {
			return errFieldCount
		}

		userID, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return err
		}

		queryID, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return err
		}

		probs := make(map[uint32]float64, len(fields)-2)
		for _, field := range fields[2:] {
			topicID, p, err := parseProbability(field)
			if err != nil {
				return err
			}
			probs[topicID] = p
		}

		dist[topics.QueryKey(uint32(userID), uint32(queryID))] = probs
		return nil
	})

	if err != nil {
		return nil, err
	}
	return dist, nil
}

// parseID() parses a 1-indexed node ID.
func parseID(s string) (uint32, error) {
	nodeID, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}

	if nodeID == 0 {
		return 0, models.ErrNodeOutOfRange
	}
	return uint32(nodeID), nil
}

// parseTopicID() parses a 1-indexed topic ID.
func parseTopicID(s string) (uint32, error) {
	topicID, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}

	if topicID == 0 {
		return 0, errZeroTopic
	}
	return uint32(topicID), nil
}

// parseProbability() parses a "topicID:probability" field.
func parseProbability(field string) (uint32, float64, error) {
	topic, prob, found := strings.Cut(field, ":")
	if !found {
		return 0, 0, fmt.Errorf("field %q is not topic:probability", field)
	}

	topicID, err := parseTopicID(topic)
	if err != nil {
		return 0, 0, err
	}

	p, err := strconv.ParseFloat(prob, 64)
	if err != nil {
		return 0, 0, err
	}

	if !(p >= 0 && p <= 1) {
		return 0, 0, fmt.Errorf("probability %v outside [0, 1]", p)
	}
	return uint32(topicID), p, nil
}
