package rank

import (
	"fmt"
	"math"
	"strings"

	"github.com/vertex-lab/linkrank/pkg/models"
)

// Norm selects how the distance between two vectors is measured.
type Norm int

const (
	L1 Norm = iota // sum of absolute differences
	L2             // euclidean distance divided by the dimension
)

func (n Norm) String() string {
	switch n {
	case L1:
		return "l1"
	case L2:
		return "l2"
	default:
		return fmt.Sprintf("Norm(%d)", int(n))
	}
}

// ParseNorm() parses "l1" or "l2" (case insensitive).
func ParseNorm(s string) (Norm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l1":
		return L1, nil
	case "l2":
		return L2, nil
	default:
		return L1, fmt.Errorf("%w: unknown norm %q", models.ErrConfiguration, s)
	}
}

const (
	DefaultNorm    = L1
	DefaultEpsilon = 1e-6
)

// Policy decides whether a run has converged: two successive vectors have
// converged when their distance, measured with Norm, is below Epsilon.
type Policy struct {
	Norm    Norm
	Epsilon float64
}

// DefaultPolicy() returns the L1 policy with epsilon 1e-6.
func DefaultPolicy() Policy {
	return Policy{Norm: DefaultNorm, Epsilon: DefaultEpsilon}
}

// Validate() returns an error wrapping models.ErrConfiguration if the policy is unusable.
func (p Policy) Validate() error {
	if p.Norm != L1 && p.Norm != L2 {
		return fmt.Errorf("%w: unknown norm %v", models.ErrConfiguration, p.Norm)
	}

	if !(p.Epsilon > 0) || math.IsInf(p.Epsilon, 1) {
		return fmt.Errorf("%w: epsilon must be positive and finite, got %v", models.ErrConfiguration, p.Epsilon)
	}
	return nil
}

// HasConverged() returns whether curr is within Epsilon of prev.
// It always returns false when prev is nil, so the first iteration never converges.
func (p Policy) HasConverged(prev, curr Vector) bool {
	if prev == nil || curr == nil {
		return false
	}
	return prev.Distance(curr, p.Norm) < p.Epsilon
}

func (p Policy) String() string {
	return fmt.Sprintf("%v < %g", p.Norm, p.Epsilon)
}
