package rank

import (
	"errors"
	"math"
	"testing"

	"github.com/vertex-lab/linkrank/pkg/models"
)

func TestHasConverged(t *testing.T) {
	policy := Policy{Norm: L1, Epsilon: 1e-3}

	testCases := []struct {
		name       string
		prev, curr Vector
		expected   bool
	}{
		{
			name:     "nil previous",
			prev:     nil,
			curr:     Vector{1},
			expected: false,
		},
		{
			name:     "nil previous, nil current",
			prev:     nil,
			curr:     nil,
			expected: false,
		},
		{
			name:     "identical",
			prev:     Vector{0.5, 0.5},
			curr:     Vector{0.5, 0.5},
			expected: true,
		},
		{
			name:     "within epsilon",
			prev:     Vector{0.5, 0.5},
			curr:     Vector{0.5004, 0.4996},
			expected: true,
		},
		{
			name:     "outside epsilon",
			prev:     Vector{0.5, 0.5},
			curr:     Vector{0.6, 0.4},
			expected: false,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			if converged := policy.HasConverged(test.prev, test.curr); converged != test.expected {
				t.Errorf("HasConverged(): expected %v, got %v", test.expected, converged)
			}
		})
	}
}

func TestPolicyNorms(t *testing.T) {
	prev := Vector{0.25, 0.25, 0.25, 0.25}
	curr := Vector{0.2501, 0.2499, 0.25, 0.25}

	// L1 distance is 2e-4, L2 distance is ~3.5e-5
	if (Policy{Norm: L1, Epsilon: 1e-4}).HasConverged(prev, curr) {
		t.Errorf("L1 policy: expected not converged")
	}

	if !(Policy{Norm: L2, Epsilon: 1e-4}).HasConverged(prev, curr) {
		t.Errorf("L2 policy: expected converged")
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name          string
		policy        Policy
		expectedError error
	}{
		{
			name:          "default",
			policy:        DefaultPolicy(),
			expectedError: nil,
		},
		{
			name:          "zero epsilon",
			policy:        Policy{Norm: L1, Epsilon: 0},
			expectedError: models.ErrConfiguration,
		},
		{
			name:          "NaN epsilon",
			policy:        Policy{Norm: L2, Epsilon: math.NaN()},
			expectedError: models.ErrConfiguration,
		},
		{
			name:          "infinite epsilon",
			policy:        Policy{Norm: L2, Epsilon: math.Inf(1)},
			expectedError: models.ErrConfiguration,
		},
		{
			name:          "unknown norm",
			policy:        Policy{Norm: Norm(7), Epsilon: 1e-8},
			expectedError: models.ErrConfiguration,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			if err := test.policy.Validate(); !errors.Is(err, test.expectedError) {
				t.Errorf("Validate(): expected %v, got %v", test.expectedError, err)
			}
		})
	}
}

func TestParseNorm(t *testing.T) {
	for _, s := range []string{"l1", "L1", " l2 "} {
		if _, err := ParseNorm(s); err != nil {
			t.Errorf("ParseNorm(%q): expected nil, got %v", s, err)
		}
	}

	if _, err := ParseNorm("linf"); !errors.Is(err, models.ErrConfiguration) {
		t.Errorf("ParseNorm(linf): expected %v, got %v", models.ErrConfiguration, err)
	}
}
