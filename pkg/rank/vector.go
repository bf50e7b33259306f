// The rank package defines the dense rank vectors produced by the PageRank
// engines and the policy that decides when two successive vectors are close
// enough to stop iterating.
package rank

import (
	"fmt"
	"math"
	"slices"
)

// Vector holds one score per node; the score of nodeID is at index nodeID - 1.
type Vector []float64

// Uniform() returns a vector of dimension n with every entry equal to 1/n.
func Uniform(n int) Vector {
	return Filled(n, 1.0/float64(n))
}

// Filled() returns a vector of dimension n with every entry equal to val.
func Filled(n int, val float64) Vector {
	v := make(Vector, n)
	for i := range v {
		v[i] = val
	}
	return v
}

// Dimension() returns the number of entries of v.
func (v Vector) Dimension() int {
	return len(v)
}

// At() returns the score of the 1-indexed nodeID.
func (v Vector) At(nodeID uint32) float64 {
	return v[nodeID-1]
}

// Clone() returns a copy of v.
func (v Vector) Clone() Vector {
	return slices.Clone(v)
}

// Sum() returns the total mass of v.
func (v Vector) Sum() float64 {
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum
}

// Distance() returns the distance between v and other according to the norm:
//   - L1: the sum of absolute differences
//   - L2: the euclidean distance divided by the dimension
//
// It panics if the two vectors have different dimensions.
func (v Vector) Distance(other Vector, norm Norm) float64 {
	if len(v) != len(other) {
		panic(fmt.Sprintf("rank: distance between vectors of dimension %d and %d", len(v), len(other)))
	}

	switch norm {
	case L2:
		sum := 0.0
		for i := range v {
			d := v[i] - other[i]
			sum += d * d
		}
		return math.Sqrt(sum) / float64(len(v))

	default:
		sum := 0.0
		for i := range v {
			sum += math.Abs(v[i] - other[i])
		}
		return sum
	}
}

// Item is a node together with its score.
type Item struct {
	NodeID uint32  `toml:"node"`
	Score  float64 `toml:"score"`
}

// Ranked() returns every node sorted by descending score; ties are broken by ascending ID.
func (v Vector) Ranked() []Item {
	items := make([]Item, len(v))
	for i, score := range v {
		items[i] = Item{NodeID: uint32(i + 1), Score: score}
	}

	slices.SortStableFunc(items, func(a, b Item) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return items
}

// Top() returns the k nodes with the highest score (all of them if k exceeds the dimension).
func (v Vector) Top(k int) []Item {
	items := v.Ranked()
	if k < 0 {
		k = 0
	}
	if k < len(items) {
		items = items[:k]
	}
	return items
}
