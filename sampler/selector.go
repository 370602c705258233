package sampler

import (
	"errors"
	"fmt"

	"github.com/hupe1980/prismgo/cloud"
)

// ErrInvalidCapacity is returned when the per-bin capacity is below 1.
var ErrInvalidCapacity = errors.New("capacity must be at least 1")

// Policy selects which points survive when a bin exceeds its capacity.
type Policy int

const (
	// PolicyFirstK keeps the first k members in original point order.
	// This is the default: deterministic, reproducible, and O(1) extra
	// work per bin.
	PolicyFirstK Policy = iota

	// PolicyFarthestPoint greedily keeps the k members that are spatially
	// most spread out within the bin. Better within-bin coverage, at
	// O(k * |bin|) cost per bin. Still deterministic: the walk starts at
	// the bin's first member and ties resolve to the lowest index.
	PolicyFarthestPoint
)

// String returns the policy's flag name.
func (p Policy) String() string {
	if p == PolicyFarthestPoint {
		return "farthest"
	}
	return "first"
}

// ParsePolicy maps a flag value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "first", "":
		return PolicyFirstK, nil
	case "farthest":
		return PolicyFarthestPoint, nil
	default:
		return 0, fmt.Errorf("unknown selection policy %q", s)
	}
}

// Selector picks at most k members from each bin.
type Selector struct {
	k      int
	policy Policy
}

// NewSelector creates a Selector with the given capacity and policy.
func NewSelector(k int, policy Policy) (*Selector, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, k)
	}
	return &Selector{k: k, policy: policy}, nil
}

// Capacity returns the per-bin capacity.
func (s *Selector) Capacity() int {
	return s.k
}

// Select returns at most min(k, len(members)) indices from one bin.
// The cloud is only consulted by the farthest-point policy.
func (s *Selector) Select(pc *cloud.PointCloud, members []int) []int {
	if len(members) <= s.k {
		return members
	}
	if s.policy == PolicyFarthestPoint {
		return s.selectFarthest(pc, members)
	}
	return members[:s.k]
}

// selectFarthest runs greedy farthest-point selection over the bin's
// members. The first member seeds the walk; each round adds the member
// whose nearest already-selected point is farthest away.
func (s *Selector) selectFarthest(pc *cloud.PointCloud, members []int) []int {
	selected := make([]int, 0, s.k)
	selected = append(selected, members[0])

	// minDist[i] tracks the squared distance from members[i] to the
	// nearest selected point so far.
	minDist := make([]float64, len(members))
	seed := pc.Points[members[0]].Position
	for i, m := range members {
		minDist[i] = seed.SquaredDistance(pc.Points[m].Position)
	}

	for len(selected) < s.k {
		best := -1
		bestDist := -1.0
		for i, d := range minDist {
			if d > bestDist {
				best = i
				bestDist = d
			}
		}
		if best < 0 || bestDist <= 0 {
			// Remaining members coincide with selected ones; fall back to
			// original order for the rest.
			for i, m := range members {
				if minDist[i] > 0 || containsIndex(selected, m) {
					continue
				}
				selected = append(selected, m)
				if len(selected) == s.k {
					break
				}
			}
			break
		}

		picked := members[best]
		selected = append(selected, picked)
		p := pc.Points[picked].Position
		for i, m := range members {
			if d := p.SquaredDistance(pc.Points[m].Position); d < minDist[i] {
				minDist[i] = d
			}
		}
	}

	return selected
}

func containsIndex(indices []int, target int) bool {
	for _, i := range indices {
		if i == target {
			return true
		}
	}
	return false
}
