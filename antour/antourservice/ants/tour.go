package ants

import (
	"fmt"
	"math"
)

// Tour is a closed path visiting every city once. Path holds n indexes,
// the edge back to Path[0] is implied and counted in Length.
type Tour struct {
	path   []int
	length float64
}

func NewTour(path []int, length float64) Tour {
	return Tour{
		path:   append([]int(nil), path...),
		length: length,
	}
}

func NewEmptyTour() Tour {
	return Tour{length: math.Inf(1)}
}

func (t Tour) Path() []int {
	return append([]int(nil), t.path...)
}

func (t Tour) Length() float64 {
	return t.length
}

func (t Tour) Size() int {
	return len(t.path)
}

func (t Tour) IsEmpty() bool {
	return len(t.path) == 0
}

// BetterThan reports whether t is strictly shorter than o.
func (t Tour) BetterThan(o Tour) bool {
	if t.IsEmpty() {
		return false
	}
	return o.IsEmpty() || t.length < o.length
}

func (t Tour) String() string {
	return fmt.Sprintf("%v (%.2f)", t.path, t.length)
}

// ValidatePermutation checks that path visits each of 0..n-1 exactly once.
func ValidatePermutation(path []int, n int) error {
	if len(path) != n {
		return fmt.Errorf("tour has %d cities, want %d", len(path), n)
	}
	seen := make([]bool, n)
	for _, c := range path {
		if c < 0 || c >= n {
			return fmt.Errorf("city %d out of range", c)
		}
		if seen[c] {
			return fmt.Errorf("city %d visited twice", c)
		}
		seen[c] = true
	}
	return nil
}
