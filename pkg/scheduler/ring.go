package scheduler

import "fmt"

// DefaultRingSize is the number of positions on the default perimeter
const DefaultRingSize = 24

// Ring models the fence as a cycle of positions 0..Size-1, so the last
// position is adjacent to the first.
type Ring struct {
	Size int
}

// NewRing creates a ring with the given number of positions
func NewRing(size int) (Ring, error) {
	if size < 1 {
		return Ring{}, fmt.Errorf("%w: ring size must be positive, got %d", ErrInvalidInput, size)
	}
	return Ring{Size: size}, nil
}

// Distance returns the shortest hop count between two positions, wrapping at the ends
func (r Ring) Distance(a, b int) int {
	forward := mod(b-a, r.Size)
	backward := mod(a-b, r.Size)
	if forward < backward {
		return forward
	}
	return backward
}

// Contains reports whether p is a valid position on the ring
func (r Ring) Contains(p int) bool {
	return p >= 0 && p < r.Size
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
