// Package waiting provides the waiting-list disciplines of the
// exploration driver: FIFO for breadth-first, LIFO for depth-first, and a
// priority list over a caller-supplied ordering. Implementations are
// first-class values; the driver never depends on a concrete one.
package waiting

import "errors"

// A Policy names a waiting-list discipline.
type Policy int

const (
	BFS Policy = iota
	DFS
	Priority
)

func (p Policy) String() string {
	switch p {
	case BFS:
		return "bfs"
	case DFS:
		return "dfs"
	case Priority:
		return "priority"
	default:
		return "unknown"
	}
}

// A Waiting holds the elements still to be explored. First and
// RemoveFirst address the same element; which one that is depends on the
// discipline.
type Waiting[N any] interface {
	Insert(n N)
	// First returns the next element without removing it. ok is false on
	// an empty list.
	First() (n N, ok bool)
	RemoveFirst()
	Empty() bool
	Clear()
}

var ErrNeedLess = errors.New("waiting: priority policy needs an ordering")

// New builds a waiting list for the policy. less orders the priority list
// (smallest first) and is ignored by BFS and DFS; a priority list without
// an ordering is an error.
func New[N any](p Policy, less func(a, b N) bool) (Waiting[N], error) {
	switch p {
	case BFS:
		return NewFIFO[N](), nil
	case DFS:
		return NewLIFO[N](), nil
	case Priority:
		if less == nil {
			return nil, ErrNeedLess
		}
		return NewPriority(less), nil
	default:
		return nil, errors.New("waiting: unknown policy")
	}
}
