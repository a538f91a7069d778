// Package reach is the generic forward reachability driver: it traverses
// a transition system under a waiting-list discipline, interns states
// through a graph, and stops at the first node satisfying the accepting
// labels.
package reach

import (
	"github.com/bits-and-blooms/bitset"

	"tamc/ts"
	"tamc/waiting"
)

// A TS is what the driver needs from a transition system.
type TS[S, T any] interface {
	ts.ForwardTS[S, T]
	ts.Inspector[S]
}

// A Node is what the driver needs from graph nodes.
type Node[S any] interface {
	State() S
	SetInitial(b bool)
	SetFinal(b bool)
}

// A Graph is what the driver needs from the reachability graph. AddNode
// interns by content equality (or a configured coarser covering) and
// reports whether the returned node is new.
type Graph[S, T any, N Node[S]] interface {
	AddNode(s S) (isNew bool, n N)
	AddEdge(src, dst N, trans T)
}

// An Algorithm explores a transition system forward. Less orders the
// waiting list under the priority policy and is ignored otherwise.
type Algorithm[S, T any, N Node[S]] struct {
	Less func(a, b N) bool
}

// Run builds the reachability graph of sys from its initial states until
// a state satisfying labels is found, visiting nodes in the order of the
// requested policy. If labels is empty the full reachability graph is
// built. Initial nodes are marked initial even when AddNode returned an
// existing or subsuming node.
func (a *Algorithm[S, T, N]) Run(sys TS[S, T], g Graph[S, T, N], labels *bitset.BitSet, policy waiting.Policy) (Stats, error) {
	w, err := waiting.New(policy, a.Less)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	stats.SetStartTime()

	sst, err := sys.Initial()
	if err != nil {
		stats.SetEndTime()
		return stats, err
	}
	for _, triple := range sst {
		if triple.Status != ts.StatusOK {
			continue
		}
		isNew, node := g.AddNode(triple.State)
		node.SetInitial(true)
		if isNew {
			w.Insert(node)
		}
	}

	err = a.runFromWaiting(sys, g, labels, w, &stats)
	stats.SetEndTime()
	return stats, err
}

// RunFromWaiting explores from a pre-seeded waiting list instead of the
// initial states.
func (a *Algorithm[S, T, N]) RunFromWaiting(sys TS[S, T], g Graph[S, T, N], labels *bitset.BitSet, w waiting.Waiting[N]) (Stats, error) {
	var stats Stats
	stats.SetStartTime()
	err := a.runFromWaiting(sys, g, labels, w, &stats)
	stats.SetEndTime()
	return stats, err
}

func (a *Algorithm[S, T, N]) runFromWaiting(sys TS[S, T], g Graph[S, T, N], labels *bitset.BitSet, w waiting.Waiting[N], stats *Stats) error {
	defer w.Clear()

	for {
		node, ok := w.First()
		if !ok {
			return nil
		}
		w.RemoveFirst()

		stats.VisitedStates++

		if accepting(sys, node.State(), labels) {
			node.SetFinal(true)
			stats.Reachable = true
			return nil
		}

		sst, err := sys.Next(node.State())
		if err != nil {
			return err
		}
		for _, triple := range sst {
			if triple.Status != ts.StatusOK {
				continue
			}
			isNew, next := g.AddNode(triple.State)
			if isNew {
				w.Insert(next)
			}
			g.AddEdge(node, next, triple.Transition)
			stats.VisitedTransitions++
		}
	}
}

// accepting reports whether a state satisfies the accepting condition:
// labels is non-empty, is a subset of the state's labels, and the state
// is a valid final state.
func accepting[S, T any](sys TS[S, T], s S, labels *bitset.BitSet) bool {
	if labels.None() {
		return false
	}
	return sys.Labels(s).IsSuperSet(labels) && sys.IsValidFinal(s)
}
