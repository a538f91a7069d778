// Package tamc assembles the layers of the reachability core — system,
// zone graph, reachability graph and driver — behind a one-call API. The
// symbolic semantics, waiting policy, extrapolation and subsumption are
// configured through options; the defaults give a breadth-first
// exploration with global LU-extrapolation computed from the system.
package tamc

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"tamc/clockbounds"
	"tamc/dbm"
	"tamc/graph"
	"tamc/reach"
	"tamc/system"
	"tamc/waiting"
	"tamc/zg"
)

// A Graph is the reachability graph produced by Reach.
type Graph = graph.Graph[*zg.State, *zg.Transition]

// A Node of the reachability graph.
type Node = graph.Node[*zg.State, *zg.Transition]

// An Option configures a Reach run.
type Option interface {
	reachOpt()
}

type policyOption struct{ policy waiting.Policy }

func (policyOption) reachOpt() {}

// WithPolicy selects the waiting-list discipline. Default is BFS.
func WithPolicy(p waiting.Policy) Option { return policyOption{p} }

type extrapolationOption struct{ extra zg.Extrapolation }

func (extrapolationOption) reachOpt() {}

// WithExtrapolation replaces the extrapolation operator. Default is
// global LU-extrapolation over bounds computed from the system.
func WithExtrapolation(e zg.Extrapolation) Option { return extrapolationOption{e} }

type boundsOption struct{ lu *clockbounds.GlobalLU }

func (boundsOption) reachOpt() {}

// WithClockBounds supplies precomputed global LU bounds instead of the
// syntactic scan.
func WithClockBounds(lu *clockbounds.GlobalLU) Option { return boundsOption{lu} }

type localBoundsOption struct{}

func (localBoundsOption) reachOpt() {}

// WithLocalBounds switches the bound source to per-location LU maps
// computed from the system; extrapolation and subsumption then use the
// pointwise max over the current vloc. Takes precedence over
// WithClockBounds.
func WithLocalBounds() Option { return localBoundsOption{} }

type subsumptionOption struct{}

func (subsumptionOption) reachOpt() {}

// WithSubsumption interns states up to aLU inclusion instead of equality:
// a new state covered by an already-seen state of the same discrete part
// is merged into it. Sound for reachability.
func WithSubsumption() Option { return subsumptionOption{} }

type lessOption struct {
	less func(a, b *Node) bool
}

func (lessOption) reachOpt() {}

// WithLess supplies the node ordering of the priority policy.
func WithLess(less func(a, b *Node) bool) Option { return lessOption{less} }

// Reach explores sys from its initial configuration until a state
// carrying every named label is reached, and returns the reachability
// graph built on the way together with the run statistics. Unknown label
// names are an error.
func Reach(sys *system.System, labels []string, opts ...Option) (*Graph, reach.Stats, error) {
	var (
		policy      = waiting.BFS
		extra       zg.Extrapolation
		lu          *clockbounds.GlobalLU
		local       = false
		subsumption = false
		less        func(a, b *Node) bool
	)
	for _, opt := range opts {
		switch o := opt.(type) {
		case policyOption:
			policy = o.policy
		case extrapolationOption:
			extra = o.extra
		case boundsOption:
			lu = o.lu
		case localBoundsOption:
			local = true
		case subsumptionOption:
			subsumption = true
		case lessOption:
			less = o.less
		}
	}
	// Both map variants answer the vloc query the covering relation and
	// the extrapolation need.
	var bounds interface {
		BoundsVloc(vloc []system.LocID, l, u clockbounds.Map)
	}
	if local {
		llu := clockbounds.ComputeLocalLU(sys)
		bounds = llu
		if extra == nil {
			extra = zg.NewExtraLULocal(llu)
		}
	} else {
		if lu == nil {
			lu = clockbounds.ComputeGlobalLU(sys)
		}
		bounds = lu
		if extra == nil {
			extra = zg.NewExtraLUGlobal(lu)
		}
	}

	labelSet := bitset.New(uint(sys.LabelCount()))
	for _, name := range labels {
		id, ok := sys.Label(name)
		if !ok {
			return nil, reach.Stats{}, fmt.Errorf("tamc: unknown label %q", name)
		}
		labelSet.Set(uint(id))
	}

	var g *Graph
	if subsumption {
		l := clockbounds.NewMap(sys.ClockCount())
		u := clockbounds.NewMap(sys.ClockCount())
		covers := func(covering, covered *zg.State) bool {
			bounds.BoundsVloc(covered.Vloc, l, u)
			return dbmALULe(covered, covering, l, u)
		}
		g = graph.NewSubsumption[*zg.State, *zg.Transition](
			(*zg.State).Key, (*zg.State).DiscreteKey, covers)
	} else {
		g = graph.New[*zg.State, *zg.Transition]((*zg.State).Key)
	}

	sts := zg.New(sys, extra)
	alg := &reach.Algorithm[*zg.State, *zg.Transition, *Node]{Less: less}
	stats, err := alg.Run(sts, g, labelSet, policy)
	return g, stats, err
}

// dbmALULe checks aLU inclusion of the covered state's zone in the
// covering one under the given bounds.
func dbmALULe(covered, covering *zg.State, l, u clockbounds.Map) bool {
	return dbm.ALULe(covered.Zone, covering.Zone, []int(l), []int(u))
}
