// Package zg lifts the discrete step of package ta to the symbolic zone
// graph: states are ⟨vloc, intval, zone⟩ triples, successors apply the
// source invariant, guard, resets and target invariant to the zone in
// that order, let time elapse where the target vloc permits it, and
// extrapolate with the configured clock-bound maps.
package zg

import (
	"github.com/bits-and-blooms/bitset"

	"tamc/dbm"
	"tamc/syncprod"
	"tamc/system"
	"tamc/ta"
	"tamc/ts"
)

// A Transition of the zone graph is the discrete transition unchanged.
type Transition = ta.Transition

// A ZG is the symbolic transition system of a system of timed processes.
// It owns interning pools for vlocs, intvals and zones: equal components
// of states produced by one ZG are shared, so a zone is never mutated
// once handed out.
type ZG struct {
	sys   *system.System
	extra Extrapolation

	vlocs   map[string]syncprod.Vloc
	intvals map[string]ta.Intval
	zones   map[string]*dbm.DBM
}

// New builds a zone graph over sys using extra to keep zones finite.
func New(sys *system.System, extra Extrapolation) *ZG {
	return &ZG{
		sys:     sys,
		extra:   extra,
		vlocs:   map[string]syncprod.Vloc{},
		intvals: map[string]ta.Intval{},
		zones:   map[string]*dbm.DBM{},
	}
}

func (z *ZG) System() *system.System { return z.sys }

func (z *ZG) shareVloc(v syncprod.Vloc) syncprod.Vloc {
	k := v.Key()
	if s, ok := z.vlocs[k]; ok {
		return s
	}
	z.vlocs[k] = v
	return v
}

func (z *ZG) shareIntval(iv ta.Intval) ta.Intval {
	k := iv.Key()
	if s, ok := z.intvals[k]; ok {
		return s
	}
	z.intvals[k] = iv
	return iv
}

func (z *ZG) shareZone(d *dbm.DBM) *dbm.DBM {
	k := d.Key()
	if s, ok := z.zones[k]; ok {
		return s
	}
	z.zones[k] = d
	return d
}

func (z *ZG) share(vloc syncprod.Vloc, iv ta.Intval, zone *dbm.DBM) *State {
	return newState(z.shareVloc(vloc), z.shareIntval(iv), z.shareZone(zone))
}

func constrainAll(d *dbm.DBM, cs []system.ClockConstraint) bool {
	for _, c := range cs {
		b := dbm.LE(c.Bound)
		if c.Cmp == system.ClockLT {
			b = dbm.LT(c.Bound)
		}
		if !d.Constrain(int(c.I), int(c.J), b) {
			return false
		}
	}
	return true
}

// Initial emits one status-OK triple per joint initial location choice
// whose integer valuation satisfies the invariant and whose zone is
// non-empty. The initial zone is the origin constrained by the invariant
// and, where the vloc permits delay, let elapse under the invariant.
func (z *ZG) Initial() ([]ts.Sst[*State, *Transition], error) {
	var out []ts.Sst[*State, *Transition]
	for _, v := range syncprod.Initial(z.sys) {
		vloc, iv, trans, status, err := ta.Initialize(z.sys, v)
		if err != nil {
			return nil, err
		}
		if status != ts.StatusOK {
			continue
		}
		zone := dbm.Zero(z.sys.ClockCount())
		if !constrainAll(zone, trans.TgtInvariant) {
			continue // CLOCKS_SRC_INVARIANT_VIOLATED
		}
		if ta.DelayAllowed(z.sys, vloc) {
			zone.Up()
			if !constrainAll(zone, trans.TgtInvariant) {
				continue
			}
		}
		z.extra.Extrapolate(zone, vloc)
		out = append(out, ts.Sst[*State, *Transition]{
			Status:     ts.StatusOK,
			State:      z.share(vloc, iv, zone),
			Transition: trans,
		})
	}
	return out, nil
}

// Next emits one status-OK triple per enabled outgoing vedge of s. The
// zone is transformed in the contractual order: source invariant, guard,
// resets in emission order, target invariant, then time elapse under the
// target invariant where the target vloc permits delay, then
// extrapolation.
func (z *ZG) Next(s *State) ([]ts.Sst[*State, *Transition], error) {
	var out []ts.Sst[*State, *Transition]
	for _, vedge := range syncprod.OutgoingEdges(z.sys, s.Vloc) {
		vloc, iv, trans, status, err := ta.Next(z.sys, s.Vloc, s.Intval, vedge)
		if err != nil {
			return nil, err
		}
		if status != ts.StatusOK {
			continue
		}
		zone := s.Zone.Clone()
		if !constrainAll(zone, trans.SrcInvariant) {
			continue // CLOCKS_SRC_INVARIANT_VIOLATED
		}
		if !constrainAll(zone, trans.Guard) {
			continue // CLOCKS_GUARD_VIOLATED
		}
		for _, r := range trans.Reset {
			zone.Reset(int(r.Clock), r.Value)
		}
		if !constrainAll(zone, trans.TgtInvariant) {
			continue // CLOCKS_TGT_INVARIANT_VIOLATED
		}
		if ta.DelayAllowed(z.sys, vloc) {
			zone.Up()
			if !constrainAll(zone, trans.TgtInvariant) {
				continue
			}
		}
		z.extra.Extrapolate(zone, vloc)
		out = append(out, ts.Sst[*State, *Transition]{
			Status:     ts.StatusOK,
			State:      z.share(vloc, iv, zone),
			Transition: trans,
		})
	}
	return out, nil
}

// Labels returns the labels of the state's vloc.
func (z *ZG) Labels(s *State) *bitset.BitSet {
	return ta.Labels(z.sys, s.Vloc)
}

// IsValidFinal reports whether the state may be accepted as final: its
// zone is non-empty.
func (z *ZG) IsValidFinal(s *State) bool {
	return !s.Zone.IsEmpty()
}

// IsInitial reports whether the state is initial: every component
// location is a declared initial location, the integer valuation is the
// declared initial one, and the zone contains the origin.
func (z *ZG) IsInitial(s *State) bool {
	for p, id := range s.Vloc {
		loc := z.sys.Location(id)
		if !loc.IsInitial() || loc.PID() != system.ProcessID(p) {
			return false
		}
	}
	if !s.Intval.Eq(ta.NewIntval(z.sys)) {
		return false
	}
	return s.Zone.ContainsZero()
}
