package zg

import (
	"hash/fnv"

	"tamc/dbm"
	"tamc/syncprod"
	"tamc/system"
	"tamc/ta"
)

// A State is a symbolic state ⟨vloc, intval, zone⟩. States handed out by a
// ZG share their components through the ZG's interning pools, so two equal
// zones of one ZG are the same *dbm.DBM.
//
// Three equality families coexist and must not be mixed: content keys
// (Key, for interning whole states), structural equality (Eq/Hash,
// includes the zone entry by entry), and pointer identity on interned
// components (EqShared fast path).
type State struct {
	Vloc   syncprod.Vloc
	Intval ta.Intval
	Zone   *dbm.DBM

	key string // content key, set at construction
}

func newState(vloc syncprod.Vloc, iv ta.Intval, zone *dbm.DBM) *State {
	return &State{
		Vloc:   vloc,
		Intval: iv,
		Zone:   zone,
		key:    vloc.Key() + "|" + iv.Key() + "|" + zone.Key(),
	}
}

// Key returns the content key of the state, stable across runs.
func (s *State) Key() string { return s.key }

// DiscreteKey returns the content key of the discrete part only
// (vloc and intval), used to bucket states for subsumption checks.
func (s *State) DiscreteKey() string {
	return s.Vloc.Key() + "|" + s.Intval.Key()
}

// Eq is structural equality: component-wise, zone entry by entry.
func (s *State) Eq(o *State) bool {
	return s.Vloc.Eq(o.Vloc) && s.Intval.Eq(o.Intval) && s.Zone.Eq(o.Zone)
}

// Le is symbolic-state inclusion: equal discrete parts and zone
// inclusion. The aLU variant lives on the graph's covering relation.
func (s *State) Le(o *State) bool {
	return s.Vloc.Eq(o.Vloc) && s.Intval.Eq(o.Intval) && s.Zone.Subset(o.Zone)
}

// EqShared is the pointer fast path for states of one ZG, whose zones are
// interned: discrete parts by content, zones by identity.
func (s *State) EqShared(o *State) bool {
	return s.Zone == o.Zone && s.Vloc.Eq(o.Vloc) && s.Intval.Eq(o.Intval)
}

// Hash is the structural hash matching Eq.
func (s *State) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(s.key))
	return h.Sum64()
}

func (s *State) String(sys *system.System) string {
	return s.Vloc.String(sys) + " " + s.Intval.String(sys) + " " + s.Zone.String()
}
