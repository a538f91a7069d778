// Package clockbounds holds the static clock-bound maps used by
// extrapolation: per-clock L (lower-bound guards) and U (upper-bound
// guards) constants, either global or per location. Maps only ever grow
// through Update and are frozen during exploration.
package clockbounds

import (
	"strconv"
	"strings"

	"tamc/dbm"
	"tamc/system"
)

// NoBound marks a clock with no static bound. It is strictly smaller than
// every integer, so it is the identity of the pointwise max.
const NoBound = dbm.NoBound

// A Map associates a bound to every clock, indexed by clock id. Index 0 is
// the reference clock.
type Map []int

func NewMap(clocks int) Map {
	m := make(Map, clocks)
	m.Clear()
	return m
}

func (m Map) Clear() {
	for i := range m {
		m[i] = NoBound
	}
}

// Update raises the bound of clock id to bound. It returns true if the map
// changed. Bounds never decrease.
func (m Map) Update(id system.ClockID, bound int) bool {
	if bound <= m[id] {
		return false
	}
	m[id] = bound
	return true
}

// UpdateMap raises every bound of m to at least the one in upd.
func (m Map) UpdateMap(upd Map) bool {
	modified := false
	for id := range m {
		if m.Update(system.ClockID(id), upd[id]) {
			modified = true
		}
	}
	return modified
}

func (m Map) String() string {
	var sb strings.Builder
	for i, b := range m {
		if i != 0 {
			sb.WriteByte(',')
		}
		if b == NoBound {
			sb.WriteByte('.')
		} else {
			sb.WriteString(strconv.Itoa(b))
		}
	}
	return sb.String()
}

// GlobalLU holds a single pair of L/U maps shared by all locations.
type GlobalLU struct {
	l, u Map
}

func NewGlobalLU(clocks int) *GlobalLU {
	return &GlobalLU{l: NewMap(clocks), u: NewMap(clocks)}
}

func (g *GlobalLU) ClockCount() int { return len(g.l) }

// L and U expose the stored maps for updates by the bound analysis.
func (g *GlobalLU) L() Map { return g.l }
func (g *GlobalLU) U() Map { return g.u }

// Bounds writes the global maps into l and u, ignoring any scope.
func (g *GlobalLU) Bounds(l, u Map) {
	l.Clear()
	u.Clear()
	l.UpdateMap(g.l)
	u.UpdateMap(g.u)
}

// BoundsLoc is the per-location query; the location is ignored for a
// global map.
func (g *GlobalLU) BoundsLoc(id system.LocID, l, u Map) { g.Bounds(l, u) }

// BoundsVloc is the vloc query; the vloc is ignored for a global map.
func (g *GlobalLU) BoundsVloc(vloc []system.LocID, l, u Map) { g.Bounds(l, u) }

// M writes the pointwise max of L and U into out, for running an
// M-extrapolation off an LU analysis.
func (g *GlobalLU) M(out Map) {
	out.Clear()
	out.UpdateMap(g.l)
	out.UpdateMap(g.u)
}

// LocalLU holds one pair of L/U maps per location.
type LocalLU struct {
	clocks int
	l, u   []Map // indexed by location id
}

func NewLocalLU(locs, clocks int) *LocalLU {
	m := &LocalLU{clocks: clocks, l: make([]Map, locs), u: make([]Map, locs)}
	for i := range m.l {
		m.l[i] = NewMap(clocks)
		m.u[i] = NewMap(clocks)
	}
	return m
}

func (m *LocalLU) LocCount() int   { return len(m.l) }
func (m *LocalLU) ClockCount() int { return m.clocks }

func (m *LocalLU) L(id system.LocID) Map { return m.l[id] }
func (m *LocalLU) U(id system.LocID) Map { return m.u[id] }

// BoundsLoc writes the maps of one location into l and u.
func (m *LocalLU) BoundsLoc(id system.LocID, l, u Map) {
	l.Clear()
	u.Clear()
	l.UpdateMap(m.l[id])
	u.UpdateMap(m.u[id])
}

// BoundsVloc writes the pointwise max over the maps of every location in
// vloc. NoBound is the identity of the max.
func (m *LocalLU) BoundsVloc(vloc []system.LocID, l, u Map) {
	l.Clear()
	u.Clear()
	for _, id := range vloc {
		l.UpdateMap(m.l[id])
		u.UpdateMap(m.u[id])
	}
}

// M writes the pointwise max of one location's L and U maps into out.
func (m *LocalLU) M(id system.LocID, out Map) {
	out.Clear()
	out.UpdateMap(m.l[id])
	out.UpdateMap(m.u[id])
}

// GlobalM holds a single M map shared by all locations.
type GlobalM struct {
	m Map
}

func NewGlobalM(clocks int) *GlobalM {
	return &GlobalM{m: NewMap(clocks)}
}

func (g *GlobalM) ClockCount() int { return len(g.m) }

func (g *GlobalM) M() Map { return g.m }

func (g *GlobalM) Bounds(m Map) {
	m.Clear()
	m.UpdateMap(g.m)
}

func (g *GlobalM) BoundsLoc(id system.LocID, m Map) { g.Bounds(m) }

func (g *GlobalM) BoundsVloc(vloc []system.LocID, m Map) { g.Bounds(m) }

// LocalM holds one M map per location.
type LocalM struct {
	clocks int
	m      []Map
}

func NewLocalM(locs, clocks int) *LocalM {
	m := &LocalM{clocks: clocks, m: make([]Map, locs)}
	for i := range m.m {
		m.m[i] = NewMap(clocks)
	}
	return m
}

func (m *LocalM) LocCount() int   { return len(m.m) }
func (m *LocalM) ClockCount() int { return m.clocks }

func (m *LocalM) M(id system.LocID) Map { return m.m[id] }

func (m *LocalM) BoundsLoc(id system.LocID, out Map) {
	out.Clear()
	out.UpdateMap(m.m[id])
}

func (m *LocalM) BoundsVloc(vloc []system.LocID, out Map) {
	out.Clear()
	for _, id := range vloc {
		out.UpdateMap(m.m[id])
	}
}
