package clockbounds

import "tamc/system"

// ComputeGlobalLU collects global L/U maps from a syntactic scan of every
// clock constraint in the system's guards and invariants. A constraint
// xi - xj ≼ c upper-bounds xi with c and lower-bounds xj with -c. The
// result is coarser than a per-location analysis but sound for
// extrapolation.
func ComputeGlobalLU(sys *system.System) *GlobalLU {
	g := NewGlobalLU(sys.ClockCount())
	for p := 0; p < sys.ProcessCount(); p++ {
		for _, loc := range sys.Process(system.ProcessID(p)).Locations() {
			scanConstraints(loc.Invariant(), g.l, g.u)
			for _, edge := range loc.Edges() {
				scanConstraints(edge.Guard(), g.l, g.u)
			}
		}
	}
	return g
}

// ComputeGlobalM is ComputeGlobalLU followed by the pointwise max of the
// two maps.
func ComputeGlobalM(sys *system.System) *GlobalM {
	lu := ComputeGlobalLU(sys)
	m := NewGlobalM(sys.ClockCount())
	m.m.UpdateMap(lu.l)
	m.m.UpdateMap(lu.u)
	return m
}

func scanConstraints(elems []system.GuardElem, l, u Map) {
	for _, e := range elems {
		c, ok := e.(system.ClockConstraint)
		if !ok {
			continue
		}
		if c.I != system.RefClock {
			u.Update(c.I, c.Bound)
		}
		if c.J != system.RefClock {
			l.Update(c.J, -c.Bound)
		}
	}
}

// zeroResets returns the clocks reset to zero by the top-level statement
// elements of an edge. Resets inside conditionals may not fire and resets
// to a positive constant keep the target's bounds relevant, so neither
// masks propagation.
func zeroResets(e *system.Edge) map[system.ClockID]bool {
	out := map[system.ClockID]bool{}
	for _, elem := range e.Stmt() {
		if r, ok := elem.(system.ClockReset); ok && r.Value == 0 {
			out[r.Clock] = true
		}
	}
	return out
}

// ComputeLocalLU computes per-location L/U maps by a backward fixpoint: a
// location needs the bounds of its own invariant and outgoing guards,
// plus every bound a successor location needs on the clocks the edge does
// not reset.
func ComputeLocalLU(sys *system.System) *LocalLU {
	m := NewLocalLU(sys.LocationCount(), sys.ClockCount())
	for p := 0; p < sys.ProcessCount(); p++ {
		for _, loc := range sys.Process(system.ProcessID(p)).Locations() {
			id := loc.ID()
			scanConstraints(loc.Invariant(), m.l[id], m.u[id])
			for _, edge := range loc.Edges() {
				scanConstraints(edge.Guard(), m.l[id], m.u[id])
			}
		}
	}
	for changed := true; changed; {
		changed = false
		for p := 0; p < sys.ProcessCount(); p++ {
			for _, loc := range sys.Process(system.ProcessID(p)).Locations() {
				src := loc.ID()
				for _, edge := range loc.Edges() {
					tgt := edge.Tgt()
					reset := zeroResets(edge)
					for c := 1; c < sys.ClockCount(); c++ {
						id := system.ClockID(c)
						if reset[id] {
							continue
						}
						if m.l[src].Update(id, m.l[tgt][c]) {
							changed = true
						}
						if m.u[src].Update(id, m.u[tgt][c]) {
							changed = true
						}
					}
				}
			}
		}
	}
	return m
}

// ComputeLocalM is ComputeLocalLU followed by the per-location pointwise
// max of the two maps.
func ComputeLocalM(sys *system.System) *LocalM {
	lu := ComputeLocalLU(sys)
	m := NewLocalM(sys.LocationCount(), sys.ClockCount())
	for id := range m.m {
		m.m[id].UpdateMap(lu.l[id])
		m.m[id].UpdateMap(lu.u[id])
	}
	return m
}
