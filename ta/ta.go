// Package ta implements the discrete step of a network of timed
// processes: evaluation of integer guards and statements of a joint edge,
// collection of the clock constraints and resets it emits, and the
// contractual evaluation order src invariant → guard → statement → tgt
// invariant with its status codes.
package ta

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"tamc/syncprod"
	"tamc/system"
	"tamc/ts"
)

// A Transition carries the vedge of a step together with the clock
// constraints and resets collected from invariants, guards and
// statements, in emission order.
type Transition struct {
	Vedge        syncprod.Vedge
	SrcInvariant []system.ClockConstraint
	Guard        []system.ClockConstraint
	Reset        []system.ClockReset
	TgtInvariant []system.ClockConstraint
}

// evalInvariant evaluates the integer part of a location invariant on iv
// and appends its clock constraints to out. A clock reset inside an
// invariant is a fatal malformed input.
func evalInvariant(loc *system.Location, iv Intval, out *[]system.ClockConstraint) (bool, error) {
	for _, elem := range loc.Invariant() {
		switch e := elem.(type) {
		case system.IntGuard:
			if !e.Expr.Eval(iv) {
				return false, nil
			}
		case system.ClockConstraint:
			*out = append(*out, e)
		case system.ClockReset:
			return false, fmt.Errorf("ta: invariant of location %s produces a clock reset %s", loc.Name(), e)
		default:
			return false, fmt.Errorf("ta: invariant of location %s holds unknown element %v", loc.Name(), elem)
		}
	}
	return true, nil
}

// evalGuard evaluates the integer part of an edge guard on iv and appends
// its clock constraints to out. A clock reset inside a guard is a fatal
// malformed input.
func evalGuard(edge *system.Edge, iv Intval, out *[]system.ClockConstraint) (bool, error) {
	for _, elem := range edge.Guard() {
		switch e := elem.(type) {
		case system.IntGuard:
			if !e.Expr.Eval(iv) {
				return false, nil
			}
		case system.ClockConstraint:
			*out = append(*out, e)
		case system.ClockReset:
			return false, fmt.Errorf("ta: guard of edge %d produces a clock reset %s", int(edge.ID()), e)
		default:
			return false, fmt.Errorf("ta: guard of edge %d holds unknown element %v", int(edge.ID()), elem)
		}
	}
	return true, nil
}

// applyStmt executes the statement of an edge on iv, checking every
// assignment against the variable's declared domain, and appends the
// clock resets to out. A clock constraint inside a statement is a fatal
// malformed input.
func applyStmt(sys *system.System, edge *system.Edge, elems []system.StmtElem, iv Intval, out *[]system.ClockReset) (bool, error) {
	for _, elem := range elems {
		switch e := elem.(type) {
		case system.Assign:
			val := e.Expr.Eval(iv)
			dom := sys.IntVar(e.Var)
			if val < dom.Min || val > dom.Max {
				return false, nil
			}
			iv[e.Var] = val
		case system.If:
			branch := e.Then
			if !e.Cond.Eval(iv) {
				branch = e.Else
			}
			ok, err := applyStmt(sys, edge, branch, iv, out)
			if !ok || err != nil {
				return ok, err
			}
		case system.ClockReset:
			*out = append(*out, e)
		case system.ClockConstraint:
			return false, fmt.Errorf("ta: statement of edge %d produces a clock constraint %s", int(edge.ID()), e)
		default:
			return false, fmt.Errorf("ta: statement of edge %d holds unknown element %v", int(edge.ID()), elem)
		}
	}
	return true, nil
}

// Initialize computes an initial discrete state from one joint initial
// location choice: the vloc, the initial integer valuation, an empty
// vedge, and the invariant clock constraints of the vloc collected into
// the transition. The returned status is
// ts.StatusSrcInvariantViolated when the initial valuation fails an
// invariant.
func Initialize(sys *system.System, v syncprod.InitialValue) (syncprod.Vloc, Intval, *Transition, ts.Status, error) {
	vloc := make(syncprod.Vloc, len(v.Locs))
	for p, loc := range v.Locs {
		vloc[p] = loc.ID()
	}
	iv := NewIntval(sys)
	trans := &Transition{Vedge: make(syncprod.Vedge, len(v.Locs))}
	for _, loc := range v.Locs {
		ok, err := evalInvariant(loc, iv, &trans.TgtInvariant)
		if err != nil {
			return nil, nil, nil, 0, err
		}
		if !ok {
			return nil, nil, nil, ts.StatusSrcInvariantViolated, nil
		}
	}
	return vloc, iv, trans, ts.StatusOK, nil
}

// Next computes the discrete successor of (vloc, iv) under the joint
// edges. The evaluation order is contractual: source invariant, integer
// guards, statements, target invariant; the returned status identifies
// the first stage that failed. A malformed attribute list or an
// out-of-range process id is a fatal error.
func Next(sys *system.System, vloc syncprod.Vloc, iv Intval, edges syncprod.Vedge) (syncprod.Vloc, Intval, *Transition, ts.Status, error) {
	if len(edges) != len(vloc) {
		return nil, nil, nil, 0, fmt.Errorf("ta: vedge size %d does not match process count %d", len(edges), len(vloc))
	}
	for p, e := range edges {
		if e == nil {
			continue
		}
		if int(e.PID()) >= len(vloc) {
			return nil, nil, nil, 0, fmt.Errorf("ta: edge %d has process id %d out of range", int(e.ID()), int(e.PID()))
		}
		if int(e.PID()) != p {
			return nil, nil, nil, 0, fmt.Errorf("ta: edge %d filed under process %d but belongs to process %d", int(e.ID()), p, int(e.PID()))
		}
	}

	trans := &Transition{Vedge: edges.Clone()}

	// Source locations must agree with the current vloc.
	for p, e := range edges {
		if e != nil && e.Src() != vloc[p] {
			return nil, nil, nil, ts.StatusIncompatibleEdge, nil
		}
	}

	// Source invariant.
	for _, id := range vloc {
		ok, err := evalInvariant(sys.Location(id), iv, &trans.SrcInvariant)
		if err != nil {
			return nil, nil, nil, 0, err
		}
		if !ok {
			return nil, nil, nil, ts.StatusSrcInvariantViolated, nil
		}
	}

	// Integer guards.
	for _, e := range edges {
		if e == nil {
			continue
		}
		ok, err := evalGuard(e, iv, &trans.Guard)
		if err != nil {
			return nil, nil, nil, 0, err
		}
		if !ok {
			return nil, nil, nil, ts.StatusGuardViolated, nil
		}
	}

	// Statements, on a fresh valuation.
	next := iv.Clone()
	for _, e := range edges {
		if e == nil {
			continue
		}
		ok, err := applyStmt(sys, e, e.Stmt(), next, &trans.Reset)
		if err != nil {
			return nil, nil, nil, 0, err
		}
		if !ok {
			return nil, nil, nil, ts.StatusStatementFailed, nil
		}
	}

	// Location update.
	nvloc := vloc.Clone()
	for p, e := range edges {
		if e != nil {
			nvloc[p] = e.Tgt()
		}
	}

	// Target invariant, on the updated valuation.
	for _, id := range nvloc {
		ok, err := evalInvariant(sys.Location(id), next, &trans.TgtInvariant)
		if err != nil {
			return nil, nil, nil, 0, err
		}
		if !ok {
			return nil, nil, nil, ts.StatusTgtInvariantViolated, nil
		}
	}

	return nvloc, next, trans, ts.StatusOK, nil
}

// DelayAllowed reports whether time may elapse in vloc: every component
// location must permit delay.
func DelayAllowed(sys *system.System, vloc syncprod.Vloc) bool {
	for _, id := range vloc {
		if !sys.Location(id).DelayAllowed() {
			return false
		}
	}
	return true
}

// DelayAllowedBits sets one bit per process indicating whether its
// component location permits delay.
func DelayAllowedBits(sys *system.System, vloc syncprod.Vloc, allowed *bitset.BitSet) {
	for p, id := range vloc {
		allowed.SetTo(uint(p), sys.Location(id).DelayAllowed())
	}
}

// Labels returns the union of the labels of the component locations as a
// bitset over the system's label ids.
func Labels(sys *system.System, vloc syncprod.Vloc) *bitset.BitSet {
	out := bitset.New(uint(sys.LabelCount()))
	for _, id := range vloc {
		for _, l := range sys.Location(id).Labels() {
			out.Set(uint(l))
		}
	}
	return out
}
