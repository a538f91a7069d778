package zg

import (
	"testing"

	"tamc/clockbounds"
	"tamc/dbm"
	"tamc/system"
	"tamc/ts"
)

// tickSystem is one process with clock x looping on q0, resetting x, with
// no upper bound anywhere.
func tickSystem(t *testing.T) *system.System {
	t.Helper()
	b := system.NewBuilder("tick")
	p := b.AddProcess("p")
	x := b.AddClock("x")
	e := b.AddEvent("tick")
	q0 := b.AddLocation(p, "q0", system.Initial())
	b.AddEdge(p, q0, q0, e, system.Stmt(system.ClockReset{Clock: x}))
	sys, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return sys
}

// gatedSystem is one process with clock x: q0 -(x>=1, x:=0)-> q1, with an
// optional invariant upper bound on q0.
func gatedSystem(t *testing.T, q0UpperBound int) *system.System {
	t.Helper()
	b := system.NewBuilder("gated")
	p := b.AddProcess("p")
	x := b.AddClock("x")
	e := b.AddEvent("go")
	var opts []system.LocOption
	opts = append(opts, system.Initial())
	if q0UpperBound >= 0 {
		opts = append(opts, system.Invariant(
			system.ClockConstraint{I: x, J: system.RefClock, Cmp: system.ClockLE, Bound: q0UpperBound}))
	}
	q0 := b.AddLocation(p, "q0", opts...)
	q1 := b.AddLocation(p, "q1", system.Labels("q1"))
	b.AddEdge(p, q0, q1, e,
		system.Guard(system.ClockConstraint{I: system.RefClock, J: x, Cmp: system.ClockLE, Bound: -1}),
		system.Stmt(system.ClockReset{Clock: x}))
	sys, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return sys
}

func onlyInitial(t *testing.T, z *ZG) *State {
	t.Helper()
	sst, err := z.Initial()
	if err != nil {
		t.Fatalf("initial: %v", err)
	}
	if len(sst) != 1 {
		t.Fatalf("got %d initial states, want 1", len(sst))
	}
	if sst[0].Status != ts.StatusOK {
		t.Fatalf("initial status = %v", sst[0].Status)
	}
	return sst[0].State
}

func TestInitialZoneElapsesUnderInvariant(t *testing.T) {
	sys := gatedSystem(t, 5)
	z := New(sys, NoExtrapolation{})
	s := onlyInitial(t, z)
	// x in [0,5] after elapsing under the invariant.
	if got := s.Zone.At(1, 0); got != dbm.LE(5) {
		t.Errorf("upper bound of x = %v, want ⟨5,≤⟩", got)
	}
	if got := s.Zone.At(0, 1); got != dbm.LEZero {
		t.Errorf("lower bound of x = %v, want ⟨0,≤⟩", got)
	}
	if !z.IsInitial(s) {
		t.Errorf("the initial state should be initial")
	}
	if !z.IsValidFinal(s) {
		t.Errorf("a non-empty state is a valid final state")
	}
}

func TestInitialZoneWithoutDelay(t *testing.T) {
	b := system.NewBuilder("urgent")
	p := b.AddProcess("p")
	b.AddClock("x")
	b.AddLocation(p, "q0", system.Initial(), system.Urgent())
	sys, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	z := New(sys, NoExtrapolation{})
	s := onlyInitial(t, z)
	if got := s.Zone.At(1, 0); got != dbm.LEZero {
		t.Errorf("an urgent initial location should pin x to 0, got upper bound %v", got)
	}
}

func TestNextAppliesGuardResetAndElapse(t *testing.T) {
	sys := gatedSystem(t, -1)
	z := New(sys, NoExtrapolation{})
	s := onlyInitial(t, z)
	sst, err := z.Next(s)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if len(sst) != 1 {
		t.Fatalf("got %d successors, want 1", len(sst))
	}
	n := sst[0].State
	if sys.Location(n.Vloc[0]).Name() != "q1" {
		t.Errorf("successor location = %v, want q1", sys.Location(n.Vloc[0]).Name())
	}
	// x was reset and then elapsed: x >= 0, unbounded above.
	if got := n.Zone.At(0, 1); got != dbm.LEZero {
		t.Errorf("lower bound of x = %v, want ⟨0,≤⟩", got)
	}
	if got := n.Zone.At(1, 0); got != dbm.Infinity {
		t.Errorf("upper bound of x = %v, want Infinity", got)
	}
}

func TestNextKillsInfeasibleGuard(t *testing.T) {
	// Invariant x <= 0 at q0 and guard x >= 1: the guard empties the zone.
	sys := gatedSystem(t, 0)
	z := New(sys, NoExtrapolation{})
	s := onlyInitial(t, z)
	sst, err := z.Next(s)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if len(sst) != 0 {
		t.Errorf("got %d successors, want none", len(sst))
	}
}

func TestSharingInternsComponents(t *testing.T) {
	sys := tickSystem(t)
	lu := clockbounds.NewGlobalLU(sys.ClockCount())
	z := New(sys, NewExtraLUGlobal(lu))
	s := onlyInitial(t, z)
	sst, err := z.Next(s)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if len(sst) != 1 {
		t.Fatalf("got %d successors, want 1", len(sst))
	}
	n := sst[0].State
	if !s.Eq(n) {
		t.Fatalf("the tick loop should come back to the same symbolic state")
	}
	if s.Zone != n.Zone {
		t.Errorf("equal zones of one ZG should be the same interned value")
	}
	if !s.EqShared(n) {
		t.Errorf("the shared fast path should agree with structural equality")
	}
	if s.Key() != n.Key() || s.Hash() != n.Hash() {
		t.Errorf("equal states should agree on key and hash")
	}
	if !s.Le(n) || !n.Le(s) {
		t.Errorf("equal states should include each other")
	}
}

// The tick loop resets x before every elapse; with LU-extrapolation the
// reachable zones close after one step.
func TestExtrapolationClosesLoop(t *testing.T) {
	sys := tickSystem(t)
	lu := clockbounds.ComputeGlobalLU(sys)
	z := New(sys, NewExtraLUGlobal(lu))

	seen := map[string]*State{}
	frontier := []*State{onlyInitial(t, z)}
	seen[frontier[0].Key()] = frontier[0]
	for steps := 0; len(frontier) > 0; steps++ {
		if steps > 4 {
			t.Fatalf("exploration did not close after %d rounds", steps)
		}
		var next []*State
		for _, s := range frontier {
			sst, err := z.Next(s)
			if err != nil {
				t.Fatalf("next: %v", err)
			}
			for _, triple := range sst {
				if _, ok := seen[triple.State.Key()]; ok {
					continue
				}
				seen[triple.State.Key()] = triple.State
				next = append(next, triple.State)
			}
		}
		frontier = next
	}
	if len(seen) != 1 {
		t.Errorf("the extrapolated loop should have one symbolic state, got %d", len(seen))
	}
}

func TestLabelsOfState(t *testing.T) {
	sys := gatedSystem(t, -1)
	z := New(sys, NoExtrapolation{})
	s := onlyInitial(t, z)
	if z.Labels(s).Any() {
		t.Errorf("q0 carries no label")
	}
	sst, _ := z.Next(s)
	id, _ := sys.Label("q1")
	if !z.Labels(sst[0].State).Test(uint(id)) {
		t.Errorf("q1 should carry its label")
	}
}
