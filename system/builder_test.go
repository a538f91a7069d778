package system

import (
	"strings"
	"testing"
)

func TestBuilderBuildsSystem(t *testing.T) {
	b := NewBuilder("demo")
	p0 := b.AddProcess("p0")
	p1 := b.AddProcess("p1")
	x := b.AddClock("x")
	i := b.AddIntVar("i", 0, 3, 1)
	a := b.AddEvent("a")
	tau := b.AddEvent("tau")

	q0 := b.AddLocation(p0, "q0", Initial(), Labels("start"),
		Invariant(ClockConstraint{I: x, J: RefClock, Cmp: ClockLE, Bound: 5}))
	q1 := b.AddLocation(p0, "q1", Labels("goal"))
	r0 := b.AddLocation(p1, "r0", Initial())

	b.AddEdge(p0, q0, q1, a,
		Guard(IntGuard{Rel(IntGE, Var(i), Const(1))}),
		Stmt(Assign{Var: i, Expr: Add(Var(i), Const(1))}, ClockReset{Clock: x}))
	b.AddEdge(p1, r0, r0, tau)
	b.AddSync(
		SyncConstraint{PID: p0, Event: a, Strength: SyncStrong},
		SyncConstraint{PID: p1, Event: tau, Strength: SyncWeak})

	sys, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if sys.ProcessCount() != 2 || sys.ClockCount() != 2 || sys.IntvarCount() != 1 {
		t.Errorf("counts: %d processes, %d clocks, %d intvars",
			sys.ProcessCount(), sys.ClockCount(), sys.IntvarCount())
	}
	if got := sys.InitialIntval(); got[0] != 1 {
		t.Errorf("initial intval = %v, want [1]", got)
	}
	if _, ok := sys.Label("goal"); !ok {
		t.Errorf("label goal should have been declared through the location")
	}
	if sys.IsAsync(p0, a) {
		t.Errorf("event a of p0 occurs in a synchronization and is not asynchronous")
	}
	if !sys.IsAsync(p0, tau) {
		t.Errorf("event tau of p0 occurs in no synchronization")
	}
	if len(sys.Location(q0).Edges()) != 1 {
		t.Errorf("q0 should have one outgoing edge")
	}
	if sys.Location(q1).PID() != p0 || sys.Location(r0).PID() != p1 {
		t.Errorf("locations filed under the wrong process")
	}
	if !sys.Location(q0).DelayAllowed() {
		t.Errorf("plain locations should allow delay")
	}
}

func TestBuilderRejectsMissingInitial(t *testing.T) {
	b := NewBuilder("bad")
	p := b.AddProcess("p")
	b.AddLocation(p, "q0")
	if _, err := b.Build(); err == nil {
		t.Fatalf("a process without an initial location should be rejected")
	}
}

func TestBuilderRejectsRefClockReset(t *testing.T) {
	b := NewBuilder("bad")
	p := b.AddProcess("p")
	e := b.AddEvent("e")
	q := b.AddLocation(p, "q", Initial())
	b.AddEdge(p, q, q, e, Stmt(ClockReset{Clock: RefClock}))
	if _, err := b.Build(); err == nil {
		t.Fatalf("resetting the reference clock should be rejected")
	}
}

func TestBuilderRejectsForeignTarget(t *testing.T) {
	b := NewBuilder("bad")
	p0 := b.AddProcess("p0")
	p1 := b.AddProcess("p1")
	e := b.AddEvent("e")
	q := b.AddLocation(p0, "q", Initial())
	b.AddLocation(p1, "r", Initial())
	r := LocID(1)
	b.AddEdge(p0, q, r, e)
	if _, err := b.Build(); err == nil {
		t.Fatalf("an edge to another process's location should be rejected")
	}
}

func TestBuilderRejectsDuplicateSyncProcess(t *testing.T) {
	b := NewBuilder("bad")
	p := b.AddProcess("p")
	e := b.AddEvent("e")
	b.AddLocation(p, "q", Initial())
	b.AddSync(
		SyncConstraint{PID: p, Event: e},
		SyncConstraint{PID: p, Event: e})
	if _, err := b.Build(); err == nil {
		t.Fatalf("a synchronization with a duplicated process should be rejected")
	}
}

func TestBuilderRejectsBadIntVar(t *testing.T) {
	b := NewBuilder("bad")
	p := b.AddProcess("p")
	b.AddLocation(p, "q", Initial())
	b.AddIntVar("i", 0, 3, 7)
	_, err := b.Build()
	if err == nil {
		t.Fatalf("an initial value outside the domain should be rejected")
	}
	if !strings.Contains(err.Error(), "domain") {
		t.Errorf("error should mention the domain, got %v", err)
	}
}

func TestExprEval(t *testing.T) {
	iv := fakeValuation{0: 2, 1: 5}
	e := Add(Mul(Var(0), Const(3)), Sub(Var(1), Const(1)))
	if got := e.Eval(iv); got != 10 {
		t.Errorf("2*3 + (5-1) = %d, want 10", got)
	}
	g := And(Rel(IntLE, Var(0), Const(2)), Not(Rel(EQ, Var(1), Const(0))))
	if !g.Eval(iv) {
		t.Errorf("guard %s should hold on %v", g, iv)
	}
	if !Or(Rel(IntGT, Var(0), Const(9)), True).Eval(iv) {
		t.Errorf("a disjunction with true should hold")
	}
}

type fakeValuation map[VarID]int

func (f fakeValuation) Value(id VarID) int { return f[id] }
