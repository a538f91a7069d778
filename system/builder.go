package system

import (
	"fmt"
)

// A Builder accumulates the pieces of a System and validates them in
// Build. All identifiers it hands out are dense and final.
type Builder struct {
	sys  *System
	errs []error
}

func NewBuilder(name string) *Builder {
	return &Builder{
		sys: &System{
			name:       name,
			clockNames: []string{"0"}, // reference clock
			labelIndex: map[string]LabelID{},
			synced:     map[pidEvent]bool{},
		},
	}
}

func (b *Builder) fail(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf("system: "+format, args...))
}

// AddProcess declares a process and returns its id.
func (b *Builder) AddProcess(name string) ProcessID {
	id := ProcessID(len(b.sys.processes))
	b.sys.processes = append(b.sys.processes, &Process{id: id, name: name})
	return id
}

// AddClock declares a clock. The reference clock exists from the start, so
// the first declared clock gets id 1.
func (b *Builder) AddClock(name string) ClockID {
	id := ClockID(len(b.sys.clockNames))
	b.sys.clockNames = append(b.sys.clockNames, name)
	return id
}

// AddIntVar declares a bounded integer variable with its domain and
// initial value.
func (b *Builder) AddIntVar(name string, min, max, initial int) VarID {
	if min > max {
		b.fail("intvar %s: empty domain [%d,%d]", name, min, max)
	}
	if initial < min || initial > max {
		b.fail("intvar %s: initial value %d outside domain [%d,%d]", name, initial, min, max)
	}
	id := VarID(len(b.sys.intvars))
	b.sys.intvars = append(b.sys.intvars, IntVar{Name: name, Min: min, Max: max, Initial: initial})
	return id
}

// AddEvent declares an event and returns its id.
func (b *Builder) AddEvent(name string) EventID {
	id := EventID(len(b.sys.events))
	b.sys.events = append(b.sys.events, name)
	return id
}

// AddLabel declares a label. Re-declaring a name returns the existing id.
func (b *Builder) AddLabel(name string) LabelID {
	if id, ok := b.sys.labelIndex[name]; ok {
		return id
	}
	id := LabelID(len(b.sys.labels))
	b.sys.labels = append(b.sys.labels, name)
	b.sys.labelIndex[name] = id
	return id
}

// A LocOption configures a location at declaration time.
type LocOption interface {
	locOpt()
}

type initialOption struct{}

func (initialOption) locOpt() {}

// Initial marks a location as an initial location of its process.
func Initial() LocOption { return initialOption{} }

type urgentOption struct{}

func (urgentOption) locOpt() {}

// Urgent forbids time delay in the location.
func Urgent() LocOption { return urgentOption{} }

type committedOption struct{}

func (committedOption) locOpt() {}

// Committed forbids time delay in the location.
func Committed() LocOption { return committedOption{} }

type invariantOption struct{ elems []GuardElem }

func (invariantOption) locOpt() {}

// Invariant attaches invariant attribute elements to the location.
func Invariant(elems ...GuardElem) LocOption { return invariantOption{elems} }

type labelsOption struct{ names []string }

func (labelsOption) locOpt() {}

// Labels attaches labels to the location, declaring unknown names.
func Labels(names ...string) LocOption { return labelsOption{names} }

// AddLocation declares a location of process pid and returns its global
// id.
func (b *Builder) AddLocation(pid ProcessID, name string, opts ...LocOption) LocID {
	id := LocID(len(b.sys.locations))
	loc := &Location{pid: pid, id: id, name: name}
	for _, opt := range opts {
		switch o := opt.(type) {
		case initialOption:
			loc.initial = true
		case urgentOption:
			loc.urgent = true
		case committedOption:
			loc.committed = true
		case invariantOption:
			loc.invariant = append(loc.invariant, o.elems...)
		case labelsOption:
			for _, n := range o.names {
				loc.labels = append(loc.labels, b.AddLabel(n))
			}
		}
	}
	b.sys.locations = append(b.sys.locations, loc)
	if int(pid) >= len(b.sys.processes) {
		b.fail("location %s: unknown process %d", name, int(pid))
		return id
	}
	p := b.sys.processes[pid]
	p.locations = append(p.locations, loc)
	if loc.initial {
		p.initial = append(p.initial, loc)
	}
	return id
}

// An EdgeOption configures an edge at declaration time.
type EdgeOption interface {
	edgeOpt()
}

type guardOption struct{ elems []GuardElem }

func (guardOption) edgeOpt() {}

// Guard attaches guard attribute elements to the edge.
func Guard(elems ...GuardElem) EdgeOption { return guardOption{elems} }

type stmtOption struct{ elems []StmtElem }

func (stmtOption) edgeOpt() {}

// Stmt attaches statement attribute elements to the edge.
func Stmt(elems ...StmtElem) EdgeOption { return stmtOption{elems} }

// AddEdge declares an edge of process pid from src to tgt firing event.
func (b *Builder) AddEdge(pid ProcessID, src, tgt LocID, event EventID, opts ...EdgeOption) EdgeID {
	id := EdgeID(len(b.sys.edges))
	e := &Edge{pid: pid, id: id, src: src, tgt: tgt, event: event}
	for _, opt := range opts {
		switch o := opt.(type) {
		case guardOption:
			e.guard = append(e.guard, o.elems...)
		case stmtOption:
			e.stmt = append(e.stmt, o.elems...)
		}
	}
	b.sys.edges = append(b.sys.edges, e)
	if int(pid) >= len(b.sys.processes) {
		b.fail("edge %d: unknown process %d", int(id), int(pid))
		return id
	}
	if int(src) >= len(b.sys.locations) || b.sys.locations[src].pid != pid {
		b.fail("edge %d: source location %d does not belong to process %d", int(id), int(src), int(pid))
		return id
	}
	if int(tgt) >= len(b.sys.locations) || b.sys.locations[tgt].pid != pid {
		b.fail("edge %d: target location %d does not belong to process %d", int(id), int(tgt), int(pid))
		return id
	}
	if int(event) >= len(b.sys.events) {
		b.fail("edge %d: unknown event %d", int(id), int(event))
		return id
	}
	b.sys.locations[src].edges = append(b.sys.locations[src].edges, e)
	return id
}

// AddSync declares a synchronization vector. Every process may occur at
// most once.
func (b *Builder) AddSync(constraints ...SyncConstraint) {
	if len(constraints) < 2 {
		b.fail("synchronization %d: needs at least two slots", len(b.sys.syncs))
	}
	seen := map[ProcessID]bool{}
	for _, c := range constraints {
		if int(c.PID) >= len(b.sys.processes) {
			b.fail("synchronization %d: unknown process %d", len(b.sys.syncs), int(c.PID))
		}
		if int(c.Event) >= len(b.sys.events) {
			b.fail("synchronization %d: unknown event %d", len(b.sys.syncs), int(c.Event))
		}
		if seen[c.PID] {
			b.fail("synchronization %d: process %d occurs twice", len(b.sys.syncs), int(c.PID))
		}
		seen[c.PID] = true
		b.sys.synced[pidEvent{c.PID, c.Event}] = true
	}
	sync := &Synchronization{id: len(b.sys.syncs), constraints: constraints}
	b.sys.syncs = append(b.sys.syncs, sync)
}

func (b *Builder) checkClock(id ClockID, what string) {
	if int(id) < 0 || int(id) >= len(b.sys.clockNames) {
		b.fail("%s: unknown clock %d", what, int(id))
	}
}

func (b *Builder) checkGuardElems(elems []GuardElem, what string) {
	for _, e := range elems {
		if c, ok := e.(ClockConstraint); ok {
			b.checkClock(c.I, what)
			b.checkClock(c.J, what)
		}
	}
}

func (b *Builder) checkStmtElems(elems []StmtElem, what string) {
	for _, e := range elems {
		switch s := e.(type) {
		case ClockReset:
			b.checkClock(s.Clock, what)
			if s.Clock == RefClock {
				b.fail("%s: reset of the reference clock", what)
			}
			if s.Value < 0 {
				b.fail("%s: reset to negative value %d", what, s.Value)
			}
		case If:
			b.checkStmtElems(s.Then, what)
			b.checkStmtElems(s.Else, what)
		}
	}
}

// Build validates the accumulated system and freezes it. Processes without
// a declared initial location are rejected.
func (b *Builder) Build() (*System, error) {
	for _, p := range b.sys.processes {
		if len(p.locations) == 0 {
			b.fail("process %s: no locations", p.name)
			continue
		}
		if len(p.initial) == 0 {
			b.fail("process %s: no initial location", p.name)
		}
		for _, loc := range p.locations {
			b.checkGuardElems(loc.invariant, fmt.Sprintf("invariant of %s", loc.name))
		}
	}
	for _, e := range b.sys.edges {
		b.checkGuardElems(e.guard, fmt.Sprintf("guard of edge %d", int(e.id)))
		b.checkStmtElems(e.stmt, fmt.Sprintf("statement of edge %d", int(e.id)))
	}
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	return b.sys, nil
}
