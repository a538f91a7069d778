// Package syncprod enumerates the joint moves of a network of
// synchronized processes: the Cartesian initial location choices, and the
// outgoing vedges permitted by the synchronization vectors plus the
// asynchronous edges.
package syncprod

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"tamc/system"
)

// A Vloc is the tuple of current locations, one per process, indexed by
// process id. Vlocs are immutable values compared by content.
type Vloc []system.LocID

func (v Vloc) Eq(o Vloc) bool { return slices.Equal(v, o) }

func (v Vloc) Clone() Vloc { return slices.Clone(v) }

// Key returns a content key usable for interning.
func (v Vloc) Key() string {
	var sb strings.Builder
	for i, id := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(id)))
	}
	return sb.String()
}

func (v Vloc) String(sys *system.System) string {
	var sb strings.Builder
	sb.WriteByte('<')
	for i, id := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(sys.Location(id).Name())
	}
	sb.WriteByte('>')
	return sb.String()
}

// A Vedge is the tuple of edges fired jointly in one step, indexed by
// process id. A nil slot marks a process that does not participate.
type Vedge []*system.Edge

func (v Vedge) Eq(o Vedge) bool { return slices.Equal(v, o) }

func (v Vedge) Clone() Vedge { return slices.Clone(v) }

// Key returns a content key usable for interning.
func (v Vedge) Key() string {
	var sb strings.Builder
	for i, e := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		if e == nil {
			sb.WriteByte('.')
		} else {
			sb.WriteString(strconv.Itoa(int(e.ID())))
		}
	}
	return sb.String()
}

func (v Vedge) String(sys *system.System) string {
	var sb strings.Builder
	sb.WriteByte('<')
	first := true
	for _, e := range v {
		if e == nil {
			continue
		}
		if !first {
			sb.WriteByte(',')
		}
		first = false
		sb.WriteString(sys.Location(e.Src()).Name())
		sb.WriteString("->")
		sb.WriteString(sys.Location(e.Tgt()).Name())
	}
	sb.WriteByte('>')
	return sb.String()
}

// An InitialValue is one joint choice of initial locations.
type InitialValue struct {
	Locs []*system.Location // one per process, by process id
}

// Initial enumerates the joint initial location choices of the system, in
// Cartesian product order respecting process ids.
func Initial(sys *system.System) []InitialValue {
	n := sys.ProcessCount()
	choices := make([][]*system.Location, n)
	for p := 0; p < n; p++ {
		choices[p] = sys.Process(system.ProcessID(p)).InitialLocations()
		if len(choices[p]) == 0 {
			return nil
		}
	}
	var out []InitialValue
	idx := make([]int, n)
	for {
		locs := make([]*system.Location, n)
		for p := 0; p < n; p++ {
			locs[p] = choices[p][idx[p]]
		}
		out = append(out, InitialValue{Locs: locs})
		// Advance the odometer, least significant position last.
		p := n - 1
		for p >= 0 {
			idx[p]++
			if idx[p] < len(choices[p]) {
				break
			}
			idx[p] = 0
			p--
		}
		if p < 0 {
			return out
		}
	}
}

// enabledEdges returns the outgoing edges of process pid from its current
// location that fire event.
func enabledEdges(sys *system.System, vloc Vloc, pid system.ProcessID, event system.EventID) []*system.Edge {
	var out []*system.Edge
	for _, e := range sys.Location(vloc[pid]).Edges() {
		if e.Event() == event {
			out = append(out, e)
		}
	}
	return out
}

// OutgoingEdges enumerates the vedge candidates leaving vloc: first the
// synchronized vedges in synchronization declaration order (slot choices
// in odometer order by process id), then the asynchronous edges in
// (process, edge) order. A weakly synchronized process joins whenever it
// has an enabled edge for the event and is skipped only when it has none;
// an unmatched mandatory slot kills the candidate. No process occurs twice
// in an emitted vedge.
func OutgoingEdges(sys *system.System, vloc Vloc) []Vedge {
	n := sys.ProcessCount()
	var out []Vedge

	for _, sync := range sys.Synchronizations() {
		// One candidate list per participating slot.
		var slots []struct {
			pid   system.ProcessID
			edges []*system.Edge
		}
		dead := false
		for _, c := range sync.Constraints() {
			edges := enabledEdges(sys, vloc, c.PID, c.Event)
			if len(edges) == 0 {
				if c.Strength == system.SyncStrong {
					dead = true
					break
				}
				continue // weak slot with nothing enabled is skipped
			}
			slots = append(slots, struct {
				pid   system.ProcessID
				edges []*system.Edge
			}{c.PID, edges})
		}
		if dead || len(slots) == 0 {
			continue
		}
		idx := make([]int, len(slots))
		for {
			ve := make(Vedge, n)
			for s, slot := range slots {
				ve[slot.pid] = slot.edges[idx[s]]
			}
			out = append(out, ve)
			s := len(slots) - 1
			for s >= 0 {
				idx[s]++
				if idx[s] < len(slots[s].edges) {
					break
				}
				idx[s] = 0
				s--
			}
			if s < 0 {
				break
			}
		}
	}

	for p := 0; p < n; p++ {
		pid := system.ProcessID(p)
		for _, e := range sys.Location(vloc[pid]).Edges() {
			if !sys.IsAsync(pid, e.Event()) {
				continue
			}
			ve := make(Vedge, n)
			ve[pid] = e
			out = append(out, ve)
		}
	}
	return out
}
