// Package ts defines the small transition-system protocol shared by the
// semantic layers and the reachability driver: step statuses, the
// (status, state, transition) triples a layer emits, and the capability
// interfaces the driver consumes.
package ts

import "github.com/bits-and-blooms/bitset"

// A Status is the step-local outcome attached to an emitted triple. Any
// status other than StatusOK prunes the search; none of them is an error.
type Status int

const (
	StatusOK Status = iota
	// The edges' source locations disagree with the current vloc.
	StatusIncompatibleEdge
	// The integer valuation fails the invariant of the current vloc.
	StatusSrcInvariantViolated
	// The integer valuation fails the guard.
	StatusGuardViolated
	// A statement would assign a value outside its declared domain.
	StatusStatementFailed
	// The updated integer valuation fails the invariant of the target vloc.
	StatusTgtInvariantViolated
	// The zone became empty on the source invariant.
	StatusClocksSrcInvariantViolated
	// The zone became empty on the clock guard.
	StatusClocksGuardViolated
	// The zone became empty on the target invariant.
	StatusClocksTgtInvariantViolated
	// The zone is empty.
	StatusEmptyZone
)

var statusNames = [...]string{
	"OK",
	"INCOMPATIBLE_EDGE",
	"SRC_INVARIANT_VIOLATED",
	"GUARD_VIOLATED",
	"STATEMENT_FAILED",
	"TGT_INVARIANT_VIOLATED",
	"CLOCKS_SRC_INVARIANT_VIOLATED",
	"CLOCKS_GUARD_VIOLATED",
	"CLOCKS_TGT_INVARIANT_VIOLATED",
	"EMPTY_ZONE",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "UNKNOWN"
}

// An Sst is one (status, state, transition) triple emitted by a transition
// system. State and transition are only meaningful when Status is
// StatusOK.
type Sst[S, T any] struct {
	Status     Status
	State      S
	Transition T
}

// A ForwardTS produces initial states and successors. A returned error is
// a fatal malformed-input violation, never a semantic outcome.
type ForwardTS[S, T any] interface {
	Initial() ([]Sst[S, T], error)
	Next(s S) ([]Sst[S, T], error)
}

// An Inspector answers the driver's questions about states.
type Inspector[S any] interface {
	// Labels returns the set of labels of the state.
	Labels(s S) *bitset.BitSet
	// IsValidFinal reports whether the state may be accepted as final.
	IsValidFinal(s S) bool
	// IsInitial reports whether the state is an initial state.
	IsInitial(s S) bool
}
