package dbm

import "fmt"

// A DB is a difference bound ⟨value, ≺⟩ with ≺ either ≤ (Strict false) or
// < (Strict true). Bounds are totally ordered: ⟨m, <⟩ < ⟨m, ≤⟩ < ⟨m+1, <⟩.
// The zero value is ⟨0, ≤⟩.
type DB struct {
	Value  int
	Strict bool
}

// Infinity is larger than every finite bound. Adding anything to it yields
// Infinity again.
const infinity = int(^uint(0) >> 1) // max int

var (
	LEZero   = DB{0, false}
	LTZero   = DB{0, true}
	Infinity = DB{infinity, true}
)

// LE returns the bound ⟨v, ≤⟩.
func LE(v int) DB { return DB{v, false} }

// LT returns the bound ⟨v, <⟩.
func LT(v int) DB { return DB{v, true} }

func (a DB) IsInfinity() bool { return a.Value == infinity }

// Add is the saturating sum of two bounds: the values add, and the result
// is strict if either operand is strict. Any sum involving Infinity is
// Infinity.
func Add(a, b DB) DB {
	if a.IsInfinity() || b.IsInfinity() {
		return Infinity
	}
	return DB{a.Value + b.Value, a.Strict || b.Strict}
}

// Cmp orders bounds: negative if a < b, zero if equal, positive if a > b.
// For equal values the strict bound is the smaller one.
func Cmp(a, b DB) int {
	if a.Value != b.Value {
		if a.Value < b.Value {
			return -1
		}
		return 1
	}
	if a.Strict == b.Strict {
		return 0
	}
	if a.Strict {
		return -1
	}
	return 1
}

func Min(a, b DB) DB {
	if Cmp(a, b) <= 0 {
		return a
	}
	return b
}

func (a DB) String() string {
	if a.IsInfinity() {
		return "<inf"
	}
	if a.Strict {
		return fmt.Sprintf("<%d", a.Value)
	}
	return fmt.Sprintf("<=%d", a.Value)
}
