package ta

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"tamc/system"
)

// An Intval is a valuation of the bounded integer variables, indexed by
// variable id. Intvals are immutable values compared by content; a step
// always works on a fresh clone.
type Intval []int

func NewIntval(sys *system.System) Intval {
	return Intval(sys.InitialIntval())
}

func (iv Intval) Value(id system.VarID) int { return iv[id] }

func (iv Intval) Eq(o Intval) bool { return slices.Equal(iv, o) }

func (iv Intval) Clone() Intval { return slices.Clone(iv) }

// Key returns a content key usable for interning.
func (iv Intval) Key() string {
	var sb strings.Builder
	for i, v := range iv {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

func (iv Intval) String(sys *system.System) string {
	var sb strings.Builder
	for i, v := range iv {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(sys.IntVar(system.VarID(i)).Name)
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}
