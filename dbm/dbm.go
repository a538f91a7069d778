package dbm

import (
	"encoding/binary"
	"hash/fnv"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// A DBM is a dim×dim difference bound matrix over clocks 0..dim-1, where
// clock 0 is the reference clock (constant zero). Entry (i, j) bounds the
// difference xi - xj. A non-empty DBM is kept canonical: tight under the
// triangle inequality with a ⟨0, ≤⟩ diagonal. The empty zone is a sentinel
// with no entries.
type DBM struct {
	dim int
	m   []DB // nil when empty
}

// Universal returns the zone with no constraints at all (clocks may be
// negative). dim must be at least 1.
func Universal(dim int) *DBM {
	d := &DBM{dim: dim, m: make([]DB, dim*dim)}
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if i != j {
				d.m[i*dim+j] = Infinity
			}
		}
	}
	return d
}

// UniversalPositive returns the zone where every clock is non-negative and
// otherwise unconstrained.
func UniversalPositive(dim int) *DBM {
	d := Universal(dim)
	for j := 1; j < dim; j++ {
		d.m[j] = LEZero // x0 - xj <= 0
	}
	return d
}

// Zero returns the singleton zone where every clock equals 0.
func Zero(dim int) *DBM {
	return &DBM{dim: dim, m: make([]DB, dim*dim)}
}

// Empty returns the empty-zone sentinel.
func Empty(dim int) *DBM {
	return &DBM{dim: dim}
}

func (d *DBM) Dim() int { return d.dim }

func (d *DBM) IsEmpty() bool { return d.m == nil }

// At returns the bound on xi - xj. The empty zone has no entries.
func (d *DBM) At(i, j int) DB { return d.m[i*d.dim+j] }

func (d *DBM) Clone() *DBM {
	c := &DBM{dim: d.dim}
	if d.m != nil {
		c.m = make([]DB, len(d.m))
		copy(c.m, d.m)
	}
	return c
}

func (d *DBM) makeEmpty() {
	d.m = nil
}

// Constrain intersects the zone with xi - xj ≼ db and restores canonical
// form. It returns false if the zone became empty.
func (d *DBM) Constrain(i, j int, db DB) bool {
	if d.IsEmpty() {
		return false
	}
	cur := d.m[i*d.dim+j]
	if Cmp(db, cur) >= 0 {
		return true
	}
	// Infeasible with the opposite bound already present.
	if Add(db, d.m[j*d.dim+i]).less(LEZero) {
		d.makeEmpty()
		return false
	}
	d.m[i*d.dim+j] = db
	// The matrix was canonical, so tightening paths through the updated
	// entry suffices.
	n := d.dim
	for a := 0; a < n; a++ {
		dai := d.m[a*n+i]
		if dai.IsInfinity() {
			continue
		}
		head := Add(dai, db)
		for b := 0; b < n; b++ {
			cand := Add(head, d.m[j*n+b])
			if cand.less(d.m[a*n+b]) {
				d.m[a*n+b] = cand
			}
		}
	}
	for a := 0; a < n; a++ {
		if d.m[a*n+a].less(LEZero) {
			d.makeEmpty()
			return false
		}
		d.m[a*n+a] = LEZero
	}
	return true
}

func (a DB) less(b DB) bool { return Cmp(a, b) < 0 }

// Reset sets clock x to the non-negative constant v. The zone must be
// non-empty; canonical form is preserved.
func (d *DBM) Reset(x, v int) {
	if d.IsEmpty() {
		return
	}
	n := d.dim
	for i := 0; i < n; i++ {
		// x - xi = v + (x0 - xi), xi - x = (xi - x0) - v
		d.m[x*n+i] = Add(LE(v), d.m[i])
		d.m[i*n+x] = Add(d.m[i*n], LE(-v))
	}
	d.m[x*n+x] = LEZero
}

// Up removes all upper bounds on clocks (time elapse). Canonical form is
// preserved.
func (d *DBM) Up() {
	if d.IsEmpty() {
		return
	}
	n := d.dim
	for i := 1; i < n; i++ {
		d.m[i*n] = Infinity
	}
}

// Eq reports structural zone equality. Two empty zones of the same
// dimension are equal.
func (d *DBM) Eq(o *DBM) bool {
	if d.dim != o.dim {
		return false
	}
	if d.IsEmpty() || o.IsEmpty() {
		return d.IsEmpty() == o.IsEmpty()
	}
	return slices.Equal(d.m, o.m)
}

// Subset reports whether the zone is included in o. Both must be canonical;
// inclusion is then entrywise comparison. The empty zone is included in
// everything.
func (d *DBM) Subset(o *DBM) bool {
	if d.dim != o.dim {
		return false
	}
	if d.IsEmpty() {
		return true
	}
	if o.IsEmpty() {
		return false
	}
	for i := range d.m {
		if Cmp(d.m[i], o.m[i]) > 0 {
			return false
		}
	}
	return true
}

// ContainsZero reports whether the all-zero valuation belongs to the zone.
func (d *DBM) ContainsZero() bool {
	if d.IsEmpty() {
		return false
	}
	// At the origin every difference xi - xj is 0, so every entry must
	// admit 0.
	for _, db := range d.m {
		if db.less(LEZero) {
			return false
		}
	}
	return true
}

// tighten runs a full Floyd-Warshall closure. It returns false and makes
// the zone empty if a negative cycle is found.
func (d *DBM) tighten() bool {
	if d.IsEmpty() {
		return false
	}
	n := d.dim
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			dik := d.m[i*n+k]
			if dik.IsInfinity() {
				continue
			}
			for j := 0; j < n; j++ {
				cand := Add(dik, d.m[k*n+j])
				if cand.less(d.m[i*n+j]) {
					d.m[i*n+j] = cand
				}
			}
		}
	}
	for i := 0; i < n; i++ {
		if d.m[i*n+i].less(LEZero) {
			d.makeEmpty()
			return false
		}
		d.m[i*n+i] = LEZero
	}
	return true
}

// Hash returns a content hash of the zone.
func (d *DBM) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(d.dim))
	h.Write(buf[:])
	if d.IsEmpty() {
		return h.Sum64()
	}
	for _, db := range d.m {
		binary.LittleEndian.PutUint64(buf[:], uint64(db.Value))
		h.Write(buf[:])
		if db.Strict {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}
	return h.Sum64()
}

// Key returns a string that is equal for structurally equal zones, used
// for interning.
func (d *DBM) Key() string {
	var sb strings.Builder
	var buf [9]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(d.dim))
	sb.Write(buf[:8])
	if d.IsEmpty() {
		sb.WriteByte('e')
		return sb.String()
	}
	for _, db := range d.m {
		binary.LittleEndian.PutUint64(buf[:], uint64(db.Value))
		if db.Strict {
			buf[8] = 1
		} else {
			buf[8] = 0
		}
		sb.Write(buf[:])
	}
	return sb.String()
}

// LexCmp orders zones by dimension, emptiness, then entrywise bound order.
func LexCmp(a, b *DBM) int {
	if a.dim != b.dim {
		if a.dim < b.dim {
			return -1
		}
		return 1
	}
	if a.IsEmpty() || b.IsEmpty() {
		switch {
		case a.IsEmpty() && b.IsEmpty():
			return 0
		case a.IsEmpty():
			return -1
		default:
			return 1
		}
	}
	for i := range a.m {
		if c := Cmp(a.m[i], b.m[i]); c != 0 {
			return c
		}
	}
	return 0
}

func (d *DBM) String() string {
	if d.IsEmpty() {
		return "empty"
	}
	var sb strings.Builder
	sb.WriteByte('(')
	first := true
	for i := 0; i < d.dim; i++ {
		for j := 0; j < d.dim; j++ {
			if i == j || d.m[i*d.dim+j].IsInfinity() {
				continue
			}
			if !first {
				sb.WriteString(" & ")
			}
			first = false
			sb.WriteString(diffName(i, j))
			sb.WriteString(d.m[i*d.dim+j].String())
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

func diffName(i, j int) string {
	return "x" + strconv.Itoa(i) + "-x" + strconv.Itoa(j)
}
