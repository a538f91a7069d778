package dbm

// NoBound marks a clock with no static bound. It is strictly smaller than
// every integer bound.
const NoBound = -infinity

// ExtrapolateLU applies the Behrmann et al. Extra_LU operator: entries
// above the lower-bound map of their row clock are dropped to Infinity,
// entries below the negated upper-bound map of their column clock are
// relaxed to ⟨-U, <⟩. l and u have one entry per clock; index 0 (the
// reference clock) is ignored. The matrix is re-tightened afterwards, so
// the result is canonical again.
func (d *DBM) ExtrapolateLU(l, u []int) {
	if d.IsEmpty() {
		return
	}
	n := d.dim
	changed := false
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			db := d.m[i*n+j]
			if db.IsInfinity() {
				continue
			}
			switch {
			case i != 0 && (l[i] == NoBound || db.Value > l[i]):
				d.m[i*n+j] = Infinity
				changed = true
			case j != 0 && u[j] == NoBound:
				d.m[i*n+j] = Infinity
				changed = true
			case j != 0 && db.Value < -u[j]:
				d.m[i*n+j] = LT(-u[j])
				changed = true
			}
		}
	}
	if changed {
		d.tighten()
	}
}

// ExtrapolateM is the uniform M-extrapolation, the special case of
// Extra_LU with L = U = M.
func (d *DBM) ExtrapolateM(m []int) {
	d.ExtrapolateLU(m, m)
}

// ALULe is the abstract aLU inclusion test of Herbreteau, Srivathsan and
// Walukiewicz: it reports whether d1 is included in the LU-closure of d2
// without materializing either closure. Both DBMs must be canonical and of
// the same dimension. The empty zone is aLU-included in everything.
func ALULe(d1, d2 *DBM, l, u []int) bool {
	if d1.IsEmpty() {
		return true
	}
	if d2.IsEmpty() {
		return false
	}
	n := d1.dim
	// d1 is not included in aLU(d2) iff there are clocks x, y such that:
	//   x != 0 implies d1[0,x] >= ⟨-U(x), ≤⟩
	//   d2[y,x] < d1[y,x]
	//   y != 0 implies d2[y,x] + ⟨-L(y), <⟩ < d1[0,x]
	// Column 0 carries the upper bounds of the clocks, so x ranges over
	// it as well; there d1[0,0] is ⟨0, ≤⟩ and the U guard is vacuous.
	for x := 0; x < n; x++ {
		if x != 0 {
			if u[x] == NoBound {
				continue
			}
			if d1.m[x].less(LE(-u[x])) {
				continue
			}
		}
		d10x := d1.m[x]
		for y := 0; y < n; y++ {
			if x == y {
				continue
			}
			if y != 0 && l[y] == NoBound {
				continue
			}
			if Cmp(d2.m[y*n+x], d1.m[y*n+x]) >= 0 {
				continue
			}
			if y == 0 {
				return false
			}
			if Add(d2.m[y*n+x], LT(-l[y])).less(d10x) {
				return false
			}
		}
	}
	return true
}
