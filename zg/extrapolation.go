package zg

import (
	"tamc/clockbounds"
	"tamc/dbm"
	"tamc/syncprod"
)

// An Extrapolation over-approximates a zone so that the set of reachable
// zones stays finite. Implementations are configured with clock-bound
// maps; the vloc selects the scope for the local variants.
type Extrapolation interface {
	Extrapolate(d *dbm.DBM, vloc syncprod.Vloc)
}

// NoExtrapolation leaves zones untouched. Exploration of systems with
// unbounded clocks need not terminate with it.
type NoExtrapolation struct{}

func (NoExtrapolation) Extrapolate(*dbm.DBM, syncprod.Vloc) {}

// ExtraLUGlobal is the LU-extrapolation with one global bound pair.
type ExtraLUGlobal struct {
	m    *clockbounds.GlobalLU
	l, u clockbounds.Map
}

func NewExtraLUGlobal(m *clockbounds.GlobalLU) *ExtraLUGlobal {
	return &ExtraLUGlobal{
		m: m,
		l: clockbounds.NewMap(m.ClockCount()),
		u: clockbounds.NewMap(m.ClockCount()),
	}
}

func (e *ExtraLUGlobal) Extrapolate(d *dbm.DBM, vloc syncprod.Vloc) {
	e.m.BoundsVloc(vloc, e.l, e.u)
	d.ExtrapolateLU([]int(e.l), []int(e.u))
}

// ExtraLULocal is the LU-extrapolation with per-location bounds; the
// bounds of a vloc are the pointwise max over its component locations.
type ExtraLULocal struct {
	m    *clockbounds.LocalLU
	l, u clockbounds.Map
}

func NewExtraLULocal(m *clockbounds.LocalLU) *ExtraLULocal {
	return &ExtraLULocal{
		m: m,
		l: clockbounds.NewMap(m.ClockCount()),
		u: clockbounds.NewMap(m.ClockCount()),
	}
}

func (e *ExtraLULocal) Extrapolate(d *dbm.DBM, vloc syncprod.Vloc) {
	e.m.BoundsVloc(vloc, e.l, e.u)
	d.ExtrapolateLU([]int(e.l), []int(e.u))
}

// ExtraMGlobal is the uniform M-extrapolation with one global map.
type ExtraMGlobal struct {
	bounds *clockbounds.GlobalM
	m      clockbounds.Map
}

func NewExtraMGlobal(bounds *clockbounds.GlobalM) *ExtraMGlobal {
	return &ExtraMGlobal{bounds: bounds, m: clockbounds.NewMap(bounds.ClockCount())}
}

func (e *ExtraMGlobal) Extrapolate(d *dbm.DBM, vloc syncprod.Vloc) {
	e.bounds.BoundsVloc(vloc, e.m)
	d.ExtrapolateM([]int(e.m))
}

// ExtraMLocal is the uniform M-extrapolation with per-location maps.
type ExtraMLocal struct {
	bounds *clockbounds.LocalM
	m      clockbounds.Map
}

func NewExtraMLocal(bounds *clockbounds.LocalM) *ExtraMLocal {
	return &ExtraMLocal{bounds: bounds, m: clockbounds.NewMap(bounds.ClockCount())}
}

func (e *ExtraMLocal) Extrapolate(d *dbm.DBM, vloc syncprod.Vloc) {
	e.bounds.BoundsVloc(vloc, e.m)
	d.ExtrapolateM([]int(e.m))
}
