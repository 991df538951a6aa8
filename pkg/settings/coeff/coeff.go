// Package coeff normalizes user-supplied coefficient data into dense
// arrays with explicit coordinate axes.
//
// Transport coefficients come in two shapes: fluid quantities are defined
// on time x radius, kinetic ones on time x radius x momentum. Setters
// across the settings layer accept scalars, vectors, matrices, or full
// arrays; this package canonicalizes each into a Coefficient or Profile
// so that downstream serialization and validation never see more than one
// representation. Scalars broadcast, with every omitted axis defaulting
// to the single point [0].
package coeff

import (
	"slices"

	"rekindle/pkg/conferr"
	"rekindle/pkg/ndarray"
)

// Kind distinguishes the two coefficient shapes.
type Kind int

const (
	// Fluid coefficients are rank 2: time x radius.
	Fluid Kind = iota + 1
	// Kinetic coefficients are rank 4: time x radius x p2 x p1.
	Kinetic
)

// Coords identifies the momentum coordinate system of kinetic data.
type Coords int

const (
	// CoordsPXi is momentum magnitude p with pitch cosine xi.
	CoordsPXi Coords = 1
	// CoordsPparPperp is parallel and perpendicular momentum.
	CoordsPparPperp Coords = 2
)

func (c Coords) valid() bool {
	return c == CoordsPXi || c == CoordsPparPperp
}

// P1Label returns the name of the fastest-varying momentum coordinate.
func (c Coords) P1Label() string {
	if c == CoordsPparPperp {
		return "ppar"
	}
	return "p"
}

// P2Label returns the name of the second momentum coordinate.
func (c Coords) P2Label() string {
	if c == CoordsPparPperp {
		return "pperp"
	}
	return "xi"
}

// MomentumAxes carries the momentum coordinate vectors accompanying
// kinetic data. Exactly one of the pairs (P, Xi) and (Ppar, Pperp) may be
// supplied.
type MomentumAxes struct {
	P, Xi       []float64
	Ppar, Pperp []float64
}

// Axes carries every coordinate vector accompanying prescribed data.
type Axes struct {
	Time   []float64
	Radius []float64
	MomentumAxes
}

// Coefficient is normalized prescribed data: a dense array plus the axis
// vectors its dimensions are defined on. P1 and P2 are empty for fluid
// coefficients.
type Coefficient struct {
	Kind   Kind
	Coords Coords
	Data   *ndarray.Array
	Time   []float64
	Radius []float64
	P1     []float64
	P2     []float64
}

// Profile is normalized one-dimensional radial data.
type Profile struct {
	Data   []float64
	Radius []float64
}

// Initial is a normalized initial distribution on radius x momentum:
// rank 3 data shaped (nr, np2, np1).
type Initial struct {
	Coords Coords
	Data   *ndarray.Array
	Radius []float64
	P1     []float64
	P2     []float64
}

// Equal reports whether two coefficients hold identical data and axes.
func (c *Coefficient) Equal(o *Coefficient) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Kind == o.Kind && c.Coords == o.Coords &&
		c.Data.Equal(o.Data) &&
		slices.Equal(c.Time, o.Time) && slices.Equal(c.Radius, o.Radius) &&
		slices.Equal(c.P1, o.P1) && slices.Equal(c.P2, o.P2)
}

// Equal reports whether two profiles hold identical data and axes.
func (p *Profile) Equal(o *Profile) bool {
	if p == nil || o == nil {
		return p == o
	}
	return slices.Equal(p.Data, o.Data) && slices.Equal(p.Radius, o.Radius)
}

// Equal reports whether two initial distributions hold identical data and
// axes.
func (in *Initial) Equal(o *Initial) bool {
	if in == nil || o == nil {
		return in == o
	}
	return in.Coords == o.Coords && in.Data.Equal(o.Data) &&
		slices.Equal(in.Radius, o.Radius) &&
		slices.Equal(in.P1, o.P1) && slices.Equal(in.P2, o.P2)
}

// NormalizeFluid canonicalizes time x radius data. A scalar broadcasts to
// a one-element array on the axes [0]; array data must be rank 2 and
// match the supplied axes exactly.
func NormalizeFluid(quantity, field string, v Value, t, r []float64) (*Coefficient, error) {
	scalar, arr, err := v.resolve()
	if err != nil {
		return nil, conferr.New(conferr.Err, quantity, field, "%v", err)
	}

	if arr == nil {
		return &Coefficient{
			Kind:   Fluid,
			Data:   ndarray.Full(scalar, 1, 1),
			Time:   []float64{0},
			Radius: []float64{0},
		}, nil
	}

	if arr.Rank() != 2 {
		return nil, conferr.New(conferr.ErrShape, quantity, field,
			"prescribed data must be rank 2 (time x radius), got rank %d", arr.Rank())
	}
	if err := checkAxis(quantity, field, "time", arr, 0, t); err != nil {
		return nil, err
	}
	if err := checkAxis(quantity, field, "radius", arr, 1, r); err != nil {
		return nil, err
	}
	return &Coefficient{
		Kind:   Fluid,
		Data:   arr,
		Time:   slices.Clone(t),
		Radius: slices.Clone(r),
	}, nil
}

// NormalizeKinetic canonicalizes time x radius x momentum data. Exactly
// one momentum pair may accompany array data; a scalar broadcasts over
// whatever axes are supplied, defaulting every omitted axis to [0] and
// the coordinate system to (p, xi).
func NormalizeKinetic(quantity, field string, v Value, a Axes) (*Coefficient, error) {
	scalar, arr, err := v.resolve()
	if err != nil {
		return nil, conferr.New(conferr.Err, quantity, field, "%v", err)
	}

	coords, p1, p2, err := a.MomentumAxes.pick(quantity, field, arr == nil)
	if err != nil {
		return nil, err
	}

	if arr == nil {
		t := defaultAxis(a.Time)
		r := defaultAxis(a.Radius)
		return &Coefficient{
			Kind:   Kinetic,
			Coords: coords,
			Data:   ndarray.Full(scalar, len(t), len(r), len(p2), len(p1)),
			Time:   t,
			Radius: r,
			P1:     p1,
			P2:     p2,
		}, nil
	}

	if arr.Rank() != 4 {
		return nil, conferr.New(conferr.ErrShape, quantity, field,
			"prescribed data must be rank 4 (time x radius x %s x %s), got rank %d",
			coords.P2Label(), coords.P1Label(), arr.Rank())
	}
	if err := checkAxis(quantity, field, "time", arr, 0, a.Time); err != nil {
		return nil, err
	}
	if err := checkAxis(quantity, field, "radius", arr, 1, a.Radius); err != nil {
		return nil, err
	}
	if err := checkAxis(quantity, field, coords.P2Label(), arr, 2, p2); err != nil {
		return nil, err
	}
	if err := checkAxis(quantity, field, coords.P1Label(), arr, 3, p1); err != nil {
		return nil, err
	}
	return &Coefficient{
		Kind:   Kinetic,
		Coords: coords,
		Data:   arr,
		Time:   slices.Clone(a.Time),
		Radius: slices.Clone(a.Radius),
		P1:     p1,
		P2:     p2,
	}, nil
}

// NormalizeProfile canonicalizes one-dimensional radial data. A scalar
// broadcasts over the supplied radius axis, or over [0] when none is
// given.
func NormalizeProfile(quantity, field string, v Value, r []float64) (*Profile, error) {
	scalar, arr, err := v.resolve()
	if err != nil {
		return nil, conferr.New(conferr.Err, quantity, field, "%v", err)
	}

	if arr == nil {
		radius := defaultAxis(r)
		data := make([]float64, len(radius))
		for i := range data {
			data[i] = scalar
		}
		return &Profile{Data: data, Radius: radius}, nil
	}

	if arr.Rank() != 1 {
		return nil, conferr.New(conferr.ErrShape, quantity, field,
			"profile must be rank 1 (radius), got rank %d", arr.Rank())
	}
	if err := checkAxis(quantity, field, "radius", arr, 0, r); err != nil {
		return nil, err
	}
	return &Profile{Data: slices.Clone(arr.Values()), Radius: slices.Clone(r)}, nil
}

// NormalizeInitial canonicalizes an initial distribution defined on
// radius x momentum. Unlike prescribed coefficients, an initial value
// always needs a complete momentum pair; a scalar broadcasts over the
// full (radius, p2, p1) grid. An omitted radius axis defaults to [0].
func NormalizeInitial(quantity, field string, v Value, r []float64, m MomentumAxes) (*Initial, error) {
	scalar, arr, err := v.resolve()
	if err != nil {
		return nil, conferr.New(conferr.Err, quantity, field, "%v", err)
	}

	coords, p1, p2, err := m.pick(quantity, field, false)
	if err != nil {
		return nil, err
	}
	radius := defaultAxis(r)

	if arr == nil {
		return &Initial{
			Coords: coords,
			Data:   ndarray.Full(scalar, len(radius), len(p2), len(p1)),
			Radius: radius,
			P1:     p1,
			P2:     p2,
		}, nil
	}
	if arr.Len() == 1 {
		return &Initial{
			Coords: coords,
			Data:   ndarray.Full(arr.Values()[0], len(radius), len(p2), len(p1)),
			Radius: radius,
			P1:     p1,
			P2:     p2,
		}, nil
	}

	if arr.Rank() != 3 {
		return nil, conferr.New(conferr.ErrShape, quantity, field,
			"initial distribution must be rank 3 (radius x %s x %s), got rank %d",
			coords.P2Label(), coords.P1Label(), arr.Rank())
	}
	if err := checkAxis(quantity, field, "radius", arr, 0, radius); err != nil {
		return nil, err
	}
	if err := checkAxis(quantity, field, coords.P2Label(), arr, 1, p2); err != nil {
		return nil, err
	}
	if err := checkAxis(quantity, field, coords.P1Label(), arr, 2, p1); err != nil {
		return nil, err
	}
	return &Initial{
		Coords: coords,
		Data:   arr,
		Radius: radius,
		P1:     p1,
		P2:     p2,
	}, nil
}

// pick selects the momentum coordinate system from the supplied pairs.
// Array data requires exactly one complete pair; scalar data defaults to
// a single (p, xi) point.
func (m MomentumAxes) pick(quantity, field string, scalar bool) (Coords, []float64, []float64, error) {
	pxi := len(m.P) > 0 || len(m.Xi) > 0
	ppp := len(m.Ppar) > 0 || len(m.Pperp) > 0

	switch {
	case pxi && ppp:
		return 0, nil, nil, conferr.New(conferr.ErrExclusive, quantity, field,
			"momentum grid given in both (p, xi) and (ppar, pperp)")
	case pxi:
		if len(m.P) == 0 || len(m.Xi) == 0 {
			return 0, nil, nil, conferr.New(conferr.ErrExclusive, quantity, field,
				"momentum pair (p, xi) is incomplete")
		}
		return CoordsPXi, slices.Clone(m.P), slices.Clone(m.Xi), nil
	case ppp:
		if len(m.Ppar) == 0 || len(m.Pperp) == 0 {
			return 0, nil, nil, conferr.New(conferr.ErrExclusive, quantity, field,
				"momentum pair (ppar, pperp) is incomplete")
		}
		return CoordsPparPperp, slices.Clone(m.Ppar), slices.Clone(m.Pperp), nil
	case scalar:
		return CoordsPXi, []float64{0}, []float64{0}, nil
	default:
		return 0, nil, nil, conferr.New(conferr.ErrExclusive, quantity, field,
			"no momentum grid supplied, give either (p, xi) or (ppar, pperp)")
	}
}

func checkAxis(quantity, field, axis string, arr *ndarray.Array, dim int, pts []float64) error {
	if len(pts) == 0 {
		return conferr.New(conferr.ErrShape, quantity, field, "no %s axis supplied", axis)
	}
	if arr.Dim(dim) != len(pts) {
		return conferr.New(conferr.ErrShape, quantity, field,
			"dimension %d (%s) has %d elements, expected %d from the %s axis",
			dim, axis, arr.Dim(dim), len(pts), axis)
	}
	return nil
}

func defaultAxis(v []float64) []float64 {
	if len(v) == 0 {
		return []float64{0}
	}
	return slices.Clone(v)
}
