package output

import (
	"fmt"

	"rekindle/pkg/conferr"
	"rekindle/pkg/ndarray"
)

// Kind classifies an output quantity by the grid dimensions it spans.
type Kind int

const (
	// KindScalar is a single value per time step.
	KindScalar Kind = iota + 1
	// KindFluid is a radial profile per time step.
	KindFluid
	// KindKinetic is a full distribution per time step.
	KindKinetic
	// KindRaw is data of a shape this layer does not interpret.
	KindRaw
)

// String returns the kind name used in messages and summaries.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindFluid:
		return "fluid"
	case KindKinetic:
		return "kinetic"
	case KindRaw:
		return "raw"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ScalarQuantity is a time series with one value per step.
type ScalarQuantity struct {
	Name string
	Data []float64

	grid *Grid
}

// Time returns the time axis the series is defined on.
func (q *ScalarQuantity) Time() []float64 { return q.grid.Time }

// FluidQuantity is a time-resolved radial profile, shaped (nt, nr).
type FluidQuantity struct {
	Name string
	Data *ndarray.Array

	grid *Grid
}

// At returns the radial profile at time step ti.
func (q *FluidQuantity) At(ti int) []float64 {
	nr := q.Data.Dim(1)
	return q.Data.Values()[ti*nr : (ti+1)*nr]
}

// Integral computes the volume integral of the profile at time step ti.
func (q *FluidQuantity) Integral(ti int) (float64, error) {
	if ti < 0 || ti >= q.Data.Dim(0) {
		return 0, conferr.New(ErrFormat, q.Name, "",
			"time index %d out of range for %d steps", ti, q.Data.Dim(0))
	}
	return q.grid.Integrate(q.At(ti))
}

// Integrals computes the volume integral at every time step.
func (q *FluidQuantity) Integrals() ([]float64, error) {
	out := make([]float64, q.Data.Dim(0))
	for ti := range out {
		v, err := q.Integral(ti)
		if err != nil {
			return nil, err
		}
		out[ti] = v
	}
	return out, nil
}

// KineticQuantity is a time-resolved distribution, shaped
// (nt, nr, np2, np1) on one of the momentum grids.
type KineticQuantity struct {
	Name     string
	Data     *ndarray.Array
	Momentum *MomentumGrid

	grid *Grid
}

// At returns the (nr, np2, np1) distribution at time step ti.
func (q *KineticQuantity) At(ti int) (*ndarray.Array, error) {
	shape := q.Data.Shape()
	if ti < 0 || ti >= shape[0] {
		return nil, conferr.New(ErrFormat, q.Name, "",
			"time index %d out of range for %d steps", ti, shape[0])
	}
	block := shape[1] * shape[2] * shape[3]
	return ndarray.FromSlice(q.Data.Values()[ti*block:(ti+1)*block], shape[1:]...)
}

// RawQuantity is output data kept as stored, without interpretation.
type RawQuantity struct {
	Name string
	Data *ndarray.Array
}
