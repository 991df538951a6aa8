package coeff

import (
	"fmt"

	"rekindle/pkg/ndarray"
)

type valueKind int

const (
	valueNone valueKind = iota
	valueScalar
	valueArray
)

// Value is user-supplied coefficient data in one of the accepted input
// forms. Construct with Scalar, Vector, Matrix, or Array; the zero Value
// carries no data and fails normalization.
type Value struct {
	kind   valueKind
	scalar float64
	arr    *ndarray.Array
	err    error
}

// Scalar supplies a single number, broadcast during normalization.
func Scalar(v float64) Value {
	return Value{kind: valueScalar, scalar: v}
}

// Vector supplies one-dimensional data.
func Vector(v []float64) Value {
	a, err := ndarray.FromVector(v)
	if err != nil {
		return Value{err: err}
	}
	return Value{kind: valueArray, arr: a}
}

// Matrix supplies two-dimensional data, one row per time slice.
func Matrix(rows [][]float64) Value {
	a, err := ndarray.From2D(rows)
	if err != nil {
		return Value{err: err}
	}
	return Value{kind: valueArray, arr: a}
}

// Array supplies data of any rank.
func Array(a *ndarray.Array) Value {
	if a == nil {
		return Value{err: fmt.Errorf("nil array")}
	}
	return Value{kind: valueArray, arr: a}
}

// resolve returns the scalar or array payload, surfacing construction
// errors.
func (v Value) resolve() (float64, *ndarray.Array, error) {
	if v.err != nil {
		return 0, nil, v.err
	}
	switch v.kind {
	case valueScalar:
		return v.scalar, nil, nil
	case valueArray:
		return 0, v.arr, nil
	default:
		return 0, nil, fmt.Errorf("no data supplied")
	}
}
