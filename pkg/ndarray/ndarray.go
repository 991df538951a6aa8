// Package ndarray provides a dense row-major N-dimensional float64 array.
//
// Settings coefficients and solver output span ranks one through four, so
// the array carries its shape explicitly and axis checks can name the
// dimension that disagrees. Index arithmetic mistakes are programmer
// errors and panic, matching slice semantics; validation of user-supplied
// shapes lives in the settings layer and returns errors.
package ndarray

import (
	"fmt"
	"slices"
)

// Array is a dense row-major N-dimensional float64 array.
type Array struct {
	shape []int
	data  []float64
}

// New returns a zero-filled array with the given shape. Every extent must
// be positive; an invalid shape panics.
func New(shape ...int) *Array {
	if err := checkShape(shape); err != nil {
		panic(err.Error())
	}
	return &Array{shape: slices.Clone(shape), data: make([]float64, size(shape))}
}

// FromSlice wraps data in an array with the given shape. The data length
// must equal the shape product. The slice is used directly, not copied.
func FromSlice(data []float64, shape ...int) (*Array, error) {
	if err := checkShape(shape); err != nil {
		return nil, err
	}
	if len(data) != size(shape) {
		return nil, fmt.Errorf("ndarray: %d values do not fill shape %v (want %d)", len(data), shape, size(shape))
	}
	return &Array{shape: slices.Clone(shape), data: data}, nil
}

// Scalar returns a rank-1 single-element array holding v.
func Scalar(v float64) *Array {
	return &Array{shape: []int{1}, data: []float64{v}}
}

// FromVector copies v into a rank-1 array. v must not be empty.
func FromVector(v []float64) (*Array, error) {
	return FromSlice(slices.Clone(v), len(v))
}

// From2D copies rows into a rank-2 array. All rows must have equal,
// nonzero length.
func From2D(rows [][]float64) (*Array, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("ndarray: empty matrix")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("ndarray: row %d has %d values, row 0 has %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	a, err := FromSlice(data, len(rows), cols)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Full returns an array with the given shape where every element is v.
func Full(v float64, shape ...int) *Array {
	a := New(shape...)
	for i := range a.data {
		a.data[i] = v
	}
	return a
}

// Rank returns the number of dimensions.
func (a *Array) Rank() int { return len(a.shape) }

// Shape returns a copy of the dimension extents.
func (a *Array) Shape() []int { return slices.Clone(a.shape) }

// Dim returns the extent of dimension i.
func (a *Array) Dim(i int) int { return a.shape[i] }

// Len returns the total number of elements.
func (a *Array) Len() int { return len(a.data) }

// At returns the element at the given index, one coordinate per dimension.
func (a *Array) At(idx ...int) float64 {
	return a.data[a.offset(idx)]
}

// Set stores v at the given index, one coordinate per dimension.
func (a *Array) Set(v float64, idx ...int) {
	a.data[a.offset(idx)] = v
}

// Values returns the backing row-major slice. Mutations write through.
func (a *Array) Values() []float64 { return a.data }

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	return &Array{shape: slices.Clone(a.shape), data: slices.Clone(a.data)}
}

// Reshape returns a view of the same data with a new shape. The element
// count must be unchanged.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	if err := checkShape(shape); err != nil {
		return nil, err
	}
	if size(shape) != len(a.data) {
		return nil, fmt.Errorf("ndarray: cannot reshape %v to %v", a.shape, shape)
	}
	return &Array{shape: slices.Clone(shape), data: a.data}, nil
}

// Equal reports whether b has the same shape and exactly equal elements.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	return slices.Equal(a.shape, b.shape) && slices.Equal(a.data, b.data)
}

func (a *Array) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("ndarray: %d indices for rank-%d array", len(idx), len(a.shape)))
	}
	off := 0
	for d, i := range idx {
		if i < 0 || i >= a.shape[d] {
			panic(fmt.Sprintf("ndarray: index %d out of range for dimension %d (extent %d)", i, d, a.shape[d]))
		}
		off = off*a.shape[d] + i
	}
	return off
}

func checkShape(shape []int) error {
	if len(shape) == 0 {
		return fmt.Errorf("ndarray: empty shape")
	}
	for d, n := range shape {
		if n <= 0 {
			return fmt.Errorf("ndarray: dimension %d has nonpositive extent %d", d, n)
		}
	}
	return nil
}

func size(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
