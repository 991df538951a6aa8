package sfile

import (
	"fmt"
	"slices"

	"rekindle/pkg/ndarray"
)

// Kind identifies the payload type of a Dataset.
type Kind int

const (
	// KindFloat is a single float64.
	KindFloat Kind = iota + 1
	// KindInt is a single int64.
	KindInt
	// KindBool is stored as an integer 0 or 1.
	KindBool
	// KindString is a UTF-8 string.
	KindString
	// KindArray is an N-dimensional float64 array. A rank-1 array may be
	// empty; higher ranks always have positive extents.
	KindArray
	// KindInts is a one-dimensional int64 list.
	KindInts
)

// String returns the kind name used in messages and store summaries.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindInts:
		return "ints"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Dataset is one typed value in a settings store. The zero Dataset is
// invalid; construct values with Float, Int, Bool, String, Floats, Arr,
// or IntList.
type Dataset struct {
	kind   Kind
	num    float64
	inum   int64
	str    string
	floats []float64
	ints   []int64
	shape  []int
}

// Float returns a scalar float dataset.
func Float(v float64) Dataset { return Dataset{kind: KindFloat, num: v} }

// Int returns a scalar integer dataset.
func Int(v int64) Dataset { return Dataset{kind: KindInt, inum: v} }

// Bool returns a boolean dataset.
func Bool(v bool) Dataset {
	d := Dataset{kind: KindBool}
	if v {
		d.inum = 1
	}
	return d
}

// String returns a string dataset.
func String(v string) Dataset { return Dataset{kind: KindString, str: v} }

// Floats returns a rank-1 array dataset. The slice is copied and may be
// empty.
func Floats(v []float64) Dataset {
	return Dataset{kind: KindArray, floats: slices.Clone(v), shape: []int{len(v)}}
}

// Arr returns an array dataset holding a copy of a's data and shape.
func Arr(a *ndarray.Array) Dataset {
	return Dataset{kind: KindArray, floats: slices.Clone(a.Values()), shape: a.Shape()}
}

// IntList returns an integer-list dataset. The slice is copied.
func IntList(v []int64) Dataset {
	return Dataset{kind: KindInts, ints: slices.Clone(v)}
}

// Kind returns the payload type.
func (d Dataset) Kind() Kind { return d.kind }

// Shape returns the array shape for KindArray datasets and nil otherwise.
func (d Dataset) Shape() []int { return slices.Clone(d.shape) }

// AsFloat returns the scalar float payload.
func (d Dataset) AsFloat() (float64, error) {
	switch d.kind {
	case KindFloat:
		return d.num, nil
	case KindInt:
		return float64(d.inum), nil
	case KindArray:
		// Tolerate a one-element vector where a scalar is expected; the
		// kernel writes every numeric value as an array.
		if len(d.shape) == 1 && len(d.floats) == 1 {
			return d.floats[0], nil
		}
	}
	return 0, fmt.Errorf("dataset holds %s, want float", d.kind)
}

// AsInt returns the scalar integer payload.
func (d Dataset) AsInt() (int64, error) {
	switch d.kind {
	case KindInt, KindBool:
		return d.inum, nil
	case KindFloat:
		if d.num == float64(int64(d.num)) {
			return int64(d.num), nil
		}
	case KindInts:
		if len(d.ints) == 1 {
			return d.ints[0], nil
		}
	case KindArray:
		if len(d.shape) == 1 && len(d.floats) == 1 && d.floats[0] == float64(int64(d.floats[0])) {
			return int64(d.floats[0]), nil
		}
	}
	return 0, fmt.Errorf("dataset holds %s, want int", d.kind)
}

// AsBool returns the boolean payload. Integers 0 and 1 are accepted.
func (d Dataset) AsBool() (bool, error) {
	v, err := d.AsInt()
	if err != nil {
		return false, fmt.Errorf("dataset holds %s, want bool", d.kind)
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("dataset holds %s value %d, want bool", d.kind, v)
}

// AsString returns the string payload.
func (d Dataset) AsString() (string, error) {
	if d.kind != KindString {
		return "", fmt.Errorf("dataset holds %s, want string", d.kind)
	}
	return d.str, nil
}

// AsFloats returns the rank-1 array payload. A scalar float is widened to
// a one-element slice.
func (d Dataset) AsFloats() ([]float64, error) {
	switch d.kind {
	case KindArray:
		if len(d.shape) == 1 {
			return slices.Clone(d.floats), nil
		}
		return nil, fmt.Errorf("dataset is a rank-%d array, want rank 1", len(d.shape))
	case KindFloat:
		return []float64{d.num}, nil
	case KindInt:
		return []float64{float64(d.inum)}, nil
	}
	return nil, fmt.Errorf("dataset holds %s, want float vector", d.kind)
}

// AsArray returns the array payload. Scalars are widened to one-element
// rank-1 arrays; empty arrays are rejected.
func (d Dataset) AsArray() (*ndarray.Array, error) {
	switch d.kind {
	case KindArray:
		a, err := ndarray.FromSlice(slices.Clone(d.floats), d.shape...)
		if err != nil {
			return nil, err
		}
		return a, nil
	case KindFloat:
		return ndarray.Scalar(d.num), nil
	case KindInt:
		return ndarray.Scalar(float64(d.inum)), nil
	}
	return nil, fmt.Errorf("dataset holds %s, want array", d.kind)
}

// AsInts returns the integer-list payload. A scalar integer is widened to
// a one-element slice.
func (d Dataset) AsInts() ([]int64, error) {
	switch d.kind {
	case KindInts:
		return slices.Clone(d.ints), nil
	case KindInt:
		return []int64{d.inum}, nil
	}
	return nil, fmt.Errorf("dataset holds %s, want int list", d.kind)
}

// Equal reports whether two datasets have the same kind and an exactly
// equal payload.
func (d Dataset) Equal(o Dataset) bool {
	return d.kind == o.kind &&
		d.num == o.num &&
		d.inum == o.inum &&
		d.str == o.str &&
		slices.Equal(d.floats, o.floats) &&
		slices.Equal(d.ints, o.ints) &&
		slices.Equal(d.shape, o.shape)
}
