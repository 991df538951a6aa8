package output

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"rekindle/pkg/conferr"
	"rekindle/pkg/ndarray"
	"rekindle/pkg/sfile"
)

// ErrFormat marks an output store whose content does not match what the
// kernel is supposed to write.
var ErrFormat = fmt.Errorf("%w: malformed output", conferr.Err)

// Output is a fully parsed kernel output store.
type Output struct {
	Grid *Grid

	quantities map[string]quantityEntry
	other      map[string]*OtherQuantities
}

// quantityEntry tags one unknown quantity with its classification.
// Exactly the pointer matching the kind is set.
type quantityEntry struct {
	kind    Kind
	scalar  *ScalarQuantity
	fluid   *FluidQuantity
	kinetic *KineticQuantity
	raw     *RawQuantity
}

// Load reads and parses the output store at path, closing it on all
// paths.
func Load(ctx context.Context, path string) (*Output, error) {
	tree, err := sfile.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return FromTree(tree)
}

// FromTree parses a full output store tree.
func FromTree(root *sfile.Tree) (*Output, error) {
	gridNode, ok := root.Child("grid")
	if !ok {
		return nil, conferr.New(ErrFormat, "grid", "", "output has no grid node")
	}
	grid, err := gridFromTree(gridNode)
	if err != nil {
		return nil, err
	}

	out := &Output{
		Grid:       grid,
		quantities: make(map[string]quantityEntry),
		other:      make(map[string]*OtherQuantities),
	}

	if eqsys, ok := root.Child("eqsys"); ok {
		for _, name := range eqsys.Names() {
			data, err := eqsys.Array(name)
			if err != nil {
				return nil, conferr.New(ErrFormat, name, "", "%v", err)
			}
			entry, err := out.classify(name, data)
			if err != nil {
				return nil, err
			}
			out.quantities[name] = entry
		}
	}

	if other, ok := root.Child("other"); ok {
		for _, category := range other.ChildNames() {
			node, _ := other.Child(category)
			oq, err := otherFromTree(category, node, grid)
			if err != nil {
				return nil, err
			}
			out.other[category] = oq
		}
	}
	return out, nil
}

func (o *Output) classify(name string, data *ndarray.Array) (quantityEntry, error) {
	nt, nr := len(o.Grid.Time), len(o.Grid.Radius)

	switch data.Rank() {
	case 1:
		if data.Dim(0) != nt {
			return quantityEntry{}, conferr.New(ErrFormat, name, "",
				"%d values for %d time steps", data.Dim(0), nt)
		}
		return quantityEntry{kind: KindScalar, scalar: &ScalarQuantity{
			Name: name, Data: data.Values(), grid: o.Grid,
		}}, nil

	case 2:
		if data.Dim(0) != nt || data.Dim(1) != nr {
			return quantityEntry{}, conferr.New(ErrFormat, name, "",
				"shape %v does not fit the grid (nt=%d, nr=%d)", data.Shape(), nt, nr)
		}
		return quantityEntry{kind: KindFluid, fluid: &FluidQuantity{
			Name: name, Data: data, grid: o.Grid,
		}}, nil

	case 4:
		m := o.momentumGridFor(name)
		if m == nil {
			return quantityEntry{}, conferr.New(ErrFormat, name, "",
				"kinetic data with no matching momentum grid in the output")
		}
		if data.Dim(0) != nt || data.Dim(1) != nr ||
			data.Dim(2) != len(m.P2) || data.Dim(3) != len(m.P1) {
			return quantityEntry{}, conferr.New(ErrFormat, name, "",
				"shape %v does not fit the %s grid (nt=%d, nr=%d, n%s=%d, n%s=%d)",
				data.Shape(), m.Name, nt, nr, m.P2Name(), len(m.P2), m.P1Name(), len(m.P1))
		}
		return quantityEntry{kind: KindKinetic, kinetic: &KineticQuantity{
			Name: name, Data: data, Momentum: m, grid: o.Grid,
		}}, nil

	default:
		return quantityEntry{kind: KindRaw, raw: &RawQuantity{Name: name, Data: data}}, nil
	}
}

// momentumGridFor picks the momentum grid a kinetic quantity is defined
// on: the hot-tail grid for the f_hot family, the runaway grid for
// f_re, and whichever single grid exists otherwise.
func (o *Output) momentumGridFor(name string) *MomentumGrid {
	switch {
	case strings.HasPrefix(name, "f_hot"):
		return o.Grid.Hottail
	case strings.HasPrefix(name, "f_re"):
		return o.Grid.Runaway
	case o.Grid.Hottail != nil && o.Grid.Runaway == nil:
		return o.Grid.Hottail
	case o.Grid.Runaway != nil && o.Grid.Hottail == nil:
		return o.Grid.Runaway
	default:
		return nil
	}
}

// Names returns the unknown quantity names, sorted.
func (o *Output) Names() []string {
	names := make([]string, 0, len(o.quantities))
	for name := range o.quantities {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Kind returns the classification of the named quantity.
func (o *Output) Kind(name string) (Kind, bool) {
	e, ok := o.quantities[name]
	return e.kind, ok
}

// Scalar returns the named quantity as a scalar time series.
func (o *Output) Scalar(name string) (*ScalarQuantity, error) {
	e, err := o.lookup(name, KindScalar)
	if err != nil {
		return nil, err
	}
	return e.scalar, nil
}

// Fluid returns the named quantity as a time-resolved radial profile.
func (o *Output) Fluid(name string) (*FluidQuantity, error) {
	e, err := o.lookup(name, KindFluid)
	if err != nil {
		return nil, err
	}
	return e.fluid, nil
}

// Kinetic returns the named quantity as a time-resolved distribution.
func (o *Output) Kinetic(name string) (*KineticQuantity, error) {
	e, err := o.lookup(name, KindKinetic)
	if err != nil {
		return nil, err
	}
	return e.kinetic, nil
}

// Raw returns the named quantity as uninterpreted data.
func (o *Output) Raw(name string) (*RawQuantity, error) {
	e, err := o.lookup(name, KindRaw)
	if err != nil {
		return nil, err
	}
	return e.raw, nil
}

func (o *Output) lookup(name string, want Kind) (quantityEntry, error) {
	e, ok := o.quantities[name]
	if !ok {
		return quantityEntry{}, conferr.New(ErrFormat, name, "", "no such quantity")
	}
	if e.kind != want {
		return quantityEntry{}, conferr.New(ErrFormat, name, "",
			"quantity is %s, not %s", e.kind, want)
	}
	return e, nil
}

// Other returns the auxiliary quantities of the named category.
func (o *Output) Other(category string) (*OtherQuantities, error) {
	oq, ok := o.other[category]
	if !ok {
		return nil, conferr.New(ErrFormat, "other/"+category, "", "no such category")
	}
	return oq, nil
}

// OtherCategories returns the auxiliary categories present, sorted.
func (o *Output) OtherCategories() []string {
	names := make([]string, 0, len(o.other))
	for name := range o.other {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
