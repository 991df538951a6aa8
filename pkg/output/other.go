package output

import (
	"slices"

	"rekindle/pkg/conferr"
	"rekindle/pkg/ndarray"
	"rekindle/pkg/sfile"
)

// specialTreatment lists the auxiliary quantities that are not plain
// time-resolved arrays: each is a distribution on the named momentum
// grid. Everything else loads as raw data.
var specialTreatment = map[string]string{
	"nu_s_f1": "hottail",
	"nu_s_f2": "runaway",
}

// OtherQuantity is one auxiliary quantity the run recorded. Kinetic
// entries carry the momentum grid they are defined on.
type OtherQuantity struct {
	Name     string
	Kind     Kind
	Data     *ndarray.Array
	Momentum *MomentumGrid
}

// OtherQuantities holds the auxiliary quantities of one category
// (fluid, hottail, runaway, scalar, ...).
type OtherQuantities struct {
	Category string

	byName map[string]*OtherQuantity
}

// Names returns the quantity names in the category, sorted.
func (o *OtherQuantities) Names() []string {
	names := make([]string, 0, len(o.byName))
	for name := range o.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get returns the named quantity.
func (o *OtherQuantities) Get(name string) (*OtherQuantity, bool) {
	q, ok := o.byName[name]
	return q, ok
}

func otherFromTree(category string, node *sfile.Tree, grid *Grid) (*OtherQuantities, error) {
	o := &OtherQuantities{Category: category, byName: make(map[string]*OtherQuantity)}
	for _, name := range node.Names() {
		data, err := node.Array(name)
		if err != nil {
			return nil, conferr.New(ErrFormat, "other/"+category, name, "%v", err)
		}

		q := &OtherQuantity{Name: name, Kind: KindRaw, Data: data}
		if gridName, ok := specialTreatment[name]; ok {
			m := grid.Hottail
			if gridName == "runaway" {
				m = grid.Runaway
			}
			if m == nil {
				return nil, conferr.New(ErrFormat, "other/"+category, name,
					"needs the %s momentum grid, which the output has no record of", gridName)
			}
			if data.Rank() != 4 || data.Dim(1) != len(grid.Radius) ||
				data.Dim(2) != len(m.P2) || data.Dim(3) != len(m.P1) {
				return nil, conferr.New(ErrFormat, "other/"+category, name,
					"shape %v does not fit the %s grid (nr=%d, n%s=%d, n%s=%d)",
					data.Shape(), gridName, len(grid.Radius),
					m.P2Name(), len(m.P2), m.P1Name(), len(m.P1))
			}
			q.Kind = KindKinetic
			q.Momentum = m
		}
		o.byName[name] = q
	}
	return o, nil
}
