package settings

import (
	"rekindle/pkg/conferr"
	"rekindle/pkg/settings/coeff"
	"rekindle/pkg/sfile"
)

// Mode selects how a fluid background quantity evolves: prescribed from
// given data, or solved self-consistently from an initial profile. The
// electric field and the cold electron temperature both use it.
type Mode int

const (
	ModePrescribed Mode = iota + 1
	ModeSelfConsistent
)

func (m Mode) valid() bool { return m == ModePrescribed || m == ModeSelfConsistent }

// ElectricField configures the parallel electric field E_field.
type ElectricField struct {
	mode Mode
	data *coeff.Coefficient
	init *coeff.Profile
}

// NewElectricField returns a prescribed field with no data yet.
func NewElectricField() *ElectricField {
	return &ElectricField{mode: ModePrescribed}
}

// SetPrescribedData fixes the field evolution to the given time x
// radius data and selects the prescribed mode.
func (e *ElectricField) SetPrescribedData(v coeff.Value, t, r []float64) error {
	c, err := coeff.NormalizeFluid("E_field", "data", v, t, r)
	if err != nil {
		return err
	}
	e.data = c
	e.mode = ModePrescribed
	return nil
}

// SetInitialProfile sets the field at the start of a self-consistent
// evolution and selects the self-consistent mode.
func (e *ElectricField) SetInitialProfile(v coeff.Value, r []float64) error {
	p, err := coeff.NormalizeProfile("E_field", "init", v, r)
	if err != nil {
		return err
	}
	e.init = p
	e.mode = ModeSelfConsistent
	return nil
}

// SetMode selects the evolution mode directly.
func (e *ElectricField) SetMode(m Mode) { e.mode = m }

// Mode returns the evolution mode.
func (e *ElectricField) Mode() Mode { return e.mode }

// PrescribedData returns the prescribed evolution, nil when none was
// given.
func (e *ElectricField) PrescribedData() *coeff.Coefficient { return e.data }

// InitialProfile returns the self-consistent initial profile, nil when
// none was given.
func (e *ElectricField) InitialProfile() *coeff.Profile { return e.init }

// Verify checks that the selected mode has the data it needs.
func (e *ElectricField) Verify() error {
	switch e.mode {
	case ModePrescribed:
		if e.data == nil {
			return conferr.New(conferr.Err, "E_field", "data",
				"no prescribed data set")
		}
	case ModeSelfConsistent:
		if e.init == nil {
			return conferr.New(conferr.Err, "E_field", "init",
				"self-consistent evolution requires an initial profile")
		}
	default:
		return conferr.New(conferr.ErrOption, "E_field", "type",
			"unrecognized mode %d", int(e.mode))
	}
	return nil
}

// ToTree serializes the field as a store node.
func (e *ElectricField) ToTree() *sfile.Tree {
	node := sfile.NewTree()
	node.Set("type", sfile.Int(int64(e.mode)))
	if e.data != nil {
		node.PutChild("data", e.data.ToTree())
	}
	if e.init != nil {
		node.PutChild("init", e.init.ToTree())
	}
	return node
}

// FromTree loads the field from a store node. Absent entries keep their
// current values.
func (e *ElectricField) FromTree(node *sfile.Tree) error {
	if _, ok := node.Value("type"); ok {
		v, err := node.Int("type")
		if err != nil {
			return conferr.New(conferr.Err, "E_field", "type", "%v", err)
		}
		e.mode = Mode(v)
	}
	if child, ok := node.Child("data"); ok {
		c, err := coeff.CoefficientFromTree(child, "E_field", "data", coeff.Fluid)
		if err != nil {
			return err
		}
		e.data = c
	}
	if child, ok := node.Child("init"); ok {
		p, err := coeff.ProfileFromTree(child, "E_field", "init")
		if err != nil {
			return err
		}
		e.init = p
	}
	return nil
}
