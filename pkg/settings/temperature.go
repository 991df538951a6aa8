package settings

import (
	"rekindle/pkg/conferr"
	"rekindle/pkg/settings/coeff"
	"rekindle/pkg/settings/transport"
	"rekindle/pkg/sfile"
)

// Temperature configures the cold electron temperature T_cold. Unlike
// the electric field it owns a fluid transport prescription, since heat
// escapes the plasma radially during a quench.
type Temperature struct {
	mode   Mode
	data   *coeff.Coefficient
	init   *coeff.Profile
	transp *transport.Settings
}

// NewTemperature returns a prescribed temperature with no data yet and
// transport disabled.
func NewTemperature() *Temperature {
	return &Temperature{
		mode:   ModePrescribed,
		transp: transport.New("T_cold", coeff.Fluid),
	}
}

// SetPrescribedData fixes the temperature evolution to the given time x
// radius data and selects the prescribed mode. Temperatures are in eV
// and may not be negative.
func (t *Temperature) SetPrescribedData(v coeff.Value, times, r []float64) error {
	c, err := coeff.NormalizeFluid("T_cold", "data", v, times, r)
	if err != nil {
		return err
	}
	if err := nonNegative("data", c.Data.Values()); err != nil {
		return err
	}
	t.data = c
	t.mode = ModePrescribed
	return nil
}

// SetInitialProfile sets the temperature at the start of a
// self-consistent evolution and selects the self-consistent mode.
func (t *Temperature) SetInitialProfile(v coeff.Value, r []float64) error {
	p, err := coeff.NormalizeProfile("T_cold", "init", v, r)
	if err != nil {
		return err
	}
	if err := nonNegative("init", p.Data); err != nil {
		return err
	}
	t.init = p
	t.mode = ModeSelfConsistent
	return nil
}

func nonNegative(field string, v []float64) error {
	for _, x := range v {
		if x < 0 {
			return conferr.New(conferr.ErrOption, "T_cold", field,
				"negative temperature %g", x)
		}
	}
	return nil
}

// SetMode selects the evolution mode directly.
func (t *Temperature) SetMode(m Mode) { t.mode = m }

// Mode returns the evolution mode.
func (t *Temperature) Mode() Mode { return t.mode }

// PrescribedData returns the prescribed evolution, nil when none was
// given.
func (t *Temperature) PrescribedData() *coeff.Coefficient { return t.data }

// InitialProfile returns the self-consistent initial profile, nil when
// none was given.
func (t *Temperature) InitialProfile() *coeff.Profile { return t.init }

// Transport returns the heat transport settings for in-place
// modification.
func (t *Temperature) Transport() *transport.Settings { return t.transp }

// Verify checks that the selected mode has the data it needs and that
// the transport prescription is consistent.
func (t *Temperature) Verify() error {
	switch t.mode {
	case ModePrescribed:
		if t.data == nil {
			return conferr.New(conferr.Err, "T_cold", "data",
				"no prescribed data set")
		}
	case ModeSelfConsistent:
		if t.init == nil {
			return conferr.New(conferr.Err, "T_cold", "init",
				"self-consistent evolution requires an initial profile")
		}
	default:
		return conferr.New(conferr.ErrOption, "T_cold", "type",
			"unrecognized mode %d", int(t.mode))
	}
	return t.transp.Verify()
}

// ToTree serializes the temperature as a store node.
func (t *Temperature) ToTree() *sfile.Tree {
	node := sfile.NewTree()
	node.Set("type", sfile.Int(int64(t.mode)))
	if t.data != nil {
		node.PutChild("data", t.data.ToTree())
	}
	if t.init != nil {
		node.PutChild("init", t.init.ToTree())
	}
	node.PutChild("transport", t.transp.ToTree())
	return node
}

// FromTree loads the temperature from a store node. Absent entries keep
// their current values.
func (t *Temperature) FromTree(node *sfile.Tree) error {
	if _, ok := node.Value("type"); ok {
		v, err := node.Int("type")
		if err != nil {
			return conferr.New(conferr.Err, "T_cold", "type", "%v", err)
		}
		t.mode = Mode(v)
	}
	if child, ok := node.Child("data"); ok {
		c, err := coeff.CoefficientFromTree(child, "T_cold", "data", coeff.Fluid)
		if err != nil {
			return err
		}
		t.data = c
	}
	if child, ok := node.Child("init"); ok {
		p, err := coeff.ProfileFromTree(child, "T_cold", "init")
		if err != nil {
			return err
		}
		t.init = p
	}
	if child, ok := node.Child("transport"); ok {
		if err := t.transp.FromTree(child); err != nil {
			return err
		}
	}
	return nil
}
