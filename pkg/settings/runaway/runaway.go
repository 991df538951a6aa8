// Package runaway configures the fluid runaway electron density n_re:
// which generation mechanisms source it, its initial profile and its
// radial transport.
package runaway

import (
	"rekindle/pkg/conferr"
	"rekindle/pkg/settings/advection"
	"rekindle/pkg/settings/coeff"
	"rekindle/pkg/settings/transport"
	"rekindle/pkg/sfile"
)

// quantity is the name n_re carries in error messages and output files.
const quantity = "n_re"

// Avalanche selects the avalanche multiplication model.
type Avalanche int

const (
	AvalancheNeglect Avalanche = iota + 1
	// AvalancheFluid uses the Rosenbluth-Putvinski growth rate.
	AvalancheFluid
	// AvalancheFluidHesslow corrects the growth rate for partially
	// ionized impurities.
	AvalancheFluidHesslow
	// AvalancheKinetic sources knock-on electrons directly on the
	// kinetic grid above the cutoff momentum.
	AvalancheKinetic
)

func (a Avalanche) valid() bool { return a >= AvalancheNeglect && a <= AvalancheKinetic }

// Dreicer selects the Dreicer generation rate model.
type Dreicer int

const (
	DreicerDisabled Dreicer = iota + 1
	// DreicerConnorHastieNoCorr is the Connor-Hastie rate without
	// relativistic corrections.
	DreicerConnorHastieNoCorr
	DreicerConnorHastie
	// DreicerNeuralNetwork evaluates the rate with the trained network
	// of Hesslow et al.
	DreicerNeuralNetwork
)

func (d Dreicer) valid() bool { return d >= DreicerDisabled && d <= DreicerNeuralNetwork }

// Compton selects the Compton scattering source model.
type Compton int

const (
	ComptonNeglect Compton = iota + 1
	ComptonFluid
	ComptonKinetic

	// ComptonRateITERDMS selects the fluid source with the photon flux
	// expected during ITER disruption mitigation.
	ComptonRateITERDMS Compton = -1
)

// ITERPhotonFluxDensity is the photon flux substituted by
// ComptonRateITERDMS, in photons per square meter and second.
const ITERPhotonFluxDensity = 1e18

func (c Compton) valid() bool { return c >= ComptonNeglect && c <= ComptonKinetic }

// Eceff selects the model for the effective critical field entering the
// avalanche growth rate.
type Eceff int

const (
	EceffECTot Eceff = iota + 1
	EceffCylindrical
	EceffSimple
	EceffFull
)

func (e Eceff) valid() bool { return e >= EceffECTot && e <= EceffFull }

// Hottail selects the hot-tail generation model.
type Hottail int

const (
	HottailDisabled Hottail = iota + 1
	HottailAnalytic
	// HottailAnalyticAltPc uses the alternative critical momentum
	// estimate.
	HottailAnalyticAltPc
)

func (h Hottail) valid() bool { return h >= HottailDisabled && h <= HottailAnalyticAltPc }

// Settings configures the runaway electron density.
type Settings struct {
	avalanche   Avalanche
	pCut        float64
	dreicer     Dreicer
	compton     Compton
	comptonFlux float64
	eceff       Eceff
	tritium     bool
	hottail     Hottail
	negative    bool

	adv    *advection.Settings
	transp *transport.Settings
	init   *coeff.Profile
}

// New returns defaults: every generation mechanism off, the full
// effective critical field model and a zero initial density.
func New() *Settings {
	return &Settings{
		avalanche: AvalancheNeglect,
		dreicer:   DreicerDisabled,
		compton:   ComptonNeglect,
		eceff:     EceffFull,
		hottail:   HottailDisabled,
		adv:       advection.New(quantity, false),
		transp:    transport.New(quantity, coeff.Fluid),
		init:      &coeff.Profile{Data: []float64{0}, Radius: []float64{0}},
	}
}

// SetInitialProfile sets the runaway density at the start of the
// simulation. A scalar applies uniformly; an array profile needs its
// radial grid.
func (s *Settings) SetInitialProfile(v coeff.Value, r []float64) error {
	p, err := coeff.NormalizeProfile(quantity, "init", v, r)
	if err != nil {
		return err
	}
	s.init = p
	return nil
}

// SetAvalanche selects the avalanche model.
func (s *Settings) SetAvalanche(a Avalanche) { s.avalanche = a }

// SetPCutAvalanche sets the lower momentum cutoff of the kinetic
// avalanche source, in units of the thermal momentum.
func (s *Settings) SetPCutAvalanche(p float64) { s.pCut = p }

// SetDreicer selects the Dreicer generation model.
func (s *Settings) SetDreicer(d Dreicer) { s.dreicer = d }

// SetCompton selects the Compton source model. Any active model needs a
// positive photon flux; ComptonRateITERDMS selects the fluid model and
// substitutes the ITER flux when none is given.
func (s *Settings) SetCompton(c Compton, photonFlux float64) error {
	if c == ComptonRateITERDMS {
		c = ComptonFluid
		if photonFlux == 0 {
			photonFlux = ITERPhotonFluxDensity
		}
	}
	if !c.valid() {
		return conferr.New(conferr.ErrOption, quantity, "compton",
			"unrecognized Compton mode %d", int(c))
	}
	if c == ComptonNeglect {
		s.compton = c
		return nil
	}
	if photonFlux <= 0 {
		return conferr.New(conferr.Err, quantity, "compton",
			"photon flux must be set for an active Compton source")
	}
	s.compton = c
	s.comptonFlux = photonFlux
	return nil
}

// SetEceff selects the effective critical field model.
func (s *Settings) SetEceff(e Eceff) { s.eceff = e }

// SetTritium includes or excludes runaway generation through tritium
// beta decay.
func (s *Settings) SetTritium(on bool) { s.tritium = on }

// SetHottail selects the hot-tail generation model. An enabled model
// requires the hot electron population to be represented analytically.
func (s *Settings) SetHottail(h Hottail) { s.hottail = h }

// SetNegativeRunaways tracks runaways with negative pitch separately so
// the kinetic avalanche source accounts for collisions between counter
// propagating runaways.
func (s *Settings) SetNegativeRunaways(on bool) { s.negative = on }

// Avalanche returns the avalanche model.
func (s *Settings) Avalanche() Avalanche { return s.avalanche }

// PCutAvalanche returns the kinetic avalanche momentum cutoff.
func (s *Settings) PCutAvalanche() float64 { return s.pCut }

// Dreicer returns the Dreicer model.
func (s *Settings) Dreicer() Dreicer { return s.dreicer }

// Compton returns the Compton model and photon flux.
func (s *Settings) Compton() (Compton, float64) { return s.compton, s.comptonFlux }

// Eceff returns the effective critical field model.
func (s *Settings) Eceff() Eceff { return s.eceff }

// Tritium reports whether tritium decay generation is included.
func (s *Settings) Tritium() bool { return s.tritium }

// Hottail returns the hot-tail model.
func (s *Settings) Hottail() Hottail { return s.hottail }

// NegativeRunaways reports whether negative-pitch runaways are tracked.
func (s *Settings) NegativeRunaways() bool { return s.negative }

// InitialProfile returns the initial density profile.
func (s *Settings) InitialProfile() *coeff.Profile { return s.init }

// Advection returns the advection interpolation settings of the
// density's transport equation for in-place modification.
func (s *Settings) Advection() *advection.Settings { return s.adv }

// Transport returns the radial transport settings for in-place
// modification.
func (s *Settings) Transport() *transport.Settings { return s.transp }

// Verify checks every model selection against its closed set and that
// the kinetic avalanche source has a cutoff momentum.
func (s *Settings) Verify() error {
	for _, c := range []struct {
		field string
		ok    bool
		val   int
	}{
		{"avalanche", s.avalanche.valid(), int(s.avalanche)},
		{"dreicer", s.dreicer.valid(), int(s.dreicer)},
		{"compton", s.compton.valid(), int(s.compton)},
		{"Eceff", s.eceff.valid(), int(s.eceff)},
		{"hottail", s.hottail.valid(), int(s.hottail)},
	} {
		if !c.ok {
			return conferr.New(conferr.ErrOption, quantity, c.field,
				"unrecognized option %d", c.val)
		}
	}
	if s.avalanche == AvalancheKinetic && s.pCut <= 0 {
		return conferr.New(conferr.Err, quantity, "pCutAvalanche",
			"must be set when using the kinetic avalanche source")
	}
	if s.compton != ComptonNeglect && s.comptonFlux <= 0 {
		return conferr.New(conferr.Err, quantity, "compton",
			"photon flux must be set for an active Compton source")
	}
	if err := s.adv.Verify(); err != nil {
		return err
	}
	return s.transp.Verify()
}

// ToTree serializes the configuration as a store node.
func (s *Settings) ToTree() *sfile.Tree {
	node := sfile.NewTree()
	node.Set("avalanche", sfile.Int(int64(s.avalanche)))
	node.Set("dreicer", sfile.Int(int64(s.dreicer)))
	node.Set("Eceff", sfile.Int(int64(s.eceff)))
	node.Set("pCutAvalanche", sfile.Float(s.pCut))
	node.PutChild("transport", s.transp.ToTree())
	node.Set("tritium", sfile.Bool(s.tritium))
	node.Set("hottail", sfile.Int(int64(s.hottail)))
	node.Set("negative_re", sfile.Bool(s.negative))

	compton := sfile.NewTree()
	compton.Set("mode", sfile.Int(int64(s.compton)))
	compton.Set("flux", sfile.Float(s.comptonFlux))
	node.PutChild("compton", compton)

	node.PutChild("init", s.init.ToTree())
	node.PutChild("adv_interp", s.adv.ToTree())
	return node
}

// FromTree loads the configuration from a store node. Absent entries
// keep their current values.
func (s *Settings) FromTree(node *sfile.Tree) error {
	for _, e := range []struct {
		name string
		set  func(int64)
	}{
		{"avalanche", func(v int64) { s.avalanche = Avalanche(v) }},
		{"dreicer", func(v int64) { s.dreicer = Dreicer(v) }},
		{"Eceff", func(v int64) { s.eceff = Eceff(v) }},
		{"hottail", func(v int64) { s.hottail = Hottail(v) }},
	} {
		if _, ok := node.Value(e.name); !ok {
			continue
		}
		v, err := node.Int(e.name)
		if err != nil {
			return conferr.New(conferr.Err, quantity, e.name, "%v", err)
		}
		e.set(v)
	}
	if _, ok := node.Value("pCutAvalanche"); ok {
		v, err := node.Float("pCutAvalanche")
		if err != nil {
			return conferr.New(conferr.Err, quantity, "pCutAvalanche", "%v", err)
		}
		s.pCut = v
	}
	for _, e := range []struct {
		name string
		dst  *bool
	}{{"tritium", &s.tritium}, {"negative_re", &s.negative}} {
		if _, ok := node.Value(e.name); !ok {
			continue
		}
		v, err := node.Bool(e.name)
		if err != nil {
			return conferr.New(conferr.Err, quantity, e.name, "%v", err)
		}
		*e.dst = v
	}

	if child, ok := node.Child("compton"); ok {
		if _, ok := child.Value("mode"); ok {
			v, err := child.Int("mode")
			if err != nil {
				return conferr.New(conferr.Err, quantity, "compton", "%v", err)
			}
			s.compton = Compton(v)
		}
		if _, ok := child.Value("flux"); ok {
			v, err := child.Float("flux")
			if err != nil {
				return conferr.New(conferr.Err, quantity, "compton", "%v", err)
			}
			s.comptonFlux = v
		}
	}
	if child, ok := node.Child("init"); ok {
		p, err := coeff.ProfileFromTree(child, quantity, "init")
		if err != nil {
			return err
		}
		s.init = p
	}
	if child, ok := node.Child("adv_interp"); ok {
		if err := s.adv.FromTree(child); err != nil {
			return err
		}
	}
	if child, ok := node.Child("transport"); ok {
		if err := s.transp.FromTree(child); err != nil {
			return err
		}
	}
	return nil
}
