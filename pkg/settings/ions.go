package settings

import (
	"strings"

	"rekindle/pkg/conferr"
	"rekindle/pkg/settings/coeff"
	"rekindle/pkg/sfile"
)

// IonType selects how a species' charge state densities evolve.
type IonType int

const (
	// IonPrescribed fixes the densities to the given values.
	IonPrescribed IonType = iota + 1
	// IonEquilibrium distributes the density over charge states by
	// coronal equilibrium.
	IonEquilibrium
	// IonDynamic evolves the charge states from rate equations.
	IonDynamic
)

func (t IonType) valid() bool { return t >= IonPrescribed && t <= IonDynamic }

// Species is one ion species with its initial density profile.
type Species struct {
	Name    string
	Z       int
	Type    IonType
	Density *coeff.Profile
}

// Ions holds the plasma composition n_i.
type Ions struct {
	species []Species
}

// NewIons returns an empty composition.
func NewIons() *Ions {
	return &Ions{}
}

// AddSpecies appends a species. Names must be unique; the density is a
// radial profile, with scalars applying uniformly.
func (s *Ions) AddSpecies(name string, z int, itype IonType, n coeff.Value, r []float64) error {
	if name == "" || strings.Contains(name, ";") {
		return conferr.New(conferr.ErrOption, "n_i", "names",
			"invalid species name %q", name)
	}
	for _, sp := range s.species {
		if sp.Name == name {
			return conferr.New(conferr.Err, "n_i", name, "species already defined")
		}
	}
	if z < 1 {
		return conferr.New(conferr.ErrOption, "n_i", name,
			"invalid charge number %d", z)
	}
	if !itype.valid() {
		return conferr.New(conferr.ErrOption, "n_i", name,
			"unrecognized ion type %d", int(itype))
	}
	p, err := coeff.NormalizeProfile("n_i", name, n, r)
	if err != nil {
		return err
	}
	s.species = append(s.species, Species{Name: name, Z: z, Type: itype, Density: p})
	return nil
}

// Species returns the configured species in insertion order.
func (s *Ions) Species() []Species {
	out := make([]Species, len(s.species))
	copy(out, s.species)
	return out
}

// Verify re-checks every species. Needed after FromTree, which bypasses
// AddSpecies.
func (s *Ions) Verify() error {
	seen := make(map[string]bool, len(s.species))
	for _, sp := range s.species {
		if sp.Name == "" || strings.Contains(sp.Name, ";") {
			return conferr.New(conferr.ErrOption, "n_i", "names",
				"invalid species name %q", sp.Name)
		}
		if seen[sp.Name] {
			return conferr.New(conferr.Err, "n_i", sp.Name, "species already defined")
		}
		seen[sp.Name] = true
		if sp.Z < 1 {
			return conferr.New(conferr.ErrOption, "n_i", sp.Name,
				"invalid charge number %d", sp.Z)
		}
		if !sp.Type.valid() {
			return conferr.New(conferr.ErrOption, "n_i", sp.Name,
				"unrecognized ion type %d", int(sp.Type))
		}
		if sp.Density == nil {
			return conferr.New(conferr.Err, "n_i", sp.Name, "no density profile set")
		}
	}
	return nil
}

// ToTree serializes the composition as a store node: semicolon-joined
// names, parallel charge and type lists and one density child per
// species.
func (s *Ions) ToTree() *sfile.Tree {
	names := make([]string, len(s.species))
	zs := make([]int64, len(s.species))
	types := make([]int64, len(s.species))
	for i, sp := range s.species {
		names[i] = sp.Name
		zs[i] = int64(sp.Z)
		types[i] = int64(sp.Type)
	}

	node := sfile.NewTree()
	node.Set("names", sfile.String(strings.Join(names, ";")))
	node.Set("Z", sfile.IntList(zs))
	node.Set("types", sfile.IntList(types))
	init := node.EnsureChild("init")
	for _, sp := range s.species {
		init.PutChild(sp.Name, sp.Density.ToTree())
	}
	return node
}

// FromTree loads the composition from a store node, replacing the
// current species.
func (s *Ions) FromTree(node *sfile.Tree) error {
	joined, err := node.String("names")
	if err != nil {
		return conferr.New(conferr.Err, "n_i", "names", "%v", err)
	}
	if joined == "" {
		s.species = nil
		return nil
	}
	names := strings.Split(joined, ";")

	zs, err := node.Ints("Z")
	if err != nil {
		return conferr.New(conferr.Err, "n_i", "Z", "%v", err)
	}
	types, err := node.Ints("types")
	if err != nil {
		return conferr.New(conferr.Err, "n_i", "types", "%v", err)
	}
	if len(zs) != len(names) || len(types) != len(names) {
		return conferr.New(conferr.Err, "n_i", "",
			"%d names but %d charge numbers and %d types", len(names), len(zs), len(types))
	}
	init, ok := node.Child("init")
	if !ok {
		return conferr.New(conferr.Err, "n_i", "init", "no density profiles")
	}

	species := make([]Species, len(names))
	for i, name := range names {
		child, ok := init.Child(name)
		if !ok {
			return conferr.New(conferr.Err, "n_i", name, "no density profile")
		}
		p, err := coeff.ProfileFromTree(child, "n_i", name)
		if err != nil {
			return err
		}
		species[i] = Species{Name: name, Z: int(zs[i]), Type: IonType(types[i]), Density: p}
	}
	s.species = species
	return nil
}
