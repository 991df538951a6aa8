package settings

import (
	"slices"
	"strings"

	"rekindle/pkg/conferr"
	"rekindle/pkg/sfile"
)

// OtherOptions selects which auxiliary quantities the kernel records
// alongside the unknowns, collision frequencies or growth rates for
// example. Identifiers are kernel-defined; unknown ones are rejected at
// run time, not here.
type OtherOptions struct {
	include []string
}

// NewOtherOptions returns an empty selection.
func NewOtherOptions() *OtherOptions {
	return &OtherOptions{}
}

// Include adds quantity identifiers to the selection. Duplicates are
// dropped, order is preserved.
func (o *OtherOptions) Include(names ...string) {
	for _, n := range names {
		if n == "" || slices.Contains(o.include, n) {
			continue
		}
		o.include = append(o.include, n)
	}
}

// Includes returns the selected identifiers in insertion order.
func (o *OtherOptions) Includes() []string {
	return slices.Clone(o.include)
}

// ToTree serializes the selection as a store node with the identifiers
// semicolon-joined.
func (o *OtherOptions) ToTree() *sfile.Tree {
	node := sfile.NewTree()
	node.Set("include", sfile.String(strings.Join(o.include, ";")))
	return node
}

// FromTree loads the selection from a store node, replacing the current
// one.
func (o *OtherOptions) FromTree(node *sfile.Tree) error {
	joined, err := node.String("include")
	if err != nil {
		return conferr.New(conferr.Err, "other", "include", "%v", err)
	}
	if joined == "" {
		o.include = nil
		return nil
	}
	o.include = strings.Split(joined, ";")
	return nil
}
