package sfile

import (
	"fmt"
	"slices"

	"rekindle/pkg/ndarray"
)

// Tree is one level of a settings store: named child groups plus named
// datasets. Group and dataset names share a namespace; assigning a name
// replaces whatever previously held it.
type Tree struct {
	children map[string]*Tree
	values   map[string]Dataset
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{
		children: make(map[string]*Tree),
		values:   make(map[string]Dataset),
	}
}

// Set stores a dataset under name, replacing any previous dataset or
// group of that name.
func (t *Tree) Set(name string, d Dataset) {
	delete(t.children, name)
	t.values[name] = d
}

// EnsureChild returns the child group with the given name, creating it
// when absent. A dataset previously stored under the name is replaced.
func (t *Tree) EnsureChild(name string) *Tree {
	if c, ok := t.children[name]; ok {
		return c
	}
	delete(t.values, name)
	c := NewTree()
	t.children[name] = c
	return c
}

// PutChild grafts child under name, replacing any previous dataset or
// group of that name.
func (t *Tree) PutChild(name string, child *Tree) {
	delete(t.values, name)
	t.children[name] = child
}

// Child returns the named child group.
func (t *Tree) Child(name string) (*Tree, bool) {
	c, ok := t.children[name]
	return c, ok
}

// Value returns the named dataset.
func (t *Tree) Value(name string) (Dataset, bool) {
	d, ok := t.values[name]
	return d, ok
}

// Names returns the dataset names at this level, sorted.
func (t *Tree) Names() []string {
	names := make([]string, 0, len(t.values))
	for name := range t.values {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ChildNames returns the child group names at this level, sorted.
func (t *Tree) ChildNames() []string {
	names := make([]string, 0, len(t.children))
	for name := range t.children {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of entries (groups plus datasets) at this level.
func (t *Tree) Len() int {
	return len(t.children) + len(t.values)
}

// Equal reports whether two trees hold the same groups and datasets.
func (t *Tree) Equal(o *Tree) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.children) != len(o.children) || len(t.values) != len(o.values) {
		return false
	}
	for name, d := range t.values {
		od, ok := o.values[name]
		if !ok || !d.Equal(od) {
			return false
		}
	}
	for name, c := range t.children {
		oc, ok := o.children[name]
		if !ok || !c.Equal(oc) {
			return false
		}
	}
	return true
}

// Float reads a scalar float dataset. One-element vectors and integers
// are accepted; the kernel writes every numeric value as an array.
func (t *Tree) Float(name string) (float64, error) {
	d, ok := t.values[name]
	if !ok {
		return 0, fmt.Errorf("no entry %q", name)
	}
	v, err := d.AsFloat()
	if err != nil {
		return 0, fmt.Errorf("entry %q: %w", name, err)
	}
	return v, nil
}

// Int reads a scalar integer dataset.
func (t *Tree) Int(name string) (int64, error) {
	d, ok := t.values[name]
	if !ok {
		return 0, fmt.Errorf("no entry %q", name)
	}
	v, err := d.AsInt()
	if err != nil {
		return 0, fmt.Errorf("entry %q: %w", name, err)
	}
	return v, nil
}

// Bool reads a boolean dataset.
func (t *Tree) Bool(name string) (bool, error) {
	d, ok := t.values[name]
	if !ok {
		return false, fmt.Errorf("no entry %q", name)
	}
	v, err := d.AsBool()
	if err != nil {
		return false, fmt.Errorf("entry %q: %w", name, err)
	}
	return v, nil
}

// String reads a string dataset.
func (t *Tree) String(name string) (string, error) {
	d, ok := t.values[name]
	if !ok {
		return "", fmt.Errorf("no entry %q", name)
	}
	v, err := d.AsString()
	if err != nil {
		return "", fmt.Errorf("entry %q: %w", name, err)
	}
	return v, nil
}

// Floats reads a rank-1 array dataset.
func (t *Tree) Floats(name string) ([]float64, error) {
	d, ok := t.values[name]
	if !ok {
		return nil, fmt.Errorf("no entry %q", name)
	}
	v, err := d.AsFloats()
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", name, err)
	}
	return v, nil
}

// Array reads an array dataset of any rank.
func (t *Tree) Array(name string) (*ndarray.Array, error) {
	d, ok := t.values[name]
	if !ok {
		return nil, fmt.Errorf("no entry %q", name)
	}
	v, err := d.AsArray()
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", name, err)
	}
	return v, nil
}

// Ints reads an integer-list dataset.
func (t *Tree) Ints(name string) ([]int64, error) {
	d, ok := t.values[name]
	if !ok {
		return nil, fmt.Errorf("no entry %q", name)
	}
	v, err := d.AsInts()
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", name, err)
	}
	return v, nil
}
