// Package conferr defines the error taxonomy shared by the settings and
// output layers.
//
// Every error wraps the base Err, so callers can match the whole family
// with errors.Is(err, conferr.Err) or a single category with its
// sentinel. Messages name the owning quantity and the offending field so
// a failure can be located without a stack trace.
package conferr

import (
	"errors"
	"fmt"
	"strings"
)

// Err is the base configuration error. Every category sentinel wraps it.
var Err = errors.New("invalid configuration")

var (
	// ErrShape marks prescribed data whose element counts disagree with
	// the coordinate axes supplied alongside it.
	ErrShape = fmt.Errorf("%w: shape mismatch", Err)

	// ErrExclusive marks mutually exclusive settings that are both
	// present, or a required choice where neither alternative is set.
	ErrExclusive = fmt.Errorf("%w: exclusive settings", Err)

	// ErrOption marks an enumerated selection outside its closed set.
	ErrOption = fmt.Errorf("%w: invalid option", Err)

	// ErrConsistency marks settings that are individually valid but
	// contradict another part of the configuration.
	ErrConsistency = fmt.Errorf("%w: inconsistent settings", Err)
)

// New builds a category error naming the owning quantity and field.
// Quantity and field may be empty and are then omitted from the message.
func New(marker error, quantity, field, format string, args ...any) error {
	parts := make([]string, 0, 3)
	if quantity != "" {
		parts = append(parts, quantity)
	}
	if field != "" {
		parts = append(parts, field)
	}
	parts = append(parts, fmt.Sprintf(format, args...))
	return fmt.Errorf("%w: %s", marker, strings.Join(parts, ": "))
}
