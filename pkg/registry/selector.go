package registry

import (
	"fmt"
	"strings"

	"github.com/praetorian-inc/matchers/pkg/types"
)

// Predicate decides whether a descriptor is acceptable.
type Predicate func(types.Descriptor) bool

// IsFast accepts matchers tagged fast.
func IsFast(d types.Descriptor) bool { return d.Characteristics.Fast }

// IsStable accepts matchers tagged stable.
func IsStable(d types.Descriptor) bool { return d.Characteristics.Stable }

// IsExperimental accepts matchers tagged experimental.
func IsExperimental(d types.Descriptor) bool { return d.Characteristics.Experimental }

// Any accepts every matcher.
func Any(types.Descriptor) bool { return true }

// And accepts descriptors satisfying every predicate. And() accepts all.
func And(preds ...Predicate) Predicate {
	return func(d types.Descriptor) bool {
		for _, p := range preds {
			if !p(d) {
				return false
			}
		}
		return true
	}
}

// Or accepts descriptors satisfying at least one predicate. Or() accepts none.
func Or(preds ...Predicate) Predicate {
	return func(d types.Descriptor) bool {
		for _, p := range preds {
			if p(d) {
				return true
			}
		}
		return false
	}
}

// Not negates p.
func Not(p Predicate) Predicate {
	return func(d types.Descriptor) bool { return !p(d) }
}

// Select returns the first entry, in registration order, whose descriptor
// satisfies pred. When none does, it returns the registry default; selection
// never leaves the caller without a matcher. A nil pred accepts everything.
func Select(r *Registry, pred Predicate) Entry {
	if pred == nil {
		pred = Any
	}
	for _, e := range r.All() {
		if pred(e.Descriptor) {
			return e
		}
	}
	return r.Default()
}

// SelectByName returns the entry registered under name, or the default when
// the name is unknown.
func SelectByName(r *Registry, name string) Entry {
	if e, ok := r.Lookup(name); ok {
		return e
	}
	return r.Default()
}

// ParseRequirement turns a comma-separated list of characteristic names into
// a conjunction. A leading '!' negates a term: "fast,!experimental".
// An empty string accepts everything.
func ParseRequirement(spec string) (Predicate, error) {
	var preds []Predicate
	for _, raw := range strings.Split(spec, ",") {
		term := strings.TrimSpace(raw)
		if term == "" {
			continue
		}

		negate := strings.HasPrefix(term, "!")
		term = strings.TrimSpace(strings.TrimPrefix(term, "!"))

		var p Predicate
		switch strings.ToLower(term) {
		case "fast":
			p = IsFast
		case "stable":
			p = IsStable
		case "experimental":
			p = IsExperimental
		default:
			return nil, fmt.Errorf("unknown characteristic %q (want fast, stable or experimental)", term)
		}
		if negate {
			p = Not(p)
		}
		preds = append(preds, p)
	}
	return And(preds...), nil
}

// Requiring builds a conjunction of every characteristic set in c.
func Requiring(c types.Characteristics) Predicate {
	var preds []Predicate
	if c.Fast {
		preds = append(preds, IsFast)
	}
	if c.Stable {
		preds = append(preds, IsStable)
	}
	if c.Experimental {
		preds = append(preds, IsExperimental)
	}
	return And(preds...)
}
