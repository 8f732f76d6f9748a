// Package catalog declares which matchers a registry holds, in which order
// and with which characteristics, and builds the registry from that
// declaration. Tags live here, next to the registration, rather than on the
// matcher implementations.
package catalog

import "github.com/praetorian-inc/matchers/pkg/types"

// Spec is one catalog entry.
type Spec struct {
	Name            string
	Engine          string // builtin engine to construct; defaults to Name
	Description     string
	Characteristics types.Characteristics
	Parallel        bool // wrap the engine in a chunked parallel matcher
	ChunkSize       int  // bytes per chunk when Parallel (0 = default)
}

// EngineName returns the engine this entry constructs.
func (s Spec) EngineName() string {
	if s.Engine != "" {
		return s.Engine
	}
	return s.Name
}

// Descriptor returns the registry descriptor for this entry.
func (s Spec) Descriptor() types.Descriptor {
	return types.Descriptor{
		Name:            s.Name,
		Description:     s.Description,
		Characteristics: s.Characteristics,
	}
}

// Catalog is an ordered list of matcher specs.
type Catalog struct {
	// Default names the fallback matcher. Only the brute-force matcher can
	// be the fallback; empty means the same.
	Default  string
	Matchers []Spec
}

// Names returns entry names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Matchers))
	for i, s := range c.Matchers {
		names[i] = s.Name
	}
	return names
}
