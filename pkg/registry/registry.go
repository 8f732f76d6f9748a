// Package registry holds named matchers with their declared characteristics
// and picks one at runtime by predicate.
//
// A Registry is built explicitly by the embedding application: construct it
// with the default matcher, Register the rest in preference order, then
// Freeze it before handing it to concurrent readers. The default is the
// fallback of every selection; its position in the preference order is
// wherever it was registered.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/praetorian-inc/matchers/pkg/matcher"
	"github.com/praetorian-inc/matchers/pkg/types"
)

var (
	// ErrDuplicateName is returned when a name is registered twice.
	ErrDuplicateName = errors.New("matcher name already registered")

	// ErrFrozen is returned when registering into a frozen registry.
	ErrFrozen = errors.New("registry is frozen")

	// ErrUnknownMatcher is returned by strict lookups of unregistered names.
	ErrUnknownMatcher = errors.New("unknown matcher")
)

// Entry is a registered matcher together with its descriptor.
type Entry struct {
	Descriptor types.Descriptor
	Matcher    matcher.Matcher
}

// Name returns the registered name.
func (e Entry) Name() string {
	return e.Descriptor.Name
}

// Characteristics returns the tags declared at registration. Matchers do not
// carry tags themselves; the same engine may be registered under different
// names with different characteristics.
func (e Entry) Characteristics() types.Characteristics {
	return e.Descriptor.Characteristics
}

// Registry is an append-only, ordered set of uniquely named matchers.
// Registration order is the preference order used by Select.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	index   map[string]int
	def     Entry
	frozen  bool
}

// New creates a registry whose first entry, and fallback for every
// selection, is def.
func New(def Entry) (*Registry, error) {
	r := NewWithFallback(def)
	if err := r.Register(def.Matcher, def.Descriptor); err != nil {
		return nil, fmt.Errorf("registering default matcher: %w", err)
	}
	return r, nil
}

// NewWithFallback creates an empty registry whose fallback is def. The
// fallback takes its place in the preference order when an entry is
// registered under its name; that entry then becomes the fallback. If none
// is, Freeze appends def last.
func NewWithFallback(def Entry) *Registry {
	return &Registry{index: make(map[string]int), def: def}
}

// NewDefault creates a registry whose default is the brute-force matcher.
func NewDefault() *Registry {
	r, _ := New(BruteForceEntry())
	return r
}

// BruteForceEntry is the always-available fallback entry.
func BruteForceEntry() Entry {
	return Entry{
		Descriptor: types.Descriptor{
			Name:            matcher.NameBruteForce,
			Description:     "Naive Brute-Force Matcher",
			Characteristics: types.Characteristics{Fast: false, Stable: true},
		},
		Matcher: matcher.NewBruteForce(),
	}
}

// Register appends m under d.Name. An empty d.Name takes m.Name(); a name
// that is still empty is an error.
func (r *Registry) Register(m matcher.Matcher, d types.Descriptor) error {
	if m == nil {
		return fmt.Errorf("registering %q: nil matcher", d.Name)
	}
	if d.Name == "" {
		d.Name = m.Name()
	}
	if d.Name == "" {
		return fmt.Errorf("registering %T: empty name", m)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("registering %q: %w", d.Name, ErrFrozen)
	}
	if _, exists := r.index[d.Name]; exists {
		return fmt.Errorf("registering %q: %w", d.Name, ErrDuplicateName)
	}

	e := Entry{Descriptor: d, Matcher: m}
	r.index[d.Name] = len(r.entries)
	r.entries = append(r.entries, e)
	if d.Name == r.def.Descriptor.Name {
		r.def = e
	}
	return nil
}

// Freeze makes the registry read-only, first appending the fallback if it
// was never registered.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return
	}
	if _, placed := r.index[r.def.Descriptor.Name]; !placed && r.def.Matcher != nil {
		r.index[r.def.Descriptor.Name] = len(r.entries)
		r.entries = append(r.entries, r.def)
	}
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// All returns a copy of the entries in registration order.
func (r *Registry) All() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Descriptor.Name
	}
	return names
}

// Len returns the number of registered matchers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Get is Lookup returning ErrUnknownMatcher for missing names.
func (r *Registry) Get(name string) (Entry, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownMatcher, name)
	}
	return e, nil
}

// Default returns the fallback entry.
func (r *Registry) Default() Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.def
}
