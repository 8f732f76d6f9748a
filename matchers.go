// Package matchers finds every occurrence of a needle in a haystack using a
// selectable family of exact string-matching algorithms.
//
// # Basic Usage
//
// Find all start offsets with the preferred fast, stable matcher:
//
//	offsets := matchers.Find("abcdfffggffgg", "fgg") // [6 10]
//
// # Choosing a Matcher
//
// A Searcher resolves its matcher by name or by required characteristics,
// falling back to the brute-force default when nothing qualifies:
//
//	s, err := matchers.NewSearcher(matchers.WithRequirement("fast,!experimental"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	offsets, err := s.FindString(haystack, needle)
//
// Record every search in a SQLite history file with WithStore.
package matchers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/praetorian-inc/matchers/pkg/catalog"
	"github.com/praetorian-inc/matchers/pkg/registry"
	"github.com/praetorian-inc/matchers/pkg/search"
	"github.com/praetorian-inc/matchers/pkg/store"
	"github.com/praetorian-inc/matchers/pkg/types"
)

// Re-export commonly used types for convenience.
type (
	// Result is the outcome of one search.
	Result = search.Result

	// Descriptor names a registered matcher and its characteristics.
	Descriptor = types.Descriptor

	// Characteristics are the fast/stable/experimental tags of a matcher.
	Characteristics = types.Characteristics

	// Occurrence locates one match by byte offset and line/column.
	Occurrence = types.Occurrence

	// SearchRecord is one entry of search history.
	SearchRecord = types.SearchRecord
)

// DefaultRequirement is used when neither an algorithm nor a requirement is
// configured.
const DefaultRequirement = "fast,stable"

var (
	builtinOnce sync.Once
	builtinReg  *registry.Registry
)

func builtinRegistry() *registry.Registry {
	builtinOnce.Do(func() {
		reg, err := catalog.BuildBuiltin(catalog.BuildOptions{})
		if err != nil {
			reg = registry.NewDefault()
			reg.Freeze()
		}
		builtinReg = reg
	})
	return builtinReg
}

// Find returns the ascending start offsets of every occurrence of needle in
// haystack, using the first fast and stable builtin matcher. An empty needle
// yields no offsets.
func Find(haystack, needle string) []int {
	return findIn(builtinRegistry(), []byte(haystack), []byte(needle))
}

// findIn matches with the first fast and stable engine of reg. A failing
// engine falls back to the registry default; if that fails too there are
// no offsets.
func findIn(reg *registry.Registry, haystack, needle []byte) []int {
	e := registry.Select(reg, registry.And(registry.IsFast, registry.IsStable))
	offsets, err := e.Matcher.Match(haystack, needle)
	if err != nil {
		offsets, err = reg.Default().Matcher.Match(haystack, needle)
		if err != nil {
			return []int{}
		}
	}
	if offsets == nil {
		offsets = []int{}
	}
	return offsets
}

// Searcher runs searches against a registry with fixed selection options.
type Searcher struct {
	core   *search.Core
	config *searcherConfig
}

type searcherConfig struct {
	algorithm     string
	requirement   string
	catalogPath   string
	prefilter     bool
	storePath     string
	logger        *slog.Logger
	regexpTimeout time.Duration
}

// Option configures a Searcher.
type Option func(*searcherConfig)

// WithAlgorithm selects a matcher by name. Unknown names use the default.
func WithAlgorithm(name string) Option {
	return func(c *searcherConfig) {
		c.algorithm = name
	}
}

// WithRequirement selects the first matcher satisfying a characteristic
// requirement such as "fast,stable" or "!experimental".
func WithRequirement(requirement string) Option {
	return func(c *searcherConfig) {
		c.requirement = requirement
	}
}

// WithCatalog builds the registry from a YAML catalog file instead of the
// builtin one.
func WithCatalog(path string) Option {
	return func(c *searcherConfig) {
		c.catalogPath = path
	}
}

// WithPrefilter skips the matcher when an Aho-Corasick scan finds no
// occurrence.
func WithPrefilter() Option {
	return func(c *searcherConfig) {
		c.prefilter = true
	}
}

// WithStore records every search in the store at path: ":memory:", a
// postgres:// URL, or a SQLite file.
func WithStore(path string) Option {
	return func(c *searcherConfig) {
		c.storePath = path
	}
}

// WithLogger sets the logger for registry construction and searches.
func WithLogger(logger *slog.Logger) Option {
	return func(c *searcherConfig) {
		c.logger = logger
	}
}

// WithRegexpTimeout bounds each regexp matcher call.
func WithRegexpTimeout(d time.Duration) Option {
	return func(c *searcherConfig) {
		c.regexpTimeout = d
	}
}

// NewSearcher creates a Searcher. Without options it uses the builtin
// catalog, selects by DefaultRequirement and keeps no history.
func NewSearcher(opts ...Option) (*Searcher, error) {
	config := &searcherConfig{}
	for _, opt := range opts {
		opt(config)
	}
	if config.algorithm == "" && config.requirement == "" {
		config.requirement = DefaultRequirement
	}
	if _, err := registry.ParseRequirement(config.requirement); err != nil {
		return nil, err
	}

	buildOpts := catalog.BuildOptions{Logger: config.logger, RegexpTimeout: config.regexpTimeout}

	var reg *registry.Registry
	if config.catalogPath != "" {
		cat, err := catalog.LoadFile(config.catalogPath)
		if err != nil {
			return nil, fmt.Errorf("loading catalog: %w", err)
		}
		reg, err = catalog.Build(cat, buildOpts)
		if err != nil {
			return nil, fmt.Errorf("building registry: %w", err)
		}
	} else {
		var err error
		reg, err = catalog.BuildBuiltin(buildOpts)
		if err != nil {
			return nil, fmt.Errorf("building registry: %w", err)
		}
	}

	var s store.Store
	if config.storePath != "" {
		var err error
		s, err = store.New(store.Config{Path: config.storePath})
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
	}

	core, err := search.NewCore(search.Config{Registry: reg, Store: s, Logger: config.logger})
	if err != nil {
		if s != nil {
			s.Close()
		}
		return nil, err
	}

	return &Searcher{core: core, config: config}, nil
}

// Search runs one search and returns the full result.
func (s *Searcher) Search(ctx context.Context, haystack, needle []byte) (*Result, error) {
	return s.core.Search(ctx, s.request(haystack, needle, ""))
}

// FindString returns the start offsets of needle in haystack.
func (s *Searcher) FindString(haystack, needle string) ([]int, error) {
	return s.FindBytes([]byte(haystack), []byte(needle))
}

// FindBytes returns the start offsets of needle in haystack.
func (s *Searcher) FindBytes(haystack, needle []byte) ([]int, error) {
	result, err := s.core.Search(context.Background(), s.request(haystack, needle, ""))
	if err != nil {
		return nil, err
	}
	return result.Offsets, nil
}

// FindFile reads the file at path and returns the start offsets of needle
// in its contents.
func (s *Searcher) FindFile(path string, needle []byte) ([]int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	result, err := s.core.Search(context.Background(), s.request(content, needle, path))
	if err != nil {
		return nil, err
	}
	return result.Offsets, nil
}

// Matcher returns the name of the matcher this Searcher resolves to.
func (s *Searcher) Matcher() string {
	e, err := s.core.Resolve(s.request(nil, nil, ""))
	if err != nil {
		return s.core.Registry().Default().Name()
	}
	return e.Name()
}

// Matchers returns the descriptors of every registered matcher in
// preference order.
func (s *Searcher) Matchers() []Descriptor {
	entries := s.core.Registry().All()
	out := make([]Descriptor, len(entries))
	for i, e := range entries {
		out[i] = e.Descriptor
	}
	return out
}

// History returns recorded searches, or nil without a store.
func (s *Searcher) History() ([]*SearchRecord, error) {
	return s.core.History()
}

// Close releases the store, if any.
func (s *Searcher) Close() error {
	return s.core.Close()
}

func (s *Searcher) request(haystack, needle []byte, source string) search.Request {
	return search.Request{
		Haystack:  haystack,
		Needle:    needle,
		Algorithm: s.config.algorithm,
		Require:   s.config.requirement,
		Prefilter: s.config.prefilter,
		Source:    source,
	}
}
