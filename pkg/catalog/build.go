package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/praetorian-inc/matchers/pkg/matcher"
	"github.com/praetorian-inc/matchers/pkg/registry"
)

// BuildOptions tunes engine construction.
type BuildOptions struct {
	Logger        *slog.Logger
	RegexpTimeout time.Duration
}

type engineFactory func(opts BuildOptions) (matcher.Matcher, error)

// engines is the closed set of builtin matcher implementations.
var engines = map[string]engineFactory{
	matcher.NameBruteForce: func(BuildOptions) (matcher.Matcher, error) {
		return matcher.NewBruteForce(), nil
	},
	matcher.NameKMP: func(BuildOptions) (matcher.Matcher, error) {
		return matcher.NewKMP(), nil
	},
	matcher.NameRabinKarp: func(BuildOptions) (matcher.Matcher, error) {
		return matcher.NewRabinKarp(), nil
	},
	matcher.NameRegexp: func(opts BuildOptions) (matcher.Matcher, error) {
		return matcher.NewRegexp(opts.RegexpTimeout), nil
	},
	matcher.NameHyperscan: func(BuildOptions) (matcher.Matcher, error) {
		return matcher.NewHyperscan()
	},
}

// KnownEngine reports whether name is a builtin engine.
func KnownEngine(name string) bool {
	_, ok := engines[name]
	return ok
}

// Build constructs a frozen registry from cat in catalog order. The
// brute-force matcher is the fallback: a catalog entry for it keeps its
// position and descriptor, and when cat omits it, it is registered last.
// Engines unavailable in this build are skipped and logged.
func Build(cat *Catalog, opts BuildOptions) (*registry.Registry, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	def := registry.BruteForceEntry()
	reg := registry.NewWithFallback(def)

	for _, s := range cat.Matchers {
		var m matcher.Matcher
		if s.Name == def.Name() {
			if s.EngineName() != matcher.NameBruteForce || s.Parallel {
				return nil, fmt.Errorf("registering %q: only the plain brute-force engine may use this name: %w", s.Name, registry.ErrDuplicateName)
			}
			m = def.Matcher
		} else {
			var err error
			m, err = construct(s, opts)
			if errors.Is(err, matcher.ErrUnavailable) {
				logger.Info("skipping unavailable matcher", "name", s.Name, "reason", err)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("building matcher %q: %w", s.Name, err)
			}
		}

		if err := reg.Register(m, s.Descriptor()); err != nil {
			return nil, err
		}
		logger.Debug("registered matcher", "name", s.Name, "characteristics", s.Characteristics.String())
	}

	reg.Freeze()
	return reg, nil
}

// BuildBuiltin builds the registry described by the embedded catalog.
func BuildBuiltin(opts BuildOptions) (*registry.Registry, error) {
	cat, err := LoadBuiltin()
	if err != nil {
		return nil, fmt.Errorf("loading builtin catalog: %w", err)
	}
	return Build(cat, opts)
}

func construct(s Spec, opts BuildOptions) (matcher.Matcher, error) {
	factory, ok := engines[s.EngineName()]
	if !ok {
		return nil, fmt.Errorf("unknown engine %q", s.EngineName())
	}

	m, err := factory(opts)
	if err != nil {
		return nil, err
	}

	if s.Parallel {
		cfg := matcher.DefaultChunkConfig()
		if s.ChunkSize > 0 {
			cfg.MaxChunkSize = s.ChunkSize
		}
		m = matcher.NewChunked(m, cfg)
	}
	return m, nil
}
