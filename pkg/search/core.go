// Package search resolves a matcher for a request, runs it, and records the
// outcome.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/praetorian-inc/matchers/pkg/catalog"
	"github.com/praetorian-inc/matchers/pkg/prefilter"
	"github.com/praetorian-inc/matchers/pkg/registry"
	"github.com/praetorian-inc/matchers/pkg/store"
	"github.com/praetorian-inc/matchers/pkg/types"
)

// Config for NewCore. A nil Registry builds the builtin catalog; a nil Store
// disables history.
type Config struct {
	Registry *registry.Registry
	Store    store.Store
	Logger   *slog.Logger
}

// Core wraps the registry and store for search operations.
type Core struct {
	registry *registry.Registry
	store    store.Store
	logger   *slog.Logger
}

// NewCore creates a Core.
func NewCore(cfg Config) (*Core, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	reg := cfg.Registry
	if reg == nil {
		var err error
		reg, err = catalog.BuildBuiltin(catalog.BuildOptions{Logger: logger})
		if err != nil {
			return nil, err
		}
	}

	logger.Debug("search core ready", "matchers", reg.Len(), "history", cfg.Store != nil)
	return &Core{
		registry: reg,
		store:    cfg.Store,
		logger:   logger,
	}, nil
}

// Registry returns the registry searches are resolved against.
func (c *Core) Registry() *registry.Registry {
	return c.registry
}

// Resolve picks the entry for req: by name when Algorithm is set, else by
// requirement, else the default.
func (c *Core) Resolve(req Request) (registry.Entry, error) {
	if req.Algorithm != "" {
		e, ok := c.registry.Lookup(req.Algorithm)
		if !ok {
			c.logger.Warn("unknown matcher, using default", "name", req.Algorithm, "default", c.registry.Default().Name())
			return c.registry.Default(), nil
		}
		return e, nil
	}

	if req.Require != "" {
		pred, err := registry.ParseRequirement(req.Require)
		if err != nil {
			return registry.Entry{}, err
		}
		return registry.Select(c.registry, pred), nil
	}

	return c.registry.Default(), nil
}

// Search runs a single request.
func (c *Core) Search(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := c.Resolve(req)
	if err != nil {
		return nil, err
	}

	m := entry.Matcher
	if req.Prefilter {
		m = prefilter.New(m)
	}

	offsets, err := m.Match(req.Haystack, req.Needle)
	if err != nil {
		return nil, fmt.Errorf("matcher %s: %w", entry.Name(), err)
	}
	if offsets == nil {
		offsets = []int{}
	}
	c.logger.Debug("search complete", "matcher", entry.Name(), "haystack_size", len(req.Haystack), "matches", len(offsets))

	result := &Result{
		Source:      req.Source,
		Matcher:     entry.Name(),
		Needle:      string(req.Needle),
		HaystackID:  types.ComputeHaystackID(req.Haystack),
		Offsets:     offsets,
		Occurrences: types.Occurrences(req.Haystack, offsets, len(req.Needle)),
	}

	if c.store != nil {
		record := &types.SearchRecord{
			HaystackID:   result.HaystackID,
			HaystackSize: len(req.Haystack),
			Needle:       result.Needle,
			Matcher:      result.Matcher,
			Offsets:      offsets,
		}
		if err := c.store.AddSearch(record); err != nil {
			return nil, fmt.Errorf("recording search: %w", err)
		}
	}

	return result, nil
}

// SearchBatch runs each request in order. Requests that fail are logged and
// skipped.
func (c *Core) SearchBatch(ctx context.Context, reqs []Request) (*BatchResult, error) {
	batch := &BatchResult{Results: []Result{}}

	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := c.Search(ctx, req)
		if err != nil {
			c.logger.Warn("search failed", "source", req.Source, "error", err)
			continue
		}

		batch.Results = append(batch.Results, *result)
		batch.Total += len(result.Offsets)
	}

	return batch, nil
}

// History returns recorded searches, or nil when no store is configured.
func (c *Core) History() ([]*types.SearchRecord, error) {
	if c.store == nil {
		return nil, nil
	}
	return c.store.GetSearches()
}

// Close releases the store.
func (c *Core) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
