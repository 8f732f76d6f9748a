//go:build wasm

package store

import "fmt"

// New creates an in-memory store for WASM builds, which have no filesystem.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return NewMemory(), nil
}
