// Package enum discovers haystacks to search.
package enum

import (
	"context"

	"github.com/praetorian-inc/matchers/pkg/types"
)

// Callback receives one haystack, its content ID and the path it was read
// from. It may be called concurrently.
type Callback func(content []byte, id types.HaystackID, path string) error

// Enumerator discovers haystacks from a source.
type Enumerator interface {
	Enumerate(ctx context.Context, callback Callback) error
}

// Config for enumeration.
type Config struct {
	// Root is the starting path for enumeration. A regular file is
	// enumerated on its own.
	Root string

	// IncludeHidden includes hidden files/directories (starting with .).
	IncludeHidden bool

	// IncludeBinary includes files with NUL bytes in their first 8KB.
	IncludeBinary bool

	// MaxFileSize is the maximum file size to process (0 = no limit).
	MaxFileSize int64

	// FollowSymlinks follows symbolic links.
	FollowSymlinks bool

	// Workers bounds parallel file reads (0 = GOMAXPROCS).
	Workers int
}
