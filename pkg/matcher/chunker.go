package matcher

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ChunkConfig configures parallel chunked matching.
type ChunkConfig struct {
	MaxChunkSize int // Bytes of haystack owned by each chunk (default: 1MB)
	Workers      int // Concurrent workers (default: GOMAXPROCS)
}

// DefaultChunkConfig returns production defaults.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxChunkSize: 1024 * 1024,
		Workers:      runtime.GOMAXPROCS(0),
	}
}

// Chunk is a window of the haystack. It owns offsets [StartOffset, OwnedEnd)
// and extends past OwnedEnd by len(needle)-1 bytes so a match starting in the
// owned range is always fully contained.
type Chunk struct {
	Content     []byte
	StartOffset int
	OwnedEnd    int
	Index       int
}

// ChunkContent splits haystack into chunks for a needle of length needleLen.
// Content that fits in one chunk is returned whole.
func ChunkContent(haystack []byte, needleLen int, config ChunkConfig) []Chunk {
	size := config.MaxChunkSize
	if size <= 0 || len(haystack) <= size {
		return []Chunk{{
			Content:     haystack,
			StartOffset: 0,
			OwnedEnd:    len(haystack),
			Index:       0,
		}}
	}

	overlap := max(0, needleLen-1)
	var chunks []Chunk
	for start := 0; start < len(haystack); start += size {
		owned := min(start+size, len(haystack))
		end := min(owned+overlap, len(haystack))
		chunks = append(chunks, Chunk{
			Content:     haystack[start:end],
			StartOffset: start,
			OwnedEnd:    owned,
			Index:       len(chunks),
		})
	}
	return chunks
}

// Chunked runs an inner matcher over haystack chunks concurrently and merges
// the per-chunk offsets back into one ascending result.
type Chunked struct {
	inner  Matcher
	config ChunkConfig
}

// NewChunked wraps inner for parallel chunked matching.
func NewChunked(inner Matcher, config ChunkConfig) *Chunked {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	return &Chunked{inner: inner, config: config}
}

// Name implements Matcher.
func (c *Chunked) Name() string {
	return c.inner.Name() + "-parallel"
}

// Match implements Matcher.
func (c *Chunked) Match(haystack, needle []byte) ([]int, error) {
	if !searchable(haystack, needle) {
		return nil, nil
	}

	chunks := ChunkContent(haystack, len(needle), c.config)
	if len(chunks) == 1 {
		return c.inner.Match(haystack, needle)
	}

	results := make([][]int, len(chunks))

	var g errgroup.Group
	g.SetLimit(c.config.Workers)
	for i, chunk := range chunks {
		g.Go(func() error {
			local, err := c.inner.Match(chunk.Content, needle)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", chunk.Index, err)
			}
			owned := make([]int, 0, len(local))
			for _, off := range local {
				abs := chunk.StartOffset + off
				if abs >= chunk.OwnedEnd {
					break
				}
				owned = append(owned, abs)
			}
			results[i] = owned
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Chunks are disjoint in owned ranges and in offset order, so
	// concatenation preserves ascending order.
	var positions []int
	for _, r := range results {
		positions = append(positions, r...)
	}
	return positions, nil
}
