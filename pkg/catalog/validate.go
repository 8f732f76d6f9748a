package catalog

import (
	"fmt"
	"regexp"

	"github.com/praetorian-inc/matchers/pkg/matcher"
)

var validName = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Validate checks the default, entry names, engines and chunk sizes.
func Validate(cat *Catalog) error {
	if cat.Default != "" && cat.Default != matcher.NameBruteForce {
		return fmt.Errorf("default %q: only %q can be the default matcher", cat.Default, matcher.NameBruteForce)
	}

	seen := make(map[string]bool, len(cat.Matchers))
	for i, s := range cat.Matchers {
		if s.Name == "" {
			return fmt.Errorf("matcher %d: name is required", i)
		}
		if !validName.MatchString(s.Name) {
			return fmt.Errorf("matcher %q: invalid name (lowercase letters, digits, '.', '_', '-')", s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("matcher %q: duplicate name", s.Name)
		}
		seen[s.Name] = true

		if !KnownEngine(s.EngineName()) {
			return fmt.Errorf("matcher %q: unknown engine %q", s.Name, s.EngineName())
		}
		if s.ChunkSize < 0 {
			return fmt.Errorf("matcher %q: chunk_size must not be negative", s.Name)
		}
		if s.ChunkSize > 0 && !s.Parallel {
			return fmt.Errorf("matcher %q: chunk_size requires parallel: true", s.Name)
		}
	}
	return nil
}
