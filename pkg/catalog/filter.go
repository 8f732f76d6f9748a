package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

// FilterConfig specifies include and exclude patterns for catalog entries.
type FilterConfig struct {
	Include []string // Regex patterns - only matching names included
	Exclude []string // Regex patterns - matching names excluded
}

// ParsePatterns splits a comma-separated string into trimmed patterns.
func ParsePatterns(patterns string) []string {
	if patterns == "" {
		return []string{}
	}

	parts := strings.Split(patterns, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Filter returns a catalog restricted by name. Include is applied first,
// then exclude; an empty include keeps everything. Order is preserved.
func Filter(cat *Catalog, config FilterConfig) (*Catalog, error) {
	include, err := compileAll(config.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileAll(config.Exclude)
	if err != nil {
		return nil, err
	}

	out := &Catalog{Default: cat.Default, Matchers: make([]Spec, 0, len(cat.Matchers))}
	for _, s := range cat.Matchers {
		if len(include) > 0 && !matchesAny(s.Name, include) {
			continue
		}
		if matchesAny(s.Name, exclude) {
			continue
		}
		out.Matchers = append(out.Matchers, s)
	}
	return out, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func matchesAny(name string, regexes []*regexp.Regexp) bool {
	for _, re := range regexes {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
