package types

import "strings"

// Characteristics are declarative quality tags attached to a matcher when it
// is registered. They describe intent, not measured behavior.
type Characteristics struct {
	Fast         bool `json:"fast" yaml:"fast"`
	Stable       bool `json:"stable" yaml:"stable"`
	Experimental bool `json:"experimental" yaml:"experimental"`
}

// String renders the set tags as a comma-separated list, e.g. "fast,stable".
func (c Characteristics) String() string {
	var tags []string
	if c.Fast {
		tags = append(tags, "fast")
	}
	if c.Stable {
		tags = append(tags, "stable")
	}
	if c.Experimental {
		tags = append(tags, "experimental")
	}
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ",")
}

// Descriptor names a registered matcher and carries its characteristics.
type Descriptor struct {
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Characteristics Characteristics `json:"characteristics"`
}
