package catalog

import (
	"fmt"
	"os"

	"github.com/praetorian-inc/matchers/pkg/types"
	"gopkg.in/yaml.v3"
)

// Load parses a catalog from YAML bytes and validates it.
func Load(data []byte) (*Catalog, error) {
	var file yamlCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Matchers) == 0 {
		return nil, fmt.Errorf("no matchers found in YAML")
	}

	cat := &Catalog{Default: file.Default, Matchers: make([]Spec, 0, len(file.Matchers))}
	for _, ym := range file.Matchers {
		cat.Matchers = append(cat.Matchers, convertYAMLMatcher(ym))
	}

	if err := Validate(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// LoadFile loads a catalog from a YAML file path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	cat, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// LoadBuiltin loads the catalog embedded in the binary.
func LoadBuiltin() (*Catalog, error) {
	return Load(builtinCatalog)
}

func convertYAMLMatcher(ym yamlMatcher) Spec {
	return Spec{
		Name:        ym.Name,
		Engine:      ym.Engine,
		Description: ym.Description,
		Characteristics: types.Characteristics{
			Fast:         ym.Fast,
			Stable:       ym.Stable,
			Experimental: ym.Experimental,
		},
		Parallel:  ym.Parallel,
		ChunkSize: ym.ChunkSize,
	}
}
