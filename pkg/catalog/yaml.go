package catalog

// yamlMatcher is the intermediate struct for one catalog entry.
type yamlMatcher struct {
	Name         string `yaml:"name"`
	Engine       string `yaml:"engine,omitempty"`
	Description  string `yaml:"description,omitempty"`
	Fast         bool   `yaml:"fast"`
	Stable       bool   `yaml:"stable"`
	Experimental bool   `yaml:"experimental"`
	Parallel     bool   `yaml:"parallel,omitempty"`
	ChunkSize    int    `yaml:"chunk_size,omitempty"`
}

// yamlCatalogFile is the top-level structure of a catalog YAML file.
type yamlCatalogFile struct {
	Default  string        `yaml:"default,omitempty"`
	Matchers []yamlMatcher `yaml:"matchers"`
}
