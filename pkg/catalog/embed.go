package catalog

import _ "embed"

// builtinCatalog is the default matcher catalog shipped with the binary.
//
//go:embed builtin.yml
var builtinCatalog []byte
