// Package configs holds the data files compiled into the binary.
package configs

import _ "embed"

// Symbols is the default symbol catalog (symbols.yaml).
//
//go:embed symbols.yaml
var Symbols []byte
