package config

import (
	"maps"
	"path/filepath"
	"strings"

	"github.com/aretw0/ooor/pkg/domain"
)

type sourceKind int

const (
	kindMap sourceKind = iota
	kindDescriptor
	kindFile
)

// Source is the raw input of a resolution.
type Source struct {
	kind       sourceKind
	path       string
	descriptor string
	values     map[string]any
}

// FromFile references a config file, read through the resolver's ConfigLoader.
func FromFile(path string) Source {
	return Source{kind: kindFile, path: path}
}

// FromString treats s as a file reference when it ends in .yml or .yaml,
// and as a connection descriptor otherwise.
func FromString(s string) Source {
	switch strings.ToLower(filepath.Ext(s)) {
	case ".yml", ".yaml":
		return FromFile(s)
	}
	return Source{kind: kindDescriptor, descriptor: s}
}

// FromMap uses m as the partial config. m is not modified.
func FromMap(m map[string]any) Source {
	return Source{kind: kindMap, values: maps.Clone(m)}
}

// FromConfig uses an already structured config.
func FromConfig(c domain.Config) Source {
	return FromMap(c.Map())
}
