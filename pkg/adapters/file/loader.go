package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader for YAML and JSON files.
//
// A file may hold the options at its top level or group them per
// environment:
//
//	development:
//	  url: http://localhost:8069
//	  database: dev
//	production:
//	  ooor_url: admin:secret@erp.example.com:443/prod
//
// Only the section of the selected environment is returned, "development"
// unless WithEnvironment says otherwise. Files without a matching section
// are returned whole.
type Loader struct {
	env string
}

// DefaultEnvironment is the section read when no environment is selected.
const DefaultEnvironment = "development"

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithEnvironment selects a top-level section. An empty env keeps
// DefaultEnvironment.
func WithEnvironment(env string) LoaderOption {
	return func(l *Loader) {
		if env != "" {
			l.env = env
		}
	}
}

// NewLoader creates a config file loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{env: DefaultEnvironment}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads path and returns its options. JSON is chosen by extension,
// everything else is parsed as YAML.
func (l *Loader) Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	if section, ok := raw[l.env].(map[string]any); ok {
		return section, nil
	}
	return raw, nil
}
