package ports

// ConfigLoader reads a config file reference into a mapping from option
// name to value. File formats and templating are up to the implementation.
type ConfigLoader interface {
	Load(path string) (map[string]any, error)
}

// ConfigLoaderFunc adapts a plain function to ConfigLoader.
type ConfigLoaderFunc func(path string) (map[string]any, error)

// Load calls f(path).
func (f ConfigLoaderFunc) Load(path string) (map[string]any, error) {
	return f(path)
}
