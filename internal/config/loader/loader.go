// Package loader reads configuration sources into generic maps.
//
// Files are parsed as TOML or YAML depending on their extension, and
// environment variables with a common prefix are folded into the same
// nested map shape so the layers can be merged with DeepMerge.
package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Loader produces one configuration layer for the rewind CLI.
type Loader interface {
	// Load returns the layer as a nested map. A source that does not exist
	// yields a nil map and no error, so an absent rewind.toml falls back to
	// the built-in defaults.
	Load() (map[string]any, error)
}

// FileLoader is a Loader bound to a config file that can also parse another
// path in the same format.
type FileLoader interface {
	Loader
	LoadFrom(path string) (map[string]any, error)
	LoadFromReader(r io.Reader) (map[string]any, error)
}

// FileSystem reads config files. Tests substitute an in-memory map.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS reads config files from disk.
type OSFS struct{}

// ReadFile reads path from disk.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the disk-backed FileSystem used by config.Load.
func DefaultFS() FileSystem {
	return OSFS{}
}

// ForPath returns the file loader matching path's extension.
// .toml selects TOML; .yaml and .yml select YAML.
func ForPath(fsys FileSystem, path string) (FileLoader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return NewTOMLLoaderWithFS(fsys, path), nil
	case ".yaml", ".yml":
		return NewYAMLLoaderWithFS(fsys, path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// readFile reads path. A missing file yields nil data.
func readFile(fsys FileSystem, path string) ([]byte, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return data, nil
}
