package curriculum

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/curriculum.yaml
var embeddedCatalog []byte

type catalogFile struct {
	Version int      `yaml:"version"`
	Tracks  []Track  `yaml:"tracks"`
	Lessons []Lesson `yaml:"lessons"`
}

var (
	defaultOnce sync.Once
	defaultRepo *Static
	defaultErr  error
)

// Default returns the embedded catalog. The catalog is parsed and validated
// once per process.
func Default() (*Static, error) {
	defaultOnce.Do(func() {
		defaultRepo, defaultErr = Parse(embeddedCatalog)
	})
	return defaultRepo, defaultErr
}

// LoadFile reads a catalog from a YAML file on disk.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curriculum: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog. Unknown fields are rejected.
func Parse(data []byte) (*Static, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f catalogFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode curriculum: %w", err)
	}
	if f.Version != CatalogVersion {
		return nil, fmt.Errorf("curriculum version %d, want %d", f.Version, CatalogVersion)
	}
	return NewStatic(f.Tracks, f.Lessons)
}
