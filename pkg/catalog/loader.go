package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/debloat/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Default returns a fresh copy of the embedded catalog.
func Default() *domain.Catalog {
	c, err := Parse(defaultYAML, ".yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// DefaultYAML returns the raw embedded catalog document.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// Load reads and validates a catalog file. The format follows the extension:
// ".json" is JSON, anything else is YAML.
func Load(path string) (*domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a catalog document.
func Parse(data []byte, ext string) (*domain.Catalog, error) {
	var c domain.Catalog
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse catalog json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// Open returns a static provider for path, or the embedded catalog when path is empty.
func Open(path string) (*Static, error) {
	if path == "" {
		return NewStatic(Default()), nil
	}
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewStatic(c), nil
}

// Static is a ports.CatalogProvider over a fixed catalog.
type Static struct {
	catalog *domain.Catalog
}

// NewStatic wraps c.
func NewStatic(c *domain.Catalog) *Static {
	return &Static{catalog: c}
}

// Catalog returns the wrapped catalog.
func (s *Static) Catalog() *domain.Catalog {
	return s.catalog
}
