package taxonomy

import (
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/industry-atlas/internal/model"
	"gopkg.in/yaml.v3"
)

// fileFormat is the YAML layout of a taxonomy override file:
//
//	categories:
//	  - id: A
//	    label: Agriculture & Farming
//	    keywords: [agriculture, farming]
//	  - id: T
//	    label: Other
//	    fallback: true
//	    keywords: [repair]
type fileFormat struct {
	Categories []model.CategoryDefinition `yaml:"categories"`
}

// Load reads a YAML category table from r.
func Load(r io.Reader) (*Table, error) {
	var f fileFormat
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty taxonomy file", ErrInvalidTaxonomy)
		}
		return nil, fmt.Errorf("failed to decode taxonomy: %w", err)
	}
	return New(f.Categories)
}

// LoadFile reads a YAML category table from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open taxonomy file: %w", err)
	}
	defer func() { _ = f.Close() }()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("taxonomy file %s: %w", path, err)
	}
	return t, nil
}
