package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/foxxcyber/healthy-food/internal/models"
)

//go:embed seed/catalog.yaml
var embeddedSeed []byte

var ErrInvalidSeed = errors.New("invalid catalog seed")

// Seed is the on-disk catalog format
type Seed struct {
	Suppliers []models.Supplier `yaml:"suppliers"`
	Products  []models.Product  `yaml:"products"`
}

// DefaultSeed parses the catalog bundled with the binary
func DefaultSeed() (*Seed, error) {
	return ParseSeed(embeddedSeed)
}

// LoadSeedFile reads a YAML catalog from disk. An empty path loads the bundled seed.
func LoadSeedFile(path string) (*Seed, error) {
	if path == "" {
		return DefaultSeed()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates a YAML catalog
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	for i := range seed.Products {
		if seed.Products[i].Ingredients == nil {
			seed.Products[i].Ingredients = []string{}
		}
		if seed.Products[i].Allergens == nil {
			seed.Products[i].Allergens = []string{}
		}
	}
	return &seed, nil
}

// Validate checks id uniqueness, supplier types and non-negative prices
func (s *Seed) Validate() error {
	supplierIDs := make(map[int]bool, len(s.Suppliers))
	for _, sup := range s.Suppliers {
		if supplierIDs[sup.ID] {
			return fmt.Errorf("%w: duplicate supplier id %d", ErrInvalidSeed, sup.ID)
		}
		if !sup.Type.Valid() {
			return fmt.Errorf("%w: supplier %q has unknown type %q", ErrInvalidSeed, sup.Name, sup.Type)
		}
		supplierIDs[sup.ID] = true
	}

	productIDs := make(map[int]bool, len(s.Products))
	for _, p := range s.Products {
		if productIDs[p.ID] {
			return fmt.Errorf("%w: duplicate product id %d", ErrInvalidSeed, p.ID)
		}
		if p.Name == "" {
			return fmt.Errorf("%w: product %d has no name", ErrInvalidSeed, p.ID)
		}
		if p.Price < 0 {
			return fmt.Errorf("%w: product %d has negative price", ErrInvalidSeed, p.ID)
		}
		if p.Rating < 0 || p.Rating > 5 {
			return fmt.Errorf("%w: product %d rating out of range", ErrInvalidSeed, p.ID)
		}
		productIDs[p.ID] = true
	}
	return nil
}

// Catalog builds a Catalog from the seed
func (s *Seed) Catalog(opts ...Option) *Catalog {
	return New(s.Products, s.Suppliers, opts...)
}
