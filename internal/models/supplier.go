package models

// SupplierType categorises where a product can be bought
type SupplierType string

const (
	SupplierMarket       SupplierType = "mercado"
	SupplierNaturalStore SupplierType = "loja_natural"
	SupplierPharmacy     SupplierType = "farmacia"
	SupplierGym          SupplierType = "academia"
)

// Valid reports whether t is a known supplier type
func (t SupplierType) Valid() bool {
	switch t {
	case SupplierMarket, SupplierNaturalStore, SupplierPharmacy, SupplierGym:
		return true
	}
	return false
}

// Supplier represents a physical store that sells catalog products.
// Distance is a static value in km; no geospatial computation is done.
type Supplier struct {
	ID        int          `json:"id" yaml:"id"`
	Name      string       `json:"name" yaml:"name"`
	Address   string       `json:"address" yaml:"address"`
	Phone     string       `json:"phone" yaml:"phone"`
	Rating    float64      `json:"rating" yaml:"rating"`
	Distance  float64      `json:"distance" yaml:"distance"`
	Type      SupplierType `json:"type" yaml:"type"`
	Hours     string       `json:"hours" yaml:"hours"`
	Latitude  float64      `json:"latitude" yaml:"latitude"`
	Longitude float64      `json:"longitude" yaml:"longitude"`
}

// SupplierListParams contains parameters for listing suppliers
type SupplierListParams struct {
	Type         SupplierType
	SortDistance bool
}
