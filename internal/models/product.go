package models

// Nutrition holds the per-100g nutrition facts of a product
type Nutrition struct {
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
}

// Product represents a catalog product sold by a supplier.
// Supplier is the supplier's display name, not a foreign key.
type Product struct {
	ID          int       `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Price       float64   `json:"price" yaml:"price"`
	Image       string    `json:"image" yaml:"image"`
	Supplier    string    `json:"supplier" yaml:"supplier"`
	Rating      float64   `json:"rating" yaml:"rating"`
	Ingredients []string  `json:"ingredients" yaml:"ingredients"`
	Allergens   []string  `json:"allergens" yaml:"allergens"`
	Nutrition   Nutrition `json:"nutrition" yaml:"nutrition"`
	Distance    float64   `json:"distance" yaml:"distance"` // km
	InStock     bool      `json:"in_stock" yaml:"in_stock"`
}

// Clone returns a deep copy so callers can't mutate catalog slices
func (p Product) Clone() Product {
	c := p
	c.Ingredients = append([]string{}, p.Ingredients...)
	c.Allergens = append([]string{}, p.Allergens...)
	return c
}

// PriceRange is an inclusive [Min, Max] price bound
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SearchFilters contains the user-selected product filters
type SearchFilters struct {
	Query               string     `json:"query"`
	IncludedIngredients []string   `json:"included_ingredients"`
	ExcludedIngredients []string   `json:"excluded_ingredients"`
	Allergies           []string   `json:"allergies"`
	DietType            string     `json:"diet_type"`
	PriceRange          PriceRange `json:"price_range"`
	// Location is collected from the user but not used for filtering yet
	Location string `json:"location"`
}

// SortBy selects the ordering of product listings
type SortBy string

const (
	SortByPrice    SortBy = "price"
	SortByDistance SortBy = "distance"
	SortByRating   SortBy = "rating"
)

// ProductListParams contains parameters for listing products
type ProductListParams struct {
	Filters          SearchFilters
	SupplierOverride string
	Sort             SortBy
	UseProfile       bool
}

// FilterFacets describes the values a client can offer in its filter panel
type FilterFacets struct {
	PriceRange  PriceRange `json:"price_range"`
	InStock     int        `json:"in_stock"`
	OutOfStock  int        `json:"out_of_stock"`
	Ingredients []string   `json:"ingredients"`
	Allergens   []string   `json:"allergens"`
	Suppliers   []string   `json:"suppliers"`
	Allergies   []string   `json:"common_allergies"`
	DietTypes   []string   `json:"diet_types"`
}
