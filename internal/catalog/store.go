package catalog

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"github.com/foxxcyber/healthy-food/internal/models"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrSupplierNotFound = errors.New("supplier not found")
)

const defaultMemoSize = 256

// Catalog holds the immutable product and supplier lists and serves filtered
// views of them. Filtered views are memoized per (filters, supplier override).
type Catalog struct {
	products  []models.Product
	suppliers []models.Supplier
	byID      map[int]int

	mu       sync.RWMutex
	memo     map[string][]models.Product
	memoKeys []string
	memoSize int
}

// Option configures a Catalog
type Option func(*Catalog)

// WithMemoSize bounds the number of memoized filtered views. Zero disables memoization.
func WithMemoSize(n int) Option {
	return func(c *Catalog) {
		c.memoSize = n
	}
}

// New creates a catalog from the given products and suppliers
func New(products []models.Product, suppliers []models.Supplier, opts ...Option) *Catalog {
	c := &Catalog{
		products:  make([]models.Product, len(products)),
		suppliers: make([]models.Supplier, len(suppliers)),
		byID:      make(map[int]int, len(products)),
		memo:      make(map[string][]models.Product),
		memoSize:  defaultMemoSize,
	}
	for i, p := range products {
		c.products[i] = p.Clone()
		c.byID[p.ID] = i
	}
	copy(c.suppliers, suppliers)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListAll returns every product in catalog order
func (c *Catalog) ListAll() []models.Product {
	out := make([]models.Product, len(c.products))
	for i, p := range c.products {
		out[i] = p.Clone()
	}
	return out
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

// ListFiltered returns the products passing Evaluate, in catalog order.
// An empty result is an empty slice, never nil.
func (c *Catalog) ListFiltered(f models.SearchFilters, supplierOverride string) []models.Product {
	key, ok := memoKey(f, supplierOverride)
	if ok && c.memoSize > 0 {
		c.mu.RLock()
		cached, hit := c.memo[key]
		c.mu.RUnlock()
		if hit {
			return cloneAll(cached)
		}
	}

	result := []models.Product{}
	for _, p := range c.products {
		if Evaluate(p, f, supplierOverride) {
			result = append(result, p)
		}
	}

	if ok && c.memoSize > 0 {
		c.remember(key, result)
	}
	return cloneAll(result)
}

func (c *Catalog) remember(key string, result []models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.memo[key]; exists {
		return
	}
	if len(c.memoKeys) >= c.memoSize {
		oldest := c.memoKeys[0]
		c.memoKeys = c.memoKeys[1:]
		delete(c.memo, oldest)
	}
	c.memo[key] = result
	c.memoKeys = append(c.memoKeys, key)
}

// memoKey serialises the inputs into a stable key. Filters are plain data so
// json.Marshal only fails on NaN prices, in which case the memo is bypassed.
func memoKey(f models.SearchFilters, supplierOverride string) (string, bool) {
	b, err := json.Marshal(struct {
		F models.SearchFilters
		S string
	}{f, supplierOverride})
	if err != nil {
		return "", false
	}
	return string(b), true
}

func cloneAll(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}

// Get returns a product by ID
func (c *Catalog) Get(id int) (models.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return c.products[i].Clone(), nil
}

// Suppliers returns suppliers, optionally filtered by type and sorted by distance
func (c *Catalog) Suppliers(params models.SupplierListParams) []models.Supplier {
	out := []models.Supplier{}
	for _, s := range c.suppliers {
		if params.Type != "" && s.Type != params.Type {
			continue
		}
		out = append(out, s)
	}
	if params.SortDistance {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Distance < out[j].Distance
		})
	}
	return out
}

// Supplier returns a supplier by ID
func (c *Catalog) Supplier(id int) (models.Supplier, error) {
	for _, s := range c.suppliers {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Supplier{}, ErrSupplierNotFound
}

// SupplierByName returns the supplier whose name matches exactly
func (c *Catalog) SupplierByName(name string) (models.Supplier, error) {
	for _, s := range c.suppliers {
		if s.Name == name {
			return s, nil
		}
	}
	return models.Supplier{}, ErrSupplierNotFound
}

// SupplierCounts returns how many suppliers exist per type
func (c *Catalog) SupplierCounts() map[models.SupplierType]int {
	counts := make(map[models.SupplierType]int)
	for _, s := range c.suppliers {
		counts[s.Type]++
	}
	return counts
}

// SortProducts orders products in place: price and distance ascending, rating
// descending. Unknown keys leave the order unchanged.
func SortProducts(products []models.Product, by models.SortBy) {
	var less func(a, b models.Product) bool
	switch by {
	case models.SortByPrice:
		less = func(a, b models.Product) bool { return a.Price < b.Price }
	case models.SortByDistance:
		less = func(a, b models.Product) bool { return a.Distance < b.Distance }
	case models.SortByRating:
		less = func(a, b models.Product) bool { return a.Rating > b.Rating }
	default:
		return
	}
	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}

// Cheapest returns the lowest price among products, or 0 for an empty slice
func Cheapest(products []models.Product) float64 {
	if len(products) == 0 {
		return 0
	}
	min := products[0].Price
	for _, p := range products[1:] {
		if p.Price < min {
			min = p.Price
		}
	}
	return min
}
