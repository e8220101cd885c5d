package catalog

import (
	"strings"

	"github.com/foxxcyber/healthy-food/internal/models"
)

// MatchMode selects how ContainsCaseInsensitive combines needles
type MatchMode int

const (
	// MatchAny is satisfied when some needle occurs in some haystack entry
	MatchAny MatchMode = iota
	// MatchAll is satisfied when every needle occurs in some haystack entry
	MatchAll
)

const (
	defaultMinPrice = 0
	defaultMaxPrice = 100
)

// DefaultFilters returns the filters a new session starts with
func DefaultFilters() models.SearchFilters {
	return models.SearchFilters{
		IncludedIngredients: []string{},
		ExcludedIngredients: []string{},
		Allergies:           []string{},
		PriceRange:          models.PriceRange{Min: defaultMinPrice, Max: defaultMaxPrice},
	}
}

// ClearFilters resets every filter except the free-text query
func ClearFilters(f models.SearchFilters) models.SearchFilters {
	cleared := DefaultFilters()
	cleared.Query = f.Query
	return cleared
}

// ContainsCaseInsensitive reports whether needles occur as case-insensitive
// substrings of the haystack entries. Matching is substring containment, so
// "leite" matches "leite de coco".
func ContainsCaseInsensitive(haystack, needles []string, mode MatchMode) bool {
	if len(needles) == 0 {
		return mode == MatchAll
	}

	lowered := make([]string, len(haystack))
	for i, h := range haystack {
		lowered[i] = strings.ToLower(h)
	}

	for _, needle := range needles {
		found := containsAny(lowered, strings.ToLower(needle))
		if mode == MatchAny && found {
			return true
		}
		if mode == MatchAll && !found {
			return false
		}
	}

	return mode == MatchAll
}

func containsAny(lowered []string, needle string) bool {
	for _, h := range lowered {
		if strings.Contains(h, needle) {
			return true
		}
	}
	return false
}

// Evaluate decides whether a product passes the filters. supplierOverride, when
// non-empty, restricts the result to products whose supplier name matches exactly.
// DietType and Location are not consulted.
func Evaluate(p models.Product, f models.SearchFilters, supplierOverride string) bool {
	if supplierOverride != "" && p.Supplier != supplierOverride {
		return false
	}

	if f.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Query)) {
		return false
	}

	if len(f.IncludedIngredients) > 0 && !ContainsCaseInsensitive(p.Ingredients, f.IncludedIngredients, MatchAny) {
		return false
	}

	if len(f.ExcludedIngredients) > 0 && ContainsCaseInsensitive(p.Ingredients, f.ExcludedIngredients, MatchAny) {
		return false
	}

	if len(f.Allergies) > 0 && ContainsCaseInsensitive(p.Allergens, f.Allergies, MatchAny) {
		return false
	}

	return inPriceRange(p.Price, f.PriceRange)
}

// inPriceRange applies inclusive bounds. A zero Max means no upper bound, so a
// zero-value range accepts every price.
func inPriceRange(price float64, r models.PriceRange) bool {
	if price < r.Min {
		return false
	}
	if r.Max > 0 && price > r.Max {
		return false
	}
	return true
}

// ActiveFilterCount counts the filters shown as active in the filter badge
func ActiveFilterCount(f models.SearchFilters) int {
	count := len(f.Allergies) + len(f.IncludedIngredients) + len(f.ExcludedIngredients)
	if f.DietType != "" {
		count++
	}
	return count
}

// MergeAllergies returns f with extra allergies appended, skipping duplicates
func MergeAllergies(f models.SearchFilters, extra []string) models.SearchFilters {
	seen := make(map[string]bool, len(f.Allergies))
	merged := make([]string, 0, len(f.Allergies)+len(extra))
	for _, a := range append(append([]string{}, f.Allergies...), extra...) {
		a = strings.TrimSpace(a)
		key := strings.ToLower(a)
		if a == "" || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, a)
	}
	f.Allergies = merged
	return f
}

// NormalizeTerms trims entries and drops blanks and duplicates, keeping order
func NormalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
