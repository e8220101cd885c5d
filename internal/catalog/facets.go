package catalog

import (
	"sort"
	"strings"

	"github.com/foxxcyber/healthy-food/internal/models"
)

// CommonAllergies are the allergy chips offered in the filter panel
var CommonAllergies = []string{"Glúten", "Lactose", "Nozes", "Soja", "Ovos", "Peixe", "Crustáceos"}

// DietTypes are the diet tags offered in the filter panel
var DietTypes = []string{"Vegana", "Vegetariana", "Keto", "Low Carb", "Paleo", "Mediterrânea"}

// Facets summarises products into the values a filter panel can offer
func Facets(products []models.Product) *models.FilterFacets {
	facets := &models.FilterFacets{
		Ingredients: []string{},
		Allergens:   []string{},
		Suppliers:   []string{},
		Allergies:   append([]string{}, CommonAllergies...),
		DietTypes:   append([]string{}, DietTypes...),
	}

	ingredients := make(map[string]bool)
	allergens := make(map[string]bool)
	suppliers := make(map[string]bool)

	facets.PriceRange.Min = Cheapest(products)
	for _, p := range products {
		if p.Price > facets.PriceRange.Max {
			facets.PriceRange.Max = p.Price
		}
		if p.InStock {
			facets.InStock++
		} else {
			facets.OutOfStock++
		}
		for _, ing := range p.Ingredients {
			ingredients[strings.ToLower(ing)] = true
		}
		for _, a := range p.Allergens {
			allergens[strings.ToLower(a)] = true
		}
		suppliers[p.Supplier] = true
	}

	facets.Ingredients = sortedKeys(ingredients)
	facets.Allergens = sortedKeys(allergens)
	facets.Suppliers = sortedKeys(suppliers)
	return facets
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
