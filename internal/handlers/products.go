package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/healthy-food/internal/catalog"
	"github.com/foxxcyber/healthy-food/internal/middleware"
	"github.com/foxxcyber/healthy-food/internal/models"
)

// splitList parses a comma separated query value
func splitList(v string) []string {
	if v == "" {
		return []string{}
	}
	return catalog.NormalizeTerms(strings.Split(v, ","))
}

// filtersFromQuery builds SearchFilters from query parameters. Absent price
// bounds mean no constraint.
func filtersFromQuery(c *fiber.Ctx) (models.SearchFilters, error) {
	f := models.SearchFilters{
		Query:               strings.TrimSpace(c.Query("q")),
		IncludedIngredients: splitList(c.Query("include")),
		ExcludedIngredients: splitList(c.Query("exclude")),
		Allergies:           splitList(c.Query("allergies")),
		DietType:            c.Query("diet"),
		Location:            c.Query("location"),
	}
	if v := c.Query("min_price"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil || min < 0 {
			return f, errors.New("invalid min_price")
		}
		f.PriceRange.Min = min
	}
	if v := c.Query("max_price"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil || max < 0 {
			return f, errors.New("invalid max_price")
		}
		f.PriceRange.Max = max
	}
	return f, nil
}

func parseSort(c *fiber.Ctx) (models.SortBy, error) {
	switch s := models.SortBy(c.Query("sort")); s {
	case "", models.SortByPrice, models.SortByDistance, models.SortByRating:
		return s, nil
	default:
		return "", errors.New("sort must be one of price, distance, rating")
	}
}

// profileAllergies merges the logged-in user's dietary restrictions into f
func (h *Handler) profileAllergies(c *fiber.Ctx, f models.SearchFilters) (models.SearchFilters, error) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return f, nil
	}
	user, err := h.accounts.GetUserByID(c.Context(), userID)
	if err != nil {
		return f, err
	}
	return catalog.MergeAllergies(f, user.DietaryRestrictions), nil
}

// ListProducts evaluates the query filters against the catalog
// GET /api/products
func (h *Handler) ListProducts(c *fiber.Ctx) error {
	f, err := filtersFromQuery(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	sortBy, err := parseSort(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	if c.QueryBool("use_profile") {
		if f, err = h.profileAllergies(c, f); err != nil {
			return internalError(c, "failed to load profile", err)
		}
	}

	products := h.catalog.ListFiltered(f, c.Query("supplier"))
	catalog.SortProducts(products, sortBy)

	return SuccessWithMeta(c, products, Meta{
		Total:         len(products),
		ActiveFilters: catalog.ActiveFilterCount(f),
	})
}

// ProductFacets returns the values a filter panel can offer
// GET /api/products/facets
func (h *Handler) ProductFacets(c *fiber.Ctx) error {
	return Success(c, catalog.Facets(h.catalog.ListAll()))
}

// GetProduct returns one product
// GET /api/products/:id
func (h *Handler) GetProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid product id")
	}
	p, err := h.catalog.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return Error(c, fiber.StatusNotFound, "product not found")
		}
		return internalError(c, "failed to get product", err)
	}
	return Success(c, p)
}

// ListSuppliers lists suppliers, optionally by type and nearest first
// GET /api/suppliers
func (h *Handler) ListSuppliers(c *fiber.Ctx) error {
	params := models.SupplierListParams{
		Type:         models.SupplierType(c.Query("type")),
		SortDistance: c.Query("sort") == "distance",
	}
	if params.Type != "" && !params.Type.Valid() {
		return Error(c, fiber.StatusBadRequest, "invalid supplier type")
	}
	suppliers := h.catalog.Suppliers(params)
	return SuccessWithMeta(c, suppliers, Meta{Total: len(suppliers), ByType: h.catalog.SupplierCounts()})
}

// GetSupplier returns one supplier
// GET /api/suppliers/:id
func (h *Handler) GetSupplier(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid supplier id")
	}
	s, err := h.catalog.Supplier(id)
	if err != nil {
		if errors.Is(err, catalog.ErrSupplierNotFound) {
			return Error(c, fiber.StatusNotFound, "supplier not found")
		}
		return internalError(c, "failed to get supplier", err)
	}
	return Success(c, s)
}
