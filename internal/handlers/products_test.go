package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/healthy-food/internal/models"
)

func TestListProducts_All(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "GET", "/api/products", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var products []models.Product
	decode(t, body.Data, &products)
	assert.Len(t, products, 30)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 30, body.Meta.Total)
	assert.Zero(t, body.Meta.ActiveFilters)
}

func TestListProducts_Filters(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "GET", "/api/products?allergies=nozes,ovos&max_price=20&sort=price", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var products []models.Product
	decode(t, body.Data, &products)
	require.NotEmpty(t, products)
	for i, p := range products {
		assert.NotContains(t, p.Allergens, "nozes", p.Name)
		assert.NotContains(t, p.Allergens, "ovos", p.Name)
		assert.LessOrEqual(t, p.Price, 20.0, p.Name)
		if i > 0 {
			assert.GreaterOrEqual(t, p.Price, products[i-1].Price)
		}
	}
	assert.Equal(t, 2, body.Meta.ActiveFilters)
}

func TestListProducts_QueryAndSupplier(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.do(t, "GET", "/api/products?q=QUINOA", nil)
	var products []models.Product
	decode(t, body.Data, &products)
	require.NotEmpty(t, products)
	assert.Equal(t, "Quinoa Orgânica", products[0].Name)

	_, body = env.do(t, "GET", "/api/products?supplier=Bio%20Market", nil)
	decode(t, body.Data, &products)
	assert.Len(t, products, 5)
	for _, p := range products {
		assert.Equal(t, "Bio Market", p.Supplier)
	}
}

func TestListProducts_InvertedRangeMatchesNothing(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "GET", "/api/products?min_price=50&max_price=10", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var products []models.Product
	decode(t, body.Data, &products)
	assert.Empty(t, products)
}

func TestListProducts_BadParams(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{
		"/api/products?min_price=abc",
		"/api/products?sort=sideways",
	} {
		resp, body := env.do(t, "GET", path, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, path)
		assert.False(t, body.Success)
		assert.NotEmpty(t, body.Error)
	}
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "GET", "/api/products/1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var p models.Product
	decode(t, body.Data, &p)
	assert.Equal(t, "Quinoa Orgânica", p.Name)

	resp, _ = env.do(t, "GET", "/api/products/999", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, "GET", "/api/products/abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProductFacets(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "GET", "/api/products/facets", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var facets models.FilterFacets
	decode(t, body.Data, &facets)
	assert.Contains(t, facets.Suppliers, "Mundo Verde")
	assert.NotEmpty(t, facets.Ingredients)
}

func TestSuppliers(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "GET", "/api/suppliers?sort=distance", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var suppliers []models.Supplier
	decode(t, body.Data, &suppliers)
	require.Len(t, suppliers, 8)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 1, body.Meta.ByType[models.SupplierPharmacy])
	byType := 0
	for _, n := range body.Meta.ByType {
		byType += n
	}
	assert.Equal(t, 8, byType)
	for i := 1; i < len(suppliers); i++ {
		assert.GreaterOrEqual(t, suppliers[i].Distance, suppliers[i-1].Distance)
	}

	_, body = env.do(t, "GET", "/api/suppliers?type=farmacia", nil)
	decode(t, body.Data, &suppliers)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "Farmácia Natural", suppliers[0].Name)

	resp, _ = env.do(t, "GET", "/api/suppliers?type=padaria", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, "GET", "/api/suppliers/42", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
