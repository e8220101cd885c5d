package handlers

import (
	"math"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/healthy-food/internal/models"
	"github.com/foxxcyber/healthy-food/internal/session"
	"github.com/foxxcyber/healthy-food/internal/shoplist"
)

func TestSession_NewSessionHasDefaults(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "GET", "/api/session", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var view SessionView
	decode(t, body.Data, &view)
	assert.Equal(t, resp.Header.Get(session.HeaderName), view.ID)
	assert.Equal(t, 100.0, view.Filters.PriceRange.Max)
	assert.Empty(t, view.List.Items)
	assert.Nil(t, view.Location)
}

func TestSession_FiltersPersistPerSession(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)

	filters := models.SearchFilters{
		Query:      "  leite ",
		Allergies:  []string{" lactose ", "lactose", ""},
		DietType:   "Vegana",
		PriceRange: models.PriceRange{Min: 0, Max: 30},
	}
	resp, body := env.do(t, "PUT", "/api/session/filters", filters, session.HeaderName, sid)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var saved models.SearchFilters
	decode(t, body.Data, &saved)
	assert.Equal(t, "leite", saved.Query)
	assert.Equal(t, []string{"lactose"}, saved.Allergies)

	_, body = env.do(t, "GET", "/api/session", nil, session.HeaderName, sid)
	var view SessionView
	decode(t, body.Data, &view)
	assert.Equal(t, 2, view.ActiveFilters)

	// another session is untouched
	_, body = env.do(t, "GET", "/api/session/filters", nil)
	var other models.SearchFilters
	decode(t, body.Data, &other)
	assert.Empty(t, other.Query)

	_, body = env.do(t, "DELETE", "/api/session/filters", nil, session.HeaderName, sid)
	var cleared models.SearchFilters
	decode(t, body.Data, &cleared)
	assert.Equal(t, "leite", cleared.Query)
	assert.Empty(t, cleared.Allergies)
	assert.Empty(t, cleared.DietType)
}

func TestSession_RejectsNegativePrice(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, "PUT", "/api/session/filters", models.SearchFilters{PriceRange: models.PriceRange{Min: -1}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSession_SupplierOverride(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)

	resp, _ := env.do(t, "PUT", "/api/session/supplier", models.SetSupplierRequest{Supplier: "Nowhere"}, session.HeaderName, sid)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, "PUT", "/api/session/supplier", models.SetSupplierRequest{Supplier: "Frutas do Norte"}, session.HeaderName, sid)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, body := env.do(t, "GET", "/api/session/products", nil, session.HeaderName, sid)
	var products []models.Product
	decode(t, body.Data, &products)
	assert.Len(t, products, 4)
	for _, p := range products {
		assert.Equal(t, "Frutas do Norte", p.Supplier)
	}

	env.do(t, "DELETE", "/api/session/supplier", nil, session.HeaderName, sid)
	_, body = env.do(t, "GET", "/api/session/products", nil, session.HeaderName, sid)
	decode(t, body.Data, &products)
	assert.Greater(t, len(products), 4)
}

func TestList_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)

	resp, body := env.do(t, "POST", "/api/list/items", models.AddListItemRequest{ProductID: 1, Quantity: 2}, session.HeaderName, sid)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var added struct {
		Item models.ShoppingListItem `json:"item"`
		List models.ShoppingListView `json:"list"`
	}
	decode(t, body.Data, &added)
	assert.Equal(t, "Mundo Verde", added.Item.Supplier.Name)
	assert.Equal(t, 2, added.List.ItemCount)
	assert.InDelta(t, 31.98, added.List.TotalValue, 0.001)

	// same product and supplier merges into one line
	env.do(t, "POST", "/api/list/items", models.AddListItemRequest{ProductID: 1, Quantity: 1}, session.HeaderName, sid)
	_, body = env.do(t, "GET", "/api/list", nil, session.HeaderName, sid)
	var view models.ShoppingListView
	decode(t, body.Data, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)

	_, body = env.do(t, "GET", "/api/list/share", nil, session.HeaderName, sid)
	var share struct {
		Text string `json:"text"`
	}
	decode(t, body.Data, &share)
	assert.Equal(t, "3x Quinoa Orgânica - Mundo Verde", share.Text)

	itemPath := "/api/list/items/" + added.Item.ID
	resp, _ = env.do(t, "PUT", itemPath, models.UpdateListItemRequest{Quantity: 5}, session.HeaderName, sid)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, "PUT", "/api/list/items/missing", models.UpdateListItemRequest{Quantity: 5}, session.HeaderName, sid)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, "DELETE", itemPath, nil, session.HeaderName, sid)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	_, body = env.do(t, "GET", "/api/list", nil, session.HeaderName, sid)
	decode(t, body.Data, &view)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.TotalValue)
}

func TestList_QuantityIsCapped(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)

	env.do(t, "POST", "/api/list/items", models.AddListItemRequest{ProductID: 1, Quantity: math.MaxInt}, session.HeaderName, sid)
	resp, body := env.do(t, "POST", "/api/list/items", models.AddListItemRequest{ProductID: 1, Quantity: 1}, session.HeaderName, sid)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var added struct {
		List models.ShoppingListView `json:"list"`
	}
	decode(t, body.Data, &added)
	assert.Equal(t, shoplist.MaxQuantity, added.List.ItemCount)
	assert.Positive(t, added.List.TotalValue)
}

func TestSession_Reset(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)

	env.do(t, "POST", "/api/list/items", models.AddListItemRequest{ProductID: 1, Quantity: 2}, session.HeaderName, sid)
	env.do(t, "PUT", "/api/session/supplier", models.SetSupplierRequest{Supplier: "Frutas do Norte"}, session.HeaderName, sid)

	resp, body := env.do(t, "DELETE", "/api/session", nil, session.HeaderName, sid)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var view SessionView
	decode(t, body.Data, &view)
	assert.Equal(t, sid, view.ID)
	assert.Empty(t, view.List.Items)
	assert.Empty(t, view.SupplierOverride)
}

func TestList_AddUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, "POST", "/api/list/items", models.AddListItemRequest{ProductID: 999, Quantity: 1})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "product not found", body.Error)
}

func TestList_Clear(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)

	env.do(t, "POST", "/api/list/items", models.AddListItemRequest{ProductID: 1, Quantity: 1}, session.HeaderName, sid)
	env.do(t, "POST", "/api/list/items", models.AddListItemRequest{ProductID: 2, Quantity: 1}, session.HeaderName, sid)

	resp, body := env.do(t, "DELETE", "/api/list", nil, session.HeaderName, sid)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var view models.ShoppingListView
	decode(t, body.Data, &view)
	assert.Empty(t, view.Items)
}

func TestList_Import(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)

	text := "2x Quinoa Orgânica - Bio Market\n- [ ] chia organica\nPizza congelada\n"
	resp, body := env.do(t, "POST", "/api/list/import", models.ImportListRequest{Text: text}, session.HeaderName, sid)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body.Error)

	var result ImportResult
	decode(t, body.Data, &result)
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 1, result.Unmatched)
	require.Len(t, result.Lines, 3)
	assert.Nil(t, result.Lines[2].Match)

	require.Len(t, result.List.Items, 2)
	assert.Equal(t, "Bio Market", result.List.Items[0].Supplier.Name)
	assert.Equal(t, 2, result.List.Items[0].Quantity)
	assert.Equal(t, "Chia Orgânica", result.List.Items[1].Product.Name)
}

func TestList_ImportRejectsEmptyText(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, "POST", "/api/list/import", models.ImportListRequest{Text: "  \n# titulo\n"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
