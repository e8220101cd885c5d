package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/foxxcyber/healthy-food/internal/catalog"
	"github.com/foxxcyber/healthy-food/internal/metrics"
	"github.com/foxxcyber/healthy-food/internal/middleware"
	"github.com/foxxcyber/healthy-food/internal/models"
	"github.com/foxxcyber/healthy-food/internal/session"
	"github.com/foxxcyber/healthy-food/internal/shoplist"
)

// GetList returns the shopping list with totals
// GET /api/list
func (h *Handler) GetList(c *fiber.Ctx) error {
	st, err := h.sessions.Get(c.Context(), middleware.GetSessionID(c))
	if err != nil {
		return internalError(c, "failed to load session", err)
	}
	return Success(c, st.List.View())
}

// ShareList returns the list as shareable text
// GET /api/list/share
func (h *Handler) ShareList(c *fiber.Ctx) error {
	st, err := h.sessions.Get(c.Context(), middleware.GetSessionID(c))
	if err != nil {
		return internalError(c, "failed to load session", err)
	}
	return Success(c, fiber.Map{"text": st.List.ShareText()})
}

// AddListItem adds a product from a supplier, merging with an existing line
// POST /api/list/items
func (h *Handler) AddListItem(c *fiber.Ctx) error {
	var req models.AddListItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	product, err := h.catalog.Get(req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return Error(c, fiber.StatusNotFound, "product not found")
		}
		return internalError(c, "failed to get product", err)
	}

	var supplier models.Supplier
	if req.SupplierID != 0 {
		supplier, err = h.catalog.Supplier(req.SupplierID)
	} else {
		supplier, err = h.catalog.SupplierByName(product.Supplier)
	}
	if err != nil {
		if errors.Is(err, catalog.ErrSupplierNotFound) {
			return Error(c, fiber.StatusNotFound, "supplier not found")
		}
		return internalError(c, "failed to get supplier", err)
	}

	var item models.ShoppingListItem
	st, err := h.sessions.Update(c.Context(), middleware.GetSessionID(c), func(st *session.State) error {
		item = st.List.AddItem(product, supplier, req.Quantity)
		return nil
	})
	if err != nil {
		return internalError(c, "failed to save session", err)
	}
	metrics.RecordListOp("add")

	return Created(c, fiber.Map{
		"item": item,
		"list": st.List.View(),
	})
}

// UpdateListItem sets a line's quantity; zero or less removes the line
// PUT /api/list/items/:id
func (h *Handler) UpdateListItem(c *fiber.Ctx) error {
	var req models.UpdateListItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	id := c.Params("id")

	st, err := h.sessions.Update(c.Context(), middleware.GetSessionID(c), func(st *session.State) error {
		if _, err := st.List.Item(id); err != nil {
			return err
		}
		st.List.UpdateQuantity(id, req.Quantity)
		return nil
	})
	if err != nil {
		if errors.Is(err, shoplist.ErrItemNotFound) {
			return Error(c, fiber.StatusNotFound, "list item not found")
		}
		return internalError(c, "failed to save session", err)
	}
	metrics.RecordListOp("update")
	return Success(c, st.List.View())
}

// RemoveListItem removes a line
// DELETE /api/list/items/:id
func (h *Handler) RemoveListItem(c *fiber.Ctx) error {
	id := c.Params("id")
	st, err := h.sessions.Update(c.Context(), middleware.GetSessionID(c), func(st *session.State) error {
		if _, err := st.List.Item(id); err != nil {
			return err
		}
		st.List.RemoveItem(id)
		return nil
	})
	if err != nil {
		if errors.Is(err, shoplist.ErrItemNotFound) {
			return Error(c, fiber.StatusNotFound, "list item not found")
		}
		return internalError(c, "failed to save session", err)
	}
	metrics.RecordListOp("remove")
	return Success(c, st.List.View())
}

// ClearList empties the shopping list
// DELETE /api/list
func (h *Handler) ClearList(c *fiber.Ctx) error {
	st, err := h.sessions.Update(c.Context(), middleware.GetSessionID(c), func(st *session.State) error {
		st.List.Clear()
		return nil
	})
	if err != nil {
		return internalError(c, "failed to save session", err)
	}
	metrics.RecordListOp("clear")
	return Success(c, st.List.View())
}

const maxImportLines = 100

// ImportResult is the outcome of a list import
type ImportResult struct {
	Lines     []shoplist.ImportLine   `json:"lines"`
	Added     int                     `json:"added"`
	Unmatched int                     `json:"unmatched"`
	List      models.ShoppingListView `json:"list"`
}

// ImportList adds the products named in pasted text, such as a list shared
// from another device or a recipe app export. Lines that match no product
// are reported with suggestions instead of being added.
// POST /api/list/import
func (h *Handler) ImportList(c *fiber.Ctx) error {
	var req models.ImportListRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return Error(c, fiber.StatusBadRequest, "text is required")
	}

	parsed := shoplist.ParseText(req.Text)
	if len(parsed) == 0 {
		return Error(c, fiber.StatusBadRequest, "no list items found")
	}
	if len(parsed) > maxImportLines {
		return Error(c, fiber.StatusBadRequest, "too many lines to import")
	}

	lines := shoplist.Resolve(parsed, h.catalog.ListAll())
	result := ImportResult{Lines: lines}

	st, err := h.sessions.Update(c.Context(), middleware.GetSessionID(c), func(st *session.State) error {
		for i := range lines {
			line := &lines[i]
			if line.Match == nil {
				result.Unmatched++
				continue
			}
			supplier, err := h.catalog.SupplierByName(line.Supplier)
			if err != nil {
				supplier, err = h.catalog.SupplierByName(line.Match.Product.Supplier)
			}
			if err != nil {
				line.Match = nil
				result.Unmatched++
				continue
			}
			item := st.List.AddItem(line.Match.Product, supplier, line.Quantity)
			line.ItemID = item.ID
			result.Added++
		}
		return nil
	})
	if err != nil {
		return internalError(c, "failed to save session", err)
	}
	if result.Added > 0 {
		metrics.RecordListOp("import")
	}

	middleware.Logger(c).Info("Shopping list imported",
		zap.Int("lines", len(lines)), zap.Int("added", result.Added), zap.Int("unmatched", result.Unmatched))

	result.List = st.List.View()
	return Success(c, result)
}
