package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/healthy-food/internal/catalog"
	"github.com/foxxcyber/healthy-food/internal/geo"
	"github.com/foxxcyber/healthy-food/internal/middleware"
	"github.com/foxxcyber/healthy-food/internal/models"
	"github.com/foxxcyber/healthy-food/internal/session"
)

// SessionView is the client-visible session state
type SessionView struct {
	ID               string                  `json:"id"`
	Filters          models.SearchFilters    `json:"filters"`
	ActiveFilters    int                     `json:"active_filters"`
	SupplierOverride string                  `json:"supplier_override"`
	List             models.ShoppingListView `json:"list"`
	Location         *geo.Position           `json:"location,omitempty"`
}

func sessionView(id string, st *session.State) SessionView {
	return SessionView{
		ID:               id,
		Filters:          st.Filters,
		ActiveFilters:    catalog.ActiveFilterCount(st.Filters),
		SupplierOverride: st.SupplierOverride,
		List:             st.List.View(),
		Location:         st.Location,
	}
}

// GetSession returns the whole session state
// GET /api/session
func (h *Handler) GetSession(c *fiber.Ctx) error {
	id := middleware.GetSessionID(c)
	st, err := h.sessions.Get(c.Context(), id)
	if err != nil {
		return internalError(c, "failed to load session", err)
	}
	return Success(c, sessionView(id, st))
}

// ResetSession forgets the session's filters, supplier and list
// DELETE /api/session
func (h *Handler) ResetSession(c *fiber.Ctx) error {
	id := middleware.GetSessionID(c)
	if err := h.sessions.Reset(c.Context(), id); err != nil {
		return internalError(c, "failed to reset session", err)
	}
	st, err := h.sessions.Get(c.Context(), id)
	if err != nil {
		return internalError(c, "failed to load session", err)
	}
	return Success(c, sessionView(id, st))
}

// GetFilters returns the session filters
// GET /api/session/filters
func (h *Handler) GetFilters(c *fiber.Ctx) error {
	st, err := h.sessions.Get(c.Context(), middleware.GetSessionID(c))
	if err != nil {
		return internalError(c, "failed to load session", err)
	}
	return Success(c, st.Filters)
}

func normalizeFilters(f models.SearchFilters) models.SearchFilters {
	f.Query = strings.TrimSpace(f.Query)
	f.IncludedIngredients = catalog.NormalizeTerms(f.IncludedIngredients)
	f.ExcludedIngredients = catalog.NormalizeTerms(f.ExcludedIngredients)
	f.Allergies = catalog.NormalizeTerms(f.Allergies)
	return f
}

// SetFilters replaces the session filters
// PUT /api/session/filters
func (h *Handler) SetFilters(c *fiber.Ctx) error {
	var f models.SearchFilters
	if err := c.BodyParser(&f); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if f.PriceRange.Min < 0 || f.PriceRange.Max < 0 {
		return Error(c, fiber.StatusBadRequest, "price range must not be negative")
	}
	f = normalizeFilters(f)

	st, err := h.sessions.Update(c.Context(), middleware.GetSessionID(c), func(st *session.State) error {
		st.Filters = f
		return nil
	})
	if err != nil {
		return internalError(c, "failed to save session", err)
	}
	return Success(c, st.Filters)
}

// ClearFilters resets every filter but the search query
// DELETE /api/session/filters
func (h *Handler) ClearFilters(c *fiber.Ctx) error {
	st, err := h.sessions.Update(c.Context(), middleware.GetSessionID(c), func(st *session.State) error {
		st.Filters = catalog.ClearFilters(st.Filters)
		return nil
	})
	if err != nil {
		return internalError(c, "failed to save session", err)
	}
	return Success(c, st.Filters)
}

// SetSupplier restricts the session's product view to one supplier
// PUT /api/session/supplier
func (h *Handler) SetSupplier(c *fiber.Ctx) error {
	var req models.SetSupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Supplier == "" {
		return Error(c, fiber.StatusBadRequest, "supplier is required")
	}
	if _, err := h.catalog.SupplierByName(req.Supplier); err != nil {
		if errors.Is(err, catalog.ErrSupplierNotFound) {
			return Error(c, fiber.StatusNotFound, "supplier not found")
		}
		return internalError(c, "failed to get supplier", err)
	}

	id := middleware.GetSessionID(c)
	st, err := h.sessions.Update(c.Context(), id, func(st *session.State) error {
		st.SupplierOverride = req.Supplier
		return nil
	})
	if err != nil {
		return internalError(c, "failed to save session", err)
	}
	return Success(c, sessionView(id, st))
}

// ClearSupplier drops the single-supplier view
// DELETE /api/session/supplier
func (h *Handler) ClearSupplier(c *fiber.Ctx) error {
	id := middleware.GetSessionID(c)
	st, err := h.sessions.Update(c.Context(), id, func(st *session.State) error {
		st.SupplierOverride = ""
		return nil
	})
	if err != nil {
		return internalError(c, "failed to save session", err)
	}
	return Success(c, sessionView(id, st))
}

// SessionProducts lists products matching the session filters and supplier
// GET /api/session/products
func (h *Handler) SessionProducts(c *fiber.Ctx) error {
	sortBy, err := parseSort(c)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}
	st, err := h.sessions.Get(c.Context(), middleware.GetSessionID(c))
	if err != nil {
		return internalError(c, "failed to load session", err)
	}

	f := st.Filters
	if c.QueryBool("use_profile") {
		if f, err = h.profileAllergies(c, f); err != nil {
			return internalError(c, "failed to load profile", err)
		}
	}

	products := h.catalog.ListFiltered(f, st.SupplierOverride)
	catalog.SortProducts(products, sortBy)
	return SuccessWithMeta(c, products, Meta{
		Total:         len(products),
		ActiveFilters: catalog.ActiveFilterCount(f),
	})
}
