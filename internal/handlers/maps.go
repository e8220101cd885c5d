package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/foxxcyber/healthy-food/internal/geo"
	"github.com/foxxcyber/healthy-food/internal/middleware"
	"github.com/foxxcyber/healthy-food/internal/models"
	"github.com/foxxcyber/healthy-food/internal/session"
)

// LocationRequest is what the client's geolocation API reported: either
// coordinates or an error code
type LocationRequest struct {
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lng"`
	Accuracy  float64  `json:"accuracy"`
	ErrorCode string   `json:"error_code"`
}

// LocationError is returned when no position could be obtained
type LocationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ReportLocation stores the user's position in the session and resolves its
// street address when geocoding is configured
// POST /api/location
func (h *Handler) ReportLocation(c *fiber.Ctx) error {
	var req LocationRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	provider := geo.ReportedProvider{ErrorCode: req.ErrorCode}
	if req.Latitude != nil && req.Longitude != nil {
		provider.Position = &geo.Position{
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
			Accuracy:  req.Accuracy,
		}
	}

	pos, err := geo.Locate(c.Context(), provider, h.cfg.GeoTimeout)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(APIResponse{
			Success: false,
			Error:   geo.UserMessage(err),
			Data:    LocationError{Code: geo.Code(err), Message: geo.UserMessage(err)},
		})
	}

	if h.geocoder != nil {
		res, err := h.geocoder.ReverseGeocode(c.Context(), pos.Latitude, pos.Longitude)
		if err != nil {
			middleware.Logger(c).Warn("Reverse geocoding failed", zap.Error(err))
		} else if short := res.Components.Short(); short != "" {
			pos.Address = short
		} else {
			pos.Address = res.FormattedAddress
		}
	}

	_, err = h.sessions.Update(c.Context(), middleware.GetSessionID(c), func(st *session.State) error {
		st.Location = &pos
		return nil
	})
	if err != nil {
		return internalError(c, "failed to save session", err)
	}
	return Success(c, pos)
}

// MapPins returns the supplier pins, the session user's pin and the view
// centre. ?type= limits pins to one supplier type.
// GET /api/map/pins
func (h *Handler) MapPins(c *fiber.Ctx) error {
	params := models.SupplierListParams{Type: models.SupplierType(c.Query("type"))}
	if params.Type != "" && !params.Type.Valid() {
		return Error(c, fiber.StatusBadRequest, "invalid supplier type")
	}

	st, err := h.sessions.Get(c.Context(), middleware.GetSessionID(c))
	if err != nil {
		return internalError(c, "failed to load session", err)
	}
	return Success(c, geo.BuildMap(h.catalog.Suppliers(params), st.Location))
}
