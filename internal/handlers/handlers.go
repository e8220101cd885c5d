package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/foxxcyber/healthy-food/internal/analysis"
	"github.com/foxxcyber/healthy-food/internal/booking"
	"github.com/foxxcyber/healthy-food/internal/catalog"
	"github.com/foxxcyber/healthy-food/internal/config"
	"github.com/foxxcyber/healthy-food/internal/database"
	"github.com/foxxcyber/healthy-food/internal/middleware"
	"github.com/foxxcyber/healthy-food/internal/models"
	"github.com/foxxcyber/healthy-food/internal/services"
	"github.com/foxxcyber/healthy-food/internal/session"
)

// Geocoder resolves a reported position to a street address
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (*services.GeocodingResult, error)
}

// ImageLinker issues temporary download links for archived label images
type ImageLinker interface {
	GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Deps are the services the handlers call into
type Deps struct {
	Accounts  database.AccountStore
	Catalog   *catalog.Catalog
	Sessions  *session.Manager
	Jobs      *analysis.Jobs
	Scheduler *booking.Scheduler
	Geocoder  Geocoder
	Images    ImageLinker
}

// Handler holds all handler dependencies
type Handler struct {
	cfg       *config.Config
	accounts  database.AccountStore
	catalog   *catalog.Catalog
	sessions  *session.Manager
	jobs      *analysis.Jobs
	scheduler *booking.Scheduler
	geocoder  Geocoder
	images    ImageLinker
}

// New creates a new Handler instance
func New(cfg *config.Config, deps Deps) *Handler {
	return &Handler{
		cfg:       cfg,
		accounts:  deps.Accounts,
		catalog:   deps.Catalog,
		sessions:  deps.Sessions,
		jobs:      deps.Jobs,
		scheduler: deps.Scheduler,
		geocoder:  deps.Geocoder,
		images:    deps.Images,
	}
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	} else {
		middleware.Logger(c).Error("Unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
	}

	return c.Status(code).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta describes list responses
type Meta struct {
	Total         int                         `json:"total"`
	ActiveFilters int                         `json:"active_filters,omitempty"`
	ByType        map[models.SupplierType]int `json:"by_type,omitempty"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta returns a successful list response
func SuccessWithMeta(c *fiber.Ctx, data interface{}, meta Meta) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
		Meta:    &meta,
	})
}

// Created returns a 201 response
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// Health reports liveness
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"products": h.catalog.Len(),
	})
}

// internalError logs err and answers 500 with message
func internalError(c *fiber.Ctx, message string, err error) error {
	middleware.Logger(c).Error(message, zap.Error(err))
	return Error(c, fiber.StatusInternalServerError, message)
}
