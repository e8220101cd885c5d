package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/healthy-food/internal/middleware"
)

// Routes mounts the API on app
func (h *Handler) Routes(app *fiber.App) {
	app.Get("/health", h.Health)

	api := app.Group("/api", middleware.AuthOptional(h.cfg.JWTSecret), middleware.SessionID())
	authRequired := middleware.AuthRequired(h.cfg.JWTSecret)

	// Auth
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", authRequired, h.GetCurrentUser)

	// Users
	users := api.Group("/users", authRequired)
	users.Get("/me", h.GetCurrentUser)
	users.Put("/me", h.UpdateCurrentUser)

	// Catalog
	api.Get("/products", h.ListProducts)
	api.Get("/products/facets", h.ProductFacets)
	api.Get("/products/:id", h.GetProduct)
	api.Get("/suppliers", h.ListSuppliers)
	api.Get("/suppliers/:id", h.GetSupplier)

	// Session state
	sess := api.Group("/session")
	sess.Get("/", h.GetSession)
	sess.Delete("/", h.ResetSession)
	sess.Get("/filters", h.GetFilters)
	sess.Put("/filters", h.SetFilters)
	sess.Delete("/filters", h.ClearFilters)
	sess.Put("/supplier", h.SetSupplier)
	sess.Delete("/supplier", h.ClearSupplier)
	sess.Get("/products", h.SessionProducts)

	// Shopping list
	list := api.Group("/list")
	list.Get("/", h.GetList)
	list.Get("/share", h.ShareList)
	list.Post("/import", h.ImportList)
	list.Post("/items", h.AddListItem)
	list.Put("/items/:id", h.UpdateListItem)
	list.Delete("/items/:id", h.RemoveListItem)
	list.Delete("/", h.ClearList)

	// Label analysis
	api.Post("/analysis", h.SubmitAnalysis)
	api.Get("/analysis/:id", h.GetAnalysis)
	api.Delete("/analysis/:id", h.CancelAnalysis)

	// Location and map
	api.Post("/location", h.ReportLocation)
	api.Get("/map/pins", h.MapPins)

	// Booking
	api.Get("/nutritionists", h.ListNutritionists)
	api.Get("/nutritionists/:id", h.GetNutritionist)
	api.Get("/gyms", h.ListGyms)
	api.Get("/gyms/options", h.GymOptions)
	api.Post("/appointments/nutritionist", h.BookNutritionist)
	api.Post("/appointments/gym", h.BookGym)
	api.Get("/appointments", authRequired, h.ListAppointments)
}
