package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/healthy-food/internal/booking"
	"github.com/foxxcyber/healthy-food/internal/database"
	"github.com/foxxcyber/healthy-food/internal/middleware"
	"github.com/foxxcyber/healthy-food/internal/models"
)

// GymOptions lists what a gym visit form offers
type GymOptions struct {
	Services       []models.GymService    `json:"services"`
	TimeSlots      []string               `json:"time_slots"`
	ConsultSlots   []string               `json:"consultation_slots"`
	PaymentMethods []models.PaymentMethod `json:"payment_methods"`
	Specialties    []string               `json:"specialties"`
}

// ListNutritionists searches the directory
// GET /api/nutritionists?search=&specialty=
func (h *Handler) ListNutritionists(c *fiber.Ctx) error {
	list := h.scheduler.Directory().Nutritionists(models.NutritionistListParams{
		Search:    c.Query("search"),
		Specialty: c.Query("specialty"),
	})
	return SuccessWithMeta(c, list, Meta{Total: len(list)})
}

// GetNutritionist returns one nutritionist
// GET /api/nutritionists/:id
func (h *Handler) GetNutritionist(c *fiber.Ctx) error {
	n, err := h.scheduler.Directory().Nutritionist(c.Params("id"))
	if err != nil {
		if errors.Is(err, booking.ErrNutritionistNotFound) {
			return Error(c, fiber.StatusNotFound, "Nutricionista não encontrado")
		}
		return internalError(c, "failed to get nutritionist", err)
	}
	return Success(c, n)
}

// ListGyms returns partner gyms, nearest first
// GET /api/gyms
func (h *Handler) ListGyms(c *fiber.Ctx) error {
	gyms := h.scheduler.Directory().Gyms()
	return SuccessWithMeta(c, gyms, Meta{Total: len(gyms)})
}

// GymOptions returns the bookable services, slots and payment methods
// GET /api/gyms/options
func (h *Handler) GymOptions(c *fiber.Ctx) error {
	return Success(c, GymOptions{
		Services:       booking.GymServices,
		TimeSlots:      booking.GymTimeSlots,
		ConsultSlots:   booking.ConsultationSlots,
		PaymentMethods: booking.PaymentMethods,
		Specialties:    booking.Specialties,
	})
}

func optionalUserID(c *fiber.Ctx) *int {
	if id := middleware.GetUserID(c); id > 0 {
		return &id
	}
	return nil
}

func bookingError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, booking.ErrInvalidRequest):
		status = fiber.StatusBadRequest
	case errors.Is(err, booking.ErrSubmissionFailed):
		status = fiber.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = fiber.StatusRequestTimeout
	}
	return Error(c, status, booking.UserMessage(err))
}

// BookNutritionist books a consultation. Logged-in users may omit contact
// details; they are taken from the profile.
// POST /api/appointments/nutritionist
func (h *Handler) BookNutritionist(c *fiber.Ctx) error {
	var req models.NutritionistAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	userID := optionalUserID(c)
	if userID != nil && (req.Name == "" || req.Email == "") {
		user, err := h.accounts.GetUserByID(c.Context(), *userID)
		if err != nil {
			if errors.Is(err, database.ErrUserNotFound) {
				return Error(c, fiber.StatusUnauthorized, "unauthorized")
			}
			return internalError(c, "failed to load profile", err)
		}
		if req.Name == "" {
			req.Name = user.Name
		}
		if req.Email == "" {
			req.Email = user.Email
		}
		if req.Phone == "" && user.Phone != nil {
			req.Phone = *user.Phone
		}
	}

	appt, err := h.scheduler.BookNutritionist(c.Context(), userID, req)
	if err != nil {
		return bookingError(c, err)
	}
	return Created(c, appt)
}

// BookGym books a gym visit
// POST /api/appointments/gym
func (h *Handler) BookGym(c *fiber.Ctx) error {
	var req models.GymAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	appt, err := h.scheduler.BookGym(c.Context(), optionalUserID(c), req)
	if err != nil {
		return bookingError(c, err)
	}
	return Created(c, appt)
}

// ListAppointments returns the authenticated user's appointments
// GET /api/appointments
func (h *Handler) ListAppointments(c *fiber.Ctx) error {
	appts, err := h.scheduler.ListForUser(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return internalError(c, "failed to list appointments", err)
	}
	return SuccessWithMeta(c, appts, Meta{Total: len(appts)})
}
