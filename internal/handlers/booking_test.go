package handlers

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/healthy-food/internal/middleware"
	"github.com/foxxcyber/healthy-food/internal/models"
)

func TestNutritionists(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "GET", "/api/nutritionists", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []models.Nutritionist
	decode(t, body.Data, &list)
	assert.Len(t, list, 3)

	_, body = env.do(t, "GET", "/api/nutritionists?search=jo%C3%A3o", nil)
	decode(t, body.Data, &list)
	assert.Len(t, list, 1)

	resp, body = env.do(t, "GET", "/api/nutritionists/1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var n models.Nutritionist
	decode(t, body.Data, &n)
	assert.Equal(t, "1", n.ID)

	resp, _ = env.do(t, "GET", "/api/nutritionists/99", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGyms(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "GET", "/api/gyms", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var gyms []models.Gym
	decode(t, body.Data, &gyms)
	require.NotEmpty(t, gyms)
	assert.Equal(t, "Academia Fitness Plus", gyms[0].Name)

	_, body = env.do(t, "GET", "/api/gyms/options", nil)
	var opts GymOptions
	decode(t, body.Data, &opts)
	assert.NotEmpty(t, opts.Services)
	assert.Contains(t, opts.TimeSlots, "18:00")
	assert.NotEmpty(t, opts.PaymentMethods)
}

func TestBookNutritionist_Anonymous(t *testing.T) {
	env := newTestEnv(t)

	req := models.NutritionistAppointmentRequest{
		NutritionistID: "1",
		Date:           "2025-06-12",
		Time:           "09:00",
		PaymentMethod:  "pix",
		Name:           "Carla",
		Email:          "carla@example.com",
	}
	resp, body := env.do(t, "POST", "/api/appointments/nutritionist", req)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body.Error)

	var appt models.Appointment
	decode(t, body.Data, &appt)
	assert.Equal(t, models.AppointmentNutritionist, appt.Kind)
	assert.Equal(t, models.AppointmentConfirmed, appt.Status)
	assert.Nil(t, appt.UserID)
}

func TestBookNutritionist_ValidationMessage(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "POST", "/api/appointments/nutritionist", models.NutritionistAppointmentRequest{
		NutritionistID: "1",
		Date:           "2025-06-01",
		Time:           "09:00",
		PaymentMethod:  "pix",
		Name:           "Carla",
		Email:          "carla@example.com",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Error)
}

func TestBookGym_LoggedInUserSeesAppointments(t *testing.T) {
	env := newTestEnv(t)
	token, user := env.register(t, "ana@example.com")

	resp, body := env.do(t, "POST", "/api/appointments/gym", models.GymAppointmentRequest{
		GymID:   2,
		Name:    "Ana Souza",
		Phone:   "(81) 99999-0000",
		Email:   "ana@example.com",
		Date:    "2025-06-10",
		Time:    "18:00",
		Service: "avaliacao",
	}, bearer(token)...)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body.Error)
	var appt models.Appointment
	decode(t, body.Data, &appt)
	require.NotNil(t, appt.UserID)
	assert.Equal(t, user.ID, *appt.UserID)

	resp, _ = env.do(t, "GET", "/api/appointments", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body = env.do(t, "GET", "/api/appointments", nil, bearer(token)...)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var appts []models.Appointment
	decode(t, body.Data, &appts)
	require.Len(t, appts, 1)
	assert.Equal(t, appt.ID, appts[0].ID)
}

func TestBookNutritionist_ContactFromProfile(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "ana@example.com")

	resp, body := env.do(t, "POST", "/api/appointments/nutritionist", models.NutritionistAppointmentRequest{
		NutritionistID: "2",
		Date:           "2025-06-11",
		Time:           "10:00",
		PaymentMethod:  "cartao_credito",
	}, bearer(token)...)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body.Error)
	var appt models.Appointment
	decode(t, body.Data, &appt)
	assert.Equal(t, "Ana Souza", appt.ContactName)
	assert.Equal(t, "ana@example.com", appt.ContactEmail)
}

func TestBookNutritionist_TokenForDeletedUser(t *testing.T) {
	env := newTestEnv(t)
	token, err := middleware.IssueToken(&models.User{ID: 42, Email: "gone@example.com"}, env.cfg.JWTSecret, time.Hour)
	require.NoError(t, err)

	resp, body := env.do(t, "POST", "/api/appointments/nutritionist", models.NutritionistAppointmentRequest{
		NutritionistID: "2",
		Date:           "2025-06-11",
		Time:           "10:00",
		PaymentMethod:  "cartao_credito",
	}, bearer(token)...)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, body.Success)
}
