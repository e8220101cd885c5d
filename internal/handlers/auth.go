package handlers

import (
	"errors"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/foxxcyber/healthy-food/internal/catalog"
	"github.com/foxxcyber/healthy-food/internal/database"
	"github.com/foxxcyber/healthy-food/internal/middleware"
	"github.com/foxxcyber/healthy-food/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const minPasswordLength = 6

// Register handles user registration
func (h *Handler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return Error(c, fiber.StatusBadRequest, "Por favor, preencha todos os campos obrigatórios")
	}
	if !emailRegex.MatchString(req.Email) {
		return Error(c, fiber.StatusBadRequest, "Informe um e-mail válido")
	}
	if len(req.Password) < minPasswordLength {
		return Error(c, fiber.StatusBadRequest, "A senha deve ter pelo menos 6 caracteres")
	}

	switch req.UserType {
	case "":
		req.UserType = models.UserTypeUser
	case models.UserTypeUser, models.UserTypeNutritionist:
	default:
		return Error(c, fiber.StatusBadRequest, "invalid user type")
	}
	if req.UserType == models.UserTypeNutritionist && (req.CRN == nil || strings.TrimSpace(*req.CRN) == "") {
		return Error(c, fiber.StatusBadRequest, "CRN é obrigatório para nutricionistas")
	}
	if req.UserType == models.UserTypeUser {
		req.CRN = nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to process password")
	}

	user, err := h.accounts.CreateUser(c.Context(), &models.User{
		Name:                req.Name,
		Email:               req.Email,
		PasswordHash:        string(hashedPassword),
		Phone:               req.Phone,
		UserType:            req.UserType,
		CRN:                 req.CRN,
		DietaryRestrictions: []string{},
	})
	if err != nil {
		if errors.Is(err, database.ErrEmailExists) {
			return Error(c, fiber.StatusConflict, "Este email já está em uso")
		}
		return internalError(c, "failed to create user", err)
	}

	token, err := middleware.IssueToken(user, h.cfg.JWTSecret, h.cfg.JWTExpiry)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate token")
	}

	middleware.Logger(c).Info("User registered", zap.Int("user_id", user.ID), zap.String("user_type", string(user.UserType)))
	return Created(c, models.AuthResponse{
		Token: token,
		User:  user,
	})
}

// Login handles user authentication
func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return Error(c, fiber.StatusBadRequest, "email and password are required")
	}

	user, err := h.accounts.GetUserByEmail(c.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Error(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		return internalError(c, "authentication failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return Error(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	if err := h.accounts.UpdateUserLastLogin(c.Context(), user.ID); err != nil {
		middleware.Logger(c).Warn("Failed to update last login", zap.Int("user_id", user.ID), zap.Error(err))
	}

	token, err := middleware.IssueToken(user, h.cfg.JWTSecret, h.cfg.JWTExpiry)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate token")
	}

	return Success(c, models.AuthResponse{
		Token: token,
		User:  user,
	})
}

// Logout is handled client-side by dropping the token
func (h *Handler) Logout(c *fiber.Ctx) error {
	return Success(c, fiber.Map{
		"message": "Logout realizado com sucesso!",
	})
}

// GetCurrentUser returns the currently authenticated user
func (h *Handler) GetCurrentUser(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.accounts.GetUserByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Error(c, fiber.StatusNotFound, "user not found")
		}
		return internalError(c, "failed to get user", err)
	}

	return Success(c, user)
}

// UpdateCurrentUser updates the authenticated user's profile
func (h *Handler) UpdateCurrentUser(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req models.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return Error(c, fiber.StatusBadRequest, "Informe seu nome")
		}
		req.Name = &name
	}
	if req.DietaryRestrictions != nil {
		req.DietaryRestrictions = catalog.NormalizeTerms(req.DietaryRestrictions)
	}

	user, err := h.accounts.UpdateUser(c.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Error(c, fiber.StatusNotFound, "user not found")
		}
		return internalError(c, "Erro ao atualizar perfil", err)
	}

	return Success(c, user)
}
