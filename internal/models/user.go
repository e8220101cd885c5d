package models

import (
	"time"
)

// UserType distinguishes regular customers from nutritionists
type UserType string

const (
	UserTypeUser         UserType = "user"
	UserTypeNutritionist UserType = "nutritionist"
)

type User struct {
	ID                  int        `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"` // Never expose in JSON
	Phone               *string    `json:"phone,omitempty"`
	BirthDate           *string    `json:"birth_date,omitempty"`
	Address             *string    `json:"address,omitempty"`
	DietaryRestrictions []string   `json:"dietary_restrictions"`
	Avatar              string     `json:"avatar"`
	UserType            UserType   `json:"user_type"`
	CRN                 *string    `json:"crn,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
}

// RegisterRequest is the request body for user registration
type RegisterRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Phone    *string  `json:"phone,omitempty"`
	UserType UserType `json:"user_type,omitempty"`
	CRN      *string  `json:"crn,omitempty"`
}

// LoginRequest is the request body for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned after successful login/register
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UpdateUserRequest is the request body for updating the user profile
type UpdateUserRequest struct {
	Name                *string  `json:"name,omitempty"`
	Phone               *string  `json:"phone,omitempty"`
	BirthDate           *string  `json:"birth_date,omitempty"`
	Address             *string  `json:"address,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	Avatar              *string  `json:"avatar,omitempty"`
	CRN                 *string  `json:"crn,omitempty"`
}
