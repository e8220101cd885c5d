package models

import (
	"time"
)

// Nutritionist is a professional listed in the nutritionist directory
type Nutritionist struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	CRN         string   `json:"crn"`
	Photo       string   `json:"photo"`
	Specialties []string `json:"specialties"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
	Location    string   `json:"location"`
	Price       float64  `json:"price"`
	Distance    float64  `json:"distance"` // km
	Bio         string   `json:"bio,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Email       string   `json:"email,omitempty"`
}

// PaymentMethod is an accepted way to pay for a consultation
type PaymentMethod struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Gym is a partner gym that accepts visit bookings
type Gym struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Distance  float64 `json:"distance"`
	Rating    float64 `json:"rating"`
	Promotion string  `json:"promotion"`
	Image     string  `json:"image"`
}

// GymService is a bookable service offered by partner gyms
type GymService struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AppointmentKind distinguishes the two booking flows
type AppointmentKind string

const (
	AppointmentNutritionist AppointmentKind = "nutritionist"
	AppointmentGym          AppointmentKind = "gym"
)

// AppointmentStatus represents the state of a booking
type AppointmentStatus string

const (
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment is a confirmed booking
type Appointment struct {
	ID            string            `json:"id"`
	Kind          AppointmentKind   `json:"kind"`
	UserID        *int              `json:"user_id,omitempty"`
	ProviderID    string            `json:"provider_id"`
	ProviderName  string            `json:"provider_name"`
	ContactName   string            `json:"contact_name"`
	ContactEmail  string            `json:"contact_email"`
	ContactPhone  string            `json:"contact_phone,omitempty"`
	Date          string            `json:"date"`
	Time          string            `json:"time"`
	Service       string            `json:"service,omitempty"`
	PaymentMethod string            `json:"payment_method,omitempty"`
	Price         float64           `json:"price,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Status        AppointmentStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
}

// NutritionistAppointmentRequest is the request body for booking a nutritionist
type NutritionistAppointmentRequest struct {
	NutritionistID string `json:"nutritionist_id"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	PaymentMethod  string `json:"payment_method"`
	Notes          string `json:"notes,omitempty"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

// GymAppointmentRequest is the request body for booking a gym visit
type GymAppointmentRequest struct {
	GymID   int    `json:"gym_id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Service string `json:"service"`
}

// NutritionistListParams contains parameters for searching nutritionists
type NutritionistListParams struct {
	Search    string
	Specialty string
}
