package booking

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/foxxcyber/healthy-food/internal/models"
)

var ErrInvalidRequest = errors.New("invalid appointment request")

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// DateLayout is the expected appointment date format
const DateLayout = "2006-01-02"

// ValidationError is a user-facing validation failure on one field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// validateSchedule checks date and time: the date must not be before today
// and the time must be one of slots
func validateSchedule(date, clock string, slots []string, today time.Time) error {
	if strings.TrimSpace(date) == "" || strings.TrimSpace(clock) == "" {
		return invalid("date", "Por favor, selecione uma data e horário")
	}
	d, err := time.ParseInLocation(DateLayout, date, today.Location())
	if err != nil {
		return invalid("date", "Data inválida")
	}
	y, m, day := today.Date()
	if d.Before(time.Date(y, m, day, 0, 0, 0, 0, today.Location())) {
		return invalid("date", "A data não pode estar no passado")
	}
	if !contains(slots, clock) {
		return invalid("time", "Horário indisponível")
	}
	return nil
}

func validateContact(name, email, phone string, phoneRequired bool) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name", "Informe seu nome")
	}
	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return invalid("email", "Informe um e-mail válido")
	}
	if phoneRequired && strings.TrimSpace(phone) == "" {
		return invalid("phone", "Informe seu telefone")
	}
	return nil
}

// ValidateNutritionistRequest checks a consultation request against the
// directory and returns the normalized payment method
func ValidateNutritionistRequest(d *Directory, req models.NutritionistAppointmentRequest, today time.Time) (models.Nutritionist, string, error) {
	n, err := d.Nutritionist(req.NutritionistID)
	if err != nil {
		return models.Nutritionist{}, "", invalid("nutritionist_id", "Nutricionista não encontrado")
	}
	if err := validateSchedule(req.Date, req.Time, ConsultationSlots, today); err != nil {
		return models.Nutritionist{}, "", err
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return models.Nutritionist{}, "", invalid("payment_method", "Por favor, selecione uma forma de pagamento")
	}
	payment, ok := NormalizePaymentMethod(req.PaymentMethod)
	if !ok {
		return models.Nutritionist{}, "", invalid("payment_method", "Forma de pagamento inválida")
	}
	if err := validateContact(req.Name, req.Email, req.Phone, false); err != nil {
		return models.Nutritionist{}, "", err
	}
	return n, payment, nil
}

// ValidateGymRequest checks a gym visit request against the directory
func ValidateGymRequest(d *Directory, req models.GymAppointmentRequest, today time.Time) (models.Gym, models.GymService, error) {
	gym, err := d.Gym(req.GymID)
	if err != nil {
		return models.Gym{}, models.GymService{}, invalid("gym_id", "Academia não encontrada")
	}
	if err := validateContact(req.Name, req.Email, req.Phone, true); err != nil {
		return models.Gym{}, models.GymService{}, err
	}
	if err := validateSchedule(req.Date, req.Time, GymTimeSlots, today); err != nil {
		return models.Gym{}, models.GymService{}, err
	}
	service, ok := GymService(req.Service)
	if !ok {
		return models.Gym{}, models.GymService{}, invalid("service", "Selecione um serviço válido")
	}
	return gym, service, nil
}
