// Package booking lists nutritionists and partner gyms and books
// consultations and gym visits with them.
package booking

import (
	"errors"
	"sort"
	"strings"

	"github.com/foxxcyber/healthy-food/internal/models"
)

var (
	ErrNutritionistNotFound = errors.New("nutritionist not found")
	ErrGymNotFound          = errors.New("gym not found")
)

// AllSpecialties is the specialty filter value that matches everyone
const AllSpecialties = "Todos"

// Specialties are the options of the nutritionist specialty filter
var Specialties = []string{
	AllSpecialties,
	"Nutrição Esportiva",
	"Emagrecimento",
	"Nutrição Infantil",
	"Diabetes",
	"Nutrição Vegana",
	"Gestação",
}

// GymServices are the services a gym visit can be booked for
var GymServices = []models.GymService{
	{Value: "avaliacao", Label: "Avaliação Física Gratuita"},
	{Value: "treino", Label: "Aula Experimental"},
	{Value: "nutricao", Label: "Consulta Nutricional"},
	{Value: "plano", Label: "Apresentação de Planos"},
}

// GymTimeSlots are the bookable gym visit times
var GymTimeSlots = []string{"08:00", "09:00", "10:00", "11:00", "14:00", "15:00", "16:00", "17:00", "18:00", "19:00"}

// ConsultationSlots are the bookable nutritionist consultation times
var ConsultationSlots = []string{"08:00", "09:00", "10:00", "11:00", "14:00", "15:00", "16:00", "17:00"}

// PaymentMethods are the accepted consultation payment methods
var PaymentMethods = []models.PaymentMethod{
	{Value: "dinheiro", Label: "Dinheiro"},
	{Value: "pix", Label: "PIX"},
	{Value: "cartao_debito", Label: "Cartão de Débito"},
	{Value: "cartao_credito", Label: "Cartão de Crédito"},
}

var defaultNutritionists = []models.Nutritionist{
	{
		ID:          "1",
		Name:        "Dra. Maria Silva",
		CRN:         "CRN-6 12345",
		Photo:       "https://images.unsplash.com/photo-1559839734-2b71ea197ec2?w=300&h=300&fit=crop&crop=face",
		Specialties: []string{"Nutrição Esportiva", "Emagrecimento", "Nutrição Clínica"},
		Rating:      4.9,
		Reviews:     127,
		Location:    "Recife, PE",
		Price:       150,
		Distance:    2.1,
		Bio:         "Nutricionista com mais de 10 anos de experiência em nutrição esportiva e emagrecimento saudável. Especialista em dietas personalizadas.",
		Phone:       "(81) 99999-1234",
		Email:       "dra.maria@nutrifind.com",
	},
	{
		ID:          "2",
		Name:        "Dr. João Santos",
		CRN:         "CRN-6 54321",
		Photo:       "https://images.unsplash.com/photo-1612349317150-e413f6a5b16d?w=300&h=300&fit=crop&crop=face",
		Specialties: []string{"Nutrição Infantil", "Diabetes", "Hipertensão"},
		Rating:      4.8,
		Reviews:     89,
		Location:    "Recife, PE",
		Price:       120,
		Distance:    1.5,
		Bio:         "Especialista em nutrição infantil e tratamento nutricional de doenças crônicas. Atendimento humanizado e personalizado.",
		Phone:       "(81) 99999-5678",
		Email:       "dr.joao@nutrifind.com",
	},
	{
		ID:          "3",
		Name:        "Dra. Ana Costa",
		CRN:         "CRN-6 67890",
		Photo:       "https://images.unsplash.com/photo-1594824087379-62d84b5dcbdc?w=300&h=300&fit=crop&crop=face",
		Specialties: []string{"Nutrição Vegana", "Alergias Alimentares", "Gestação"},
		Rating:      4.7,
		Reviews:     156,
		Location:    "Recife, PE",
		Price:       180,
		Distance:    3.2,
	},
}

var defaultGyms = []models.Gym{
	{
		ID:        1,
		Name:      "Academia Fitness Plus",
		Address:   "Rua dos Esportes, 100 - Centro",
		Distance:  0.5,
		Rating:    4.9,
		Promotion: "20% OFF no primeiro mês para usuários HealthyFood",
		Image:     "https://images.unsplash.com/photo-1501854140801-50d01698950b?w=400&h=250&fit=crop",
	},
	{
		ID:        2,
		Name:      "BodyShape Academia",
		Address:   "Av. da Saúde, 250 - Vila Nova",
		Distance:  1.1,
		Rating:    4.7,
		Promotion: "Avaliação física gratuita + plano personalizado",
		Image:     "https://images.unsplash.com/photo-1506744038136-46273834b3fb?w=400&h=250&fit=crop",
	},
	{
		ID:        3,
		Name:      "Studio Wellness",
		Address:   "Rua Harmonia, 75 - Jardim América",
		Distance:  1.8,
		Rating:    4.8,
		Promotion: "Aulas de yoga e pilates inclusas no plano básico",
		Image:     "https://images.unsplash.com/photo-1465146344425-f00d5f5c8f07?w=400&h=250&fit=crop",
	},
}

// Directory holds the bookable professionals and partner gyms
type Directory struct {
	nutritionists []models.Nutritionist
	gyms          []models.Gym
}

// NewDirectory creates a directory. Nil slices load the built-in listings.
func NewDirectory(nutritionists []models.Nutritionist, gyms []models.Gym) *Directory {
	if nutritionists == nil {
		nutritionists = defaultNutritionists
	}
	if gyms == nil {
		gyms = defaultGyms
	}
	return &Directory{nutritionists: nutritionists, gyms: gyms}
}

// Nutritionists searches by name or specialty substring, case-insensitive,
// and by exact specialty. An empty specialty or "Todos" matches everyone.
func (d *Directory) Nutritionists(params models.NutritionistListParams) []models.Nutritionist {
	search := strings.ToLower(strings.TrimSpace(params.Search))
	specialty := params.Specialty
	if specialty == AllSpecialties {
		specialty = ""
	}

	out := []models.Nutritionist{}
	for _, n := range d.nutritionists {
		if search != "" && !matchesSearch(n, search) {
			continue
		}
		if specialty != "" && !hasSpecialty(n, specialty) {
			continue
		}
		out = append(out, cloneNutritionist(n))
	}
	return out
}

func matchesSearch(n models.Nutritionist, search string) bool {
	if strings.Contains(strings.ToLower(n.Name), search) {
		return true
	}
	for _, s := range n.Specialties {
		if strings.Contains(strings.ToLower(s), search) {
			return true
		}
	}
	return false
}

func hasSpecialty(n models.Nutritionist, specialty string) bool {
	for _, s := range n.Specialties {
		if s == specialty {
			return true
		}
	}
	return false
}

func cloneNutritionist(n models.Nutritionist) models.Nutritionist {
	n.Specialties = append([]string{}, n.Specialties...)
	return n
}

// Nutritionist returns a nutritionist by ID
func (d *Directory) Nutritionist(id string) (models.Nutritionist, error) {
	for _, n := range d.nutritionists {
		if n.ID == id {
			return cloneNutritionist(n), nil
		}
	}
	return models.Nutritionist{}, ErrNutritionistNotFound
}

// Gyms returns the partner gyms, nearest first
func (d *Directory) Gyms() []models.Gym {
	out := append([]models.Gym{}, d.gyms...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	return out
}

// Gym returns a gym by ID
func (d *Directory) Gym(id int) (models.Gym, error) {
	for _, g := range d.gyms {
		if g.ID == id {
			return g, nil
		}
	}
	return models.Gym{}, ErrGymNotFound
}

// GymService returns the service with the given value
func GymService(value string) (models.GymService, bool) {
	for _, s := range GymServices {
		if s.Value == value {
			return s, true
		}
	}
	return models.GymService{}, false
}

// NormalizePaymentMethod maps a payment value or label to its value
func NormalizePaymentMethod(method string) (string, bool) {
	method = strings.TrimSpace(method)
	for _, p := range PaymentMethods {
		if strings.EqualFold(method, p.Value) || strings.EqualFold(method, p.Label) {
			return p.Value, true
		}
	}
	return "", false
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
