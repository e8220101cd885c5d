package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/healthy-food/internal/models"
)

var today = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

type memStore struct {
	mu    sync.Mutex
	appts []models.Appointment
	err   error
}

func (m *memStore) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.appts = append(m.appts, *appt)
	return nil
}

func (m *memStore) ListAppointmentsByUser(ctx context.Context, userID int) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range m.appts {
		if a.UserID != nil && *a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Appointment
	err  error
}

func (r *recordingNotifier) SendAppointmentConfirmation(ctx context.Context, appt models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, appt)
	return r.err
}

func newTestScheduler(store AppointmentStore, opts ...SchedulerOption) *Scheduler {
	base := []SchedulerOption{WithDelay(0), WithClock(func() time.Time { return today })}
	return NewScheduler(NewDirectory(nil, nil), store, append(base, opts...)...)
}

func consultation() models.NutritionistAppointmentRequest {
	return models.NutritionistAppointmentRequest{
		NutritionistID: "1",
		Date:           "2025-06-12",
		Time:           "09:00",
		PaymentMethod:  "PIX",
		Name:           "Carla Souza",
		Email:          "carla@example.com",
	}
}

func gymVisit() models.GymAppointmentRequest {
	return models.GymAppointmentRequest{
		GymID:   2,
		Name:    "Carla Souza",
		Phone:   "(81) 98888-0000",
		Email:   "carla@example.com",
		Date:    "2025-06-10",
		Time:    "18:00",
		Service: "avaliacao",
	}
}

func TestDirectory_Nutritionists(t *testing.T) {
	d := NewDirectory(nil, nil)

	assert.Len(t, d.Nutritionists(models.NutritionistListParams{}), 3)
	assert.Len(t, d.Nutritionists(models.NutritionistListParams{Specialty: AllSpecialties}), 3)

	byName := d.Nutritionists(models.NutritionistListParams{Search: "joão"})
	require.Len(t, byName, 1)
	assert.Equal(t, "2", byName[0].ID)

	bySpecialtyText := d.Nutritionists(models.NutritionistListParams{Search: "VEGANA"})
	require.Len(t, bySpecialtyText, 1)
	assert.Equal(t, "Dra. Ana Costa", bySpecialtyText[0].Name)

	exact := d.Nutritionists(models.NutritionistListParams{Specialty: "Emagrecimento"})
	require.Len(t, exact, 1)
	assert.Equal(t, "1", exact[0].ID)

	assert.Empty(t, d.Nutritionists(models.NutritionistListParams{Specialty: "Nutrição"}), "specialty must match exactly")
	assert.Empty(t, d.Nutritionists(models.NutritionistListParams{Search: "maria", Specialty: "Diabetes"}))
}

func TestDirectory_Lookups(t *testing.T) {
	d := NewDirectory(nil, nil)

	n, err := d.Nutritionist("3")
	require.NoError(t, err)
	assert.Equal(t, 180.0, n.Price)

	_, err = d.Nutritionist("9")
	assert.ErrorIs(t, err, ErrNutritionistNotFound)

	gyms := d.Gyms()
	require.Len(t, gyms, 3)
	assert.Equal(t, "Academia Fitness Plus", gyms[0].Name)
	assert.Equal(t, "Studio Wellness", gyms[2].Name)

	_, err = d.Gym(7)
	assert.ErrorIs(t, err, ErrGymNotFound)
}

func TestNormalizePaymentMethod(t *testing.T) {
	for in, want := range map[string]string{
		"pix":               "pix",
		"PIX":               "pix",
		"Cartão de Crédito": "cartao_credito",
		"cartão de débito":  "cartao_debito",
		" dinheiro ":        "dinheiro",
	} {
		got, ok := NormalizePaymentMethod(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := NormalizePaymentMethod("boleto")
	assert.False(t, ok)
}

func TestValidateNutritionistRequest(t *testing.T) {
	d := NewDirectory(nil, nil)

	tests := []struct {
		name    string
		mutate  func(*models.NutritionistAppointmentRequest)
		field   string
		message string
	}{
		{"unknown nutritionist", func(r *models.NutritionistAppointmentRequest) { r.NutritionistID = "42" }, "nutritionist_id", "Nutricionista não encontrado"},
		{"missing date", func(r *models.NutritionistAppointmentRequest) { r.Date = "" }, "date", "Por favor, selecione uma data e horário"},
		{"missing time", func(r *models.NutritionistAppointmentRequest) { r.Time = "" }, "date", "Por favor, selecione uma data e horário"},
		{"bad date", func(r *models.NutritionistAppointmentRequest) { r.Date = "12/06/2025" }, "date", "Data inválida"},
		{"past date", func(r *models.NutritionistAppointmentRequest) { r.Date = "2025-06-09" }, "date", "A data não pode estar no passado"},
		{"evening slot", func(r *models.NutritionistAppointmentRequest) { r.Time = "18:00" }, "time", "Horário indisponível"},
		{"no payment", func(r *models.NutritionistAppointmentRequest) { r.PaymentMethod = "" }, "payment_method", "Por favor, selecione uma forma de pagamento"},
		{"unknown payment", func(r *models.NutritionistAppointmentRequest) { r.PaymentMethod = "boleto" }, "payment_method", "Forma de pagamento inválida"},
		{"no name", func(r *models.NutritionistAppointmentRequest) { r.Name = " " }, "name", "Informe seu nome"},
		{"bad email", func(r *models.NutritionistAppointmentRequest) { r.Email = "carla@" }, "email", "Informe um e-mail válido"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := consultation()
			tt.mutate(&req)

			_, _, err := ValidateNutritionistRequest(d, req, today)
			require.ErrorIs(t, err, ErrInvalidRequest)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
			assert.Equal(t, tt.message, UserMessage(err))
		})
	}
}

func TestValidateNutritionistRequest_TodayIsAllowed(t *testing.T) {
	req := consultation()
	req.Date = "2025-06-10"
	_, payment, err := ValidateNutritionistRequest(NewDirectory(nil, nil), req, today)
	require.NoError(t, err)
	assert.Equal(t, "pix", payment)
}

func TestValidateGymRequest(t *testing.T) {
	d := NewDirectory(nil, nil)

	_, service, err := ValidateGymRequest(d, gymVisit(), today)
	require.NoError(t, err)
	assert.Equal(t, "Avaliação Física Gratuita", service.Label)

	req := gymVisit()
	req.Phone = ""
	_, _, err = ValidateGymRequest(d, req, today)
	assert.EqualError(t, err, "Informe seu telefone")

	req = gymVisit()
	req.Service = "spa"
	_, _, err = ValidateGymRequest(d, req, today)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	req = gymVisit()
	req.Time = "12:00"
	_, _, err = ValidateGymRequest(d, req, today)
	assert.EqualError(t, err, "Horário indisponível")

	req = gymVisit()
	req.GymID = 99
	_, _, err = ValidateGymRequest(d, req, today)
	assert.EqualError(t, err, "Academia não encontrada")
}

func TestScheduler_BookNutritionist(t *testing.T) {
	store := &memStore{}
	notifier := &recordingNotifier{}
	s := newTestScheduler(store, WithNotifier(notifier))
	userID := 7

	appt, err := s.BookNutritionist(context.Background(), &userID, consultation())
	require.NoError(t, err)

	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, models.AppointmentConfirmed, appt.Status)
	assert.Equal(t, models.AppointmentNutritionist, appt.Kind)
	assert.Equal(t, "Dra. Maria Silva", appt.ProviderName)
	assert.Equal(t, 150.0, appt.Price)
	assert.Equal(t, "pix", appt.PaymentMethod)
	assert.Equal(t, today, appt.CreatedAt)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, appt.ID, notifier.sent[0].ID)

	mine, err := s.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestScheduler_BookGym(t *testing.T) {
	store := &memStore{}
	s := newTestScheduler(store)

	appt, err := s.BookGym(context.Background(), nil, gymVisit())
	require.NoError(t, err)
	assert.Equal(t, "2", appt.ProviderID)
	assert.Equal(t, "BodyShape Academia", appt.ProviderName)
	assert.Equal(t, "avaliacao", appt.Service)
	assert.Nil(t, appt.UserID)
	assert.Len(t, store.appts, 1)
}

func TestScheduler_InvalidRequestIsNotStored(t *testing.T) {
	store := &memStore{}
	s := newTestScheduler(store)

	req := consultation()
	req.PaymentMethod = ""
	_, err := s.BookNutritionist(context.Background(), nil, req)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Empty(t, store.appts)
}

func TestScheduler_FailureInjection(t *testing.T) {
	store := &memStore{}
	s := newTestScheduler(store, WithFailureRate(1))

	_, err := s.BookGym(context.Background(), nil, gymVisit())
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Equal(t, "Não foi possível concluir o agendamento. Tente novamente", UserMessage(err))
	assert.Empty(t, store.appts)

	s = newTestScheduler(store)
	s.ForceFailure = true
	_, err = s.BookGym(context.Background(), nil, gymVisit())
	assert.ErrorIs(t, err, ErrSubmissionFailed)
}

func TestScheduler_CancelledDuringDelay(t *testing.T) {
	store := &memStore{}
	s := newTestScheduler(store, WithDelay(time.Minute))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.BookGym(ctx, nil, gymVisit())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "Agendamento cancelado", UserMessage(err))
	assert.Empty(t, store.appts)
}

func TestScheduler_StoreError(t *testing.T) {
	store := &memStore{err: errors.New("db down")}
	s := newTestScheduler(store)

	_, err := s.BookGym(context.Background(), nil, gymVisit())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save appointment")
}

func TestScheduler_NotifierErrorDoesNotFailBooking(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	s := newTestScheduler(&memStore{}, WithNotifier(notifier))

	_, err := s.BookGym(context.Background(), nil, gymVisit())
	assert.NoError(t, err)
	assert.Len(t, notifier.sent, 1)
}
