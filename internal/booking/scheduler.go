package booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foxxcyber/healthy-food/internal/metrics"
	"github.com/foxxcyber/healthy-food/internal/models"
)

// DefaultDelay is the simulated submission latency
const DefaultDelay = 2000 * time.Millisecond

var ErrSubmissionFailed = errors.New("appointment submission failed")

// AppointmentStore persists confirmed appointments
type AppointmentStore interface {
	CreateAppointment(ctx context.Context, appt *models.Appointment) error
	ListAppointmentsByUser(ctx context.Context, userID int) ([]models.Appointment, error)
}

// Notifier sends booking confirmations
type Notifier interface {
	SendAppointmentConfirmation(ctx context.Context, appt models.Appointment) error
}

// Scheduler validates and submits bookings. Submission waits Delay to mimic
// the partner round trip and can be made to fail for testing clients.
type Scheduler struct {
	Delay time.Duration
	// FailureRate is the probability in [0,1] that a submission fails
	FailureRate float64
	// ForceFailure makes every submission fail
	ForceFailure bool

	dir      *Directory
	store    AppointmentStore
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// SchedulerOption configures a Scheduler
type SchedulerOption func(*Scheduler)

// WithDelay overrides the simulated latency
func WithDelay(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.Delay = d
	}
}

// WithFailureRate sets the injected failure probability
func WithFailureRate(rate float64) SchedulerOption {
	return func(s *Scheduler) {
		s.FailureRate = rate
	}
}

// WithNotifier sends a confirmation for every booking
func WithNotifier(n Notifier) SchedulerOption {
	return func(s *Scheduler) {
		s.notifier = n
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.now = now
	}
}

// NewScheduler creates a scheduler over the directory and store
func NewScheduler(dir *Directory, store AppointmentStore, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		Delay:  DefaultDelay,
		dir:    dir,
		store:  store,
		logger: zap.L(),
		now:    time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Directory returns the scheduler's directory
func (s *Scheduler) Directory() *Directory {
	return s.dir
}

// BookNutritionist validates and submits a consultation
func (s *Scheduler) BookNutritionist(ctx context.Context, userID *int, req models.NutritionistAppointmentRequest) (*models.Appointment, error) {
	n, payment, err := ValidateNutritionistRequest(s.dir, req, s.now())
	if err != nil {
		metrics.RecordAppointment(string(models.AppointmentNutritionist), "rejected")
		return nil, err
	}

	appt := &models.Appointment{
		Kind:          models.AppointmentNutritionist,
		UserID:        userID,
		ProviderID:    n.ID,
		ProviderName:  n.Name,
		ContactName:   strings.TrimSpace(req.Name),
		ContactEmail:  strings.TrimSpace(req.Email),
		ContactPhone:  strings.TrimSpace(req.Phone),
		Date:          req.Date,
		Time:          req.Time,
		PaymentMethod: payment,
		Price:         n.Price,
		Notes:         strings.TrimSpace(req.Notes),
	}
	if err := s.Submit(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// BookGym validates and submits a gym visit
func (s *Scheduler) BookGym(ctx context.Context, userID *int, req models.GymAppointmentRequest) (*models.Appointment, error) {
	gym, service, err := ValidateGymRequest(s.dir, req, s.now())
	if err != nil {
		metrics.RecordAppointment(string(models.AppointmentGym), "rejected")
		return nil, err
	}

	appt := &models.Appointment{
		Kind:         models.AppointmentGym,
		UserID:       userID,
		ProviderID:   fmt.Sprintf("%d", gym.ID),
		ProviderName: gym.Name,
		ContactName:  strings.TrimSpace(req.Name),
		ContactEmail: strings.TrimSpace(req.Email),
		ContactPhone: strings.TrimSpace(req.Phone),
		Date:         req.Date,
		Time:         req.Time,
		Service:      service.Value,
	}
	if err := s.Submit(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Submit sends a validated appointment: it waits Delay, applies failure
// injection, persists the appointment and sends the confirmation. A failed
// confirmation e-mail does not fail the booking.
func (s *Scheduler) Submit(ctx context.Context, appt *models.Appointment) error {
	kind := string(appt.Kind)

	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			metrics.RecordAppointment(kind, "cancelled")
			return ctx.Err()
		case <-timer.C:
		}
	}

	if s.shouldFail() {
		metrics.RecordAppointment(kind, "failed")
		s.logger.Warn("Injected appointment failure", zap.String("kind", kind), zap.String("provider_id", appt.ProviderID))
		return ErrSubmissionFailed
	}

	appt.ID = uuid.NewString()
	appt.Status = models.AppointmentConfirmed
	appt.CreatedAt = s.now()

	if err := s.store.CreateAppointment(ctx, appt); err != nil {
		metrics.RecordAppointment(kind, "failed")
		return fmt.Errorf("failed to save appointment: %w", err)
	}
	metrics.RecordAppointment(kind, "confirmed")

	if s.notifier != nil {
		if err := s.notifier.SendAppointmentConfirmation(ctx, *appt); err != nil {
			s.logger.Warn("Failed to send appointment confirmation",
				zap.String("appointment_id", appt.ID),
				zap.Error(err))
		}
	}

	s.logger.Info("Appointment confirmed",
		zap.String("appointment_id", appt.ID),
		zap.String("kind", kind),
		zap.String("provider", appt.ProviderName),
		zap.String("date", appt.Date),
		zap.String("time", appt.Time))
	return nil
}

func (s *Scheduler) shouldFail() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ForceFailure || (s.FailureRate > 0 && s.rnd.Float64() < s.FailureRate)
}

// ListForUser returns a user's appointments
func (s *Scheduler) ListForUser(ctx context.Context, userID int) ([]models.Appointment, error) {
	return s.store.ListAppointmentsByUser(ctx, userID)
}

// UserMessage returns the message shown to the user for a booking error
func UserMessage(err error) string {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, ErrSubmissionFailed):
		return "Não foi possível concluir o agendamento. Tente novamente"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Agendamento cancelado"
	default:
		return "Erro ao agendar. Tente novamente"
	}
}
