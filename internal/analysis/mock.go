package analysis

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/foxxcyber/healthy-food/internal/models"
)

const (
	DefaultUploadDelay = 2000 * time.Millisecond
	DefaultCameraDelay = 1500 * time.Millisecond
)

var uploadResults = []models.AnalysisResult{
	{
		Ingredients: []string{"Farinha de trigo", "Açúcar", "Óleo de palma", "Sal", "Fermento"},
		Allergens:   []string{"Glúten"},
		Nutrition:   models.LabelNutrition{Calories: 450, Protein: 8.2, Carbs: 62.1, Fat: 18.5, Sodium: 380},
		Warnings:    []string{"Contém glúten", "Alto teor de sódio"},
		HealthScore: 6.2,
	},
	{
		Ingredients: []string{"Leite", "Açúcar", "Chocolate", "Conservantes"},
		Allergens:   []string{"Lactose"},
		Nutrition:   models.LabelNutrition{Calories: 390, Protein: 7.8, Carbs: 55.3, Fat: 15.2, Sodium: 120},
		Warnings:    []string{"Contém lactose", "Alto teor de açúcar"},
		HealthScore: 5.8,
	},
	{
		Ingredients: []string{"Aveia integral", "Mel", "Castanhas", "Passas"},
		Allergens:   []string{"Nozes"},
		Nutrition:   models.LabelNutrition{Calories: 380, Protein: 12.5, Carbs: 68.1, Fat: 8.9, Sodium: 15},
		Warnings:    []string{"Contém nozes"},
		HealthScore: 8.5,
	},
}

var cameraResult = models.AnalysisResult{
	Ingredients: []string{"Água", "Açúcar", "Ácido cítrico", "Corante natural"},
	Allergens:   []string{},
	Nutrition:   models.LabelNutrition{Calories: 42, Protein: 0, Carbs: 10.5, Fat: 0, Sodium: 8},
	Warnings:    []string{"Alto teor de açúcar"},
	HealthScore: 7.2,
}

// MockAnalyzer simulates label reading. Uploads get one of three canned
// results after UploadDelay, camera captures get a fixed result after
// CameraDelay.
type MockAnalyzer struct {
	UploadDelay time.Duration
	CameraDelay time.Duration
	// FailureRate is the probability in [0,1] that an analysis fails
	FailureRate float64
	// ForceFailure makes every analysis fail
	ForceFailure bool

	mu  sync.Mutex
	rnd *rand.Rand
}

// MockOption configures a MockAnalyzer
type MockOption func(*MockAnalyzer)

// WithDelays overrides the simulated processing times
func WithDelays(upload, camera time.Duration) MockOption {
	return func(m *MockAnalyzer) {
		m.UploadDelay = upload
		m.CameraDelay = camera
	}
}

// WithFailureRate sets the injected failure probability
func WithFailureRate(rate float64) MockOption {
	return func(m *MockAnalyzer) {
		m.FailureRate = rate
	}
}

// WithSeed makes result selection deterministic
func WithSeed(seed int64) MockOption {
	return func(m *MockAnalyzer) {
		m.rnd = rand.New(rand.NewSource(seed))
	}
}

// NewMockAnalyzer creates a mock analyzer with the default delays
func NewMockAnalyzer(opts ...MockOption) *MockAnalyzer {
	m := &MockAnalyzer{
		UploadDelay: DefaultUploadDelay,
		CameraDelay: DefaultCameraDelay,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Analyze waits for the simulated delay and returns a canned result
func (m *MockAnalyzer) Analyze(ctx context.Context, img Image) (*models.AnalysisResult, error) {
	if err := Validate(img); err != nil {
		return nil, err
	}

	delay := m.UploadDelay
	if img.Source == SourceCamera {
		delay = m.CameraDelay
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ForceFailure || (m.FailureRate > 0 && m.rnd.Float64() < m.FailureRate) {
		return nil, ErrAnalysisFailed
	}
	if img.Source == SourceCamera {
		return cloneResult(&cameraResult), nil
	}
	return cloneResult(&uploadResults[m.rnd.Intn(len(uploadResults))]), nil
}
