package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastMock(opts ...MockOption) *MockAnalyzer {
	return NewMockAnalyzer(append([]MockOption{WithDelays(5*time.Millisecond, time.Millisecond), WithSeed(1)}, opts...)...)
}

func TestMockAnalyzer_Defaults(t *testing.T) {
	m := NewMockAnalyzer()
	assert.Equal(t, 2000*time.Millisecond, m.UploadDelay)
	assert.Equal(t, 1500*time.Millisecond, m.CameraDelay)
}

func TestMockAnalyzer_UploadReturnsCannedResult(t *testing.T) {
	m := fastMock()
	img := Image{Data: pngBytes(t, 2, 2), ContentType: "image/png", Source: SourceUpload}

	for i := 0; i < 10; i++ {
		res, err := m.Analyze(context.Background(), img)
		require.NoError(t, err)

		known := false
		for _, canned := range uploadResults {
			if canned.HealthScore == res.HealthScore {
				assert.Equal(t, canned.Allergens, res.Allergens)
				known = true
			}
		}
		assert.True(t, known, "unexpected result %+v", res)
	}
}

func TestMockAnalyzer_CameraResult(t *testing.T) {
	res, err := fastMock().Analyze(context.Background(), Image{Source: SourceCamera})
	require.NoError(t, err)

	assert.Equal(t, 7.2, res.HealthScore)
	assert.Empty(t, res.Allergens)
	assert.Equal(t, []string{"Alto teor de açúcar"}, res.Warnings)
}

func TestMockAnalyzer_ResultsAreCopies(t *testing.T) {
	m := fastMock()
	res, err := m.Analyze(context.Background(), Image{Source: SourceCamera})
	require.NoError(t, err)
	res.Ingredients[0] = "mutated"

	again, err := m.Analyze(context.Background(), Image{Source: SourceCamera})
	require.NoError(t, err)
	assert.Equal(t, "Água", again.Ingredients[0])
}

func TestMockAnalyzer_RejectsInvalidInput(t *testing.T) {
	_, err := fastMock().Analyze(context.Background(), Image{Data: []byte("text"), ContentType: "text/plain"})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestMockAnalyzer_Cancellation(t *testing.T) {
	m := NewMockAnalyzer(WithDelays(time.Minute, time.Minute))
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() {
		res, err := m.Analyze(ctx, Image{Source: SourceCamera})
		assert.Nil(t, res)
		errc <- err
	}()
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("analysis did not stop after cancellation")
	}
}

func TestMockAnalyzer_FailureInjection(t *testing.T) {
	m := fastMock()
	m.ForceFailure = true
	_, err := m.Analyze(context.Background(), Image{Source: SourceCamera})
	assert.ErrorIs(t, err, ErrAnalysisFailed)

	m = fastMock(WithFailureRate(1))
	_, err = m.Analyze(context.Background(), Image{Source: SourceCamera})
	assert.ErrorIs(t, err, ErrAnalysisFailed)
}
