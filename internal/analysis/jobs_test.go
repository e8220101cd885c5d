package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/healthy-food/internal/catalog"
	"github.com/foxxcyber/healthy-food/internal/models"
)

// blockingAnalyzer returns result once release is closed
type blockingAnalyzer struct {
	release chan struct{}
	result  *models.AnalysisResult
}

func (b *blockingAnalyzer) Analyze(ctx context.Context, img Image) (*models.AnalysisResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-b.release:
		return cloneResult(b.result), nil
	}
}

type fakeArchiver struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (f *fakeArchiver) ArchiveLabel(ctx context.Context, data []byte, contentType, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	key := "labels/" + filename
	f.keys = append(f.keys, key)
	return key, nil
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]models.Product{
		{ID: 1, Name: "Pão de Trigo", Price: 8, Rating: 4.9, Allergens: []string{"Glúten"}},
		{ID: 2, Name: "Quinoa", Price: 15.99, Rating: 4.8},
		{ID: 3, Name: "Arroz Integral", Price: 9, Rating: 4.5},
	}, nil)
}

func TestJobs_SubmitAndWait(t *testing.T) {
	jobs := NewJobs(fastMock(), testCatalog())
	defer jobs.Close()

	img := Image{Data: pngBytes(t, 2, 2), ContentType: "image/png", Source: SourceUpload}
	job, err := jobs.Submit(context.Background(), "s1", img)
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusPending, job.Status)
	assert.Equal(t, "upload", job.Source)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done, err := jobs.Wait(ctx, "s1", job.ID)
	require.NoError(t, err)

	assert.Equal(t, models.AnalysisStatusDone, done.Status)
	require.NotNil(t, done.Result)
	require.NotNil(t, done.FinishedAt)
	for _, p := range done.Alternatives {
		assert.False(t, catalog.ContainsCaseInsensitive(p.Allergens, done.Result.Allergens, catalog.MatchAny))
	}
}

func TestJobs_RejectsInvalidImage(t *testing.T) {
	jobs := NewJobs(fastMock(), nil)
	defer jobs.Close()

	_, err := jobs.Submit(context.Background(), "s1", Image{Data: []byte("plain"), ContentType: "text/plain"})
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Zero(t, jobs.Len())
}

func TestJobs_NewSubmissionSupersedesPending(t *testing.T) {
	analyzer := &blockingAnalyzer{release: make(chan struct{}), result: &cameraResult}
	jobs := NewJobs(analyzer, nil)
	defer jobs.Close()

	first, err := jobs.Submit(context.Background(), "s1", Image{Source: SourceCamera})
	require.NoError(t, err)
	second, err := jobs.Submit(context.Background(), "s1", Image{Source: SourceCamera})
	require.NoError(t, err)

	got, err := jobs.Get("s1", first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusCancelled, got.Status)
	assert.Nil(t, got.Result)

	close(analyzer.release)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got, err = jobs.Wait(ctx, "s1", second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusDone, got.Status)

	got, err = jobs.Get("s1", first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusCancelled, got.Status, "stale result is never delivered")
}

func TestJobs_ConcurrentSubmitsKeepNewest(t *testing.T) {
	for round := 0; round < 200; round++ {
		analyzer := &blockingAnalyzer{release: make(chan struct{}), result: &cameraResult}
		jobs := NewJobs(analyzer, nil)

		var wg sync.WaitGroup
		ids := make([]string, 2)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				jb, err := jobs.Submit(context.Background(), "s1", Image{Source: SourceCamera})
				assert.NoError(t, err)
				ids[i] = jb.ID
			}(i)
		}
		wg.Wait()
		close(analyzer.release)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		statuses := map[models.AnalysisStatus]int{}
		for _, id := range ids {
			got, err := jobs.Wait(ctx, "s1", id)
			require.NoError(t, err)
			statuses[got.Status]++
		}
		cancel()
		jobs.Close()

		require.Equal(t, 1, statuses[models.AnalysisStatusDone], "round %d: %v", round, statuses)
		require.Equal(t, 1, statuses[models.AnalysisStatusCancelled], "round %d: %v", round, statuses)
	}
}

func TestJobs_SessionsDoNotInterfere(t *testing.T) {
	analyzer := &blockingAnalyzer{release: make(chan struct{}), result: &cameraResult}
	jobs := NewJobs(analyzer, nil)
	defer jobs.Close()

	a, err := jobs.Submit(context.Background(), "a", Image{Source: SourceCamera})
	require.NoError(t, err)
	_, err = jobs.Submit(context.Background(), "b", Image{Source: SourceCamera})
	require.NoError(t, err)

	got, err := jobs.Get("a", a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusPending, got.Status)

	_, err = jobs.Get("b", a.ID)
	assert.ErrorIs(t, err, ErrJobNotFound, "jobs are private to their session")
}

func TestJobs_Cancel(t *testing.T) {
	analyzer := &blockingAnalyzer{release: make(chan struct{}), result: &cameraResult}
	jobs := NewJobs(analyzer, nil)
	defer jobs.Close()

	job, err := jobs.Submit(context.Background(), "s1", Image{Source: SourceCamera})
	require.NoError(t, err)

	got, err := jobs.Cancel("s1", job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusCancelled, got.Status)
	assert.Equal(t, "Análise cancelada", got.Error)

	_, err = jobs.Cancel("s1", "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobs_FailureIsReported(t *testing.T) {
	m := fastMock()
	m.ForceFailure = true
	jobs := NewJobs(m, nil)
	defer jobs.Close()

	job, err := jobs.Submit(context.Background(), "s1", Image{Source: SourceCamera})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got, err := jobs.Wait(ctx, "s1", job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AnalysisStatusFailed, got.Status)
	assert.NotEmpty(t, got.Error)
}

func TestJobs_ArchivesUploads(t *testing.T) {
	archiver := &fakeArchiver{}
	jobs := NewJobs(fastMock(), nil, WithArchiver(archiver))
	defer jobs.Close()

	img := Image{Data: pngBytes(t, 2, 2), ContentType: "image/png", Filename: "rotulo.png", Source: SourceUpload}
	job, err := jobs.Submit(context.Background(), "s1", img)
	require.NoError(t, err)
	assert.Equal(t, "labels/rotulo.png", job.ImageKey)

	archiver.err = errors.New("bucket down")
	job, err = jobs.Submit(context.Background(), "s1", img)
	require.NoError(t, err, "archive failures do not block analysis")
	assert.Empty(t, job.ImageKey)
}

func TestJobs_PrunesExpiredJobs(t *testing.T) {
	now := time.Now()
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	jobs := NewJobs(fastMock(), nil, WithClock(clock), WithRetention(time.Minute))
	defer jobs.Close()

	job, err := jobs.Submit(context.Background(), "s1", Image{Source: SourceCamera})
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = jobs.Wait(ctx, "s1", job.ID)
	require.NoError(t, err)

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()

	_, err = jobs.Submit(context.Background(), "s2", Image{Source: SourceCamera})
	require.NoError(t, err)

	_, err = jobs.Get("s1", job.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.Equal(t, 1, jobs.Len())
}

func TestAlternatives(t *testing.T) {
	c := testCatalog()

	alts := Alternatives(&models.AnalysisResult{Allergens: []string{"glúten"}}, c)
	require.Len(t, alts, 2)
	assert.Equal(t, "Quinoa", alts[0].Name, "best rated first")

	assert.Nil(t, Alternatives(&models.AnalysisResult{}, c))
	assert.Nil(t, Alternatives(nil, c))
}
