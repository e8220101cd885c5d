package analysis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foxxcyber/healthy-food/internal/catalog"
	"github.com/foxxcyber/healthy-food/internal/metrics"
	"github.com/foxxcyber/healthy-food/internal/models"
)

const (
	defaultRetention = 30 * time.Minute
	maxAlternatives  = 6
)

var ErrJobNotFound = errors.New("analysis job not found")

// Archiver stores submitted label images and returns their object key
type Archiver interface {
	ArchiveLabel(ctx context.Context, data []byte, contentType, filename string) (string, error)
}

// ProductLister is the catalog view used to suggest alternatives
type ProductLister interface {
	ListFiltered(f models.SearchFilters, supplierOverride string) []models.Product
}

// Jobs runs analyses in the background, one active job per session. A new
// submission supersedes the session's pending job, whose late result is
// discarded.
type Jobs struct {
	analyzer  Analyzer
	products  ProductLister
	archiver  Archiver
	tracker   *Tracker
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time

	base context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu        sync.RWMutex
	jobs      map[string]*job
	bySession map[string]string
}

type job struct {
	models.AnalysisJob
	token uint64
	done  chan struct{}
}

// JobsOption configures Jobs
type JobsOption func(*Jobs)

// WithArchiver archives every uploaded image before analysis
func WithArchiver(a Archiver) JobsOption {
	return func(j *Jobs) {
		j.archiver = a
	}
}

// WithRetention sets how long finished jobs stay queryable
func WithRetention(d time.Duration) JobsOption {
	return func(j *Jobs) {
		j.retention = d
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) JobsOption {
	return func(j *Jobs) {
		j.logger = l
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) JobsOption {
	return func(j *Jobs) {
		j.now = now
	}
}

// NewJobs creates a job runner. products may be nil, in which case no
// alternatives are suggested.
func NewJobs(analyzer Analyzer, products ProductLister, opts ...JobsOption) *Jobs {
	base, stop := context.WithCancel(context.Background())
	j := &Jobs{
		analyzer:  analyzer,
		products:  products,
		tracker:   NewTracker(),
		retention: defaultRetention,
		logger:    zap.L(),
		now:       time.Now,
		base:      base,
		stop:      stop,
		jobs:      make(map[string]*job),
		bySession: make(map[string]string),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Submit validates img and starts analysing it for sessionID. The session's
// previous pending job, if any, is cancelled.
func (j *Jobs) Submit(ctx context.Context, sessionID string, img Image) (models.AnalysisJob, error) {
	if img.Source == "" {
		img.Source = SourceUpload
	}
	if err := Validate(img); err != nil {
		metrics.RecordAnalysis(string(img.Source), "rejected")
		return models.AnalysisJob{}, err
	}

	j.prune()

	var imageKey string
	if j.archiver != nil && len(img.Data) > 0 {
		key, err := j.archiver.ArchiveLabel(ctx, img.Data, img.ContentType, img.Filename)
		if err != nil {
			j.logger.Warn("Failed to archive label image", zap.String("session_id", sessionID), zap.Error(err))
		} else {
			imageKey = key
		}
	}

	// The newest token must also be the job registered for the session.
	j.mu.Lock()
	runCtx, token := j.tracker.Start(j.base, sessionID)
	jb := &job{
		AnalysisJob: models.AnalysisJob{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			Status:    models.AnalysisStatusPending,
			Source:    string(img.Source),
			ImageKey:  imageKey,
			CreatedAt: j.now(),
		},
		token: token,
		done:  make(chan struct{}),
	}
	if prevID, ok := j.bySession[sessionID]; ok {
		if prev, ok := j.jobs[prevID]; ok {
			j.finishLocked(prev, models.AnalysisStatusCancelled)
		}
	}
	j.jobs[jb.ID] = jb
	j.bySession[sessionID] = jb.ID
	snapshot := jb.AnalysisJob
	j.mu.Unlock()

	j.wg.Add(1)
	go j.run(runCtx, jb, img)

	return snapshot, nil
}

func (j *Jobs) run(ctx context.Context, jb *job, img Image) {
	defer j.wg.Done()

	start := j.now()
	result, err := j.analyzer.Analyze(ctx, img)
	active := j.tracker.Finish(jb.SessionID, jb.token)

	var alternatives []models.Product
	if err == nil && active {
		alternatives = Alternatives(result, j.products)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if jb.Status != models.AnalysisStatusPending {
		return
	}

	switch {
	case !active || errors.Is(err, context.Canceled):
		j.finishLocked(jb, models.AnalysisStatusCancelled)
	case err != nil:
		jb.Error = UserMessage(err)
		j.finishLocked(jb, models.AnalysisStatusFailed)
		j.logger.Warn("Label analysis failed",
			zap.String("job_id", jb.ID),
			zap.String("source", jb.Source),
			zap.Error(err))
	default:
		jb.Result = result
		jb.Alternatives = alternatives
		j.finishLocked(jb, models.AnalysisStatusDone)
		metrics.AnalysisDuration.WithLabelValues(jb.Source).Observe(j.now().Sub(start).Seconds())
	}
}

// finishLocked moves a pending job to a terminal status. Callers hold j.mu.
func (j *Jobs) finishLocked(jb *job, status models.AnalysisStatus) {
	if jb.Status != models.AnalysisStatusPending {
		return
	}
	finished := j.now()
	jb.Status = status
	jb.FinishedAt = &finished
	if status == models.AnalysisStatusCancelled && jb.Error == "" {
		jb.Error = UserMessage(context.Canceled)
	}
	close(jb.done)
	metrics.RecordAnalysis(jb.Source, string(status))
}

func (j *Jobs) lookup(sessionID, id string) (*job, error) {
	jb, ok := j.jobs[id]
	if !ok || jb.SessionID != sessionID {
		return nil, ErrJobNotFound
	}
	return jb, nil
}

// Get returns a job owned by sessionID
func (j *Jobs) Get(sessionID, id string) (models.AnalysisJob, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	jb, err := j.lookup(sessionID, id)
	if err != nil {
		return models.AnalysisJob{}, err
	}
	return jb.AnalysisJob, nil
}

// Wait blocks until the job finishes or ctx is done, then returns its state
func (j *Jobs) Wait(ctx context.Context, sessionID, id string) (models.AnalysisJob, error) {
	j.mu.RLock()
	jb, err := j.lookup(sessionID, id)
	j.mu.RUnlock()
	if err != nil {
		return models.AnalysisJob{}, err
	}

	select {
	case <-jb.done:
	case <-ctx.Done():
	}
	return j.Get(sessionID, id)
}

// Cancel stops a pending job. Finished jobs are returned unchanged.
func (j *Jobs) Cancel(sessionID, id string) (models.AnalysisJob, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	jb, err := j.lookup(sessionID, id)
	if err != nil {
		return models.AnalysisJob{}, err
	}
	if jb.Status == models.AnalysisStatusPending {
		if j.tracker.IsActive(sessionID, jb.token) {
			j.tracker.Cancel(sessionID)
		}
		j.finishLocked(jb, models.AnalysisStatusCancelled)
	}
	return jb.AnalysisJob, nil
}

// prune drops finished jobs older than the retention window
func (j *Jobs) prune() {
	cutoff := j.now().Add(-j.retention)

	j.mu.Lock()
	defer j.mu.Unlock()

	for id, jb := range j.jobs {
		if jb.FinishedAt == nil || jb.FinishedAt.After(cutoff) {
			continue
		}
		delete(j.jobs, id)
		if j.bySession[jb.SessionID] == id {
			delete(j.bySession, jb.SessionID)
		}
	}
}

// Len returns the number of retained jobs
func (j *Jobs) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.jobs)
}

// Close cancels running analyses and waits for them to exit
func (j *Jobs) Close() {
	j.stop()
	j.tracker.CancelAll()
	j.wg.Wait()
}

// Alternatives returns catalog products free of the allergens found on the
// label, best rated first. It returns nil when the label has no allergens.
func Alternatives(result *models.AnalysisResult, products ProductLister) []models.Product {
	if result == nil || products == nil || len(result.Allergens) == 0 {
		return nil
	}

	safe := products.ListFiltered(models.SearchFilters{Allergies: result.Allergens}, "")
	catalog.SortProducts(safe, models.SortByRating)
	if len(safe) > maxAlternatives {
		safe = safe[:maxAlternatives]
	}
	return safe
}
