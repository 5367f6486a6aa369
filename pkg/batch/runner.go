// Package batch runs single-document keyword extraction over many documents
// with a bounded worker pool, retries and per-document status tracking.
package batch

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/athapong/aio-keywords/pkg/keywords"
	"github.com/athapong/aio-keywords/pkg/metrics"
)

// Status is the processing state of a document.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job is one document to extract keywords from. An empty ID is replaced
// with a generated one.
type Job struct {
	ID          string            `json:"id"`
	Content     string            `json:"-"`
	MaxKeywords int               `json:"max_keywords,omitempty"`
	MinScore    float64           `json:"min_score,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Result is the outcome of a job.
type Result struct {
	JobID    string            `json:"job_id"`
	Status   Status            `json:"status"`
	Attempts int               `json:"attempts"`
	Report   *keywords.Report  `json:"report,omitempty"`
	Err      error             `json:"-"`
	Error    string            `json:"error,omitempty"`
	Duration time.Duration     `json:"duration"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Extractor extracts a keyword report from one document.
type Extractor interface {
	ExtractReport(req keywords.ExtractRequest) (*keywords.Report, error)
}

// Runner processes jobs concurrently.
type Runner struct {
	extractor   Extractor
	pool        *ants.Pool
	poolSize    int
	maxAttempts int
	baseDelay   time.Duration
	logger      *logrus.Logger

	mu       sync.RWMutex
	statuses map[string]Status
}

// Option configures a Runner.
type Option func(*Runner) error

// WithPoolSize sets the number of concurrent workers.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(r *Runner) error {
		if size < 1 {
			return ErrInvalidPoolSize
		}
		r.poolSize = size
		return nil
	}
}

// WithMaxAttempts sets how many times a failing document is tried. Default 3.
func WithMaxAttempts(n int) Option {
	return func(r *Runner) error {
		if n < 1 {
			return ErrInvalidMaxAttempts
		}
		r.maxAttempts = n
		return nil
	}
}

// WithBaseDelay sets the delay before the first retry. Default 100ms.
func WithBaseDelay(d time.Duration) Option {
	return func(r *Runner) error {
		if d < 0 {
			d = 0
		}
		r.baseDelay = d
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(r *Runner) error {
		if logger != nil {
			r.logger = logger
		}
		return nil
	}
}

// NewRunner creates a runner. Call Release when done.
func NewRunner(extractor Extractor, opts ...Option) (*Runner, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	r := &Runner{
		extractor:   extractor,
		poolSize:    poolSize,
		maxAttempts: 3,
		baseDelay:   100 * time.Millisecond,
		logger:      logger,
		statuses:    make(map[string]Status),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(r.poolSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create worker pool")
	}
	r.pool = pool
	return r, nil
}

// Release stops the worker pool.
func (r *Runner) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// Run processes jobs and returns one result per job, in job order. A
// document that still fails after the last attempt is reported with
// StatusFailed; it never aborts the batch.
func (r *Runner) Run(ctx context.Context, jobs []Job) []Result {
	r.logger.WithField("document_count", len(jobs)).Info("Starting batch processing")

	jobs = append([]Job(nil), jobs...)
	for i := range jobs {
		if jobs[i].ID == "" {
			jobs[i].ID = uuid.NewString()
		}
		r.setStatus(jobs[i].ID, StatusQueued)
	}
	metrics.BatchQueueLength.Add(float64(len(jobs)))

	results := make([]Result, len(jobs))
	var wg sync.WaitGroup
	for i := range jobs {
		i := i
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			results[i] = r.process(ctx, jobs[i])
		})
		if err != nil {
			wg.Done()
			metrics.BatchQueueLength.Dec()
			results[i] = r.finish(jobs[i], nil, 0, 0, errors.Wrap(err, "failed to submit job"))
		}
	}
	wg.Wait()

	completed := 0
	for _, res := range results {
		if res.Status == StatusCompleted {
			completed++
		}
	}
	r.logger.WithFields(logrus.Fields{
		"document_count": len(jobs),
		"completed":      completed,
		"failed":         len(jobs) - completed,
	}).Info("Batch processing completed")

	return results
}

func (r *Runner) process(ctx context.Context, job Job) Result {
	metrics.BatchQueueLength.Dec()
	r.setStatus(job.ID, StatusProcessing)
	start := time.Now()

	req := keywords.ExtractRequest{
		Content:     job.Content,
		MaxKeywords: job.MaxKeywords,
		MinScore:    job.MinScore,
	}
	if req.MaxKeywords <= 0 {
		req.MaxKeywords = keywords.DefaultMaxKeywords
	}

	attempts := 0
	var report *keywords.Report
	err := RetryWithBackoff(ctx, func() error {
		attempts++
		rep, err := r.extractor.ExtractReport(req)
		if err != nil {
			r.logger.WithError(err).WithFields(logrus.Fields{
				"doc_id":  job.ID,
				"attempt": attempts,
			}).Warn("Document extraction failed")
			return err
		}
		report = rep
		return nil
	}, r.maxAttempts, r.baseDelay)

	return r.finish(job, report, attempts, time.Since(start), err)
}

func (r *Runner) finish(job Job, report *keywords.Report, attempts int, duration time.Duration, err error) Result {
	res := Result{
		JobID:    job.ID,
		Status:   StatusCompleted,
		Attempts: attempts,
		Report:   report,
		Duration: duration,
		Metadata: job.Metadata,
	}
	if err != nil {
		res.Status = StatusFailed
		res.Report = nil
		res.Err = err
		res.Error = err.Error()
		r.logger.WithError(err).WithField("doc_id", job.ID).Error("Failed to process document")
	}
	r.setStatus(job.ID, res.Status)
	metrics.BatchDocuments.WithLabelValues(string(res.Status)).Inc()
	return res
}

func (r *Runner) setStatus(id string, status Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[id] = status
}

// Status returns the status of a document.
func (r *Runner) Status(id string) (Status, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.statuses[id]
	return s, ok
}

// Statuses returns the ids of every known document grouped by status.
func (r *Runner) Statuses() map[Status][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[Status][]string)
	for id, s := range r.statuses {
		out[s] = append(out[s], id)
	}
	for _, ids := range out {
		sort.Strings(ids)
	}
	return out
}
