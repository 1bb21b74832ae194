package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Doppler617492/AltaWmsProject-sub001/internal/domain/integration"
	"github.com/Doppler617492/AltaWmsProject-sub001/internal/infrastructure/logger"
)

// ---------------------------------------------------------------------------
// Sync Job Types
// ---------------------------------------------------------------------------

// SyncJobStatus represents the status of one scheduled sync run
type SyncJobStatus string

const (
	SyncJobStatusPending SyncJobStatus = "PENDING"
	SyncJobStatusRunning SyncJobStatus = "RUNNING"
	SyncJobStatusSuccess SyncJobStatus = "SUCCESS"
	SyncJobStatusPartial SyncJobStatus = "PARTIAL"
	SyncJobStatusFailed  SyncJobStatus = "FAILED"
)

// SyncJob records one run of the periodic sync
type SyncJob struct {
	ID          uuid.UUID
	Status      SyncJobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time

	// Run results
	ReceivingCount    int
	ShippingCount     int
	StockCount        int
	ReceivingImported int
	ShippingImported  int
	DocumentErrors    []string
}

// NewSyncJob creates a new pending sync job
func NewSyncJob() *SyncJob {
	return &SyncJob{
		ID:     uuid.New(),
		Status: SyncJobStatusPending,
	}
}

// Start marks the job as running
func (j *SyncJob) Start() {
	now := time.Now()
	j.Status = SyncJobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete records the run outcome. Per-document failures make the run
// partial, not failed.
func (j *SyncJob) Complete(result *integration.SyncResult) {
	now := time.Now()
	j.CompletedAt = &now
	j.ReceivingCount = result.ReceivingCount
	j.ShippingCount = result.ShippingCount
	j.StockCount = result.StockCount
	j.ReceivingImported = result.ReceivingImported
	j.ShippingImported = result.ShippingImported
	j.DocumentErrors = result.Errors

	if len(result.Errors) == 0 {
		j.Status = SyncJobStatusSuccess
	} else {
		j.Status = SyncJobStatusPartial
	}
}

// Fail marks the job as failed
func (j *SyncJob) Fail(err string) {
	now := time.Now()
	j.Status = SyncJobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ---------------------------------------------------------------------------
// SyncRunner Interface
// ---------------------------------------------------------------------------

// SyncRunner executes one sync pass
type SyncRunner interface {
	Sync(ctx context.Context, req *integration.SyncRequest) (*integration.SyncResult, error)
}

// RequestBuilder produces the sync request for each scheduled run. It is
// called per run so date windows track the current time.
type RequestBuilder func() *integration.SyncRequest

// ---------------------------------------------------------------------------
// SyncSchedulerConfig
// ---------------------------------------------------------------------------

// SyncSchedulerConfig holds configuration for the periodic sync
type SyncSchedulerConfig struct {
	// Interval is the time between runs
	Interval time.Duration
	// JobTimeout is the maximum time one run can take
	JobTimeout time.Duration
	// RunOnStart triggers a run immediately when the scheduler starts
	RunOnStart bool
}

// DefaultSyncSchedulerConfig returns default configuration
func DefaultSyncSchedulerConfig() SyncSchedulerConfig {
	return SyncSchedulerConfig{
		Interval:   15 * time.Minute,
		JobTimeout: 10 * time.Minute,
		RunOnStart: true,
	}
}

// Validate validates the configuration
func (c *SyncSchedulerConfig) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidConfig
	}
	if c.JobTimeout <= 0 || c.JobTimeout >= c.Interval {
		return ErrInvalidConfig
	}
	return nil
}

// ---------------------------------------------------------------------------
// SyncScheduler
// ---------------------------------------------------------------------------

// SyncScheduler runs the sync on a fixed interval. Runs are strictly
// sequential: a tick that arrives while a run is active is absorbed by the
// single loop goroutine, so two passes can never overlap.
type SyncScheduler struct {
	config       SyncSchedulerConfig
	runner       SyncRunner
	buildRequest RequestBuilder
	logger       *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	runMu     sync.Mutex

	// Run history for monitoring (in-memory, limited size)
	historyMu  sync.RWMutex
	history    []*SyncJob
	maxHistory int
}

// NewSyncScheduler creates a new sync scheduler
func NewSyncScheduler(config SyncSchedulerConfig, runner SyncRunner, buildRequest RequestBuilder, log *zap.Logger) (*SyncScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &SyncScheduler{
		config:       config,
		runner:       runner,
		buildRequest: buildRequest,
		logger:       log,
		history:      make([]*SyncJob, 0, 50),
		maxHistory:   50,
	}, nil
}

// Start starts the scheduler loop
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("sync scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("job_timeout", s.config.JobTimeout),
		zap.Bool("run_on_start", s.config.RunOnStart),
	)
	return nil
}

// Stop gracefully stops the scheduler, waiting for an in-flight run to
// finish or the given context to expire.
func (s *SyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("sync scheduler stop timed out")
		return ctx.Err()
	}
}

// RunNow triggers one run outside the schedule and returns its record.
// It refuses to overlap with an active run.
func (s *SyncScheduler) RunNow(ctx context.Context) (*SyncJob, error) {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()
	if !running {
		return nil, ErrSchedulerNotRunning
	}

	if !s.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.runMu.Unlock()

	return s.runOnce(ctx), nil
}

// History returns the most recent runs, newest first.
func (s *SyncScheduler) History(limit int) []*SyncJob {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}
	result := make([]*SyncJob, limit)
	copy(result, s.history[:limit])
	return result
}

// loop is the single scheduler goroutine
func (s *SyncScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	if s.config.RunOnStart {
		s.runLocked(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runLocked(ctx)
		}
	}
}

func (s *SyncScheduler) runLocked(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	s.runOnce(ctx)
}

// runOnce executes a single run and records it in history
func (s *SyncScheduler) runOnce(ctx context.Context) *SyncJob {
	job := NewSyncJob()
	job.Start()

	runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()
	runCtx, log := logger.WithSyncRunID(runCtx, s.logger, job.ID.String())

	log.Info("sync run started")

	result, err := s.runner.Sync(runCtx, s.buildRequest())
	if err != nil {
		job.Fail(err.Error())
		log.Error("sync run failed", zap.Error(err))
		s.addToHistory(job)
		return job
	}

	job.Complete(result)
	log.Info("sync run completed",
		zap.String("status", string(job.Status)),
		zap.Int("receiving_count", job.ReceivingCount),
		zap.Int("shipping_count", job.ShippingCount),
		zap.Int("stock_count", job.StockCount),
		zap.Int("receiving_imported", job.ReceivingImported),
		zap.Int("shipping_imported", job.ShippingImported),
		zap.Int("document_errors", len(job.DocumentErrors)),
	)
	s.addToHistory(job)
	return job
}

// addToHistory adds a completed job to history, newest first
func (s *SyncScheduler) addToHistory(job *SyncJob) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	s.history = append([]*SyncJob{job}, s.history...)
	if len(s.history) > s.maxHistory {
		s.history = s.history[:s.maxHistory]
	}
}
