package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Doppler617492/AltaWmsProject-sub001/internal/domain/integration"
)

// fakeRunner is a controllable SyncRunner
type fakeRunner struct {
	mu      sync.Mutex
	calls   int
	results []*integration.SyncResult
	err     error
}

func (f *fakeRunner) Sync(_ context.Context, _ *integration.SyncRequest) (*integration.SyncResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) > 0 {
		r := f.results[0]
		if len(f.results) > 1 {
			f.results = f.results[1:]
		}
		return r, nil
	}
	return &integration.SyncResult{}, nil
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func defaultRequest() *integration.SyncRequest {
	req := integration.NewSyncRequest()
	req.Receiving = &integration.ReceivingFilter{DateFrom: "2024-01-01"}
	return req
}

func testConfig() SyncSchedulerConfig {
	return SyncSchedulerConfig{
		Interval:   50 * time.Millisecond,
		JobTimeout: 20 * time.Millisecond,
		RunOnStart: true,
	}
}

func TestSyncSchedulerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  SyncSchedulerConfig
		wantErr bool
	}{
		{name: "defaults are valid", config: DefaultSyncSchedulerConfig()},
		{name: "zero interval", config: SyncSchedulerConfig{JobTimeout: time.Minute}, wantErr: true},
		{name: "zero timeout", config: SyncSchedulerConfig{Interval: time.Minute}, wantErr: true},
		{
			name:    "timeout not shorter than interval",
			config:  SyncSchedulerConfig{Interval: time.Minute, JobTimeout: time.Minute},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSyncScheduler_RunsOnInterval(t *testing.T) {
	runner := &fakeRunner{}
	s, err := NewSyncScheduler(testConfig(), runner, defaultRequest, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	time.Sleep(130 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))

	// One run on start plus at least two ticks.
	assert.GreaterOrEqual(t, runner.callCount(), 3)
}

func TestSyncScheduler_RecordsHistory(t *testing.T) {
	runner := &fakeRunner{results: []*integration.SyncResult{{
		ReceivingCount:    5,
		ReceivingImported: 4,
		Errors:            []string{"receiving PR-9: duplicate key"},
	}}}

	cfg := testConfig()
	s, err := NewSyncScheduler(cfg, runner, defaultRequest, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	time.Sleep(20 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))

	history := s.History(0)
	require.NotEmpty(t, history)

	job := history[len(history)-1] // oldest entry is the start run
	assert.Equal(t, SyncJobStatusPartial, job.Status)
	assert.Equal(t, 5, job.ReceivingCount)
	assert.Equal(t, 4, job.ReceivingImported)
	assert.Len(t, job.DocumentErrors, 1)
	assert.NotNil(t, job.StartedAt)
	assert.NotNil(t, job.CompletedAt)
}

func TestSyncScheduler_FailedRun(t *testing.T) {
	runner := &fakeRunner{err: errors.New("provider unreachable")}
	s, err := NewSyncScheduler(testConfig(), runner, defaultRequest, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	time.Sleep(20 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))

	history := s.History(1)
	require.Len(t, history, 1)
	assert.Equal(t, SyncJobStatusFailed, history[0].Status)
	assert.Contains(t, history[0].Error, "provider unreachable")
}

func TestSyncScheduler_RunNow(t *testing.T) {
	runner := &fakeRunner{results: []*integration.SyncResult{{ShippingCount: 2}}}

	cfg := testConfig()
	cfg.RunOnStart = false
	s, err := NewSyncScheduler(cfg, runner, defaultRequest, zap.NewNop())
	require.NoError(t, err)

	// Not started yet
	_, err = s.RunNow(context.Background())
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)

	require.NoError(t, s.Start(context.Background()))

	job, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncJobStatusSuccess, job.Status)
	assert.Equal(t, 2, job.ShippingCount)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))
}

func TestSyncScheduler_StartIsIdempotent(t *testing.T) {
	runner := &fakeRunner{}
	cfg := testConfig()
	cfg.RunOnStart = false
	s, err := NewSyncScheduler(cfg, runner, defaultRequest, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))
	require.NoError(t, s.Stop(stopCtx))
}

func TestSyncScheduler_HistoryLimit(t *testing.T) {
	runner := &fakeRunner{}
	cfg := testConfig()
	cfg.RunOnStart = false
	s, err := NewSyncScheduler(cfg, runner, defaultRequest, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	for i := 0; i < 5; i++ {
		_, err := s.RunNow(context.Background())
		require.NoError(t, err)
	}

	assert.Len(t, s.History(3), 3)
	assert.Len(t, s.History(0), 5)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))
}
