package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/salesmanager/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestScheduler(timeout time.Duration) *Scheduler {
	return New(Config{JobTimeout: timeout, Location: time.UTC}, zap.NewNop())
}

func noop(context.Context) error { return nil }

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		job     Job
		wantErr error
	}{
		{"valid", Job{Name: "a", Spec: "0 3 * * *", Run: noop}, nil},
		{"descriptor", Job{Name: "b", Spec: "@hourly", Run: noop}, nil},
		{"bad spec", Job{Name: "c", Spec: "every day", Run: noop}, ErrInvalidSchedule},
		{"seconds field not accepted", Job{Name: "d", Spec: "0 0 3 * * *", Run: noop}, ErrInvalidSchedule},
		{"missing name", Job{Spec: "@daily", Run: noop}, ErrInvalidJob},
		{"missing run", Job{Name: "e", Spec: "@daily"}, ErrInvalidJob},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScheduler(time.Second)
			err := s.Register(tt.job)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, s.Entries())
				return
			}
			require.NoError(t, err)
			assert.Len(t, s.Entries(), 1)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	s := newTestScheduler(time.Second)
	require.NoError(t, s.Register(Job{Name: "purge", Spec: "@daily", Run: noop}))
	err := s.Register(Job{Name: "purge", Spec: "@hourly", Run: noop})
	assert.ErrorIs(t, err, ErrDuplicateJob)
}

func TestRunNow_RecordsOutcome(t *testing.T) {
	s := newTestScheduler(time.Second)
	boom := errors.New("boom")
	require.NoError(t, s.Register(Job{Name: "ok", Spec: "@daily", Run: noop}))
	require.NoError(t, s.Register(Job{Name: "fail", Spec: "@daily", Run: func(context.Context) error { return boom }}))

	require.NoError(t, s.RunNow(context.Background(), "ok"))
	run, ok := s.LastRun("ok")
	require.True(t, ok)
	assert.Equal(t, JobStatusCompleted, run.Status)
	assert.Empty(t, run.Error)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))

	err := s.RunNow(context.Background(), "fail")
	assert.ErrorIs(t, err, boom)
	run, ok = s.LastRun("fail")
	require.True(t, ok)
	assert.Equal(t, JobStatusFailed, run.Status)
	assert.Equal(t, "boom", run.Error)

	assert.ErrorIs(t, s.RunNow(context.Background(), "missing"), ErrJobNotFound)
	_, ok = s.LastRun("missing")
	assert.False(t, ok)
}

func TestRunNow_AppliesTimeout(t *testing.T) {
	s := newTestScheduler(20 * time.Millisecond)
	require.NoError(t, s.Register(Job{Name: "slow", Spec: "@daily", Run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}))

	err := s.RunNow(context.Background(), "slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler(time.Second)
	require.NoError(t, s.Register(Job{Name: "a", Spec: "@daily", Run: noop}))

	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Name)
	assert.False(t, entries[0].Next.IsZero())

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))
	require.NoError(t, s.Stop(stopCtx))
	assert.False(t, s.IsRunning())
}

type fakeMaintenance struct {
	downloads int
	tokens    int
	reindexed int
	err       error
}

func (f *fakeMaintenance) PurgeExpiredDownloads(context.Context) (int64, error) {
	f.downloads++
	return 3, f.err
}

func (f *fakeMaintenance) PurgeExpiredResetTokens(context.Context) (int64, error) {
	f.tokens++
	return 0, f.err
}

func (f *fakeMaintenance) ReindexAll(context.Context) error {
	f.reindexed++
	return f.err
}

func maintenanceConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:             true,
		DownloadPurgeCron:   "0 3 * * *",
		SearchReindexCron:   "30 3 * * *",
		ResetTokenPurgeCron: "0 * * * *",
		JobTimeout:          time.Minute,
	}
}

func TestRegisterMaintenanceJobs(t *testing.T) {
	s := newTestScheduler(time.Second)
	f := &fakeMaintenance{}
	svc := MaintenanceServices{Downloads: f, ResetTokens: f, Search: f}

	require.NoError(t, RegisterMaintenanceJobs(s, maintenanceConfig(), svc, zap.NewNop()))

	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, JobDownloadPurge, entries[0].Name)
	assert.Equal(t, "0 3 * * *", entries[0].Spec)
	assert.Equal(t, JobResetTokenPurge, entries[1].Name)
	assert.Equal(t, JobSearchReindex, entries[2].Name)

	ctx := context.Background()
	require.NoError(t, s.RunNow(ctx, JobDownloadPurge))
	require.NoError(t, s.RunNow(ctx, JobResetTokenPurge))
	require.NoError(t, s.RunNow(ctx, JobSearchReindex))
	assert.Equal(t, 1, f.downloads)
	assert.Equal(t, 1, f.tokens)
	assert.Equal(t, 1, f.reindexed)

	f.err = errors.New("db down")
	assert.Error(t, s.RunNow(ctx, JobDownloadPurge))
}

func TestRegisterMaintenanceJobs_SkipsMissingServices(t *testing.T) {
	s := newTestScheduler(time.Second)
	f := &fakeMaintenance{}

	require.NoError(t, RegisterMaintenanceJobs(s, maintenanceConfig(), MaintenanceServices{Search: f}, zap.NewNop()))
	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, JobSearchReindex, entries[0].Name)
}

func TestRegisterMaintenanceJobs_InvalidSpec(t *testing.T) {
	s := newTestScheduler(time.Second)
	cfg := maintenanceConfig()
	cfg.DownloadPurgeCron = "nightly"

	err := RegisterMaintenanceJobs(s, cfg, MaintenanceServices{Downloads: &fakeMaintenance{}}, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}
