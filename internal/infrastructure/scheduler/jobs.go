package scheduler

import (
	"context"

	"github.com/salesmanager/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Job names of the built-in maintenance jobs
const (
	JobDownloadPurge   = "download-purge"
	JobSearchReindex   = "search-reindex"
	JobResetTokenPurge = "reset-token-purge"
)

// DownloadPurger deletes exhausted or expired download grants
type DownloadPurger interface {
	PurgeExpiredDownloads(ctx context.Context) (int64, error)
}

// ResetTokenPurger deletes expired password reset tokens
type ResetTokenPurger interface {
	PurgeExpiredResetTokens(ctx context.Context) (int64, error)
}

// SearchReindexer rebuilds the autocomplete index of every store
type SearchReindexer interface {
	ReindexAll(ctx context.Context) error
}

// MaintenanceServices groups the services the maintenance jobs call.
// A nil service leaves its job unregistered.
type MaintenanceServices struct {
	Downloads   DownloadPurger
	ResetTokens ResetTokenPurger
	Search      SearchReindexer
}

// RegisterMaintenanceJobs registers the download purge, search reindex and
// reset token purge jobs on their configured schedules
func RegisterMaintenanceJobs(s *Scheduler, cfg config.SchedulerConfig, svc MaintenanceServices, logger *zap.Logger) error {
	var jobs []Job
	if svc.Downloads != nil {
		jobs = append(jobs, purgeJob(JobDownloadPurge, cfg.DownloadPurgeCron, svc.Downloads.PurgeExpiredDownloads, logger))
	}
	if svc.ResetTokens != nil {
		jobs = append(jobs, purgeJob(JobResetTokenPurge, cfg.ResetTokenPurgeCron, svc.ResetTokens.PurgeExpiredResetTokens, logger))
	}
	if svc.Search != nil {
		jobs = append(jobs, Job{Name: JobSearchReindex, Spec: cfg.SearchReindexCron, Run: svc.Search.ReindexAll})
	}

	for _, job := range jobs {
		if err := s.Register(job); err != nil {
			return err
		}
	}
	return nil
}

func purgeJob(name, spec string, purge func(context.Context) (int64, error), logger *zap.Logger) Job {
	return Job{
		Name: name,
		Spec: spec,
		Run: func(ctx context.Context) error {
			n, err := purge(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("Purged expired records", zap.String("job", name), zap.Int64("count", n))
			}
			return nil
		},
	}
}
