package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/stockwise/internal/clientdata"
	"github.com/aristath/stockwise/internal/config"
	"github.com/aristath/stockwise/internal/database"
	"github.com/aristath/stockwise/internal/scheduler"
)

// Maintenance job schedules
const (
	ClientDataCleanupSchedule = "@hourly"
	CheckWALSchedule          = "*/30 * * * *"
	CheckDatabasesSchedule    = "15 3 * * *"
)

// RegisterJobs creates the scheduler and registers background jobs on it.
// The scheduler is not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	sched := scheduler.New(log)
	container.Scheduler = sched

	databases := map[string]*database.DB{
		database.NamePortfolio: container.PortfolioDB,
		database.NameCache:     container.CacheDB,
	}

	jobs := &JobInstances{
		ClientDataCleanup: clientdata.NewCleanupJob(container.ClientDataRepo, log),
		CheckWAL:          scheduler.NewCheckWALCheckpointsJob(databases, log),
		CheckDatabases:    scheduler.NewCheckDatabasesJob(databases, log),
	}

	if err := sched.AddJob(ClientDataCleanupSchedule, jobs.ClientDataCleanup); err != nil {
		return nil, fmt.Errorf("failed to register client data cleanup job: %w", err)
	}
	if err := sched.AddJob(CheckWALSchedule, jobs.CheckWAL); err != nil {
		return nil, fmt.Errorf("failed to register WAL check job: %w", err)
	}
	if err := sched.AddJob(CheckDatabasesSchedule, jobs.CheckDatabases); err != nil {
		return nil, fmt.Errorf("failed to register database check job: %w", err)
	}

	if cfg.ReportSchedule != "" {
		jobs.ReportExport = scheduler.NewReportExportJob(
			container.PortfolioService,
			cfg.Path("reports"),
			cfg.PriceFetchTimeout*2,
			log,
		)
		if err := sched.AddJob(cfg.ReportSchedule, jobs.ReportExport); err != nil {
			return nil, fmt.Errorf("invalid REPORT_SCHEDULE %q: %w", cfg.ReportSchedule, err)
		}
	}

	log.Info().Int("jobs", sched.Jobs()).Msg("Jobs registered")
	return jobs, nil
}
