package scheduler

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/stockwise/internal/database"
)

// walFrameWarning is the WAL size, in frames, above which a warning is logged
const walFrameWarning = 1000

// CheckWALCheckpointsJob runs a passive WAL checkpoint on each database
type CheckWALCheckpointsJob struct {
	databases map[string]*database.DB
	log       zerolog.Logger
}

// NewCheckWALCheckpointsJob creates a job over the named databases. Nil entries are skipped.
func NewCheckWALCheckpointsJob(databases map[string]*database.DB, log zerolog.Logger) *CheckWALCheckpointsJob {
	return &CheckWALCheckpointsJob{
		databases: databases,
		log:       log.With().Str("job", "check_wal_checkpoints").Logger(),
	}
}

// Name returns the job name
func (j *CheckWALCheckpointsJob) Name() string {
	return "check_wal_checkpoints"
}

// Run executes the check WAL checkpoints job.
// It fails only when every database failed to checkpoint.
func (j *CheckWALCheckpointsJob) Run() error {
	names := make([]string, 0, len(j.databases))
	for name := range j.databases {
		names = append(names, name)
	}
	sort.Strings(names)

	checkedCount, failedCount := 0, 0
	for _, name := range names {
		db := j.databases[name]
		if db == nil {
			continue
		}

		// PRAGMA wal_checkpoint returns: busy, log, checkpointed
		var busy, log, checkpointed int
		err := db.Conn().QueryRow("PRAGMA wal_checkpoint(PASSIVE)").Scan(&busy, &log, &checkpointed)
		if err != nil {
			j.log.Warn().
				Err(err).
				Str("database", name).
				Msg("Failed to check WAL checkpoint")
			failedCount++
			continue
		}

		if log > walFrameWarning {
			j.log.Warn().
				Str("database", name).
				Int("wal_frames", log).
				Int("checkpointed", checkpointed).
				Msg("WAL file is large, checkpoint may be needed")
		} else {
			j.log.Debug().
				Str("database", name).
				Int("wal_frames", log).
				Msg("WAL checkpoint status OK")
		}

		checkedCount++
	}

	j.log.Info().
		Int("checked", checkedCount).
		Int("failed", failedCount).
		Msg("WAL checkpoint check completed")

	if checkedCount == 0 && failedCount > 0 {
		return fmt.Errorf("WAL checkpoint failed on all %d databases", failedCount)
	}
	return nil
}
