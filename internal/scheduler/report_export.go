package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/stockwise/internal/modules/portfolio"
	"github.com/aristath/stockwise/internal/modules/report"
)

// Analyzer produces a priced portfolio analysis
type Analyzer interface {
	Analyze(ctx context.Context) portfolio.Analysis
}

// ReportExportJob writes the text report into a directory
type ReportExportJob struct {
	analyzer Analyzer
	dir      string
	timeout  time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewReportExportJob creates a job writing reports into dir.
// timeout bounds the price fetch of a single run.
func NewReportExportJob(analyzer Analyzer, dir string, timeout time.Duration, log zerolog.Logger) *ReportExportJob {
	return &ReportExportJob{
		analyzer: analyzer,
		dir:      dir,
		timeout:  timeout,
		now:      time.Now,
		log:      log.With().Str("job", "report_export").Logger(),
	}
}

// Name returns the job name
func (j *ReportExportJob) Name() string {
	return "report_export"
}

// Run executes the report export job
func (j *ReportExportJob) Run() error {
	_, err := j.Export()
	return err
}

// Export writes one report and returns its path
func (j *ReportExportJob) Export() (string, error) {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	a := j.analyzer.Analyze(ctx)
	rep := report.Generate(a.Result, a.Suggestions, j.now())

	if err := os.MkdirAll(j.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(j.dir, rep.Filename())
	if err := os.WriteFile(path, []byte(rep.Body), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	for _, w := range a.Warnings {
		j.log.Warn().Str("warning", w).Msg("Report generated from degraded data")
	}
	j.log.Info().
		Str("path", path).
		Str("report_id", rep.ID).
		Int("holdings", len(a.Snapshot.Holdings)).
		Msg("Report exported")

	return path, nil
}
