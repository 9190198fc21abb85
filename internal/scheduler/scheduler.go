// Package scheduler runs the daily metrics report: once a day it logs the
// previous day's summary count and averages, the same aggregates the
// dashboards read.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	dailyReportSpec       = "0 0 * * *"
	timezone              = "UTC"
	timezoneOffsetSeconds = 0
	reportTimeout         = time.Minute
)

// MetricsReader is the aggregate read side of the metrics store.
type MetricsReader interface {
	CountInWindow(ctx context.Context, start, end time.Time) (int64, error)
	AvgProcessingTimeInWindow(ctx context.Context, start, end time.Time) (float64, error)
	AvgConfidenceInWindow(ctx context.Context, start, end time.Time) (float64, error)
}

type Scheduler struct {
	ctx     context.Context
	cron    *cron.Cron
	metrics MetricsReader
	log     *slog.Logger
}

func New(ctx context.Context, metrics MetricsReader, log *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLocation(time.FixedZone(timezone, timezoneOffsetSeconds)))

	return &Scheduler{
		ctx:     ctx,
		cron:    c,
		metrics: metrics,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(dailyReportSpec, s.reportYesterday); err != nil {
		return err
	}

	s.cron.Start()

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) reportYesterday() {
	ctx, cancel := context.WithTimeout(s.ctx, reportTimeout)
	defer cancel()

	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.Add(-24 * time.Hour)

	count, err := s.metrics.CountInWindow(ctx, start, end)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to count summaries for daily report",
			"error", err,
			"start", start,
			"end", end)
		return
	}

	avgTime, err := s.metrics.AvgProcessingTimeInWindow(ctx, start, end)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to average processing time for daily report",
			"error", err,
			"start", start,
			"end", end)
		return
	}

	avgConfidence, err := s.metrics.AvgConfidenceInWindow(ctx, start, end)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to average confidence for daily report",
			"error", err,
			"start", start,
			"end", end)
		return
	}

	s.log.InfoContext(ctx, "Daily summarization report",
		"start", start,
		"end", end,
		"count", count,
		"avgProcessingTimeMs", avgTime,
		"avgConfidence", avgConfidence)
}
