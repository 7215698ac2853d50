// Package report aggregates decision-log history into routing accuracy
// reports used for rule tuning.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bpo_server/core/domain"
	"bpo_server/core/port/out"
	"bpo_server/pkg/logger"
)

// Service builds routing reports from the Postgres decision log and stores
// them as documents.
type Service struct {
	decisions out.DecisionLogRepository
	reports   out.RoutingReportRepository
	window    time.Duration
	now       func() time.Time
	log       *logger.Logger
}

// NewService creates a report service. window bounds how far back the
// aggregation reads (default 7 days).
func NewService(decisions out.DecisionLogRepository, reports out.RoutingReportRepository, window time.Duration) *Service {
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	return &Service{
		decisions: decisions,
		reports:   reports,
		window:    window,
		now:       time.Now,
		log:       logger.Default().WithField("component", "report_service"),
	}
}

// Rebuild aggregates the decision log over the configured window and stores
// the resulting report. Returns the stored report.
func (s *Service) Rebuild(ctx context.Context) (*domain.RoutingReport, error) {
	now := s.now()
	since := now.Add(-s.window)

	entries, err := s.decisions.ListHistorySince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list routing history: %w", err)
	}

	report := aggregate(entries, now, since)
	if err := s.reports.Save(ctx, report); err != nil {
		return nil, fmt.Errorf("save routing report: %w", err)
	}

	s.log.WithFields(map[string]any{
		"total":      report.Total,
		"overridden": report.Overridden,
	}).Info("Routing report rebuilt")

	return report, nil
}

// Latest returns the most recently generated report.
func (s *Service) Latest(ctx context.Context) (*domain.RoutingReport, error) {
	return s.reports.Latest(ctx)
}

func aggregate(entries []*domain.RoutingHistoryEntry, generatedAt, windowStart time.Time) *domain.RoutingReport {
	report := &domain.RoutingReport{
		ID:          uuid.NewString(),
		GeneratedAt: generatedAt,
		WindowStart: windowStart,
		ByCategory:  make(map[string]domain.CategoryStats),
	}

	confidenceSums := make(map[string]float64)
	var totalConfidence float64

	for _, e := range entries {
		report.Total++
		totalConfidence += e.Confidence

		stats := report.ByCategory[e.SuggestedCategory]
		stats.Total++
		confidenceSums[e.SuggestedCategory] += e.Confidence
		if e.WasOverridden {
			report.Overridden++
			stats.Overridden++
		}
		report.ByCategory[e.SuggestedCategory] = stats
	}

	if report.Total > 0 {
		report.OverrideRate = float64(report.Overridden) / float64(report.Total)
		report.AvgConfidence = totalConfidence / float64(report.Total)
	}
	for category, stats := range report.ByCategory {
		stats.OverrideRate = float64(stats.Overridden) / float64(stats.Total)
		stats.AvgConfidence = confidenceSums[category] / float64(stats.Total)
		report.ByCategory[category] = stats
	}

	return report
}
