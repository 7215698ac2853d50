package report

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"bpo_server/core/domain"
)

// fakeDecisionRepo serves canned history rows.
type fakeDecisionRepo struct {
	entries  []*domain.RoutingHistoryEntry
	err      error
	gotSince time.Time
}

func (f *fakeDecisionRepo) InsertHistory(ctx context.Context, e *domain.RoutingHistoryEntry) error {
	return f.err
}
func (f *fakeDecisionRepo) InsertSentiment(ctx context.Context, e *domain.SentimentEntry) error {
	return f.err
}
func (f *fakeDecisionRepo) InsertAssignment(ctx context.Context, e *domain.AssignmentEntry) error {
	return f.err
}
func (f *fakeDecisionRepo) InsertCategorization(ctx context.Context, e *domain.CategorizationEntry) error {
	return f.err
}

func (f *fakeDecisionRepo) ListHistorySince(ctx context.Context, since time.Time) ([]*domain.RoutingHistoryEntry, error) {
	f.gotSince = since
	return f.entries, f.err
}

// fakeReportRepo captures saved reports.
type fakeReportRepo struct {
	saved  []*domain.RoutingReport
	latest *domain.RoutingReport
	err    error
}

func (f *fakeReportRepo) Save(ctx context.Context, r *domain.RoutingReport) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, r)
	return nil
}

func (f *fakeReportRepo) Latest(ctx context.Context) (*domain.RoutingReport, error) {
	return f.latest, f.err
}

func entry(category string, confidence float64, overridden bool) *domain.RoutingHistoryEntry {
	return &domain.RoutingHistoryEntry{
		SuggestedCategory: category,
		SuggestedPriority: domain.PriorityMedium,
		Confidence:        confidence,
		WasOverridden:     overridden,
	}
}

func TestRebuildAggregates(t *testing.T) {
	decisions := &fakeDecisionRepo{entries: []*domain.RoutingHistoryEntry{
		entry("billing", 0.8, false),
		entry("billing", 0.6, true),
		entry("technical", 0.9, false),
		entry("general", 0.5, true),
	}}
	reports := &fakeReportRepo{}
	svc := NewService(decisions, reports, 24*time.Hour)

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	report, err := svc.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Total != 4 {
		t.Errorf("expected total 4, got %d", report.Total)
	}
	if report.Overridden != 2 {
		t.Errorf("expected 2 overridden, got %d", report.Overridden)
	}
	if math.Abs(report.OverrideRate-0.5) > 1e-9 {
		t.Errorf("expected override rate 0.5, got %v", report.OverrideRate)
	}
	if math.Abs(report.AvgConfidence-0.7) > 1e-9 {
		t.Errorf("expected avg confidence 0.7, got %v", report.AvgConfidence)
	}

	billing := report.ByCategory["billing"]
	if billing.Total != 2 || billing.Overridden != 1 {
		t.Errorf("unexpected billing stats: %+v", billing)
	}
	if math.Abs(billing.AvgConfidence-0.7) > 1e-9 {
		t.Errorf("expected billing avg confidence 0.7, got %v", billing.AvgConfidence)
	}

	if !decisions.gotSince.Equal(now.Add(-24 * time.Hour)) {
		t.Errorf("expected window start %v, got %v", now.Add(-24*time.Hour), decisions.gotSince)
	}
	if len(reports.saved) != 1 {
		t.Fatalf("expected 1 saved report, got %d", len(reports.saved))
	}
	if reports.saved[0].ID == "" {
		t.Error("report must carry a generated ID")
	}
}

func TestRebuildEmptyWindow(t *testing.T) {
	svc := NewService(&fakeDecisionRepo{}, &fakeReportRepo{}, time.Hour)

	report, err := svc.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Total != 0 || report.OverrideRate != 0 || report.AvgConfidence != 0 {
		t.Errorf("empty window must yield zero stats: %+v", report)
	}
}

func TestRebuildPropagatesErrors(t *testing.T) {
	listErr := errors.New("db down")
	svc := NewService(&fakeDecisionRepo{err: listErr}, &fakeReportRepo{}, time.Hour)
	if _, err := svc.Rebuild(context.Background()); !errors.Is(err, listErr) {
		t.Errorf("expected list error, got %v", err)
	}

	saveErr := errors.New("mongo down")
	svc = NewService(&fakeDecisionRepo{}, &fakeReportRepo{err: saveErr}, time.Hour)
	if _, err := svc.Rebuild(context.Background()); !errors.Is(err, saveErr) {
		t.Errorf("expected save error, got %v", err)
	}
}

func TestLatestPassthrough(t *testing.T) {
	want := &domain.RoutingReport{ID: "abc"}
	svc := NewService(&fakeDecisionRepo{}, &fakeReportRepo{latest: want}, time.Hour)

	got, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("expected passthrough of latest report")
	}
}
