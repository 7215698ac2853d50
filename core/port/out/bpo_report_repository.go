package out

import (
	"context"

	"bpo_server/core/domain"
)

// RoutingReportRepository stores aggregated routing reports.
type RoutingReportRepository interface {
	Save(ctx context.Context, report *domain.RoutingReport) error
	Latest(ctx context.Context) (*domain.RoutingReport, error)
}
