// Package out defines outbound ports (repository interfaces) so the routing
// services stay testable without a live database.
package out

import (
	"context"

	"bpo_server/core/domain"
)

// RoutingRuleRepository provides access to admin-configured routing rules.
type RoutingRuleRepository interface {
	// ListActive returns active rules ordered by priority_order descending.
	ListActive(ctx context.Context) ([]*domain.RoutingRule, error)
	List(ctx context.Context) ([]*domain.RoutingRule, error)
	GetByID(ctx context.Context, id int64) (*domain.RoutingRule, error)
	Create(ctx context.Context, rule *domain.RoutingRule) error
	Update(ctx context.Context, rule *domain.RoutingRule) error
	Delete(ctx context.Context, id int64) error
}
