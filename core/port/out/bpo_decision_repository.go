package out

import (
	"context"
	"time"

	"bpo_server/core/domain"
)

// DecisionLogRepository persists routing decisions. The three insert methods
// map to independent rows with no transactional guarantee across them; a
// partial failure leaves inconsistent sibling rows, which mirrors the
// original design.
type DecisionLogRepository interface {
	InsertHistory(ctx context.Context, entry *domain.RoutingHistoryEntry) error
	InsertSentiment(ctx context.Context, entry *domain.SentimentEntry) error
	InsertAssignment(ctx context.Context, entry *domain.AssignmentEntry) error
	InsertCategorization(ctx context.Context, entry *domain.CategorizationEntry) error

	// ListHistorySince feeds the routing accuracy report.
	ListHistorySince(ctx context.Context, since time.Time) ([]*domain.RoutingHistoryEntry, error)
}
