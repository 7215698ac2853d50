package out

import (
	"context"
	"time"

	"bpo_server/core/domain"
)

// AgentRepository provides candidate agents for assignment. Availability is
// resolved against same-day attendance; the repository returns only agents
// marked present for the given day.
type AgentRepository interface {
	ListAvailable(ctx context.Context, roles []domain.AgentRole, day time.Time, limit int) ([]*domain.AgentProfile, error)
}
