package routing

import (
	"context"
	"fmt"
	"time"

	"bpo_server/core/domain"
	"bpo_server/core/port/out"
)

// =============================================================================
// Agent Selector
// =============================================================================

// Selector picks an assignee from the available agent pool. It takes the
// first returned candidate; there is no load balancing or skill ranking
// beyond the role filter.
type Selector struct {
	agents out.AgentRepository
	limit  int
	now    func() time.Time
}

// NewSelector creates an agent selector. limit caps the candidate fetch
// (default 10).
func NewSelector(agents out.AgentRepository, limit int) *Selector {
	if limit <= 0 {
		limit = 10
	}
	return &Selector{
		agents: agents,
		limit:  limit,
		now:    time.Now,
	}
}

const pickConfidence = 0.8

// FindBestAgent returns the suggested assignee for the finalized category,
// priority and sentiment. Very negative sentiment or critical priority
// restricts candidates to senior staff. A nil AgentID with confidence 0
// means no candidate was available; repository errors propagate.
func (s *Selector) FindBestAgent(ctx context.Context, category string, priority domain.Priority, sentiment domain.SentimentResult) (*domain.AgentPick, error) {
	roles := domain.EscalationRoles(sentiment.Label, priority)
	needsSenior := len(roles) == 2

	candidates, err := s.agents.ListAvailable(ctx, roles, s.now(), s.limit)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return &domain.AgentPick{
			AgentID:    nil,
			Reason:     "No available agents found",
			Confidence: 0,
		}, nil
	}

	selected := candidates[0]
	reason := fmt.Sprintf("Assigned based on availability and category: %s", category)
	if needsSenior {
		reason = fmt.Sprintf("Assigned to senior agent due to %s sentiment and %s priority", sentiment.Label, priority)
	}

	agentID := selected.UserID
	return &domain.AgentPick{
		AgentID:    &agentID,
		Reason:     reason,
		Confidence: pickConfidence,
	}, nil
}
