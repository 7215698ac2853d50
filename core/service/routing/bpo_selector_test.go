package routing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"bpo_server/core/domain"
)

// fakeAgentRepo is an in-memory AgentRepository capturing the query.
type fakeAgentRepo struct {
	agents    []*domain.AgentProfile
	err       error
	gotRoles  []domain.AgentRole
	gotLimit  int
	callCount int
}

func (f *fakeAgentRepo) ListAvailable(ctx context.Context, roles []domain.AgentRole, day time.Time, limit int) ([]*domain.AgentProfile, error) {
	f.callCount++
	f.gotRoles = roles
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.agents, nil
}

func agent(name string, role domain.AgentRole) *domain.AgentProfile {
	return &domain.AgentProfile{UserID: uuid.New(), FullName: name, Role: role}
}

func TestFindBestAgentPicksFirstCandidate(t *testing.T) {
	first := agent("Alice", domain.RoleAgent)
	repo := &fakeAgentRepo{agents: []*domain.AgentProfile{first, agent("Bob", domain.RoleSeniorAgent)}}
	s := NewSelector(repo, 10)

	pick, err := s.FindBestAgent(context.Background(), "billing", domain.PriorityMedium, domain.NeutralSentiment())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pick.AgentID == nil || *pick.AgentID != first.UserID {
		t.Errorf("expected first candidate %s, got %v", first.UserID, pick.AgentID)
	}
	if pick.Confidence != 0.8 {
		t.Errorf("expected confidence 0.8, got %v", pick.Confidence)
	}
	if pick.Reason != "Assigned based on availability and category: billing" {
		t.Errorf("unexpected reason: %q", pick.Reason)
	}
	if len(repo.gotRoles) != 3 {
		t.Errorf("expected all three roles queried, got %v", repo.gotRoles)
	}
	if repo.gotLimit != 10 {
		t.Errorf("expected limit 10, got %d", repo.gotLimit)
	}
}

func TestFindBestAgentEscalatesToSeniorStaff(t *testing.T) {
	tests := []struct {
		name      string
		priority  domain.Priority
		sentiment domain.SentimentResult
	}{
		{
			name:      "very negative sentiment",
			priority:  domain.PriorityHigh,
			sentiment: domain.SentimentResult{Label: domain.SentimentVeryNegative},
		},
		{
			name:      "critical priority",
			priority:  domain.PriorityCritical,
			sentiment: domain.NeutralSentiment(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAgentRepo{agents: []*domain.AgentProfile{agent("Mgr", domain.RoleManager)}}
			s := NewSelector(repo, 10)

			pick, err := s.FindBestAgent(context.Background(), "general", tt.priority, tt.sentiment)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(repo.gotRoles) != 2 {
				t.Errorf("expected senior-only role pool, got %v", repo.gotRoles)
			}
			for _, r := range repo.gotRoles {
				if r == domain.RoleAgent {
					t.Errorf("regular agents must be excluded, got %v", repo.gotRoles)
				}
			}

			wantPrefix := "Assigned to senior agent due to"
			if len(pick.Reason) < len(wantPrefix) || pick.Reason[:len(wantPrefix)] != wantPrefix {
				t.Errorf("unexpected reason: %q", pick.Reason)
			}
		})
	}
}

func TestFindBestAgentNoCandidates(t *testing.T) {
	s := NewSelector(&fakeAgentRepo{}, 10)

	pick, err := s.FindBestAgent(context.Background(), "general", domain.PriorityMedium, domain.NeutralSentiment())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pick.AgentID != nil {
		t.Errorf("expected nil agent, got %v", pick.AgentID)
	}
	if pick.Confidence != 0 {
		t.Errorf("expected confidence 0, got %v", pick.Confidence)
	}
	if pick.Reason != "No available agents found" {
		t.Errorf("unexpected reason: %q", pick.Reason)
	}
}

func TestFindBestAgentPropagatesRepositoryError(t *testing.T) {
	repoErr := errors.New("timeout")
	s := NewSelector(&fakeAgentRepo{err: repoErr}, 10)

	_, err := s.FindBestAgent(context.Background(), "general", domain.PriorityMedium, domain.NeutralSentiment())
	if !errors.Is(err, repoErr) {
		t.Errorf("expected repository error to propagate, got %v", err)
	}
}
