package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"bpo_server/core/domain"
	"bpo_server/pkg/resilience"
)

func testSuggestion(assignee *uuid.UUID) *domain.RoutingSuggestion {
	return &domain.RoutingSuggestion{
		SuggestedAssignee: assignee,
		SuggestedCategory: "billing",
		SuggestedPriority: domain.PriorityHigh,
		Confidence:        0.65,
		Reasoning:         "Sentiment: neutral (0.00). Category: billing. Priority: high. Assigned based on availability and category: billing",
		Sentiment:         domain.NeutralSentiment(),
	}
}

func TestLogDecisionWritesAllRows(t *testing.T) {
	repo := &fakeDecisionRepo{}
	d := NewDecisionLogger(repo, nil)

	assignee := uuid.New()
	entityID := uuid.New()
	d.LogDecision(context.Background(), domain.EntityComplaint, entityID, testSuggestion(&assignee), nil, false, "")

	if len(repo.history) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(repo.history))
	}
	if repo.history[0].EntityID != entityID {
		t.Errorf("wrong entity id: %v", repo.history[0].EntityID)
	}
	if len(repo.sentiments) != 1 {
		t.Fatalf("expected 1 sentiment row, got %d", len(repo.sentiments))
	}
	if len(repo.assignments) != 1 {
		t.Fatalf("expected 1 assignment row, got %d", len(repo.assignments))
	}
	if repo.assignments[0].ManuallyAssigned {
		t.Error("assignment should not be marked manual")
	}
}

func TestLogDecisionSkipsAssignmentWithoutAssignee(t *testing.T) {
	repo := &fakeDecisionRepo{}
	d := NewDecisionLogger(repo, nil)

	d.LogDecision(context.Background(), domain.EntityTicket, uuid.New(), testSuggestion(nil), nil, false, "")

	if len(repo.history) != 1 || len(repo.sentiments) != 1 {
		t.Fatalf("history and sentiment rows still expected, got %d/%d", len(repo.history), len(repo.sentiments))
	}
	if len(repo.assignments) != 0 {
		t.Errorf("no assignment row expected without an assignee, got %d", len(repo.assignments))
	}
}

func TestLogDecisionRecordsOverride(t *testing.T) {
	repo := &fakeDecisionRepo{}
	d := NewDecisionLogger(repo, nil)

	suggested := uuid.New()
	actual := uuid.New()
	d.LogDecision(context.Background(), domain.EntityComplaint, uuid.New(),
		testSuggestion(&suggested), &actual, true, "customer requested a specific agent")

	if !repo.history[0].WasOverridden {
		t.Error("expected override flag on history row")
	}
	if repo.history[0].OverrideReason == "" {
		t.Error("expected override reason on history row")
	}
	if len(repo.assignments) != 1 {
		t.Fatalf("expected assignment row, got %d", len(repo.assignments))
	}
	if !repo.assignments[0].ManuallyAssigned {
		t.Error("override implies manual assignment")
	}
	if repo.assignments[0].ActualAssignee == nil || *repo.assignments[0].ActualAssignee != actual {
		t.Errorf("wrong actual assignee: %v", repo.assignments[0].ActualAssignee)
	}
}

func TestLogDecisionSwallowsFailures(t *testing.T) {
	repo := &fakeDecisionRepo{err: errors.New("db down")}
	d := NewDecisionLogger(repo, nil)

	assignee := uuid.New()
	// Must not panic or surface the error.
	d.LogDecision(context.Background(), domain.EntityComplaint, uuid.New(), testSuggestion(&assignee), nil, false, "")
	d.LogCategorization(context.Background(), &domain.CategorizationEntry{Method: "rule_based"})
}

func TestLogDecisionBreakerOpensOnRepeatedFailures(t *testing.T) {
	repo := &fakeDecisionRepo{err: errors.New("db down")}
	breaker := resilience.NewBreaker(&resilience.BreakerConfig{
		Name:             "test",
		FailureThreshold: 2,
	})
	d := NewDecisionLogger(repo, breaker)

	assignee := uuid.New()
	d.LogDecision(context.Background(), domain.EntityComplaint, uuid.New(), testSuggestion(&assignee), nil, false, "")

	if breaker.State() != "open" {
		t.Errorf("expected open breaker after consecutive failures, got %s", breaker.State())
	}

	// Writes while open are rejected by the breaker, still swallowed.
	d.LogDecision(context.Background(), domain.EntityComplaint, uuid.New(), testSuggestion(&assignee), nil, false, "")
}
