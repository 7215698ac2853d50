package routing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bpo_server/core/domain"
)

// fakeTemplateRepo is an in-memory ResponseTemplateRepository.
type fakeTemplateRepo struct {
	byCategory map[string][]*domain.ResponseTemplate
	calls      []string
	err        error
}

func (f *fakeTemplateRepo) ListByCategory(ctx context.Context, category string, limit int) ([]*domain.ResponseTemplate, error) {
	f.calls = append(f.calls, category)
	if f.err != nil {
		return nil, f.err
	}
	templates := f.byCategory[category]
	if len(templates) > limit {
		templates = templates[:limit]
	}
	return templates, nil
}

func (f *fakeTemplateRepo) List(ctx context.Context) ([]*domain.ResponseTemplate, error) {
	return nil, f.err
}
func (f *fakeTemplateRepo) Create(ctx context.Context, tmpl *domain.ResponseTemplate) error {
	return f.err
}
func (f *fakeTemplateRepo) Update(ctx context.Context, tmpl *domain.ResponseTemplate) error {
	return f.err
}
func (f *fakeTemplateRepo) Delete(ctx context.Context, id int64) error { return f.err }

// fakeCaseRepo is an in-memory CaseRepository.
type fakeCaseRepo struct {
	complaints []*domain.CaseSummary
	tickets    []*domain.CaseSummary
	err        error
}

func (f *fakeCaseRepo) ListOpenComplaints(ctx context.Context, category string, limit int) ([]*domain.CaseSummary, error) {
	return f.complaints, f.err
}

func (f *fakeCaseRepo) ListOpenTickets(ctx context.Context, category string, limit int) ([]*domain.CaseSummary, error) {
	return f.tickets, f.err
}

// fakeDecisionRepo records decision-log writes.
type fakeDecisionRepo struct {
	history         []*domain.RoutingHistoryEntry
	sentiments      []*domain.SentimentEntry
	assignments     []*domain.AssignmentEntry
	categorizations []*domain.CategorizationEntry
	err             error
}

func (f *fakeDecisionRepo) InsertHistory(ctx context.Context, e *domain.RoutingHistoryEntry) error {
	if f.err != nil {
		return f.err
	}
	f.history = append(f.history, e)
	return nil
}

func (f *fakeDecisionRepo) InsertSentiment(ctx context.Context, e *domain.SentimentEntry) error {
	if f.err != nil {
		return f.err
	}
	f.sentiments = append(f.sentiments, e)
	return nil
}

func (f *fakeDecisionRepo) InsertAssignment(ctx context.Context, e *domain.AssignmentEntry) error {
	if f.err != nil {
		return f.err
	}
	f.assignments = append(f.assignments, e)
	return nil
}

func (f *fakeDecisionRepo) InsertCategorization(ctx context.Context, e *domain.CategorizationEntry) error {
	if f.err != nil {
		return f.err
	}
	f.categorizations = append(f.categorizations, e)
	return nil
}

func (f *fakeDecisionRepo) ListHistorySince(ctx context.Context, since time.Time) ([]*domain.RoutingHistoryEntry, error) {
	return f.history, f.err
}

func newTestAdvisor(rules *fakeRuleRepo, agents *fakeAgentRepo, templates *fakeTemplateRepo, cases *fakeCaseRepo) *Advisor {
	if templates == nil {
		templates = &fakeTemplateRepo{}
	}
	if cases == nil {
		cases = &fakeCaseRepo{}
	}
	return NewAdvisor(NewMatcher(rules), NewSelector(agents, 10), templates, cases, nil, nil)
}

func TestAnalyzeAndRouteComplaintUrgencyEscalation(t *testing.T) {
	agents := &fakeAgentRepo{agents: []*domain.AgentProfile{agent("Alice", domain.RoleAgent)}}
	advisor := newTestAdvisor(&fakeRuleRepo{}, agents, nil, nil)

	s := advisor.AnalyzeAndRouteComplaint(context.Background(),
		"Urgent: payment failed", "please fix immediately, asap", "billing")

	if s.Degraded {
		t.Fatal("suggestion should not be degraded")
	}
	// No rule matched; urgency (0.75) escalates the medium default to high.
	if s.SuggestedCategory != domain.DefaultCategory {
		t.Errorf("expected general, got %s", s.SuggestedCategory)
	}
	if s.SuggestedPriority != domain.PriorityHigh {
		t.Errorf("expected high, got %s", s.SuggestedPriority)
	}
	// Matcher 0.5, selector 0.8.
	if !almostEqual(s.Confidence, 0.65) {
		t.Errorf("expected confidence 0.65, got %v", s.Confidence)
	}
	if s.SuggestedAssignee == nil {
		t.Error("expected an assignee")
	}
	if !strings.Contains(s.Reasoning, "Priority: high") {
		t.Errorf("reasoning missing priority: %q", s.Reasoning)
	}
}

func TestAnalyzeAndRouteComplaintVeryNegative(t *testing.T) {
	agents := &fakeAgentRepo{agents: []*domain.AgentProfile{agent("Mgr", domain.RoleManager)}}
	advisor := newTestAdvisor(&fakeRuleRepo{}, agents, nil, nil)

	s := advisor.AnalyzeAndRouteComplaint(context.Background(),
		"Terrible service", "I am furious and angry about this", "")

	if s.Sentiment.Label != domain.SentimentVeryNegative {
		t.Errorf("expected very_negative, got %s", s.Sentiment.Label)
	}
	if s.SuggestedPriority != domain.PriorityHigh {
		t.Errorf("expected escalation to high, got %s", s.SuggestedPriority)
	}
	// Anger 0.8 crosses the review threshold.
	if !containsString(s.AutoActions, "Flag for immediate review") {
		t.Errorf("expected review flag, got %v", s.AutoActions)
	}
	// Selector saw the restricted senior pool.
	if len(agents.gotRoles) != 2 {
		t.Errorf("expected senior-only role pool, got %v", agents.gotRoles)
	}
}

func TestAnalyzeAndRouteComplaintAutoActions(t *testing.T) {
	rules := &fakeRuleRepo{rules: []*domain.RoutingRule{
		keywordRule("outage", []string{"outage"}, "technical", domain.PriorityCritical),
	}}
	similar := []*domain.CaseSummary{{}, {}, {}, {}}
	agents := &fakeAgentRepo{agents: []*domain.AgentProfile{agent("Mgr", domain.RoleManager)}}
	advisor := newTestAdvisor(rules, agents, nil, &fakeCaseRepo{complaints: similar})

	s := advisor.AnalyzeAndRouteComplaint(context.Background(),
		"Total outage", "nothing works, fix it urgent asap emergency immediately", "")

	if s.SuggestedPriority != domain.PriorityCritical {
		t.Errorf("expected critical, got %s", s.SuggestedPriority)
	}
	if !containsString(s.AutoActions, "Notify management") {
		t.Errorf("expected management notification, got %v", s.AutoActions)
	}
	if !containsString(s.AutoActions, "Escalate to priority queue") {
		t.Errorf("expected priority queue escalation, got %v", s.AutoActions)
	}
	if !containsString(s.AutoActions, "Check for systemic issue") {
		t.Errorf("expected systemic issue check with %d similar cases, got %v", len(similar), s.AutoActions)
	}
	if len(s.SimilarCases) != len(similar) {
		t.Errorf("expected %d similar cases, got %d", len(similar), len(s.SimilarCases))
	}
}

func TestAnalyzeAndRoutePriorityNeverDowngraded(t *testing.T) {
	tests := []struct {
		name     string
		target   domain.Priority
		text     string
		expected domain.Priority
	}{
		{
			name:     "critical survives urgency override",
			target:   domain.PriorityCritical,
			text:     "urgent asap emergency",
			expected: domain.PriorityCritical,
		},
		{
			name:     "low raised one step by urgency",
			target:   domain.PriorityLow,
			text:     "urgent asap emergency",
			expected: domain.PriorityMedium,
		},
		{
			name:     "high stays high under urgency",
			target:   domain.PriorityHigh,
			text:     "urgent asap emergency",
			expected: domain.PriorityHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := &fakeRuleRepo{rules: []*domain.RoutingRule{
				keywordRule("match", []string{"widget"}, "general", tt.target),
			}}
			agents := &fakeAgentRepo{agents: []*domain.AgentProfile{agent("A", domain.RoleManager)}}
			advisor := newTestAdvisor(rules, agents, nil, nil)

			s := advisor.AnalyzeAndRouteComplaint(context.Background(), "widget "+tt.text, "", "")
			if s.SuggestedPriority != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, s.SuggestedPriority)
			}
		})
	}
}

func TestAnalyzeAndRouteTemplateFallback(t *testing.T) {
	templates := &fakeTemplateRepo{byCategory: map[string][]*domain.ResponseTemplate{
		domain.DefaultCategory: {
			{Body: "Thanks for reaching out."},
			{Body: "We are looking into it."},
			{Body: "Third one, beyond the generic limit."},
		},
	}}
	rules := &fakeRuleRepo{rules: []*domain.RoutingRule{
		keywordRule("billing", []string{"invoice"}, "billing", domain.PriorityMedium),
	}}
	agents := &fakeAgentRepo{agents: []*domain.AgentProfile{agent("A", domain.RoleAgent)}}
	advisor := newTestAdvisor(rules, agents, templates, nil)

	s := advisor.AnalyzeAndRouteComplaint(context.Background(), "invoice question", "", "")

	// billing has no templates, so the generic pool (limit 2) is used.
	if len(s.SuggestedResponses) != 2 {
		t.Fatalf("expected 2 generic responses, got %v", s.SuggestedResponses)
	}
	if len(templates.calls) != 2 || templates.calls[0] != "billing" || templates.calls[1] != domain.DefaultCategory {
		t.Errorf("expected billing then general lookups, got %v", templates.calls)
	}
}

func TestAnalyzeAndRouteComplaintDegradesOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		advisor *Advisor
	}{
		{
			name: "rule load failure",
			advisor: newTestAdvisor(&fakeRuleRepo{err: errors.New("db down")},
				&fakeAgentRepo{}, nil, nil),
		},
		{
			name: "agent lookup failure",
			advisor: newTestAdvisor(&fakeRuleRepo{},
				&fakeAgentRepo{err: errors.New("db down")}, nil, nil),
		},
		{
			name: "template lookup failure",
			advisor: newTestAdvisor(&fakeRuleRepo{}, &fakeAgentRepo{},
				&fakeTemplateRepo{err: errors.New("db down")}, nil),
		},
		{
			name: "similar case lookup failure",
			advisor: newTestAdvisor(&fakeRuleRepo{}, &fakeAgentRepo{}, nil,
				&fakeCaseRepo{err: errors.New("db down")}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.advisor.AnalyzeAndRouteComplaint(context.Background(), "subject", "description", "billing")

			if !s.Degraded {
				t.Fatal("expected degraded suggestion")
			}
			if s.SuggestedCategory != "billing" {
				t.Errorf("expected complaint type as fallback category, got %s", s.SuggestedCategory)
			}
			if s.SuggestedPriority != domain.PriorityMedium {
				t.Errorf("expected medium, got %s", s.SuggestedPriority)
			}
			if s.Confidence != 0.3 {
				t.Errorf("expected confidence 0.3, got %v", s.Confidence)
			}
			if s.SuggestedAssignee != nil {
				t.Errorf("expected no assignee, got %v", s.SuggestedAssignee)
			}
			if s.Sentiment.Label != domain.SentimentNeutral {
				t.Errorf("expected neutral sentiment, got %s", s.Sentiment.Label)
			}
			if s.SuggestedResponses == nil || s.SimilarCases == nil || s.AutoActions == nil {
				t.Error("degraded suggestion must keep empty, non-nil lists")
			}
		})
	}
}

func TestAnalyzeAndRouteTicketDefaultsFallbackCategory(t *testing.T) {
	advisor := newTestAdvisor(&fakeRuleRepo{err: errors.New("db down")}, &fakeAgentRepo{}, nil, nil)

	s := advisor.AnalyzeAndRouteTicket(context.Background(), "anything", "")

	if !s.Degraded {
		t.Fatal("expected degraded suggestion")
	}
	if s.SuggestedCategory != domain.DefaultCategory {
		t.Errorf("expected general fallback, got %s", s.SuggestedCategory)
	}
}

func TestAnalyzeAndRouteTicketRecordsCategorization(t *testing.T) {
	decisions := &fakeDecisionRepo{}
	declog := NewDecisionLogger(decisions, nil)
	agents := &fakeAgentRepo{agents: []*domain.AgentProfile{agent("A", domain.RoleAgent)}}
	advisor := NewAdvisor(NewMatcher(&fakeRuleRepo{}), NewSelector(agents, 10),
		&fakeTemplateRepo{}, &fakeCaseRepo{}, declog, nil)

	subject := "billing error"
	description := "cannot login"
	s := advisor.AnalyzeAndRouteTicket(context.Background(), subject, description)

	if len(decisions.categorizations) != 1 {
		t.Fatalf("expected 1 categorization entry, got %d", len(decisions.categorizations))
	}
	entry := decisions.categorizations[0]
	if entry.Method != "rule_based" {
		t.Errorf("expected rule_based method, got %s", entry.Method)
	}
	if entry.SuggestedCategory != s.SuggestedCategory {
		t.Errorf("entry category %s does not match suggestion %s", entry.SuggestedCategory, s.SuggestedCategory)
	}
	if entry.TextLength != len(subject+" "+description) {
		t.Errorf("expected text length %d, got %d", len(subject+" "+description), entry.TextLength)
	}
	if !containsString(entry.KeywordsMatched, "billing") || !containsString(entry.KeywordsMatched, "login") {
		t.Errorf("expected billing and login in keywords, got %v", entry.KeywordsMatched)
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
