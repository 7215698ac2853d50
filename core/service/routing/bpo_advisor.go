package routing

import (
	"context"
	"fmt"
	"strings"

	"bpo_server/core/domain"
	"bpo_server/core/port/out"
	"bpo_server/pkg/logger"
)

// =============================================================================
// Suggestion Composer
// =============================================================================

// Escalation and auto-action thresholds.
const (
	urgencyEscalateThreshold = 0.7
	urgencyQueueThreshold    = 0.8
	angerFlagThreshold       = 0.7
	systemicIssueThreshold   = 3

	fallbackConfidence = 0.3
)

// AdvisorConfig bounds the context fetches around a suggestion.
type AdvisorConfig struct {
	ResponseLimit    int // templates per category (default 3)
	GenericResponses int // generic fallback templates (default 2)
	SimilarCaseLimit int // similar open cases (default 5)
}

// DefaultAdvisorConfig returns the source defaults.
func DefaultAdvisorConfig() *AdvisorConfig {
	return &AdvisorConfig{
		ResponseLimit:    3,
		GenericResponses: 2,
		SimilarCaseLimit: 5,
	}
}

// Advisor composes routing suggestions for complaints and tickets. Every
// repository failure inside the pipeline degrades to a fixed fallback
// suggestion: ticket creation must never block on advisor failure.
type Advisor struct {
	matcher   *Matcher
	selector  *Selector
	templates out.ResponseTemplateRepository
	cases     out.CaseRepository
	decisions *DecisionLogger
	config    *AdvisorConfig
}

// NewAdvisor creates a suggestion composer. decisions may be nil; it is only
// used for the fire-and-forget ticket categorization history.
func NewAdvisor(
	matcher *Matcher,
	selector *Selector,
	templates out.ResponseTemplateRepository,
	cases out.CaseRepository,
	decisions *DecisionLogger,
	config *AdvisorConfig,
) *Advisor {
	if config == nil {
		config = DefaultAdvisorConfig()
	}
	return &Advisor{
		matcher:   matcher,
		selector:  selector,
		templates: templates,
		cases:     cases,
		decisions: decisions,
		config:    config,
	}
}

// AnalyzeAndRouteComplaint produces a suggestion for a new complaint.
// complaintType seeds the fallback category when the pipeline degrades.
func (a *Advisor) AnalyzeAndRouteComplaint(ctx context.Context, subject, description, complaintType string) *domain.RoutingSuggestion {
	suggestion, err := a.analyzeAndRoute(ctx, subject, description, domain.EntityComplaint)
	if err != nil {
		logger.WithError(err).Warn("Complaint routing degraded to defaults")
		return fallbackSuggestion(complaintType)
	}
	return suggestion
}

// AnalyzeAndRouteTicket produces a suggestion for a new ticket and records a
// categorization-history row for rule tuning (fire-and-forget).
func (a *Advisor) AnalyzeAndRouteTicket(ctx context.Context, subject, description string) *domain.RoutingSuggestion {
	suggestion, err := a.analyzeAndRoute(ctx, subject, description, domain.EntityTicket)
	if err != nil {
		logger.WithError(err).Warn("Ticket routing degraded to defaults")
		return fallbackSuggestion("")
	}

	if a.decisions != nil {
		combined := subject + " " + description
		a.decisions.LogCategorization(ctx, &domain.CategorizationEntry{
			SuggestedCategory: suggestion.SuggestedCategory,
			SuggestedPriority: suggestion.SuggestedPriority,
			SuggestedAgent:    suggestion.SuggestedAssignee,
			Confidence:        suggestion.Confidence,
			Method:            "rule_based",
			KeywordsMatched:   ExtractKeywords(combined),
			TextLength:        len(combined),
		})
	}

	return suggestion
}

// analyzeAndRoute runs the full pipeline. Any error bubbles up so the public
// entry points can degrade in one place.
func (a *Advisor) analyzeAndRoute(ctx context.Context, subject, description string, entity domain.EntityType) (*domain.RoutingSuggestion, error) {
	sentiment := AnalyzeSentiment(subject + " " + description)

	categorization, err := a.matcher.Categorize(ctx, subject, description)
	if err != nil {
		return nil, fmt.Errorf("categorize: %w", err)
	}

	// Escalation overrides. Both only ever raise priority; the matcher's
	// assignment is never downgraded.
	priority := categorization.Priority
	if sentiment.Label == domain.SentimentVeryNegative && priority == domain.PriorityMedium {
		priority = domain.PriorityHigh
	}
	if sentiment.UrgencyScore > urgencyEscalateThreshold && priority != domain.PriorityCritical {
		if priority == domain.PriorityLow {
			priority = domain.PriorityMedium
		} else {
			priority = domain.PriorityHigh
		}
	}

	pick, err := a.selector.FindBestAgent(ctx, categorization.Category, priority, sentiment)
	if err != nil {
		return nil, fmt.Errorf("find best agent: %w", err)
	}

	responses, err := a.suggestedResponses(ctx, categorization.Category)
	if err != nil {
		return nil, fmt.Errorf("suggested responses: %w", err)
	}

	similar, err := a.similarCases(ctx, entity, categorization.Category)
	if err != nil {
		return nil, fmt.Errorf("similar cases: %w", err)
	}

	autoActions := []string{}
	if priority == domain.PriorityCritical {
		autoActions = append(autoActions, "Notify management")
	}
	if sentiment.Emotions[domain.EmotionAnger] > angerFlagThreshold {
		autoActions = append(autoActions, "Flag for immediate review")
	}
	if sentiment.UrgencyScore > urgencyQueueThreshold {
		autoActions = append(autoActions, "Escalate to priority queue")
	}
	if len(similar) > systemicIssueThreshold {
		autoActions = append(autoActions, "Check for systemic issue")
	}

	var reasoning strings.Builder
	fmt.Fprintf(&reasoning, "Sentiment: %s (%.2f). ", sentiment.Label, sentiment.Score)
	fmt.Fprintf(&reasoning, "Category: %s. ", categorization.Category)
	fmt.Fprintf(&reasoning, "Priority: %s. ", priority)
	if len(categorization.MatchedRules) > 0 {
		fmt.Fprintf(&reasoning, "Matched rules: %s. ", strings.Join(categorization.MatchedRules, ", "))
	}
	reasoning.WriteString(pick.Reason)

	return &domain.RoutingSuggestion{
		SuggestedAssignee:  pick.AgentID,
		SuggestedCategory:  categorization.Category,
		SuggestedPriority:  priority,
		Confidence:         (categorization.Confidence + pick.Confidence) / 2,
		Reasoning:          reasoning.String(),
		Sentiment:          sentiment,
		SuggestedResponses: responses,
		SimilarCases:       similar,
		AutoActions:        autoActions,
		Degraded:           false,
	}, nil
}

// suggestedResponses fetches category templates, falling back to generic
// ones when the category has none configured.
func (a *Advisor) suggestedResponses(ctx context.Context, category string) ([]string, error) {
	templates, err := a.templates.ListByCategory(ctx, category, a.config.ResponseLimit)
	if err != nil {
		return nil, err
	}

	if len(templates) == 0 {
		templates, err = a.templates.ListByCategory(ctx, domain.DefaultCategory, a.config.GenericResponses)
		if err != nil {
			return nil, err
		}
	}

	responses := make([]string, 0, len(templates))
	for _, t := range templates {
		responses = append(responses, t.Body)
	}
	return responses, nil
}

func (a *Advisor) similarCases(ctx context.Context, entity domain.EntityType, category string) ([]*domain.CaseSummary, error) {
	if entity == domain.EntityTicket {
		return a.cases.ListOpenTickets(ctx, category, a.config.SimilarCaseLimit)
	}
	return a.cases.ListOpenComplaints(ctx, category, a.config.SimilarCaseLimit)
}

// fallbackSuggestion is the fixed default returned when the pipeline fails.
// The surrounding form shows "AI analysis failed, fill in manually" and the
// operator routes by hand.
func fallbackSuggestion(fallbackCategory string) *domain.RoutingSuggestion {
	if fallbackCategory == "" {
		fallbackCategory = domain.DefaultCategory
	}
	return &domain.RoutingSuggestion{
		SuggestedAssignee:  nil,
		SuggestedCategory:  fallbackCategory,
		SuggestedPriority:  domain.PriorityMedium,
		Confidence:         fallbackConfidence,
		Reasoning:          "Error during AI analysis, using defaults",
		Sentiment:          domain.NeutralSentiment(),
		SuggestedResponses: []string{},
		SimilarCases:       []*domain.CaseSummary{},
		AutoActions:        []string{},
		Degraded:           true,
	}
}
