package routing

import (
	"context"

	"github.com/google/uuid"

	"bpo_server/core/domain"
	"bpo_server/core/port/out"
	"bpo_server/pkg/logger"
	"bpo_server/pkg/resilience"
)

// =============================================================================
// Decision Logger
// =============================================================================

// DecisionLogger records routing decisions for later accuracy analysis. All
// writes are best-effort: failures are logged and swallowed so ticket and
// complaint creation can never fail on the audit trail. A circuit breaker
// stops hammering the database when the log store is down.
type DecisionLogger struct {
	decisions out.DecisionLogRepository
	breaker   *resilience.Breaker
	log       *logger.Logger
}

// NewDecisionLogger creates a decision logger. breaker may be nil to write
// without protection (tests).
func NewDecisionLogger(decisions out.DecisionLogRepository, breaker *resilience.Breaker) *DecisionLogger {
	return &DecisionLogger{
		decisions: decisions,
		breaker:   breaker,
		log:       logger.Default().WithField("component", "decision_logger"),
	}
}

// LogDecision persists the suggested-vs-actual outcome of one finalized
// routing decision: a history row, a sentiment row and, when an assignee
// exists, an assignment row. The rows are independent inserts; a partial
// failure leaves the surviving siblings in place.
func (d *DecisionLogger) LogDecision(
	ctx context.Context,
	entityType domain.EntityType,
	entityID uuid.UUID,
	suggestion *domain.RoutingSuggestion,
	actualAssignee *uuid.UUID,
	wasOverridden bool,
	overrideReason string,
) {
	d.write(ctx, "routing history", func(ctx context.Context) error {
		return d.decisions.InsertHistory(ctx, &domain.RoutingHistoryEntry{
			EntityType:        entityType,
			EntityID:          entityID,
			SuggestedCategory: suggestion.SuggestedCategory,
			SuggestedPriority: suggestion.SuggestedPriority,
			SuggestedAssignee: suggestion.SuggestedAssignee,
			ActualAssignee:    actualAssignee,
			Confidence:        suggestion.Confidence,
			WasOverridden:     wasOverridden,
			OverrideReason:    overrideReason,
		})
	})

	d.write(ctx, "sentiment analysis", func(ctx context.Context) error {
		return d.decisions.InsertSentiment(ctx, &domain.SentimentEntry{
			EntityType:   entityType,
			EntityID:     entityID,
			Score:        suggestion.Sentiment.Score,
			Label:        suggestion.Sentiment.Label,
			Emotions:     suggestion.Sentiment.Emotions,
			KeyPhrases:   suggestion.Sentiment.KeyPhrases,
			UrgencyScore: suggestion.Sentiment.UrgencyScore,
		})
	})

	// Assignment rows require an assignee; a suggestion that picked nobody
	// and was not manually assigned leaves no assignment row.
	assignee := actualAssignee
	if assignee == nil {
		assignee = suggestion.SuggestedAssignee
	}
	if assignee == nil {
		return
	}

	d.write(ctx, "routing assignment", func(ctx context.Context) error {
		return d.decisions.InsertAssignment(ctx, &domain.AssignmentEntry{
			EntityType:        entityType,
			EntityID:          entityID,
			SuggestedAssignee: suggestion.SuggestedAssignee,
			Confidence:        suggestion.Confidence,
			Reasoning:         suggestion.Reasoning,
			ActualAssignee:    actualAssignee,
			ManuallyAssigned:  wasOverridden,
		})
	})
}

// LogCategorization records one rule-based ticket categorization.
func (d *DecisionLogger) LogCategorization(ctx context.Context, entry *domain.CategorizationEntry) {
	d.write(ctx, "categorization history", func(ctx context.Context) error {
		return d.decisions.InsertCategorization(ctx, entry)
	})
}

// write runs one insert behind the breaker and swallows the error.
func (d *DecisionLogger) write(ctx context.Context, what string, fn func(context.Context) error) {
	run := func() error { return fn(ctx) }

	var err error
	if d.breaker != nil {
		err = d.breaker.Execute(run)
	} else {
		err = run()
	}
	if err != nil {
		d.log.WithError(err).WithField("record", what).Warn("Failed to write decision log entry")
	}
}
