// Package domain defines the core entities for the routing advisor.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Priority / Category
// =============================================================================

// Priority is the operational priority of a complaint or ticket.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Rank orders priorities for escalation comparisons (higher = more urgent).
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityCritical:
		return 3
	default:
		return 1
	}
}

// ValidPriorities matches the DB enum.
var ValidPriorities = map[Priority]bool{
	PriorityLow:      true,
	PriorityMedium:   true,
	PriorityHigh:     true,
	PriorityCritical: true,
}

// ValidatePriority returns the priority or the medium default.
func ValidatePriority(p Priority) Priority {
	if ValidPriorities[p] {
		return p
	}
	return PriorityMedium
}

// DefaultCategory is used when no rule matches.
const DefaultCategory = "general"

// =============================================================================
// Routing Rules
// =============================================================================

// RuleType discriminates routing rule kinds. Only keyword rules participate
// in matching; the other kinds are stored for the admin UI.
type RuleType string

const (
	RuleTypeKeyword   RuleType = "keyword"
	RuleTypePattern   RuleType = "pattern"
	RuleTypeSentiment RuleType = "sentiment"
	RuleTypePriority  RuleType = "priority"
	RuleTypeCategory  RuleType = "category"
)

// RoutingRule is an admin-configured keyword-to-category/priority mapping.
// Rules are evaluated in priority_order descending. No versioning; deletes
// are direct.
type RoutingRule struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Type           RuleType  `json:"type"`
	Keywords       []string  `json:"keywords"`
	TargetCategory string    `json:"target_category,omitempty"`
	TargetPriority Priority  `json:"target_priority,omitempty"`
	IsActive       bool      `json:"is_active"`
	PriorityOrder  int       `json:"priority_order"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// =============================================================================
// Sentiment
// =============================================================================

// SentimentLabel buckets the numeric sentiment score.
type SentimentLabel string

const (
	SentimentVeryNegative SentimentLabel = "very_negative"
	SentimentNegative     SentimentLabel = "negative"
	SentimentNeutral      SentimentLabel = "neutral"
	SentimentPositive     SentimentLabel = "positive"
	SentimentVeryPositive SentimentLabel = "very_positive"
)

// Emotion bucket keys.
const (
	EmotionAnger          = "anger"
	EmotionFrustration    = "frustration"
	EmotionDisappointment = "disappointment"
	EmotionSatisfaction   = "satisfaction"
	EmotionUrgency        = "urgency"
)

// SentimentResult is the outcome of one sentiment analysis. Created fresh
// per call, never mutated, logged verbatim.
type SentimentResult struct {
	Score        float64            `json:"score"`         // [-1, 1]
	Label        SentimentLabel     `json:"label"`
	Emotions     map[string]float64 `json:"emotions"`      // each [0, 1]
	KeyPhrases   []string           `json:"key_phrases"`   // matched literals in scan order
	UrgencyScore float64            `json:"urgency_score"` // [0, 1]
}

// NeutralSentiment returns the zero-valued result used for empty input and
// for the degraded fallback suggestion.
func NeutralSentiment() SentimentResult {
	return SentimentResult{
		Score:        0,
		Label:        SentimentNeutral,
		Emotions:     map[string]float64{},
		KeyPhrases:   []string{},
		UrgencyScore: 0,
	}
}

// =============================================================================
// Categorization / Agent Pick / Suggestion
// =============================================================================

// Categorization is the rule matcher outcome.
type Categorization struct {
	Category     string   `json:"category"`
	Priority     Priority `json:"priority"`
	Confidence   float64  `json:"confidence"` // <= 0.95
	MatchedRules []string `json:"matched_rules"`
}

// AgentPick is the agent selector outcome. AgentID is nil when no candidate
// was available.
type AgentPick struct {
	AgentID    *uuid.UUID `json:"agent_id"`
	Reason     string     `json:"reason"`
	Confidence float64    `json:"confidence"`
}

// CaseSummary is a compact view of an open complaint or ticket used as
// "similar" context in a suggestion.
type CaseSummary struct {
	ID       uuid.UUID `json:"id"`
	Number   string    `json:"number"`
	Subject  string    `json:"subject"`
	Status   string    `json:"status"`
	Severity string    `json:"severity,omitempty"`
	Category string    `json:"category,omitempty"`
}

// RoutingSuggestion is the advisor output. Transient; the operator may
// override any field before the complaint/ticket is created. Degraded marks
// the fixed fallback produced when the pipeline failed, so callers can tell
// a real suggestion from defaults.
type RoutingSuggestion struct {
	SuggestedAssignee  *uuid.UUID      `json:"suggested_assignee"`
	SuggestedCategory  string          `json:"suggested_category"`
	SuggestedPriority  Priority        `json:"suggested_priority"`
	Confidence         float64         `json:"confidence"`
	Reasoning          string          `json:"reasoning"`
	Sentiment          SentimentResult `json:"sentiment"`
	SuggestedResponses []string        `json:"suggested_responses"`
	SimilarCases       []*CaseSummary  `json:"similar_cases"`
	AutoActions        []string        `json:"auto_actions"`
	Degraded           bool            `json:"degraded"`
}

// =============================================================================
// Decision Log
// =============================================================================

// EntityType distinguishes complaint and ticket rows in the decision log.
type EntityType string

const (
	EntityComplaint EntityType = "complaint"
	EntityTicket    EntityType = "ticket"
)

// RoutingHistoryEntry records suggested vs actual routing for one finalized
// entity. Append-only.
type RoutingHistoryEntry struct {
	ID                int64      `json:"id"`
	EntityType        EntityType `json:"entity_type"`
	EntityID          uuid.UUID  `json:"entity_id"`
	SuggestedCategory string     `json:"suggested_category"`
	SuggestedPriority Priority   `json:"suggested_priority"`
	SuggestedAssignee *uuid.UUID `json:"suggested_assignee"`
	ActualAssignee    *uuid.UUID `json:"actual_assignee"`
	Confidence        float64    `json:"confidence"`
	WasOverridden     bool       `json:"was_overridden"`
	OverrideReason    string     `json:"override_reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// SentimentEntry persists the sentiment analysis attached to a decision.
type SentimentEntry struct {
	EntityType   EntityType         `json:"entity_type"`
	EntityID     uuid.UUID          `json:"entity_id"`
	Score        float64            `json:"score"`
	Label        SentimentLabel     `json:"label"`
	Emotions     map[string]float64 `json:"emotions"`
	KeyPhrases   []string           `json:"key_phrases"`
	UrgencyScore float64            `json:"urgency_score"`
}

// AssignmentEntry persists the final routing assignment. Written only when
// an assignee (suggested or actual) exists.
type AssignmentEntry struct {
	EntityType        EntityType `json:"entity_type"`
	EntityID          uuid.UUID  `json:"entity_id"`
	SuggestedAssignee *uuid.UUID `json:"suggested_assignee"`
	Confidence        float64    `json:"confidence"`
	Reasoning         string     `json:"reasoning"`
	ActualAssignee    *uuid.UUID `json:"actual_assignee"`
	ManuallyAssigned  bool       `json:"manually_assigned"`
}

// CategorizationEntry records one rule-based ticket categorization for
// future rule tuning.
type CategorizationEntry struct {
	SuggestedCategory string     `json:"suggested_category"`
	SuggestedPriority Priority   `json:"suggested_priority"`
	SuggestedAgent    *uuid.UUID `json:"suggested_agent"`
	Confidence        float64    `json:"confidence"`
	Method            string     `json:"method"`
	KeywordsMatched   []string   `json:"keywords_matched"`
	TextLength        int        `json:"text_length"`
}
