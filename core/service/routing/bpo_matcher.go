package routing

import (
	"context"
	"strings"

	"bpo_server/core/domain"
	"bpo_server/core/port/out"
)

// =============================================================================
// Rule Matcher
// =============================================================================

// Matcher classifies combined subject+description text against the active
// routing rules. Rule load failures propagate to the caller; the composer is
// the only place that degrades.
type Matcher struct {
	rules out.RoutingRuleRepository
}

// NewMatcher creates a rule matcher.
func NewMatcher(rules out.RoutingRuleRepository) *Matcher {
	return &Matcher{rules: rules}
}

// Defaults when no rule matches.
const (
	defaultConfidence = 0.5
	maxConfidence     = 0.95
	confidencePerHit  = 0.1
)

// Categorize loads active rules (priority_order descending) and matches
// keyword rules against the lowercased subject+description. Each matching
// rule records its name, adds 0.1 per matched keyword to confidence, and
// overwrites category/priority with its targets when set. A single rule
// matching two or more keywords stops the scan early; that is an
// optimization, not a correctness requirement.
func (m *Matcher) Categorize(ctx context.Context, subject, description string) (*domain.Categorization, error) {
	combined := strings.ToLower(subject + " " + description)

	result := &domain.Categorization{
		Category:     domain.DefaultCategory,
		Priority:     domain.PriorityMedium,
		Confidence:   defaultConfidence,
		MatchedRules: []string{},
	}

	rules, err := m.rules.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	for _, rule := range rules {
		if rule.Type != domain.RuleTypeKeyword {
			continue
		}

		// A rule with no keywords simply never matches.
		matchCount := 0
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(combined, strings.ToLower(kw)) {
				matchCount++
			}
		}
		if matchCount == 0 {
			continue
		}

		result.MatchedRules = append(result.MatchedRules, rule.Name)
		result.Confidence += float64(matchCount) * confidencePerHit

		if rule.TargetCategory != "" {
			result.Category = rule.TargetCategory
		}
		if rule.TargetPriority != "" {
			result.Priority = rule.TargetPriority
		}

		if matchCount >= 2 {
			break
		}
	}

	if result.Confidence > maxConfidence {
		result.Confidence = maxConfidence
	}
	result.Confidence = round3(result.Confidence)

	return result, nil
}

// ExtractKeywords scans text for the fixed routing vocabulary; used for the
// categorization-history features payload.
func ExtractKeywords(text string) []string {
	vocabulary := []string{
		"urgent", "critical", "billing", "payment", "technical", "error",
		"bug", "password", "login", "complaint", "asap", "important",
	}

	lower := strings.ToLower(text)
	matched := []string{}
	for _, kw := range vocabulary {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}
