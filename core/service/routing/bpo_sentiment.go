// Package routing implements the rule-based complaint/ticket routing advisor:
// sentiment scoring, keyword rule matching, agent selection and suggestion
// composition.
package routing

import (
	"math"
	"strings"

	"bpo_server/core/domain"
)

// =============================================================================
// Sentiment Scorer
// =============================================================================
//
// Pure function over fixed keyword class tables. Each keyword present in the
// lowercased input adds a class-specific delta to the running score (negative
// classes subtract, positive adds), to the urgency score (urgency class only)
// and to the matching emotion bucket. Plain substring matching; false
// positives on substrings are accepted behavior.

type sentimentClass struct {
	keywords   []string
	scoreDelta float64
	emotion    string
	emotionAdd float64
	urgencyAdd float64
	skipPhrase bool // positive matches are scored but not collected
}

var sentimentClasses = []sentimentClass{
	{
		keywords:   []string{"terrible", "worst", "horrible", "disgusting", "unacceptable", "appalling", "outrageous"},
		scoreDelta: -0.3,
		emotion:    domain.EmotionAnger,
		emotionAdd: 0.2,
	},
	{
		keywords:   []string{"bad", "poor", "disappointing", "unsatisfied", "unhappy", "upset", "frustrated"},
		scoreDelta: -0.15,
		emotion:    domain.EmotionDisappointment,
		emotionAdd: 0.15,
	},
	{
		keywords:   []string{"angry", "furious", "outraged", "livid", "infuriated", "mad"},
		scoreDelta: -0.2,
		emotion:    domain.EmotionAnger,
		emotionAdd: 0.3,
	},
	{
		keywords:   []string{"frustrated", "annoyed", "irritated", "fed up", "tired of"},
		scoreDelta: -0.1,
		emotion:    domain.EmotionFrustration,
		emotionAdd: 0.25,
	},
	{
		keywords:   []string{"disappointed", "let down", "expected better", "not what i wanted"},
		scoreDelta: -0.1,
		emotion:    domain.EmotionDisappointment,
		emotionAdd: 0.2,
	},
	{
		keywords:   []string{"urgent", "immediately", "asap", "emergency", "critical", "now", "today"},
		emotion:    domain.EmotionUrgency,
		emotionAdd: 0.3,
		urgencyAdd: 0.25,
	},
	{
		keywords:   []string{"great", "good", "excellent", "satisfied", "happy", "pleased", "thank you"},
		scoreDelta: 0.15,
		emotion:    domain.EmotionSatisfaction,
		emotionAdd: 0.2,
		skipPhrase: true,
	},
}

// AnalyzeSentiment scans text against the fixed keyword tables and returns a
// bounded sentiment result. Empty text yields the neutral zero result.
func AnalyzeSentiment(text string) domain.SentimentResult {
	lower := strings.ToLower(text)

	var score, urgency float64
	emotions := map[string]float64{
		domain.EmotionAnger:          0,
		domain.EmotionFrustration:    0,
		domain.EmotionDisappointment: 0,
		domain.EmotionSatisfaction:   0,
		domain.EmotionUrgency:        0,
	}
	keyPhrases := []string{}

	for _, class := range sentimentClasses {
		for _, kw := range class.keywords {
			if !strings.Contains(lower, kw) {
				continue
			}
			score += class.scoreDelta
			urgency += class.urgencyAdd
			emotions[class.emotion] += class.emotionAdd
			if !class.skipPhrase {
				keyPhrases = append(keyPhrases, kw)
			}
		}
	}

	score = clamp(score, -1, 1)
	urgency = clamp(urgency, 0, 1)
	for k, v := range emotions {
		emotions[k] = clamp(v, 0, 1)
	}

	return domain.SentimentResult{
		Score:        round3(score),
		Label:        labelFor(score),
		Emotions:     emotions,
		KeyPhrases:   keyPhrases,
		UrgencyScore: round3(urgency),
	}
}

// labelFor buckets a score into a label. Bands are non-overlapping and the
// very_positive branch is checked before positive, so the top band is
// reachable.
func labelFor(score float64) domain.SentimentLabel {
	switch {
	case score <= -0.5:
		return domain.SentimentVeryNegative
	case score < -0.1:
		return domain.SentimentNegative
	case score > 0.6:
		return domain.SentimentVeryPositive
	case score > 0.3:
		return domain.SentimentPositive
	default:
		return domain.SentimentNeutral
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
