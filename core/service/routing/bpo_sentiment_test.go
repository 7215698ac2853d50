package routing

import (
	"math"
	"testing"

	"bpo_server/core/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnalyzeSentimentEmptyText(t *testing.T) {
	result := AnalyzeSentiment("")

	if result.Score != 0 {
		t.Errorf("expected score 0, got %v", result.Score)
	}
	if result.Label != domain.SentimentNeutral {
		t.Errorf("expected neutral label, got %s", result.Label)
	}
	if result.UrgencyScore != 0 {
		t.Errorf("expected urgency 0, got %v", result.UrgencyScore)
	}
	if len(result.KeyPhrases) != 0 {
		t.Errorf("expected no key phrases, got %v", result.KeyPhrases)
	}
}

func TestAnalyzeSentimentVeryNegative(t *testing.T) {
	result := AnalyzeSentiment("This is terrible and I am furious")

	// terrible: -0.3 (anger +0.2), furious: -0.2 (anger +0.3)
	if !almostEqual(result.Score, -0.5) {
		t.Errorf("expected score -0.5, got %v", result.Score)
	}
	if result.Label != domain.SentimentVeryNegative {
		t.Errorf("expected very_negative, got %s", result.Label)
	}
	if !almostEqual(result.Emotions[domain.EmotionAnger], 0.5) {
		t.Errorf("expected anger 0.5, got %v", result.Emotions[domain.EmotionAnger])
	}
}

func TestAnalyzeSentimentUrgencyDoesNotAffectScore(t *testing.T) {
	result := AnalyzeSentiment("urgent emergency")

	if result.Score != 0 {
		t.Errorf("urgency keywords must not move the score, got %v", result.Score)
	}
	if result.Label != domain.SentimentNeutral {
		t.Errorf("expected neutral, got %s", result.Label)
	}
	if !almostEqual(result.UrgencyScore, 0.5) {
		t.Errorf("expected urgency 0.5, got %v", result.UrgencyScore)
	}
	if !almostEqual(result.Emotions[domain.EmotionUrgency], 0.6) {
		t.Errorf("expected urgency emotion 0.6, got %v", result.Emotions[domain.EmotionUrgency])
	}
}

func TestAnalyzeSentimentLabelBands(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		label domain.SentimentLabel
	}{
		{
			name:  "negative band",
			text:  "bad experience",
			label: domain.SentimentNegative,
		},
		{
			name: "positive band",
			// three positive hits: 0.45
			text:  "great and excellent, thank you",
			label: domain.SentimentPositive,
		},
		{
			name: "very positive band",
			// five positive hits: 0.75
			text:  "great good excellent happy pleased",
			label: domain.SentimentVeryPositive,
		},
		{
			name:  "neutral on no matches",
			text:  "please check my account",
			label: domain.SentimentNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnalyzeSentiment(tt.text)
			if result.Label != tt.label {
				t.Errorf("text %q: expected %s, got %s (score %v)", tt.text, tt.label, result.Label, result.Score)
			}
		})
	}
}

func TestAnalyzeSentimentBounds(t *testing.T) {
	// Pile on every negative keyword to push past the lower bound.
	text := "terrible worst horrible disgusting unacceptable appalling outrageous " +
		"angry furious outraged livid infuriated mad"

	result := AnalyzeSentiment(text)

	if result.Score < -1 || result.Score > 1 {
		t.Errorf("score out of bounds: %v", result.Score)
	}
	if result.Score != -1 {
		t.Errorf("expected clamped score -1, got %v", result.Score)
	}
	for emotion, v := range result.Emotions {
		if v < 0 || v > 1 {
			t.Errorf("emotion %s out of bounds: %v", emotion, v)
		}
	}
}

func TestAnalyzeSentimentKeyPhrases(t *testing.T) {
	result := AnalyzeSentiment("terrible, just terrible, and so disappointing. still, thank you")

	// Scan order follows the class tables; positive matches are scored but
	// never collected.
	want := []string{"terrible", "disappointing"}
	if len(result.KeyPhrases) != len(want) {
		t.Fatalf("expected phrases %v, got %v", want, result.KeyPhrases)
	}
	for i, kw := range want {
		if result.KeyPhrases[i] != kw {
			t.Errorf("phrase %d: expected %q, got %q", i, kw, result.KeyPhrases[i])
		}
	}

	if !almostEqual(result.Score, -0.3-0.15+0.15) {
		t.Errorf("positive match must still score: got %v", result.Score)
	}
}

func TestAnalyzeSentimentSubstringMatching(t *testing.T) {
	// "unsatisfied" contains "satisfied"; both classes fire. Accepted
	// behavior of plain substring matching.
	result := AnalyzeSentiment("unsatisfied")

	if !almostEqual(result.Score, -0.15+0.15) {
		t.Errorf("expected offsetting matches to net 0, got %v", result.Score)
	}
	if !almostEqual(result.Emotions[domain.EmotionDisappointment], 0.15) {
		t.Errorf("expected disappointment 0.15, got %v", result.Emotions[domain.EmotionDisappointment])
	}
	if !almostEqual(result.Emotions[domain.EmotionSatisfaction], 0.2) {
		t.Errorf("expected satisfaction 0.2, got %v", result.Emotions[domain.EmotionSatisfaction])
	}
}
