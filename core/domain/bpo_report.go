package domain

import "time"

// CategoryStats aggregates decision-log outcomes for one category.
type CategoryStats struct {
	Total         int     `json:"total" bson:"total"`
	Overridden    int     `json:"overridden" bson:"overridden"`
	OverrideRate  float64 `json:"override_rate" bson:"override_rate"`
	AvgConfidence float64 `json:"avg_confidence" bson:"avg_confidence"`
}

// RoutingReport is a point-in-time aggregation of routing decisions used for
// rule tuning. Stored as a document; the latest report wins.
type RoutingReport struct {
	ID            string                   `json:"id" bson:"_id"`
	GeneratedAt   time.Time                `json:"generated_at" bson:"generated_at"`
	WindowStart   time.Time                `json:"window_start" bson:"window_start"`
	Total         int                      `json:"total" bson:"total"`
	Overridden    int                      `json:"overridden" bson:"overridden"`
	OverrideRate  float64                  `json:"override_rate" bson:"override_rate"`
	AvgConfidence float64                  `json:"avg_confidence" bson:"avg_confidence"`
	ByCategory    map[string]CategoryStats `json:"by_category" bson:"by_category"`
}
