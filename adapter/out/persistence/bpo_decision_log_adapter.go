package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"bpo_server/core/domain"
	"bpo_server/core/port/out"
)

// DecisionLogAdapter implements out.DecisionLogRepository using PostgreSQL.
// All tables are append-only; there is no transaction spanning the sibling
// inserts, callers accept partial rows on failure.
type DecisionLogAdapter struct {
	db *sqlx.DB
}

// NewDecisionLogAdapter creates a new DecisionLogAdapter.
func NewDecisionLogAdapter(db *sqlx.DB) *DecisionLogAdapter {
	return &DecisionLogAdapter{db: db}
}

// InsertHistory appends one suggested-vs-actual routing row.
func (a *DecisionLogAdapter) InsertHistory(ctx context.Context, entry *domain.RoutingHistoryEntry) error {
	query := `
		INSERT INTO ai_routing_history (
			entity_type, entity_id, suggested_category, suggested_priority,
			suggested_assignee, actual_assignee, confidence,
			was_overridden, override_reason
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')
		)
		RETURNING id, created_at
	`

	return a.db.QueryRowxContext(ctx, query,
		string(entry.EntityType),
		entry.EntityID,
		entry.SuggestedCategory,
		string(entry.SuggestedPriority),
		entry.SuggestedAssignee,
		entry.ActualAssignee,
		entry.Confidence,
		entry.WasOverridden,
		entry.OverrideReason,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// InsertSentiment appends one sentiment analysis row. Emotions are stored as
// a JSONB document.
func (a *DecisionLogAdapter) InsertSentiment(ctx context.Context, entry *domain.SentimentEntry) error {
	emotionsJSON, err := json.Marshal(entry.Emotions)
	if err != nil {
		emotionsJSON = []byte("{}")
	}

	query := `
		INSERT INTO ai_sentiment_analysis (
			entity_type, entity_id, score, label, emotions,
			key_phrases, urgency_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = a.db.ExecContext(ctx, query,
		string(entry.EntityType),
		entry.EntityID,
		entry.Score,
		string(entry.Label),
		emotionsJSON,
		pq.Array(entry.KeyPhrases),
		entry.UrgencyScore,
	)
	return err
}

// InsertAssignment appends one routing assignment row.
func (a *DecisionLogAdapter) InsertAssignment(ctx context.Context, entry *domain.AssignmentEntry) error {
	query := `
		INSERT INTO complaint_routing_assignments (
			entity_type, entity_id, suggested_assignee, confidence,
			reasoning, actual_assignee, manually_assigned
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := a.db.ExecContext(ctx, query,
		string(entry.EntityType),
		entry.EntityID,
		entry.SuggestedAssignee,
		entry.Confidence,
		entry.Reasoning,
		entry.ActualAssignee,
		entry.ManuallyAssigned,
	)
	return err
}

// InsertCategorization appends one rule-based categorization row.
func (a *DecisionLogAdapter) InsertCategorization(ctx context.Context, entry *domain.CategorizationEntry) error {
	query := `
		INSERT INTO ticket_categorization_history (
			suggested_category, suggested_priority, suggested_agent,
			confidence, method, keywords_matched, text_length
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := a.db.ExecContext(ctx, query,
		entry.SuggestedCategory,
		string(entry.SuggestedPriority),
		entry.SuggestedAgent,
		entry.Confidence,
		entry.Method,
		pq.Array(entry.KeywordsMatched),
		entry.TextLength,
	)
	return err
}

// historyRow represents the database row for routing history.
type historyRow struct {
	ID                int64          `db:"id"`
	EntityType        string         `db:"entity_type"`
	EntityID          uuid.UUID      `db:"entity_id"`
	SuggestedCategory string         `db:"suggested_category"`
	SuggestedPriority string         `db:"suggested_priority"`
	SuggestedAssignee *uuid.UUID     `db:"suggested_assignee"`
	ActualAssignee    *uuid.UUID     `db:"actual_assignee"`
	Confidence        float64        `db:"confidence"`
	WasOverridden     bool           `db:"was_overridden"`
	OverrideReason    sql.NullString `db:"override_reason"`
	CreatedAt         sql.NullTime   `db:"created_at"`
}

func (r *historyRow) toEntity() *domain.RoutingHistoryEntry {
	entry := &domain.RoutingHistoryEntry{
		ID:                r.ID,
		EntityType:        domain.EntityType(r.EntityType),
		EntityID:          r.EntityID,
		SuggestedCategory: r.SuggestedCategory,
		SuggestedPriority: domain.Priority(r.SuggestedPriority),
		SuggestedAssignee: r.SuggestedAssignee,
		ActualAssignee:    r.ActualAssignee,
		Confidence:        r.Confidence,
		WasOverridden:     r.WasOverridden,
	}
	if r.OverrideReason.Valid {
		entry.OverrideReason = r.OverrideReason.String
	}
	if r.CreatedAt.Valid {
		entry.CreatedAt = r.CreatedAt.Time
	}
	return entry
}

// ListHistorySince returns history rows created at or after since, oldest
// first. Feeds the routing accuracy report.
func (a *DecisionLogAdapter) ListHistorySince(ctx context.Context, since time.Time) ([]*domain.RoutingHistoryEntry, error) {
	query := `
		SELECT * FROM ai_routing_history
		WHERE created_at >= $1
		ORDER BY created_at ASC
	`

	rows, err := a.db.QueryxContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.RoutingHistoryEntry
	for rows.Next() {
		var row historyRow
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		entries = append(entries, row.toEntity())
	}

	return entries, rows.Err()
}

// Ensure DecisionLogAdapter implements out.DecisionLogRepository
var _ out.DecisionLogRepository = (*DecisionLogAdapter)(nil)
