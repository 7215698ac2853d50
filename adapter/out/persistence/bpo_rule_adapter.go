// Package persistence implements the outbound repository ports on PostgreSQL.
package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"bpo_server/core/domain"
	"bpo_server/core/port/out"
)

// RuleAdapter implements out.RoutingRuleRepository using PostgreSQL.
type RuleAdapter struct {
	db *sqlx.DB
}

// NewRuleAdapter creates a new RuleAdapter.
func NewRuleAdapter(db *sqlx.DB) *RuleAdapter {
	return &RuleAdapter{db: db}
}

// ruleRow represents the database row for routing rules.
type ruleRow struct {
	ID             int64          `db:"id"`
	Name           string         `db:"name"`
	RuleType       string         `db:"rule_type"`
	Keywords       pq.StringArray `db:"keywords"`
	TargetCategory sql.NullString `db:"target_category"`
	TargetPriority sql.NullString `db:"target_priority"`
	IsActive       bool           `db:"is_active"`
	PriorityOrder  int            `db:"priority_order"`
	CreatedAt      sql.NullTime   `db:"created_at"`
	UpdatedAt      sql.NullTime   `db:"updated_at"`
}

func (r *ruleRow) toEntity() *domain.RoutingRule {
	rule := &domain.RoutingRule{
		ID:            r.ID,
		Name:          r.Name,
		Type:          domain.RuleType(r.RuleType),
		Keywords:      r.Keywords,
		IsActive:      r.IsActive,
		PriorityOrder: r.PriorityOrder,
	}

	if r.TargetCategory.Valid {
		rule.TargetCategory = r.TargetCategory.String
	}
	if r.TargetPriority.Valid {
		rule.TargetPriority = domain.Priority(r.TargetPriority.String)
	}
	if r.CreatedAt.Valid {
		rule.CreatedAt = r.CreatedAt.Time
	}
	if r.UpdatedAt.Valid {
		rule.UpdatedAt = r.UpdatedAt.Time
	}

	return rule
}

// ListActive returns active rules ordered by priority_order descending. This
// ordering is what the matcher iterates, so higher priority_order wins ties
// on category/priority overwrites.
func (a *RuleAdapter) ListActive(ctx context.Context) ([]*domain.RoutingRule, error) {
	query := `
		SELECT * FROM ai_routing_rules
		WHERE is_active = true
		ORDER BY priority_order DESC
	`
	return a.queryRules(ctx, query)
}

// List returns all rules for the admin UI, active or not.
func (a *RuleAdapter) List(ctx context.Context) ([]*domain.RoutingRule, error) {
	query := `SELECT * FROM ai_routing_rules ORDER BY priority_order DESC, id ASC`
	return a.queryRules(ctx, query)
}

func (a *RuleAdapter) queryRules(ctx context.Context, query string, args ...interface{}) ([]*domain.RoutingRule, error) {
	rows, err := a.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*domain.RoutingRule
	for rows.Next() {
		var row ruleRow
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		rules = append(rules, row.toEntity())
	}

	return rules, rows.Err()
}

// GetByID retrieves a rule by ID.
func (a *RuleAdapter) GetByID(ctx context.Context, id int64) (*domain.RoutingRule, error) {
	query := `SELECT * FROM ai_routing_rules WHERE id = $1`

	var row ruleRow
	err := a.db.QueryRowxContext(ctx, query, id).StructScan(&row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("routing rule not found")
		}
		return nil, err
	}

	return row.toEntity(), nil
}

// Create creates a new rule.
func (a *RuleAdapter) Create(ctx context.Context, rule *domain.RoutingRule) error {
	query := `
		INSERT INTO ai_routing_rules (
			name, rule_type, keywords, target_category, target_priority,
			is_active, priority_order
		) VALUES (
			$1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7
		)
		RETURNING id, created_at, updated_at
	`

	return a.db.QueryRowxContext(ctx, query,
		rule.Name,
		string(rule.Type),
		pq.Array(rule.Keywords),
		rule.TargetCategory,
		string(rule.TargetPriority),
		rule.IsActive,
		rule.PriorityOrder,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
}

// Update updates a rule.
func (a *RuleAdapter) Update(ctx context.Context, rule *domain.RoutingRule) error {
	query := `
		UPDATE ai_routing_rules SET
			name = $1,
			rule_type = $2,
			keywords = $3,
			target_category = NULLIF($4, ''),
			target_priority = NULLIF($5, ''),
			is_active = $6,
			priority_order = $7,
			updated_at = NOW()
		WHERE id = $8
	`

	result, err := a.db.ExecContext(ctx, query,
		rule.Name,
		string(rule.Type),
		pq.Array(rule.Keywords),
		rule.TargetCategory,
		string(rule.TargetPriority),
		rule.IsActive,
		rule.PriorityOrder,
		rule.ID,
	)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("routing rule not found")
	}
	return nil
}

// Delete deletes a rule.
func (a *RuleAdapter) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM ai_routing_rules WHERE id = $1`

	result, err := a.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("routing rule not found")
	}
	return nil
}

// Ensure RuleAdapter implements out.RoutingRuleRepository
var _ out.RoutingRuleRepository = (*RuleAdapter)(nil)
