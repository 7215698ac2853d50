package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"bpo_server/core/domain"
	"bpo_server/core/port/out"
)

// TemplateAdapter implements out.ResponseTemplateRepository using PostgreSQL.
type TemplateAdapter struct {
	db *sqlx.DB
}

// NewTemplateAdapter creates a new TemplateAdapter.
func NewTemplateAdapter(db *sqlx.DB) *TemplateAdapter {
	return &TemplateAdapter{db: db}
}

// responseRow represents the database row for suggested responses.
type responseRow struct {
	ID          int64        `db:"id"`
	Category    string       `db:"category"`
	Body        string       `db:"body"`
	SuccessRate float64      `db:"success_rate"`
	IsActive    bool         `db:"is_active"`
	CreatedAt   sql.NullTime `db:"created_at"`
	UpdatedAt   sql.NullTime `db:"updated_at"`
}

func (r *responseRow) toEntity() *domain.ResponseTemplate {
	tmpl := &domain.ResponseTemplate{
		ID:          r.ID,
		Category:    r.Category,
		Body:        r.Body,
		SuccessRate: r.SuccessRate,
		IsActive:    r.IsActive,
	}
	if r.CreatedAt.Valid {
		tmpl.CreatedAt = r.CreatedAt.Time
	}
	if r.UpdatedAt.Valid {
		tmpl.UpdatedAt = r.UpdatedAt.Time
	}
	return tmpl
}

// ListByCategory returns active templates for a category, best success rate
// first.
func (a *TemplateAdapter) ListByCategory(ctx context.Context, category string, limit int) ([]*domain.ResponseTemplate, error) {
	query := `
		SELECT * FROM ai_suggested_responses
		WHERE category = $1 AND is_active = true
		ORDER BY success_rate DESC
		LIMIT $2
	`
	return a.queryTemplates(ctx, query, category, limit)
}

// List returns all templates for the admin UI.
func (a *TemplateAdapter) List(ctx context.Context) ([]*domain.ResponseTemplate, error) {
	query := `SELECT * FROM ai_suggested_responses ORDER BY category ASC, success_rate DESC`
	return a.queryTemplates(ctx, query)
}

func (a *TemplateAdapter) queryTemplates(ctx context.Context, query string, args ...interface{}) ([]*domain.ResponseTemplate, error) {
	rows, err := a.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*domain.ResponseTemplate
	for rows.Next() {
		var row responseRow
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		templates = append(templates, row.toEntity())
	}

	return templates, rows.Err()
}

// Create creates a new template.
func (a *TemplateAdapter) Create(ctx context.Context, tmpl *domain.ResponseTemplate) error {
	query := `
		INSERT INTO ai_suggested_responses (category, body, success_rate, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	return a.db.QueryRowxContext(ctx, query,
		tmpl.Category,
		tmpl.Body,
		tmpl.SuccessRate,
		tmpl.IsActive,
	).Scan(&tmpl.ID, &tmpl.CreatedAt, &tmpl.UpdatedAt)
}

// Update updates a template.
func (a *TemplateAdapter) Update(ctx context.Context, tmpl *domain.ResponseTemplate) error {
	query := `
		UPDATE ai_suggested_responses SET
			category = $1,
			body = $2,
			success_rate = $3,
			is_active = $4,
			updated_at = NOW()
		WHERE id = $5
	`

	result, err := a.db.ExecContext(ctx, query,
		tmpl.Category,
		tmpl.Body,
		tmpl.SuccessRate,
		tmpl.IsActive,
		tmpl.ID,
	)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("response template not found")
	}
	return nil
}

// Delete deletes a template.
func (a *TemplateAdapter) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM ai_suggested_responses WHERE id = $1`

	result, err := a.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("response template not found")
	}
	return nil
}

// Ensure TemplateAdapter implements out.ResponseTemplateRepository
var _ out.ResponseTemplateRepository = (*TemplateAdapter)(nil)
