package persistence

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"bpo_server/core/domain"
	"bpo_server/core/port/out"
)

// CaseAdapter implements out.CaseRepository using PostgreSQL. Read-only:
// the advisor only looks at open cases for "similar" context.
type CaseAdapter struct {
	db *sqlx.DB
}

// NewCaseAdapter creates a new CaseAdapter.
func NewCaseAdapter(db *sqlx.DB) *CaseAdapter {
	return &CaseAdapter{db: db}
}

// caseRow covers both complaint and ticket summary shapes.
type caseRow struct {
	ID       uuid.UUID      `db:"id"`
	Number   string         `db:"number"`
	Subject  string         `db:"subject"`
	Status   string         `db:"status"`
	Severity sql.NullString `db:"severity"`
	Category sql.NullString `db:"category"`
}

func (r *caseRow) toEntity() *domain.CaseSummary {
	summary := &domain.CaseSummary{
		ID:      r.ID,
		Number:  r.Number,
		Subject: r.Subject,
		Status:  r.Status,
	}
	if r.Severity.Valid {
		summary.Severity = r.Severity.String
	}
	if r.Category.Valid {
		summary.Category = r.Category.String
	}
	return summary
}

// ListOpenComplaints returns recent non-closed complaints in a category.
func (a *CaseAdapter) ListOpenComplaints(ctx context.Context, category string, limit int) ([]*domain.CaseSummary, error) {
	query := `
		SELECT id, complaint_number AS number, subject, status, severity, NULL AS category
		FROM complaints
		WHERE complaint_type = $1 AND status != 'closed'
		ORDER BY created_at DESC
		LIMIT $2
	`
	return a.queryCases(ctx, query, category, limit)
}

// ListOpenTickets returns recent non-closed tickets in a category.
func (a *CaseAdapter) ListOpenTickets(ctx context.Context, category string, limit int) ([]*domain.CaseSummary, error) {
	query := `
		SELECT id, ticket_number AS number, subject, status, NULL AS severity, category
		FROM tickets
		WHERE category = $1 AND status != 'closed'
		ORDER BY created_at DESC
		LIMIT $2
	`
	return a.queryCases(ctx, query, category, limit)
}

func (a *CaseAdapter) queryCases(ctx context.Context, query string, args ...interface{}) ([]*domain.CaseSummary, error) {
	rows, err := a.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []*domain.CaseSummary
	for rows.Next() {
		var row caseRow
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		cases = append(cases, row.toEntity())
	}

	return cases, rows.Err()
}

// Ensure CaseAdapter implements out.CaseRepository
var _ out.CaseRepository = (*CaseAdapter)(nil)
