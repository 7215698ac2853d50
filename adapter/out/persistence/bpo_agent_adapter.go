package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"bpo_server/core/domain"
	"bpo_server/core/port/out"
)

// AgentAdapter implements out.AgentRepository using PostgreSQL. Availability
// means a present attendance row for the given day; agents without one are
// invisible to routing.
type AgentAdapter struct {
	db *sqlx.DB
}

// NewAgentAdapter creates a new AgentAdapter.
func NewAgentAdapter(db *sqlx.DB) *AgentAdapter {
	return &AgentAdapter{db: db}
}

// agentRow represents the joined profile/attendance row.
type agentRow struct {
	UserID   uuid.UUID `db:"user_id"`
	FullName string    `db:"full_name"`
	Role     string    `db:"role"`
}

// ListAvailable returns agents in the given roles who are present on day,
// up to limit.
func (a *AgentAdapter) ListAvailable(ctx context.Context, roles []domain.AgentRole, day time.Time, limit int) ([]*domain.AgentProfile, error) {
	roleNames := make([]string, 0, len(roles))
	for _, r := range roles {
		roleNames = append(roleNames, string(r))
	}

	query := `
		SELECT p.user_id, p.full_name, p.role
		FROM users_profile p
		JOIN attendance a ON a.user_id = p.user_id
			AND a.date = $1
			AND a.status = 'present'
		WHERE p.role = ANY($2)
		ORDER BY p.full_name ASC
		LIMIT $3
	`

	rows, err := a.db.QueryxContext(ctx, query,
		day.Format("2006-01-02"),
		pq.Array(roleNames),
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []*domain.AgentProfile
	for rows.Next() {
		var row agentRow
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		agents = append(agents, &domain.AgentProfile{
			UserID:   row.UserID,
			FullName: row.FullName,
			Role:     domain.AgentRole(row.Role),
		})
	}

	return agents, rows.Err()
}

// Ensure AgentAdapter implements out.AgentRepository
var _ out.AgentRepository = (*AgentAdapter)(nil)
