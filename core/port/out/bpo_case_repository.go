package out

import (
	"context"

	"bpo_server/core/domain"
)

// CaseRepository reads open complaints/tickets for "similar" context. The
// advisor never mutates these entities; category, priority and assignee are
// set by the owning system at creation time.
type CaseRepository interface {
	ListOpenComplaints(ctx context.Context, category string, limit int) ([]*domain.CaseSummary, error)
	ListOpenTickets(ctx context.Context, category string, limit int) ([]*domain.CaseSummary, error)
}
