package out

import (
	"context"

	"bpo_server/core/domain"
)

// ResponseTemplateRepository provides canned response suggestions.
type ResponseTemplateRepository interface {
	// ListByCategory returns active templates for a category ordered by
	// success rate descending.
	ListByCategory(ctx context.Context, category string, limit int) ([]*domain.ResponseTemplate, error)
	List(ctx context.Context) ([]*domain.ResponseTemplate, error)
	Create(ctx context.Context, tmpl *domain.ResponseTemplate) error
	Update(ctx context.Context, tmpl *domain.ResponseTemplate) error
	Delete(ctx context.Context, id int64) error
}
