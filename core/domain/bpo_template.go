package domain

import "time"

// ResponseTemplate is a canned response suggestion scoped to a complaint
// category. Templates are ordered by historical success rate when fetched.
type ResponseTemplate struct {
	ID          int64     `json:"id"`
	Category    string    `json:"category"`
	Body        string    `json:"body"`
	SuccessRate float64   `json:"success_rate"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
