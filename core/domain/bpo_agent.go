package domain

import "github.com/google/uuid"

// AgentRole is the BPO staff role used for routing escalation.
type AgentRole string

const (
	RoleAgent       AgentRole = "agent"
	RoleSeniorAgent AgentRole = "senior_agent"
	RoleManager     AgentRole = "manager"
)

// AgentProfile is a candidate agent for assignment.
type AgentProfile struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
	Role     AgentRole `json:"role"`
}

// EscalationRoles returns the candidate roles for the given sentiment and
// priority: very negative sentiment or critical priority restricts the pool
// to senior staff.
func EscalationRoles(label SentimentLabel, priority Priority) []AgentRole {
	if label == SentimentVeryNegative || priority == PriorityCritical {
		return []AgentRole{RoleManager, RoleSeniorAgent}
	}
	return []AgentRole{RoleAgent, RoleSeniorAgent, RoleManager}
}
