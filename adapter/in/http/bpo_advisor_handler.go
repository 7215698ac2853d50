// Package http implements the inbound HTTP adapters.
package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bpo_server/core/domain"
	"bpo_server/core/service/routing"
	"bpo_server/pkg/response"
)

// AdvisorHandler handles HTTP requests for routing analysis
type AdvisorHandler struct {
	advisor   *routing.Advisor
	decisions *routing.DecisionLogger
}

// NewAdvisorHandler creates a new AdvisorHandler
func NewAdvisorHandler(advisor *routing.Advisor, decisions *routing.DecisionLogger) *AdvisorHandler {
	return &AdvisorHandler{advisor: advisor, decisions: decisions}
}

// Register registers routing analysis routes
func (h *AdvisorHandler) Register(router fiber.Router) {
	r := router.Group("/routing")

	r.Post("/complaints/analyze", h.AnalyzeComplaint)
	r.Post("/tickets/analyze", h.AnalyzeTicket)
	r.Post("/decisions", h.LogDecision)
}

// AnalyzeComplaintRequest represents the HTTP request to analyze a complaint
type AnalyzeComplaintRequest struct {
	Subject       string `json:"subject"`
	Description   string `json:"description"`
	ComplaintType string `json:"complaint_type"`
}

// AnalyzeTicketRequest represents the HTTP request to analyze a ticket
type AnalyzeTicketRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// LogDecisionRequest represents the finalized routing decision to record
type LogDecisionRequest struct {
	EntityType     string                    `json:"entity_type"`
	EntityID       uuid.UUID                 `json:"entity_id"`
	Suggestion     *domain.RoutingSuggestion `json:"suggestion"`
	ActualAssignee *uuid.UUID                `json:"actual_assignee"`
	WasOverridden  bool                      `json:"was_overridden"`
	OverrideReason string                    `json:"override_reason"`
}

// AnalyzeComplaint analyzes a complaint draft and suggests routing
// @Summary Analyze a complaint and suggest routing
// @Tags Routing
// @Accept json
// @Produce json
// @Param request body AnalyzeComplaintRequest true "Complaint draft"
// @Success 200 {object} domain.RoutingSuggestion
// @Router /api/v1/routing/complaints/analyze [post]
func (h *AdvisorHandler) AnalyzeComplaint(c *fiber.Ctx) error {
	var req AnalyzeComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if strings.TrimSpace(req.Subject) == "" && strings.TrimSpace(req.Description) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "subject or description is required"})
	}

	suggestion := h.advisor.AnalyzeAndRouteComplaint(c.Context(), req.Subject, req.Description, req.ComplaintType)
	return response.OK(c, suggestion)
}

// AnalyzeTicket analyzes a ticket draft and suggests routing
// @Summary Analyze a ticket and suggest routing
// @Tags Routing
// @Accept json
// @Produce json
// @Param request body AnalyzeTicketRequest true "Ticket draft"
// @Success 200 {object} domain.RoutingSuggestion
// @Router /api/v1/routing/tickets/analyze [post]
func (h *AdvisorHandler) AnalyzeTicket(c *fiber.Ctx) error {
	var req AnalyzeTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if strings.TrimSpace(req.Subject) == "" && strings.TrimSpace(req.Description) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "subject or description is required"})
	}

	suggestion := h.advisor.AnalyzeAndRouteTicket(c.Context(), req.Subject, req.Description)
	return response.OK(c, suggestion)
}

// LogDecision records the finalized suggested-vs-actual routing outcome.
// Always 204: the audit trail is best-effort and must not fail creation
// flows in the caller.
func (h *AdvisorHandler) LogDecision(c *fiber.Ctx) error {
	var req LogDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	entityType := domain.EntityType(req.EntityType)
	if entityType != domain.EntityComplaint && entityType != domain.EntityTicket {
		return c.Status(400).JSON(fiber.Map{"error": "entity_type must be complaint or ticket"})
	}
	if req.EntityID == uuid.Nil {
		return c.Status(400).JSON(fiber.Map{"error": "entity_id is required"})
	}
	if req.Suggestion == nil {
		return c.Status(400).JSON(fiber.Map{"error": "suggestion is required"})
	}

	h.decisions.LogDecision(
		c.Context(),
		entityType,
		req.EntityID,
		req.Suggestion,
		req.ActualAssignee,
		req.WasOverridden,
		req.OverrideReason,
	)

	return response.NoContent(c)
}
