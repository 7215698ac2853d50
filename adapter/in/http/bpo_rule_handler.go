package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"bpo_server/core/domain"
	"bpo_server/core/port/out"
	"bpo_server/pkg/response"
)

// RuleHandler handles HTTP requests for routing rule administration
type RuleHandler struct {
	rules out.RoutingRuleRepository
}

// NewRuleHandler creates a new RuleHandler
func NewRuleHandler(rules out.RoutingRuleRepository) *RuleHandler {
	return &RuleHandler{rules: rules}
}

// Register registers routing rule routes
func (h *RuleHandler) Register(router fiber.Router) {
	rules := router.Group("/routing/rules")

	rules.Get("/", h.List)
	rules.Get("/:id", h.GetByID)
	rules.Post("/", h.Create)
	rules.Put("/:id", h.Update)
	rules.Delete("/:id", h.Delete)
}

// RuleRequest represents the HTTP request to create or update a rule
type RuleRequest struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Keywords       []string `json:"keywords"`
	TargetCategory string   `json:"target_category"`
	TargetPriority string   `json:"target_priority"`
	IsActive       *bool    `json:"is_active"`
	PriorityOrder  int      `json:"priority_order"`
}

func (r *RuleRequest) toEntity() *domain.RoutingRule {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	ruleType := domain.RuleType(r.Type)
	if ruleType == "" {
		ruleType = domain.RuleTypeKeyword
	}
	return &domain.RoutingRule{
		Name:           r.Name,
		Type:           ruleType,
		Keywords:       r.Keywords,
		TargetCategory: r.TargetCategory,
		TargetPriority: domain.Priority(r.TargetPriority),
		IsActive:       active,
		PriorityOrder:  r.PriorityOrder,
	}
}

// List lists all routing rules
func (h *RuleHandler) List(c *fiber.Ctx) error {
	rules, err := h.rules.List(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return response.OK(c, rules)
}

// GetByID retrieves a routing rule
func (h *RuleHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid rule ID"})
	}

	rule, err := h.rules.GetByID(c.Context(), id)
	if err != nil {
		return response.NotFound(c, "routing rule not found")
	}
	return response.OK(c, rule)
}

// Create creates a routing rule
func (h *RuleHandler) Create(c *fiber.Ctx) error {
	var req RuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}
	if req.TargetPriority != "" && !domain.ValidPriorities[domain.Priority(req.TargetPriority)] {
		return c.Status(400).JSON(fiber.Map{"error": "invalid target_priority"})
	}

	rule := req.toEntity()
	if err := h.rules.Create(c.Context(), rule); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return response.Created(c, rule)
}

// Update updates a routing rule
func (h *RuleHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid rule ID"})
	}

	var req RuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.TargetPriority != "" && !domain.ValidPriorities[domain.Priority(req.TargetPriority)] {
		return c.Status(400).JSON(fiber.Map{"error": "invalid target_priority"})
	}

	rule := req.toEntity()
	rule.ID = id
	if err := h.rules.Update(c.Context(), rule); err != nil {
		return response.NotFound(c, "routing rule not found")
	}
	return response.OK(c, rule)
}

// Delete deletes a routing rule
func (h *RuleHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid rule ID"})
	}

	if err := h.rules.Delete(c.Context(), id); err != nil {
		return response.NotFound(c, "routing rule not found")
	}
	return response.NoContent(c)
}
