package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"bpo_server/core/domain"
	"bpo_server/core/port/out"
	"bpo_server/pkg/response"
)

// TemplateHandler handles HTTP requests for suggested response templates
type TemplateHandler struct {
	templates out.ResponseTemplateRepository
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(templates out.ResponseTemplateRepository) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// Register registers response template routes
func (h *TemplateHandler) Register(router fiber.Router) {
	templates := router.Group("/routing/responses")

	templates.Get("/", h.List)
	templates.Post("/", h.Create)
	templates.Put("/:id", h.Update)
	templates.Delete("/:id", h.Delete)
}

// TemplateRequest represents the HTTP request to create or update a template
type TemplateRequest struct {
	Category    string  `json:"category"`
	Body        string  `json:"body"`
	SuccessRate float64 `json:"success_rate"`
	IsActive    *bool   `json:"is_active"`
}

func (r *TemplateRequest) toEntity() *domain.ResponseTemplate {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &domain.ResponseTemplate{
		Category:    r.Category,
		Body:        r.Body,
		SuccessRate: r.SuccessRate,
		IsActive:    active,
	}
}

// List lists all response templates
func (h *TemplateHandler) List(c *fiber.Ctx) error {
	templates, err := h.templates.List(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return response.OK(c, templates)
}

// Create creates a response template
func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	var req TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Category == "" || req.Body == "" {
		return c.Status(400).JSON(fiber.Map{"error": "category and body are required"})
	}

	tmpl := req.toEntity()
	if err := h.templates.Create(c.Context(), tmpl); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return response.Created(c, tmpl)
}

// Update updates a response template
func (h *TemplateHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid template ID"})
	}

	var req TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	tmpl := req.toEntity()
	tmpl.ID = id
	if err := h.templates.Update(c.Context(), tmpl); err != nil {
		return response.NotFound(c, "response template not found")
	}
	return response.OK(c, tmpl)
}

// Delete deletes a response template
func (h *TemplateHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid template ID"})
	}

	if err := h.templates.Delete(c.Context(), id); err != nil {
		return response.NotFound(c, "response template not found")
	}
	return response.NoContent(c)
}
