package http

import (
	"github.com/gofiber/fiber/v2"

	"bpo_server/core/service/report"
	"bpo_server/pkg/response"
)

// ReportHandler handles HTTP requests for routing accuracy reports
type ReportHandler struct {
	reports *report.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Register registers report routes
func (h *ReportHandler) Register(router fiber.Router) {
	r := router.Group("/routing/reports")

	r.Get("/latest", h.Latest)
	r.Post("/rebuild", h.Rebuild)
}

// Latest returns the most recent routing accuracy report
func (h *ReportHandler) Latest(c *fiber.Ctx) error {
	rep, err := h.reports.Latest(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	if rep == nil {
		return response.NotFound(c, "no routing report generated yet")
	}
	return response.OK(c, rep)
}

// Rebuild aggregates the decision log and stores a fresh report
func (h *ReportHandler) Rebuild(c *fiber.Ctx) error {
	rep, err := h.reports.Rebuild(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return response.Created(c, rep)
}
