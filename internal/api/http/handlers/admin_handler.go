package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sheet-analytics/internal/api/dto"
	"github.com/spec-kit/sheet-analytics/internal/auth"
	"github.com/spec-kit/sheet-analytics/internal/observability"
	"github.com/spec-kit/sheet-analytics/internal/service"
	apperrors "github.com/spec-kit/sheet-analytics/pkg/util"
)

// AdminHandler exposes moderation endpoints; all routes sit behind the
// admin-role guard.
type AdminHandler struct {
	admin   *service.AdminService
	metrics *observability.Metrics
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(adminService *service.AdminService, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{admin: adminService, metrics: metrics}
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// Metrics handles GET /admin/metrics.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	requests, errs := h.metrics.Snapshot()
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"requests": requests,
			"errors":   errs,
		},
	})
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.UserContext())
	if err != nil {
		return err
	}

	out := make([]dto.PublicUser, 0, len(users))
	for _, user := range users {
		out = append(out, dto.NewPublicUser(user))
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}

// ModerateUser handles PATCH /admin/users/:id.
func (h *AdminHandler) ModerateUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ModerateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.admin.ModerateUser(c.UserContext(), principal.ID, c.Params("id"), service.ModerateInput{
		Role:   req.Role,
		Status: req.Status,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewPublicUser(user),
	})
}
