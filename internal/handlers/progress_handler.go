package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jdillon-sports/AcademyBack/internal/curriculum"
	"github.com/jdillon-sports/AcademyBack/internal/models"
	"github.com/jdillon-sports/AcademyBack/internal/services"
)

type ProgressHandler struct {
	service    progressionApplicationService
	curriculum *curriculum.Definition
}

type progressionApplicationService interface {
	Dashboard(ctx context.Context, userID int64) (*services.Dashboard, error)
	Advance(ctx context.Context, userID int64) (*models.MemberProgress, error)
	CompleteDrill(ctx context.Context, userID int64, drillID string) (*models.DrillCompletion, error)
	UncompleteDrill(ctx context.Context, userID int64, drillID string) error
}

func NewProgressHandler(service *services.ProgressionService, def *curriculum.Definition) *ProgressHandler {
	return &ProgressHandler{service: service, curriculum: def}
}

func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	userID, ok := requireMember(c)
	if !ok {
		return nil
	}

	dashboard, err := h.service.Dashboard(c.Context(), userID)
	if err != nil {
		return mapProgressError(c, err)
	}

	return c.JSON(dashboard)
}

func (h *ProgressHandler) Advance(c *fiber.Ctx) error {
	userID, ok := requireMember(c)
	if !ok {
		return nil
	}

	progress, err := h.service.Advance(c.Context(), userID)
	if err != nil {
		return mapProgressError(c, err)
	}

	return c.JSON(fiber.Map{"progress": progress})
}

func (h *ProgressHandler) CompleteDrill(c *fiber.Ctx) error {
	userID, ok := requireMember(c)
	if !ok {
		return nil
	}

	drillID := strings.TrimSpace(c.Params("id"))
	if drillID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid drill id"})
	}

	completion, err := h.service.CompleteDrill(c.Context(), userID, drillID)
	if err != nil {
		return mapProgressError(c, err)
	}

	return c.JSON(fiber.Map{"completion": completion})
}

func (h *ProgressHandler) UncompleteDrill(c *fiber.Ctx) error {
	userID, ok := requireMember(c)
	if !ok {
		return nil
	}

	drillID := strings.TrimSpace(c.Params("id"))
	if drillID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid drill id"})
	}

	if err := h.service.UncompleteDrill(c.Context(), userID, drillID); err != nil {
		return mapProgressError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProgressHandler) GetCurriculum(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"curriculum": h.curriculum})
}

// requireMember resolves the caller as an authenticated member. It writes
// the error response itself and reports false when the caller is rejected.
func requireMember(c *fiber.Ctx) (int64, bool) {
	role, ok := c.Locals("role").(string)
	if !ok || role != "member" {
		_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		return 0, false
	}
	userID, err := parseUserID(c)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		return 0, false
	}
	return userID, true
}

func mapProgressError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotEnrolled):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member is not enrolled in the program"})
	case errors.Is(err, services.ErrDrillsIncomplete):
		return c.Status(fiber.StatusUnprocessableEntity).
			JSON(fiber.Map{"error": "Complete this week's priority drills before advancing"})
	case errors.Is(err, services.ErrProgressConflict):
		return c.Status(fiber.StatusConflict).
			JSON(fiber.Map{"error": "Progress changed, reload and try again"})
	case errors.Is(err, services.ErrUnknownDrill):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Drill not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process progress request"})
	}
}
