package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jdillon-sports/AcademyBack/internal/models"
	"github.com/jdillon-sports/AcademyBack/internal/services"
)

type PackageHandler struct {
	service packageApplicationService
}

type packageApplicationService interface {
	ListDefinitions(ctx context.Context) ([]models.PackageDefinition, error)
	ListMemberPackages(ctx context.Context, userID int64) ([]models.PackageInstance, error)
}

func NewPackageHandler(service *services.PackageService) *PackageHandler {
	return &PackageHandler{service: service}
}

func (h *PackageHandler) ListDefinitions(c *fiber.Ctx) error {
	definitions, err := h.service.ListDefinitions(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load packages"})
	}
	return c.JSON(fiber.Map{"packages": definitions})
}

func (h *PackageHandler) ListMemberPackages(c *fiber.Ctx) error {
	userID, ok := requireMember(c)
	if !ok {
		return nil
	}

	instances, err := h.service.ListMemberPackages(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load packages"})
	}
	return c.JSON(fiber.Map{"packages": instances})
}
