package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jdillon-sports/AcademyBack/internal/models"
)

type coachDirectoryStore interface {
	ListOnboarded(ctx context.Context, specialty string, limit, offset int) ([]models.CoachProfile, error)
	CountOnboarded(ctx context.Context, specialty string) (int, error)
	GetByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error)
}

type CoachDirectoryHandler struct {
	coachProfileRepo coachDirectoryStore
}

func NewCoachDirectoryHandler(coachProfileRepo coachDirectoryStore) *CoachDirectoryHandler {
	return &CoachDirectoryHandler{coachProfileRepo: coachProfileRepo}
}

func (h *CoachDirectoryHandler) ListCoaches(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "page must be a positive integer"})
	}
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 || limit > maxPageLimit {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "limit must be between 1 and " + strconv.Itoa(maxPageLimit)})
	}

	specialty := strings.TrimSpace(c.Query("specialty"))

	total, err := h.coachProfileRepo.CountOnboarded(c.Context(), specialty)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load coaches"})
	}

	coaches, err := h.coachProfileRepo.ListOnboarded(c.Context(), specialty, limit, (page-1)*limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load coaches"})
	}

	return c.JSON(fiber.Map{
		"coaches":    coaches,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *CoachDirectoryHandler) GetCoachDetail(c *fiber.Ctx) error {
	coachID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || coachID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach id"})
	}

	profile, err := h.coachProfileRepo.GetByUserID(c.Context(), coachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load coach"})
	}
	if !profile.OnboardingComplete {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
	}

	return c.JSON(fiber.Map{"coach": profile})
}
