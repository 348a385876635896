package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jdillon-sports/AcademyBack/internal/models"
	"github.com/jdillon-sports/AcademyBack/internal/repository"
)

type athleteProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.AthleteProfile, error)
	UpdatePartial(ctx context.Context, userID int64, req repository.UpdateAthleteProfileInput) (*models.AthleteProfile, error)
}

type coachProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error)
	UpdatePartial(ctx context.Context, userID int64, req repository.UpdateCoachProfileInput) (*models.CoachProfile, error)
}

type ProfileHandler struct {
	athleteProfileRepo athleteProfileStore
	coachProfileRepo   coachProfileStore
}

func NewProfileHandler(
	athleteProfileRepo athleteProfileStore,
	coachProfileRepo coachProfileStore,
) *ProfileHandler {
	return &ProfileHandler{
		athleteProfileRepo: athleteProfileRepo,
		coachProfileRepo:   coachProfileRepo,
	}
}

type updateAthleteProfileRequest struct {
	AthleteName     *string   `json:"athlete_name"`
	BirthYear       *int      `json:"birth_year"`
	Position        *string   `json:"position"`
	CurrentTeam     *string   `json:"current_team"`
	ExperienceLevel *string   `json:"experience_level"`
	Goals           *[]string `json:"goals"`
}

type updateCoachProfileRequest struct {
	FullName        *string   `json:"full_name"`
	AvatarURL       *string   `json:"avatar_url"`
	Bio             *string   `json:"bio"`
	Specialties     *[]string `json:"specialties"`
	Certifications  *[]string `json:"certifications"`
	ExperienceYears *int      `json:"experience_years"`
}

func (h *ProfileHandler) GetMemberProfile(c *fiber.Ctx) error {
	userID, ok := requireMember(c)
	if !ok {
		return nil
	}

	profile, err := h.athleteProfileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UpdateMemberProfile(c *fiber.Ctx) error {
	userID, ok := requireMember(c)
	if !ok {
		return nil
	}

	var req updateAthleteProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.AthleteName != nil && strings.TrimSpace(*req.AthleteName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "athlete_name must not be empty"})
	}
	if req.ExperienceLevel != nil {
		if _, ok := allowedExperienceLevels[*req.ExperienceLevel]; !ok {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "experience_level must be beginner, intermediate or advanced"})
		}
	}

	profile, err := h.athleteProfileRepo.UpdatePartial(c.Context(), userID, repository.UpdateAthleteProfileInput{
		AthleteName:     req.AthleteName,
		BirthYear:       req.BirthYear,
		Position:        req.Position,
		CurrentTeam:     req.CurrentTeam,
		ExperienceLevel: req.ExperienceLevel,
		Goals:           req.Goals,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) GetCoachProfile(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "coach" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.coachProfileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UpdateCoachProfile(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "coach" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateCoachProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "full_name must not be empty"})
	}
	if req.ExperienceYears != nil && *req.ExperienceYears < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "experience_years must be 0 or greater"})
	}

	profile, err := h.coachProfileRepo.UpdatePartial(c.Context(), userID, repository.UpdateCoachProfileInput{
		FullName:        req.FullName,
		AvatarURL:       req.AvatarURL,
		Bio:             req.Bio,
		Specialties:     req.Specialties,
		Certifications:  req.Certifications,
		ExperienceYears: req.ExperienceYears,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}
