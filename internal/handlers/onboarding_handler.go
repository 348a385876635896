package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jdillon-sports/AcademyBack/internal/models"
	"github.com/jdillon-sports/AcademyBack/internal/repository"
)

type athleteOnboardingProfileStore interface {
	UpdateOnboarding(ctx context.Context, userID int64, req repository.AthleteOnboardingInput) (*models.AthleteProfile, error)
}

type coachOnboardingProfileStore interface {
	UpdateOnboarding(ctx context.Context, userID int64, req repository.CoachOnboardingInput) (*models.CoachProfile, error)
}

type enroller interface {
	EnsureEnrolled(ctx context.Context, userID int64) (*models.MemberProgress, error)
}

type OnboardingHandler struct {
	athleteProfileRepo athleteOnboardingProfileStore
	coachProfileRepo   coachOnboardingProfileStore
	progression        enroller
}

func NewOnboardingHandler(
	athleteProfileRepo athleteOnboardingProfileStore,
	coachProfileRepo coachOnboardingProfileStore,
	progression enroller,
) *OnboardingHandler {
	return &OnboardingHandler{
		athleteProfileRepo: athleteProfileRepo,
		coachProfileRepo:   coachProfileRepo,
		progression:        progression,
	}
}

type memberOnboardingRequest struct {
	AthleteName     string   `json:"athlete_name"`
	BirthYear       int      `json:"birth_year"`
	Position        string   `json:"position"`
	CurrentTeam     *string  `json:"current_team"`
	ExperienceLevel string   `json:"experience_level"`
	Goals           []string `json:"goals"`
}

type coachOnboardingRequest struct {
	FullName        string   `json:"full_name"`
	Bio             string   `json:"bio"`
	Specialties     []string `json:"specialties"`
	Certifications  []string `json:"certifications"`
	ExperienceYears int      `json:"experience_years"`
}

// MemberOnboarding saves the athlete profile and enrolls the member in the
// curriculum at the first phase.
func (h *OnboardingHandler) MemberOnboarding(c *fiber.Ctx) error {
	userID, ok := requireMember(c)
	if !ok {
		return nil
	}

	var req memberOnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateMemberOnboardingRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.athleteProfileRepo.UpdateOnboarding(c.Context(), userID, repository.AthleteOnboardingInput{
		AthleteName:     req.AthleteName,
		BirthYear:       req.BirthYear,
		Position:        req.Position,
		CurrentTeam:     req.CurrentTeam,
		ExperienceLevel: req.ExperienceLevel,
		Goals:           req.Goals,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	progress, err := h.progression.EnsureEnrolled(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to enroll member"})
	}

	return c.JSON(fiber.Map{
		"profile":             profile,
		"progress":            progress,
		"onboarding_complete": profile.OnboardingComplete,
	})
}

func (h *OnboardingHandler) CoachOnboarding(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "coach" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req coachOnboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateCoachOnboardingRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.coachProfileRepo.UpdateOnboarding(c.Context(), userID, repository.CoachOnboardingInput{
		FullName:        req.FullName,
		Bio:             req.Bio,
		Specialties:     req.Specialties,
		Certifications:  req.Certifications,
		ExperienceYears: req.ExperienceYears,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{
		"profile":             profile,
		"onboarding_complete": profile.OnboardingComplete,
	})
}
