package repository

import (
	"context"

	"github.com/jdillon-sports/AcademyBack/internal/models"
)

type AthleteProfileRepository struct {
	db DBTX
}

func NewAthleteProfileRepository(db DBTX) *AthleteProfileRepository {
	return &AthleteProfileRepository{db: db}
}

func (r *AthleteProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO athlete_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *AthleteProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.AthleteProfile, error) {
	query := `
		SELECT id, user_id, athlete_name, birth_year, position, current_team,
			   experience_level, goals, onboarding_complete, created_at, updated_at
		FROM athlete_profiles
		WHERE user_id = $1
	`
	var profile models.AthleteProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.AthleteName,
		&profile.BirthYear,
		&profile.Position,
		&profile.CurrentTeam,
		&profile.ExperienceLevel,
		&profile.Goals,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *AthleteProfileRepository) UpdateOnboarding(ctx context.Context, userID int64, req AthleteOnboardingInput) (*models.AthleteProfile, error) {
	query := `
		UPDATE athlete_profiles
		SET athlete_name = $1,
			birth_year = $2,
			position = $3,
			current_team = $4,
			experience_level = $5,
			goals = $6,
			onboarding_complete = TRUE,
			updated_at = NOW()
		WHERE user_id = $7
		RETURNING id, user_id, athlete_name, birth_year, position, current_team,
				  experience_level, goals, onboarding_complete, created_at, updated_at
	`
	var profile models.AthleteProfile
	err := r.db.QueryRow(ctx, query,
		req.AthleteName,
		req.BirthYear,
		req.Position,
		req.CurrentTeam,
		req.ExperienceLevel,
		req.Goals,
		userID,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.AthleteName,
		&profile.BirthYear,
		&profile.Position,
		&profile.CurrentTeam,
		&profile.ExperienceLevel,
		&profile.Goals,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *AthleteProfileRepository) UpdatePartial(ctx context.Context, userID int64, req UpdateAthleteProfileInput) (*models.AthleteProfile, error) {
	query := `
		UPDATE athlete_profiles
		SET athlete_name = COALESCE($1, athlete_name),
			birth_year = COALESCE($2, birth_year),
			position = COALESCE($3, position),
			current_team = COALESCE($4, current_team),
			experience_level = COALESCE($5, experience_level),
			goals = COALESCE($6, goals),
			updated_at = NOW()
		WHERE user_id = $7
		RETURNING id, user_id, athlete_name, birth_year, position, current_team,
				  experience_level, goals, onboarding_complete, created_at, updated_at
	`
	var profile models.AthleteProfile
	err := r.db.QueryRow(ctx, query,
		req.AthleteName,
		req.BirthYear,
		req.Position,
		req.CurrentTeam,
		req.ExperienceLevel,
		req.Goals,
		userID,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.AthleteName,
		&profile.BirthYear,
		&profile.Position,
		&profile.CurrentTeam,
		&profile.ExperienceLevel,
		&profile.Goals,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

type AthleteOnboardingInput struct {
	AthleteName     string
	BirthYear       int
	Position        string
	CurrentTeam     *string
	ExperienceLevel string
	Goals           []string
}

type UpdateAthleteProfileInput struct {
	AthleteName     *string
	BirthYear       *int
	Position        *string
	CurrentTeam     *string
	ExperienceLevel *string
	Goals           *[]string
}
