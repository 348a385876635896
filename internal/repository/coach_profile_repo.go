package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdillon-sports/AcademyBack/internal/models"
)

type CoachProfileRepository struct {
	db DBTX
}

func NewCoachProfileRepository(db DBTX) *CoachProfileRepository {
	return &CoachProfileRepository{db: db}
}

func (r *CoachProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO coach_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *CoachProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error) {
	query := `
		SELECT id, user_id, full_name, avatar_url, bio, specialties, certifications,
			   experience_years, is_verified, onboarding_complete, created_at, updated_at
		FROM coach_profiles
		WHERE user_id = $1
	`
	var profile models.CoachProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.Specialties,
		&profile.Certifications,
		&profile.ExperienceYears,
		&profile.IsVerified,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *CoachProfileRepository) UpdateOnboarding(ctx context.Context, userID int64, req CoachOnboardingInput) (*models.CoachProfile, error) {
	query := `
		UPDATE coach_profiles
		SET full_name = $1,
			bio = $2,
			specialties = $3,
			certifications = $4,
			experience_years = $5,
			onboarding_complete = TRUE,
			updated_at = NOW()
		WHERE user_id = $6
		RETURNING id, user_id, full_name, avatar_url, bio, specialties, certifications,
				  experience_years, is_verified, onboarding_complete, created_at, updated_at
	`
	var profile models.CoachProfile
	err := r.db.QueryRow(ctx, query,
		req.FullName,
		req.Bio,
		req.Specialties,
		req.Certifications,
		req.ExperienceYears,
		userID,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.Specialties,
		&profile.Certifications,
		&profile.ExperienceYears,
		&profile.IsVerified,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *CoachProfileRepository) UpdatePartial(ctx context.Context, userID int64, req UpdateCoachProfileInput) (*models.CoachProfile, error) {
	query := `
		UPDATE coach_profiles
		SET full_name = COALESCE($1, full_name),
			avatar_url = COALESCE($2, avatar_url),
			bio = COALESCE($3, bio),
			specialties = COALESCE($4, specialties),
			certifications = COALESCE($5, certifications),
			experience_years = COALESCE($6, experience_years),
			updated_at = NOW()
		WHERE user_id = $7
		RETURNING id, user_id, full_name, avatar_url, bio, specialties, certifications,
				  experience_years, is_verified, onboarding_complete, created_at, updated_at
	`
	var profile models.CoachProfile
	err := r.db.QueryRow(ctx, query,
		req.FullName,
		req.AvatarURL,
		req.Bio,
		req.Specialties,
		req.Certifications,
		req.ExperienceYears,
		userID,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.Specialties,
		&profile.Certifications,
		&profile.ExperienceYears,
		&profile.IsVerified,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListOnboarded pages through coaches visible in the directory, optionally
// filtered by specialty.
func (r *CoachProfileRepository) ListOnboarded(
	ctx context.Context,
	specialty string,
	limit int,
	offset int,
) ([]models.CoachProfile, error) {
	args := []any{}
	whereParts := []string{"onboarding_complete = TRUE"}

	if specialty = strings.TrimSpace(specialty); specialty != "" {
		args = append(args, specialty)
		whereParts = append(whereParts, fmt.Sprintf("$%d = ANY(specialties)", len(args)))
	}

	args = append(args, limit)
	limitIdx := len(args)
	args = append(args, offset)
	offsetIdx := len(args)

	query := fmt.Sprintf(`
		SELECT id, user_id, full_name, avatar_url, bio, specialties, certifications,
			   experience_years, is_verified, onboarding_complete, created_at, updated_at
		FROM coach_profiles
		WHERE %s
		ORDER BY full_name ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, strings.Join(whereParts, " AND "), limitIdx, offsetIdx)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.CoachProfile, 0)
	for rows.Next() {
		var profile models.CoachProfile
		if err := rows.Scan(
			&profile.ID,
			&profile.UserID,
			&profile.FullName,
			&profile.AvatarURL,
			&profile.Bio,
			&profile.Specialties,
			&profile.Certifications,
			&profile.ExperienceYears,
			&profile.IsVerified,
			&profile.OnboardingComplete,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *CoachProfileRepository) CountOnboarded(ctx context.Context, specialty string) (int, error) {
	args := []any{}
	whereParts := []string{"onboarding_complete = TRUE"}

	if specialty = strings.TrimSpace(specialty); specialty != "" {
		args = append(args, specialty)
		whereParts = append(whereParts, fmt.Sprintf("$%d = ANY(specialties)", len(args)))
	}

	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM coach_profiles WHERE %s`,
		strings.Join(whereParts, " AND "),
	)

	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

type CoachOnboardingInput struct {
	FullName        string
	Bio             string
	Specialties     []string
	Certifications  []string
	ExperienceYears int
}

type UpdateCoachProfileInput struct {
	FullName        *string
	AvatarURL       *string
	Bio             *string
	Specialties     *[]string
	Certifications  *[]string
	ExperienceYears *int
}
