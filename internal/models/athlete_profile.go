package models

import "time"

type AthleteProfile struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	AthleteName        *string   `json:"athlete_name"`
	BirthYear          *int      `json:"birth_year"`
	Position           *string   `json:"position"`
	CurrentTeam        *string   `json:"current_team"`
	ExperienceLevel    *string   `json:"experience_level"`
	Goals              *[]string `json:"goals"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
