package models

import "time"

type MemberProgress struct {
	UserID        int64           `json:"user_id"`
	CurrentPhase  string          `json:"current_phase"`
	CurrentWeek   int             `json:"current_week"`
	Version       int64           `json:"version"`
	PhaseProgress []PhaseProgress `json:"phase_progress"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type PhaseProgress struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Phase       string     `json:"phase"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type DrillCompletion struct {
	UserID      int64     `json:"user_id"`
	DrillID     string    `json:"drill_id"`
	CompletedAt time.Time `json:"completed_at"`
}
