package repository

import (
	"context"
	"time"

	"github.com/jdillon-sports/AcademyBack/internal/models"
)

type ProgressRepository struct {
	db DBTX
}

func NewProgressRepository(db DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Create enrolls a member at the given phase, week 1, and opens the first
// phase_progress entry. Callers run it inside a transaction.
func (r *ProgressRepository) Create(
	ctx context.Context,
	userID int64,
	firstPhase string,
) (*models.MemberProgress, error) {
	query := `
		INSERT INTO member_progress (user_id, current_phase, current_week)
		VALUES ($1, $2, 1)
		RETURNING user_id, current_phase, current_week, version, created_at, updated_at
	`
	var progress models.MemberProgress
	err := r.db.QueryRow(ctx, query, userID, firstPhase).Scan(
		&progress.UserID,
		&progress.CurrentPhase,
		&progress.CurrentWeek,
		&progress.Version,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry, err := r.CreatePhaseEntry(ctx, userID, firstPhase, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	progress.PhaseProgress = []models.PhaseProgress{*entry}
	return &progress, nil
}

func (r *ProgressRepository) GetByUserID(
	ctx context.Context,
	userID int64,
) (*models.MemberProgress, error) {
	query := `
		SELECT user_id, current_phase, current_week, version, created_at, updated_at
		FROM member_progress
		WHERE user_id = $1
	`
	var progress models.MemberProgress
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&progress.UserID,
		&progress.CurrentPhase,
		&progress.CurrentWeek,
		&progress.Version,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entries, err := r.ListPhaseEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	progress.PhaseProgress = entries
	return &progress, nil
}

func (r *ProgressRepository) ListPhaseEntries(
	ctx context.Context,
	userID int64,
) ([]models.PhaseProgress, error) {
	query := `
		SELECT id, user_id, phase, started_at, completed_at
		FROM phase_progress
		WHERE user_id = $1
		ORDER BY started_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.PhaseProgress, 0)
	for rows.Next() {
		var entry models.PhaseProgress
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Phase,
			&entry.StartedAt,
			&entry.CompletedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// AdvanceWeekIfVersion bumps current_week by one, guarded by the optimistic
// version check. Returns pgx.ErrNoRows when the version is stale.
func (r *ProgressRepository) AdvanceWeekIfVersion(
	ctx context.Context,
	userID int64,
	expectedVersion int64,
) (*models.MemberProgress, error) {
	query := `
		UPDATE member_progress
		SET current_week = current_week + 1, version = version + 1, updated_at = NOW()
		WHERE user_id = $1 AND version = $2
		RETURNING user_id, current_phase, current_week, version, created_at, updated_at
	`
	var progress models.MemberProgress
	err := r.db.QueryRow(ctx, query, userID, expectedVersion).Scan(
		&progress.UserID,
		&progress.CurrentPhase,
		&progress.CurrentWeek,
		&progress.Version,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// AdvancePhaseIfVersion moves the member to the next phase at week 1,
// guarded by the optimistic version check.
func (r *ProgressRepository) AdvancePhaseIfVersion(
	ctx context.Context,
	userID int64,
	expectedVersion int64,
	nextPhase string,
) (*models.MemberProgress, error) {
	query := `
		UPDATE member_progress
		SET current_phase = $3, current_week = 1, version = version + 1, updated_at = NOW()
		WHERE user_id = $1 AND version = $2
		RETURNING user_id, current_phase, current_week, version, created_at, updated_at
	`
	var progress models.MemberProgress
	err := r.db.QueryRow(ctx, query, userID, expectedVersion, nextPhase).Scan(
		&progress.UserID,
		&progress.CurrentPhase,
		&progress.CurrentWeek,
		&progress.Version,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) CreatePhaseEntry(
	ctx context.Context,
	userID int64,
	phase string,
	startedAt time.Time,
) (*models.PhaseProgress, error) {
	query := `
		INSERT INTO phase_progress (user_id, phase, started_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, phase, started_at, completed_at
	`
	var entry models.PhaseProgress
	err := r.db.QueryRow(ctx, query, userID, phase, startedAt).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Phase,
		&entry.StartedAt,
		&entry.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// CompletePhaseEntry stamps completed_at on the member's open entry for the
// phase. Returns pgx.ErrNoRows when no open entry exists.
func (r *ProgressRepository) CompletePhaseEntry(
	ctx context.Context,
	userID int64,
	phase string,
	completedAt time.Time,
) (*models.PhaseProgress, error) {
	query := `
		UPDATE phase_progress
		SET completed_at = $3
		WHERE user_id = $1 AND phase = $2 AND completed_at IS NULL
		RETURNING id, user_id, phase, started_at, completed_at
	`
	var entry models.PhaseProgress
	err := r.db.QueryRow(ctx, query, userID, phase, completedAt).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Phase,
		&entry.StartedAt,
		&entry.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
