package repository

import (
	"context"

	"github.com/jdillon-sports/AcademyBack/internal/models"
)

type DrillCompletionRepository struct {
	db DBTX
}

func NewDrillCompletionRepository(db DBTX) *DrillCompletionRepository {
	return &DrillCompletionRepository{db: db}
}

// Complete records a drill as done. Idempotent: re-completing keeps the
// original timestamp.
func (r *DrillCompletionRepository) Complete(
	ctx context.Context,
	userID int64,
	drillID string,
) (*models.DrillCompletion, error) {
	query := `
		INSERT INTO drill_completions (user_id, drill_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, drill_id) DO UPDATE SET drill_id = EXCLUDED.drill_id
		RETURNING user_id, drill_id, completed_at
	`
	var completion models.DrillCompletion
	err := r.db.QueryRow(ctx, query, userID, drillID).Scan(
		&completion.UserID,
		&completion.DrillID,
		&completion.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

func (r *DrillCompletionRepository) Uncomplete(
	ctx context.Context,
	userID int64,
	drillID string,
) error {
	query := `DELETE FROM drill_completions WHERE user_id = $1 AND drill_id = $2`
	_, err := r.db.Exec(ctx, query, userID, drillID)
	return err
}

// CompletedSet returns the ids of every drill the member has completed.
func (r *DrillCompletionRepository) CompletedSet(
	ctx context.Context,
	userID int64,
) (map[string]bool, error) {
	query := `SELECT drill_id FROM drill_completions WHERE user_id = $1`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completed := make(map[string]bool)
	for rows.Next() {
		var drillID string
		if err := rows.Scan(&drillID); err != nil {
			return nil, err
		}
		completed[drillID] = true
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return completed, nil
}
