package repository

import (
	"context"

	"github.com/jdillon-sports/AcademyBack/internal/models"
)

type PackageRepository struct {
	db DBTX
}

func NewPackageRepository(db DBTX) *PackageRepository {
	return &PackageRepository{db: db}
}

func (r *PackageRepository) ListDefinitions(ctx context.Context) ([]models.PackageDefinition, error) {
	query := `
		SELECT id, name, description, session_count, price_cents, validity_days, is_active, created_at
		FROM package_definitions
		WHERE is_active = TRUE
		ORDER BY price_cents ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	definitions := make([]models.PackageDefinition, 0)
	for rows.Next() {
		var def models.PackageDefinition
		if err := rows.Scan(
			&def.ID,
			&def.Name,
			&def.Description,
			&def.SessionCount,
			&def.PriceCents,
			&def.ValidityDays,
			&def.IsActive,
			&def.CreatedAt,
		); err != nil {
			return nil, err
		}
		definitions = append(definitions, def)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return definitions, nil
}

func (r *PackageRepository) ListInstancesByUserID(
	ctx context.Context,
	userID int64,
) ([]models.PackageInstance, error) {
	query := `
		SELECT id, user_id, package_id, sessions_total, sessions_remaining,
			   expires_at, status, created_at, updated_at
		FROM package_instances
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	instances := make([]models.PackageInstance, 0)
	for rows.Next() {
		var instance models.PackageInstance
		if err := rows.Scan(
			&instance.ID,
			&instance.UserID,
			&instance.PackageID,
			&instance.SessionsTotal,
			&instance.SessionsRemaining,
			&instance.ExpiresAt,
			&instance.Status,
			&instance.CreatedAt,
			&instance.UpdatedAt,
		); err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return instances, nil
}

// GetInstanceForUpdate row-locks the instance so a concurrent debit against
// the same package waits instead of double-spending.
func (r *PackageRepository) GetInstanceForUpdate(
	ctx context.Context,
	instanceID int64,
) (*models.PackageInstance, error) {
	query := `
		SELECT id, user_id, package_id, sessions_total, sessions_remaining,
			   expires_at, status, created_at, updated_at
		FROM package_instances
		WHERE id = $1
		FOR UPDATE
	`
	var instance models.PackageInstance
	err := r.db.QueryRow(ctx, query, instanceID).Scan(
		&instance.ID,
		&instance.UserID,
		&instance.PackageID,
		&instance.SessionsTotal,
		&instance.SessionsRemaining,
		&instance.ExpiresAt,
		&instance.Status,
		&instance.CreatedAt,
		&instance.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

// DebitSession decrements sessions_remaining with a floor check and flips the
// status to depleted when the last session is spent. Returns the updated
// instance, or pgx.ErrNoRows when no session was available to debit.
func (r *PackageRepository) DebitSession(
	ctx context.Context,
	instanceID int64,
) (*models.PackageInstance, error) {
	query := `
		UPDATE package_instances
		SET sessions_remaining = sessions_remaining - 1,
			status = CASE WHEN sessions_remaining - 1 = 0 THEN 'depleted' ELSE status END,
			updated_at = NOW()
		WHERE id = $1 AND status = 'active' AND sessions_remaining > 0
		RETURNING id, user_id, package_id, sessions_total, sessions_remaining,
				  expires_at, status, created_at, updated_at
	`
	var instance models.PackageInstance
	err := r.db.QueryRow(ctx, query, instanceID).Scan(
		&instance.ID,
		&instance.UserID,
		&instance.PackageID,
		&instance.SessionsTotal,
		&instance.SessionsRemaining,
		&instance.ExpiresAt,
		&instance.Status,
		&instance.CreatedAt,
		&instance.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

// CreditSession returns one session to the instance, used when a
// package-paid booking is cancelled. A depleted instance becomes active
// again; the total is the ceiling.
func (r *PackageRepository) CreditSession(
	ctx context.Context,
	instanceID int64,
) (*models.PackageInstance, error) {
	query := `
		UPDATE package_instances
		SET sessions_remaining = sessions_remaining + 1,
			status = CASE WHEN status = 'depleted' THEN 'active' ELSE status END,
			updated_at = NOW()
		WHERE id = $1 AND sessions_remaining < sessions_total
		RETURNING id, user_id, package_id, sessions_total, sessions_remaining,
				  expires_at, status, created_at, updated_at
	`
	var instance models.PackageInstance
	err := r.db.QueryRow(ctx, query, instanceID).Scan(
		&instance.ID,
		&instance.UserID,
		&instance.PackageID,
		&instance.SessionsTotal,
		&instance.SessionsRemaining,
		&instance.ExpiresAt,
		&instance.Status,
		&instance.CreatedAt,
		&instance.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

// MarkExpired stamps the stored status once expiry is observed. Expiry is
// lazy: expires_at is authoritative and the stored status may lag.
func (r *PackageRepository) MarkExpired(ctx context.Context, instanceID int64) error {
	query := `
		UPDATE package_instances
		SET status = 'expired', updated_at = NOW()
		WHERE id = $1 AND status <> 'expired'
	`
	_, err := r.db.Exec(ctx, query, instanceID)
	return err
}
