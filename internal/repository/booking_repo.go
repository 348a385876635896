package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jdillon-sports/AcademyBack/internal/models"
)

type CreateBookingInput struct {
	MemberID           int64
	CoachID            int64
	ServiceTypeID      int64
	StartTime          time.Time
	EndTime            time.Time
	PaymentMethod      string
	PurchasedPackageID *int64
	AmountPaid         float64
	Notes              *string
}

type BookingListFilter struct {
	ActorID   int64
	Role      string
	Status    string
	Timeframe string
}

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, member_id, coach_id, service_type_id, start_time, end_time,
	status, payment_method, purchased_package_id, amount_paid, notes, created_at, updated_at`

// Create inserts a booking in confirmed status. The status is never taken
// from the caller.
func (r *BookingRepository) Create(
	ctx context.Context,
	input CreateBookingInput,
) (*models.Booking, error) {
	query := fmt.Sprintf(`
		INSERT INTO bookings (member_id, coach_id, service_type_id, start_time, end_time,
			status, payment_method, purchased_package_id, amount_paid, notes)
		VALUES ($1, $2, $3, $4, $5, 'confirmed', $6, $7, $8, $9)
		RETURNING %s
	`, bookingColumns)

	var booking models.Booking
	err := r.db.QueryRow(
		ctx,
		query,
		input.MemberID,
		input.CoachID,
		input.ServiceTypeID,
		input.StartTime,
		input.EndTime,
		input.PaymentMethod,
		input.PurchasedPackageID,
		input.AmountPaid,
		input.Notes,
	).Scan(
		&booking.ID,
		&booking.MemberID,
		&booking.CoachID,
		&booking.ServiceTypeID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.PaymentMethod,
		&booking.PurchasedPackageID,
		&booking.AmountPaid,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID int64) (*models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE id = $1
	`, bookingColumns)

	var booking models.Booking
	err := r.db.QueryRow(ctx, query, bookingID).Scan(
		&booking.ID,
		&booking.MemberID,
		&booking.CoachID,
		&booking.ServiceTypeID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.PaymentMethod,
		&booking.PurchasedPackageID,
		&booking.AmountPaid,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) GetByIDForUpdate(
	ctx context.Context,
	bookingID int64,
) (*models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`, bookingColumns)

	var booking models.Booking
	err := r.db.QueryRow(ctx, query, bookingID).Scan(
		&booking.ID,
		&booking.MemberID,
		&booking.CoachID,
		&booking.ServiceTypeID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.PaymentMethod,
		&booking.PurchasedPackageID,
		&booking.AmountPaid,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) List(
	ctx context.Context,
	filter BookingListFilter,
) ([]models.Booking, error) {
	actorColumn := "member_id"
	if filter.Role == "coach" {
		actorColumn = "coach_id"
	}

	args := []any{filter.ActorID}
	whereParts := []string{fmt.Sprintf("%s = $1", actorColumn)}

	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", len(args)))
	}

	switch strings.TrimSpace(filter.Timeframe) {
	case "upcoming":
		whereParts = append(whereParts, "end_time > NOW()")
	case "past":
		whereParts = append(whereParts, "end_time <= NOW()")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE %s
		ORDER BY start_time ASC, id ASC
	`, bookingColumns, strings.Join(whereParts, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		var booking models.Booking
		if err := rows.Scan(
			&booking.ID,
			&booking.MemberID,
			&booking.CoachID,
			&booking.ServiceTypeID,
			&booking.StartTime,
			&booking.EndTime,
			&booking.Status,
			&booking.PaymentMethod,
			&booking.PurchasedPackageID,
			&booking.AmountPaid,
			&booking.Notes,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *BookingRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	bookingID int64,
	currentStatus string,
	nextStatus string,
) (*models.Booking, error) {
	query := fmt.Sprintf(`
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING %s
	`, bookingColumns)

	var booking models.Booking
	err := r.db.QueryRow(ctx, query, bookingID, currentStatus, nextStatus).Scan(
		&booking.ID,
		&booking.MemberID,
		&booking.CoachID,
		&booking.ServiceTypeID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.PaymentMethod,
		&booking.PurchasedPackageID,
		&booking.AmountPaid,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// HasConflict reports whether any non-cancelled booking for the coach
// overlaps the half-open range [start, end).
func (r *BookingRepository) HasConflict(
	ctx context.Context,
	coachID int64,
	start time.Time,
	end time.Time,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE coach_id = $1
			  AND status <> 'cancelled'
			  AND start_time < $3
			  AND end_time > $2
		)
	`
	var hasConflict bool
	if err := r.db.QueryRow(ctx, query, coachID, start, end).Scan(&hasConflict); err != nil {
		return false, err
	}
	return hasConflict, nil
}

func (r *BookingRepository) GetServiceType(
	ctx context.Context,
	serviceTypeID int64,
) (*models.ServiceType, error) {
	query := `
		SELECT id, name, duration_minutes, is_active
		FROM service_types
		WHERE id = $1
	`
	var serviceType models.ServiceType
	err := r.db.QueryRow(ctx, query, serviceTypeID).Scan(
		&serviceType.ID,
		&serviceType.Name,
		&serviceType.DurationMinutes,
		&serviceType.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &serviceType, nil
}
