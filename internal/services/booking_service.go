package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jdillon-sports/AcademyBack/internal/models"
	"github.com/jdillon-sports/AcademyBack/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrCoachNotFound          = errors.New("coach not found")
	ErrSlotUnavailable        = errors.New("slot unavailable")
	ErrPackageNotFound        = errors.New("package not found")
	ErrPackageExpired         = errors.New("package expired")
	ErrNoCreditsRemaining     = errors.New("no credits remaining")
)

type coachProfileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error)
}

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type crmNotifier interface {
	BookingCreated(booking *models.Booking)
	BookingCancelled(booking *models.Booking)
}

type BookingService struct {
	db               *pgxpool.Pool
	bookingRepo      *repository.BookingRepository
	packageRepo      *repository.PackageRepository
	userRepo         userReader
	coachProfileRepo coachProfileReader
	crm              crmNotifier
	logger           *zap.Logger
}

func NewBookingService(
	db *pgxpool.Pool,
	bookingRepo *repository.BookingRepository,
	packageRepo *repository.PackageRepository,
	userRepo userReader,
	coachProfileRepo coachProfileReader,
	crm crmNotifier,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		db:               db,
		bookingRepo:      bookingRepo,
		packageRepo:      packageRepo,
		userRepo:         userRepo,
		coachProfileRepo: coachProfileRepo,
		crm:              crm,
		logger:           logger,
	}
}

type CreateBookingInput struct {
	ServiceTypeID      int64
	CoachID            int64
	StartTime          time.Time
	EndTime            time.Time
	PaymentMethod      string
	PurchasedPackageID *int64
	AmountPaid         float64
	Notes              *string
}

// CreateBooking runs the whole booking attempt in one transaction: conflict
// check, optional package debit and reservation insert commit or roll back
// together. The per-coach advisory lock serializes check-and-insert so two
// overlapping requests cannot both pass the conflict check; the exclusion
// constraint on bookings is the store-level backstop.
func (s *BookingService) CreateBooking(
	ctx context.Context,
	memberID int64,
	input CreateBookingInput,
) (*models.Booking, error) {
	if input.CoachID <= 0 || input.ServiceTypeID <= 0 {
		return nil, ErrInvalidInput
	}
	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return nil, ErrInvalidInput
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, ErrInvalidInput
	}
	if input.StartTime.Before(time.Now().Add(-1 * time.Minute)) {
		return nil, ErrInvalidInput
	}
	if input.AmountPaid < 0 {
		return nil, ErrInvalidInput
	}
	switch input.PaymentMethod {
	case "credits", "package", "direct_pay":
	default:
		return nil, ErrInvalidInput
	}
	if memberID == input.CoachID {
		return nil, ErrInvalidInput
	}

	coach, err := s.userRepo.GetByID(ctx, input.CoachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	if coach.Role != "coach" {
		return nil, ErrInvalidInput
	}

	coachProfile, err := s.coachProfileRepo.GetByUserID(ctx, input.CoachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	if !coachProfile.OnboardingComplete {
		return nil, ErrInvalidInput
	}

	serviceType, err := s.bookingRepo.GetServiceType(ctx, input.ServiceTypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidInput
		}
		return nil, err
	}
	if !serviceType.IsActive {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txBookingRepo := repository.NewBookingRepository(tx)
	txPackageRepo := repository.NewPackageRepository(tx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", input.CoachID); err != nil {
		return nil, err
	}

	hasConflict, err := txBookingRepo.HasConflict(
		ctx,
		input.CoachID,
		input.StartTime.UTC(),
		input.EndTime.UTC(),
	)
	if err != nil {
		return nil, err
	}
	if hasConflict {
		return nil, ErrSlotUnavailable
	}

	if input.PaymentMethod == "package" && input.PurchasedPackageID != nil {
		if err := s.debitPackage(ctx, txPackageRepo, memberID, *input.PurchasedPackageID); err != nil {
			return nil, err
		}
	}

	booking, err := txBookingRepo.Create(ctx, repository.CreateBookingInput{
		MemberID:           memberID,
		CoachID:            input.CoachID,
		ServiceTypeID:      input.ServiceTypeID,
		StartTime:          input.StartTime.UTC(),
		EndTime:            input.EndTime.UTC(),
		PaymentMethod:      input.PaymentMethod,
		PurchasedPackageID: input.PurchasedPackageID,
		AmountPaid:         input.AmountPaid,
		Notes:              input.Notes,
	})
	if err != nil {
		return nil, mapBookingInsertError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if s.crm != nil {
		s.crm.BookingCreated(booking)
	}

	return booking, nil
}

func (s *BookingService) debitPackage(
	ctx context.Context,
	txPackageRepo *repository.PackageRepository,
	memberID int64,
	instanceID int64,
) error {
	instance, err := txPackageRepo.GetInstanceForUpdate(ctx, instanceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPackageNotFound
		}
		return err
	}
	if instance.UserID != memberID {
		return ErrPackageNotFound
	}
	if instance.ExpiresAt.Before(time.Now().UTC()) {
		// Lazy expiry: stamp the status outside the booking transaction so
		// the flip survives the rollback.
		go func(id int64) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.packageRepo.MarkExpired(ctx, id); err != nil && s.logger != nil {
				s.logger.Warn("mark package expired", zap.Int64("package_instance_id", id), zap.Error(err))
			}
		}(instance.ID)
		return ErrPackageExpired
	}
	if instance.SessionsRemaining <= 0 {
		return ErrNoCreditsRemaining
	}
	if instance.Status != "active" {
		return ErrPackageNotFound
	}

	if _, err := txPackageRepo.DebitSession(ctx, instanceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoCreditsRemaining
		}
		return err
	}
	return nil
}

// CheckAvailability reports whether the coach is free for [start, end).
func (s *BookingService) CheckAvailability(
	ctx context.Context,
	coachID int64,
	start time.Time,
	end time.Time,
) (bool, error) {
	if coachID <= 0 || !end.After(start) {
		return false, ErrInvalidInput
	}
	hasConflict, err := s.bookingRepo.HasConflict(ctx, coachID, start.UTC(), end.UTC())
	if err != nil {
		return false, err
	}
	return !hasConflict, nil
}

func (s *BookingService) ListBookings(
	ctx context.Context,
	actorID int64,
	role string,
	filter repository.BookingListFilter,
) ([]models.Booking, error) {
	return s.bookingRepo.List(ctx, repository.BookingListFilter{
		ActorID:   actorID,
		Role:      role,
		Status:    filter.Status,
		Timeframe: filter.Timeframe,
	})
}

func (s *BookingService) GetBooking(
	ctx context.Context,
	actorID int64,
	role string,
	bookingID int64,
) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !canAccessBooking(role, actorID, booking) {
		return nil, ErrForbidden
	}
	return booking, nil
}

// CancelBooking cancels a pending or confirmed booking. A package-paid
// booking refunds its credit in the same transaction.
func (s *BookingService) CancelBooking(
	ctx context.Context,
	actorID int64,
	role string,
	bookingID int64,
) (*models.Booking, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txBookingRepo := repository.NewBookingRepository(tx)
	txPackageRepo := repository.NewPackageRepository(tx)

	booking, err := txBookingRepo.GetByIDForUpdate(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !canAccessBooking(role, actorID, booking) {
		return nil, ErrForbidden
	}
	if booking.Status == "completed" || booking.Status == "cancelled" || booking.Status == "no_show" {
		return nil, ErrInvalidStateTransition
	}

	cancelled, err := txBookingRepo.UpdateStatusIfCurrent(ctx, bookingID, booking.Status, "cancelled")
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}

	if booking.PaymentMethod == "package" && booking.PurchasedPackageID != nil {
		if _, err := txPackageRepo.CreditSession(ctx, *booking.PurchasedPackageID); err != nil {
			// An instance already at its total has nothing to refund.
			if !errors.Is(err, pgx.ErrNoRows) {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if s.crm != nil {
		s.crm.BookingCancelled(cancelled)
	}

	return cancelled, nil
}

func canAccessBooking(role string, actorID int64, booking *models.Booking) bool {
	switch role {
	case "member":
		return booking.MemberID == actorID
	case "coach":
		return booking.CoachID == actorID
	case "admin":
		return true
	default:
		return false
	}
}

// mapBookingInsertError classifies constraint violations raised by the
// insert itself: the exclusion constraint on (coach, time range) means the
// slot was taken, a foreign key miss means the request referenced something
// that does not exist.
func mapBookingInsertError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.ExclusionViolation:
		return ErrSlotUnavailable
	case pgerrcode.ForeignKeyViolation:
		return ErrInvalidInput
	default:
		return err
	}
}
