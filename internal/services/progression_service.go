package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jdillon-sports/AcademyBack/internal/curriculum"
	"github.com/jdillon-sports/AcademyBack/internal/models"
	"github.com/jdillon-sports/AcademyBack/internal/repository"
)

var (
	ErrNotEnrolled      = errors.New("member not enrolled")
	ErrDrillsIncomplete = errors.New("priority drills incomplete")
	ErrProgressConflict = errors.New("progress was modified concurrently")
	ErrUnknownDrill     = errors.New("unknown drill")
)

type progressNotifier interface {
	ProgressAdvanced(progress *models.MemberProgress)
}

type ProgressionService struct {
	db           *pgxpool.Pool
	progressRepo *repository.ProgressRepository
	drillRepo    *repository.DrillCompletionRepository
	curriculum   *curriculum.Definition
	crm          progressNotifier
}

func NewProgressionService(
	db *pgxpool.Pool,
	progressRepo *repository.ProgressRepository,
	drillRepo *repository.DrillCompletionRepository,
	def *curriculum.Definition,
	crm progressNotifier,
) *ProgressionService {
	return &ProgressionService{
		db:           db,
		progressRepo: progressRepo,
		drillRepo:    drillRepo,
		curriculum:   def,
		crm:          crm,
	}
}

type PhaseStatus struct {
	Phase       string     `json:"phase"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type WeekDrill struct {
	curriculum.Drill
	Completed bool `json:"completed"`
}

type Dashboard struct {
	Progress   *models.MemberProgress `json:"progress"`
	Phases     []PhaseStatus          `json:"phases"`
	WeekDrills []WeekDrill            `json:"week_drills"`
	CanAdvance bool                   `json:"can_advance"`
}

// PhaseStatuses derives the display status of every curriculum phase from a
// member's progress record. A phase is completed when its progress entry is
// stamped, current when it matches the member's position, locked when it lies
// ahead of it, and available otherwise (started historically, never
// completed, no longer current).
func PhaseStatuses(progress *models.MemberProgress, def *curriculum.Definition) []PhaseStatus {
	currentIndex := def.PhaseIndex(progress.CurrentPhase)

	entries := make(map[string]*models.PhaseProgress, len(progress.PhaseProgress))
	for i := range progress.PhaseProgress {
		entry := &progress.PhaseProgress[i]
		entries[entry.Phase] = entry
	}

	statuses := make([]PhaseStatus, 0, len(def.Phases))
	for i, phase := range def.Phases {
		status := PhaseStatus{Phase: phase.Name}
		entry := entries[phase.Name]
		if entry != nil {
			startedAt := entry.StartedAt
			status.StartedAt = &startedAt
			status.CompletedAt = entry.CompletedAt
		}

		switch {
		case entry != nil && entry.CompletedAt != nil:
			status.Status = "completed"
		case phase.Name == progress.CurrentPhase:
			status.Status = "current"
		case i > currentIndex:
			status.Status = "locked"
		default:
			status.Status = "available"
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// canAdvance is true when every priority drill of the member's current week
// is in the completed set. Weeks without priority drills never block.
func canAdvance(
	def *curriculum.Definition,
	progress *models.MemberProgress,
	completed map[string]bool,
) bool {
	for _, drill := range def.PriorityDrills(progress.CurrentPhase, progress.CurrentWeek) {
		if !completed[drill.ID] {
			return false
		}
	}
	return true
}

func atTerminalState(def *curriculum.Definition, progress *models.MemberProgress) bool {
	return def.PhaseIndex(progress.CurrentPhase) == len(def.Phases)-1 &&
		progress.CurrentWeek >= def.WeeksPerPhase
}

// Dashboard assembles everything the member dashboard renders: the progress
// record, per-phase statuses, the current week's drills with completion
// flags, and advance eligibility.
func (s *ProgressionService) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	progress, err := s.progressRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}

	completed, err := s.drillRepo.CompletedSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	drills := s.curriculum.Drills(progress.CurrentPhase, progress.CurrentWeek)
	weekDrills := make([]WeekDrill, 0, len(drills))
	for _, drill := range drills {
		weekDrills = append(weekDrills, WeekDrill{
			Drill:     drill,
			Completed: completed[drill.ID],
		})
	}

	return &Dashboard{
		Progress:   progress,
		Phases:     PhaseStatuses(progress, s.curriculum),
		WeekDrills: weekDrills,
		CanAdvance: canAdvance(s.curriculum, progress, completed) && !atTerminalState(s.curriculum, progress),
	}, nil
}

// Advance moves the member one step forward: to the next week inside a
// phase, or to week one of the next phase when the final week is done. At
// the last phase's final week it is a no-op and returns the record
// unchanged. The mutation is guarded by the record's version so concurrent
// advances cannot both apply.
func (s *ProgressionService) Advance(ctx context.Context, userID int64) (*models.MemberProgress, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txProgressRepo := repository.NewProgressRepository(tx)
	txDrillRepo := repository.NewDrillCompletionRepository(tx)

	progress, err := txProgressRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}

	completed, err := txDrillRepo.CompletedSet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !canAdvance(s.curriculum, progress, completed) {
		return nil, ErrDrillsIncomplete
	}

	if atTerminalState(s.curriculum, progress) {
		return progress, nil
	}

	var updated *models.MemberProgress
	if progress.CurrentWeek < s.curriculum.WeeksPerPhase {
		updated, err = txProgressRepo.AdvanceWeekIfVersion(ctx, userID, progress.Version)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrProgressConflict
			}
			return nil, err
		}
	} else {
		nextPhase, ok := s.curriculum.NextPhase(progress.CurrentPhase)
		if !ok {
			return nil, ErrProgressConflict
		}

		now := time.Now().UTC()
		if _, err := txProgressRepo.CompletePhaseEntry(ctx, userID, progress.CurrentPhase, now); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrProgressConflict
			}
			return nil, err
		}
		if _, err := txProgressRepo.CreatePhaseEntry(ctx, userID, nextPhase, now); err != nil {
			return nil, err
		}
		updated, err = txProgressRepo.AdvancePhaseIfVersion(ctx, userID, progress.Version, nextPhase)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrProgressConflict
			}
			return nil, err
		}
	}

	entries, err := txProgressRepo.ListPhaseEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated.PhaseProgress = entries

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if s.crm != nil {
		s.crm.ProgressAdvanced(updated)
	}

	return updated, nil
}

// EnsureEnrolled returns the member's progress record, creating it at the
// curriculum's first phase on first entry.
func (s *ProgressionService) EnsureEnrolled(ctx context.Context, userID int64) (*models.MemberProgress, error) {
	progress, err := s.progressRepo.GetByUserID(ctx, userID)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	created, err := repository.NewProgressRepository(tx).Create(ctx, userID, s.curriculum.FirstPhase())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			// Lost an enrollment race; the winner's record is the one.
			return s.progressRepo.GetByUserID(ctx, userID)
		}
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// CompleteDrill marks a curriculum drill done for the member.
func (s *ProgressionService) CompleteDrill(
	ctx context.Context,
	userID int64,
	drillID string,
) (*models.DrillCompletion, error) {
	if !s.curriculum.HasDrill(drillID) {
		return nil, ErrUnknownDrill
	}
	return s.drillRepo.Complete(ctx, userID, drillID)
}

func (s *ProgressionService) UncompleteDrill(ctx context.Context, userID int64, drillID string) error {
	if !s.curriculum.HasDrill(drillID) {
		return ErrUnknownDrill
	}
	return s.drillRepo.Uncomplete(ctx, userID, drillID)
}
