package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jdillon-sports/AcademyBack/internal/curriculum"
	"github.com/jdillon-sports/AcademyBack/internal/repository"
)

func newIntegrationProgressionService(pool *pgxpool.Pool) *ProgressionService {
	return NewProgressionService(
		pool,
		repository.NewProgressRepository(pool),
		repository.NewDrillCompletionRepository(pool),
		curriculum.Default(),
		nil,
	)
}

func TestProgressionServiceEnrollAndAdvanceWeek(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationProgressionService(pool)

	memberID := createTestAccount(t, ctx, pool, "member")
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, memberID) })

	progress, err := service.EnsureEnrolled(ctx, memberID)
	if err != nil {
		t.Fatalf("EnsureEnrolled: %v", err)
	}
	if progress.CurrentPhase != "Foundation" || progress.CurrentWeek != 1 {
		t.Fatalf("expected Foundation week 1, got %s week %d", progress.CurrentPhase, progress.CurrentWeek)
	}

	// Enrolling again returns the same record.
	again, err := service.EnsureEnrolled(ctx, memberID)
	if err != nil {
		t.Fatalf("EnsureEnrolled again: %v", err)
	}
	if again.UserID != progress.UserID || again.Version != progress.Version {
		t.Fatalf("expected same record, got %+v", again)
	}

	// Advance is blocked until the week's priority drill is done.
	if _, err := service.Advance(ctx, memberID); !errors.Is(err, ErrDrillsIncomplete) {
		t.Fatalf("expected ErrDrillsIncomplete, got %v", err)
	}

	if _, err := service.CompleteDrill(ctx, memberID, "fnd-w1-stance"); err != nil {
		t.Fatalf("CompleteDrill: %v", err)
	}
	advanced, err := service.Advance(ctx, memberID)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if advanced.CurrentPhase != "Foundation" || advanced.CurrentWeek != 2 {
		t.Fatalf("expected Foundation week 2, got %s week %d", advanced.CurrentPhase, advanced.CurrentWeek)
	}
	if advanced.Version <= progress.Version {
		t.Fatalf("expected version bump, got %d -> %d", progress.Version, advanced.Version)
	}
}

func TestProgressionServicePhaseTransitionStampsCompletion(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationProgressionService(pool)

	memberID := createTestAccount(t, ctx, pool, "member")
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, memberID) })

	if _, err := service.EnsureEnrolled(ctx, memberID); err != nil {
		t.Fatalf("EnsureEnrolled: %v", err)
	}

	// Walk to the end of Foundation.
	def := curriculum.Default()
	for week := 1; week <= def.WeeksPerPhase; week++ {
		for _, drill := range def.PriorityDrills("Foundation", week) {
			if _, err := service.CompleteDrill(ctx, memberID, drill.ID); err != nil {
				t.Fatalf("CompleteDrill %s: %v", drill.ID, err)
			}
		}
		if _, err := service.Advance(ctx, memberID); err != nil {
			t.Fatalf("Advance week %d: %v", week, err)
		}
	}

	dashboard, err := service.Dashboard(ctx, memberID)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if dashboard.Progress.CurrentPhase != "Power" || dashboard.Progress.CurrentWeek != 1 {
		t.Fatalf(
			"expected Power week 1, got %s week %d",
			dashboard.Progress.CurrentPhase, dashboard.Progress.CurrentWeek,
		)
	}
	if dashboard.Phases[0].Status != "completed" || dashboard.Phases[0].CompletedAt == nil {
		t.Fatalf("expected Foundation completed with timestamp, got %+v", dashboard.Phases[0])
	}
	if dashboard.Phases[1].Status != "current" {
		t.Fatalf("expected Power current, got %q", dashboard.Phases[1].Status)
	}
}

func TestProgressionServiceTerminalAdvanceIsNoOp(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationProgressionService(pool)

	memberID := createTestAccount(t, ctx, pool, "member")
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, memberID) })

	if _, err := service.EnsureEnrolled(ctx, memberID); err != nil {
		t.Fatalf("EnsureEnrolled: %v", err)
	}

	def := curriculum.Default()
	for _, phase := range def.Phases {
		for week := 1; week <= def.WeeksPerPhase; week++ {
			for _, drill := range def.PriorityDrills(phase.Name, week) {
				if _, err := service.CompleteDrill(ctx, memberID, drill.ID); err != nil {
					t.Fatalf("CompleteDrill %s: %v", drill.ID, err)
				}
			}
			if _, err := service.Advance(ctx, memberID); err != nil {
				t.Fatalf("Advance %s week %d: %v", phase.Name, week, err)
			}
		}
	}

	progress, err := service.Advance(ctx, memberID)
	if err != nil {
		t.Fatalf("terminal Advance: %v", err)
	}
	if progress.CurrentPhase != "Advanced" || progress.CurrentWeek != def.WeeksPerPhase {
		t.Fatalf(
			"expected to stay at Advanced week %d, got %s week %d",
			def.WeeksPerPhase, progress.CurrentPhase, progress.CurrentWeek,
		)
	}

	dashboard, err := service.Dashboard(ctx, memberID)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if dashboard.CanAdvance {
		t.Fatal("expected can_advance false at the end of the program")
	}
}

func TestProgressionServiceRejectsUnknownDrill(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationProgressionService(pool)

	memberID := createTestAccount(t, ctx, pool, "member")
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, memberID) })

	if _, err := service.CompleteDrill(ctx, memberID, "not-a-drill"); !errors.Is(err, ErrUnknownDrill) {
		t.Fatalf("expected ErrUnknownDrill, got %v", err)
	}
	if err := service.UncompleteDrill(ctx, memberID, "not-a-drill"); !errors.Is(err, ErrUnknownDrill) {
		t.Fatalf("expected ErrUnknownDrill, got %v", err)
	}
}
