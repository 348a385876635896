package services

import (
	"testing"
	"time"

	"github.com/jdillon-sports/AcademyBack/internal/curriculum"
	"github.com/jdillon-sports/AcademyBack/internal/models"
)

func TestPhaseStatusesForNewMember(t *testing.T) {
	def := curriculum.Default()
	progress := &models.MemberProgress{
		CurrentPhase: "Foundation",
		CurrentWeek:  1,
		PhaseProgress: []models.PhaseProgress{
			{Phase: "Foundation", StartedAt: time.Now()},
		},
	}

	statuses := PhaseStatuses(progress, def)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 phases, got %d", len(statuses))
	}
	if statuses[0].Status != "current" {
		t.Fatalf("expected Foundation current, got %q", statuses[0].Status)
	}
	if statuses[1].Status != "locked" || statuses[2].Status != "locked" {
		t.Fatalf("expected later phases locked, got %q and %q", statuses[1].Status, statuses[2].Status)
	}
	if statuses[0].StartedAt == nil {
		t.Fatal("expected started_at on the current phase")
	}
	if statuses[1].StartedAt != nil {
		t.Fatal("expected no started_at on a locked phase")
	}
}

func TestPhaseStatusesAfterPhaseCompletion(t *testing.T) {
	def := curriculum.Default()
	completedAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	progress := &models.MemberProgress{
		CurrentPhase: "Power",
		CurrentWeek:  2,
		PhaseProgress: []models.PhaseProgress{
			{Phase: "Foundation", StartedAt: completedAt.AddDate(0, -1, 0), CompletedAt: &completedAt},
			{Phase: "Power", StartedAt: completedAt},
		},
	}

	statuses := PhaseStatuses(progress, def)
	if statuses[0].Status != "completed" {
		t.Fatalf("expected Foundation completed, got %q", statuses[0].Status)
	}
	if statuses[0].CompletedAt == nil || !statuses[0].CompletedAt.Equal(completedAt) {
		t.Fatalf("expected completed_at %v, got %v", completedAt, statuses[0].CompletedAt)
	}
	if statuses[1].Status != "current" {
		t.Fatalf("expected Power current, got %q", statuses[1].Status)
	}
	if statuses[2].Status != "locked" {
		t.Fatalf("expected Advanced locked, got %q", statuses[2].Status)
	}
}

func TestPhaseStatusesMarksUnfinishedEarlierPhaseAvailable(t *testing.T) {
	def := curriculum.Default()
	started := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	// Foundation was started but never stamped complete, and the member has
	// since moved on. It stays reachable rather than locking.
	progress := &models.MemberProgress{
		CurrentPhase: "Power",
		CurrentWeek:  1,
		PhaseProgress: []models.PhaseProgress{
			{Phase: "Foundation", StartedAt: started},
			{Phase: "Power", StartedAt: started.AddDate(0, 1, 0)},
		},
	}

	statuses := PhaseStatuses(progress, def)
	if statuses[0].Status != "available" {
		t.Fatalf("expected Foundation available, got %q", statuses[0].Status)
	}
}

func TestCanAdvanceRequiresEveryPriorityDrill(t *testing.T) {
	def := curriculum.Default()
	progress := &models.MemberProgress{CurrentPhase: "Foundation", CurrentWeek: 1}

	if canAdvance(def, progress, map[string]bool{}) {
		t.Fatal("expected advance blocked with nothing completed")
	}
	// Completing only the non-priority drill changes nothing.
	if canAdvance(def, progress, map[string]bool{"fnd-w1-grip": true}) {
		t.Fatal("expected advance blocked without the priority drill")
	}
	if !canAdvance(def, progress, map[string]bool{"fnd-w1-stance": true}) {
		t.Fatal("expected advance allowed once priority drill is done")
	}
}

func TestCanAdvanceWithNoPriorityDrills(t *testing.T) {
	def := &curriculum.Definition{
		WeeksPerPhase: 1,
		Phases: []curriculum.Phase{
			{Name: "Open", Weeks: [][]curriculum.Drill{{{ID: "op-w1-free"}}}},
		},
	}
	progress := &models.MemberProgress{CurrentPhase: "Open", CurrentWeek: 1}

	if !canAdvance(def, progress, map[string]bool{}) {
		t.Fatal("expected weeks without priority drills not to block")
	}
}

func TestAtTerminalState(t *testing.T) {
	def := curriculum.Default()

	cases := []struct {
		phase    string
		week     int
		terminal bool
	}{
		{"Foundation", 4, false},
		{"Advanced", 3, false},
		{"Advanced", 4, true},
	}
	for _, tc := range cases {
		progress := &models.MemberProgress{CurrentPhase: tc.phase, CurrentWeek: tc.week}
		if got := atTerminalState(def, progress); got != tc.terminal {
			t.Fatalf("%s week %d: expected terminal=%v, got %v", tc.phase, tc.week, tc.terminal, got)
		}
	}
}
