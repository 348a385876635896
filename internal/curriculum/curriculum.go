// Package curriculum holds the academy's training program definition: the
// ordered phases a member moves through, the number of weeks in each phase,
// and the drill list for every phase/week. The definition is loaded once at
// startup and treated as immutable afterwards.
package curriculum

import (
	"encoding/json"
	"fmt"
	"os"
)

type Drill struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     *string `json:"description,omitempty"`
	IsPriority      bool    `json:"is_priority"`
	DurationMinutes int     `json:"duration_minutes"`
}

type Phase struct {
	Name string `json:"name"`
	// Weeks[i] is the drill list for week i+1.
	Weeks [][]Drill `json:"weeks"`
}

type Definition struct {
	Phases        []Phase `json:"phases"`
	WeeksPerPhase int     `json:"weeks_per_phase"`
}

// Load reads a definition from a JSON file and validates it.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curriculum file: %w", err)
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse curriculum file: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

func (d *Definition) Validate() error {
	if len(d.Phases) == 0 {
		return fmt.Errorf("curriculum must define at least one phase")
	}
	if d.WeeksPerPhase <= 0 {
		return fmt.Errorf("weeks_per_phase must be positive")
	}

	seen := make(map[string]struct{}, len(d.Phases))
	drillIDs := make(map[string]struct{})
	for _, phase := range d.Phases {
		if phase.Name == "" {
			return fmt.Errorf("curriculum phase with empty name")
		}
		if _, dup := seen[phase.Name]; dup {
			return fmt.Errorf("duplicate curriculum phase %q", phase.Name)
		}
		seen[phase.Name] = struct{}{}

		if len(phase.Weeks) != d.WeeksPerPhase {
			return fmt.Errorf(
				"phase %q defines %d weeks, expected %d",
				phase.Name, len(phase.Weeks), d.WeeksPerPhase,
			)
		}
		for weekIdx, drills := range phase.Weeks {
			for _, drill := range drills {
				if drill.ID == "" {
					return fmt.Errorf("phase %q week %d has a drill without id", phase.Name, weekIdx+1)
				}
				if _, dup := drillIDs[drill.ID]; dup {
					return fmt.Errorf("duplicate drill id %q", drill.ID)
				}
				drillIDs[drill.ID] = struct{}{}
			}
		}
	}
	return nil
}

// PhaseIndex returns the ordinal of the named phase, or -1 when unknown.
func (d *Definition) PhaseIndex(name string) int {
	for i, phase := range d.Phases {
		if phase.Name == name {
			return i
		}
	}
	return -1
}

func (d *Definition) FirstPhase() string {
	return d.Phases[0].Name
}

// NextPhase returns the phase following the named one in curriculum order.
// The second result is false when the named phase is the last one or unknown.
func (d *Definition) NextPhase(name string) (string, bool) {
	idx := d.PhaseIndex(name)
	if idx < 0 || idx >= len(d.Phases)-1 {
		return "", false
	}
	return d.Phases[idx+1].Name, true
}

// Drills returns the drill list for the given phase and 1-based week.
func (d *Definition) Drills(phase string, week int) []Drill {
	idx := d.PhaseIndex(phase)
	if idx < 0 || week < 1 || week > d.WeeksPerPhase {
		return nil
	}
	return d.Phases[idx].Weeks[week-1]
}

// PriorityDrills returns the drills whose completion gates advancement for
// the given phase and week.
func (d *Definition) PriorityDrills(phase string, week int) []Drill {
	var priority []Drill
	for _, drill := range d.Drills(phase, week) {
		if drill.IsPriority {
			priority = append(priority, drill)
		}
	}
	return priority
}

// HasDrill reports whether any phase/week contains the drill id.
func (d *Definition) HasDrill(drillID string) bool {
	for _, phase := range d.Phases {
		for _, drills := range phase.Weeks {
			for _, drill := range drills {
				if drill.ID == drillID {
					return true
				}
			}
		}
	}
	return false
}
