package curriculum

// Default is the built-in academy program used when no curriculum file is
// configured. Three phases, four weeks each; every week has one priority
// drill that gates advancement plus supporting work.
func Default() *Definition {
	return &Definition{
		WeeksPerPhase: 4,
		Phases: []Phase{
			{
				Name: "Foundation",
				Weeks: [][]Drill{
					{
						drill("fnd-w1-stance", "Stance and Balance Basics", true, 15),
						drill("fnd-w1-grip", "Grip Fundamentals", false, 10),
					},
					{
						drill("fnd-w2-footwork", "Footwork Ladder Series", true, 20),
						drill("fnd-w2-warmup", "Dynamic Warmup Routine", false, 10),
					},
					{
						drill("fnd-w3-mechanics", "Core Mechanics Breakdown", true, 20),
						drill("fnd-w3-mirror", "Mirror Reps", false, 15),
					},
					{
						drill("fnd-w4-sequence", "Full Sequence Slow Reps", true, 25),
						drill("fnd-w4-review", "Foundation Self-Review", false, 10),
					},
				},
			},
			{
				Name: "Power",
				Weeks: [][]Drill{
					{
						drill("pwr-w1-hips", "Hip Drive Loading", true, 20),
						drill("pwr-w1-bands", "Band Resistance Work", false, 15),
					},
					{
						drill("pwr-w2-rotation", "Rotational Power Series", true, 20),
						drill("pwr-w2-medball", "Med Ball Throws", false, 15),
					},
					{
						drill("pwr-w3-tempo", "Tempo Control Reps", true, 25),
						drill("pwr-w3-explosive", "Explosive First Step", false, 15),
					},
					{
						drill("pwr-w4-transfer", "Power Transfer Sequence", true, 25),
						drill("pwr-w4-test", "Power Benchmark Test", false, 20),
					},
				},
			},
			{
				Name: "Advanced",
				Weeks: [][]Drill{
					{
						drill("adv-w1-reads", "Situational Reads", true, 25),
						drill("adv-w1-film", "Film Study Session", false, 30),
					},
					{
						drill("adv-w2-pressure", "Pressure Rep Series", true, 25),
						drill("adv-w2-speed", "Game Speed Simulation", false, 20),
					},
					{
						drill("adv-w3-adjust", "In-Rep Adjustments", true, 25),
						drill("adv-w3-compete", "Competitive Scenarios", false, 25),
					},
					{
						drill("adv-w4-gameplan", "Full Game Plan Execution", true, 30),
						drill("adv-w4-eval", "Final Evaluation", false, 30),
					},
				},
			},
		},
	}
}

func drill(id, title string, priority bool, minutes int) Drill {
	return Drill{
		ID:              id,
		Title:           title,
		IsPriority:      priority,
		DurationMinutes: minutes,
	}
}
