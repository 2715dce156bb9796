package analysis

import "testing"

func TestGenerateAdaptivePlan(t *testing.T) {
	balanced := Readiness{Status: StatusBalanced, Multiplier: 1.0}

	t.Run("three balanced sessions", func(t *testing.T) {
		plan := GenerateAdaptivePlan(3, 180, balanced, 210)

		if len(plan.Sessions) != 3 {
			t.Fatalf("expected 3 sessions, got %d", len(plan.Sessions))
		}
		wantCategories := []Category{Endurance, Tempo, Threshold}
		wantStress := []int{65, 85, 100}
		for i, s := range plan.Sessions {
			if s.DurationMinutes != 60 {
				t.Errorf("session %d duration = %d, want 60", i, s.DurationMinutes)
			}
			if s.Category != wantCategories[i] {
				t.Errorf("session %d category = %v, want %v", i, s.Category, wantCategories[i])
			}
			if s.EstimatedStress != wantStress[i] {
				t.Errorf("session %d stress = %d, want %d", i, s.EstimatedStress, wantStress[i])
			}
		}
		if plan.TotalDuration != 180 {
			t.Errorf("TotalDuration = %d, want 180", plan.TotalDuration)
		}
		if plan.TotalStress != 250 {
			t.Errorf("TotalStress = %d, want 250", plan.TotalStress)
		}
		if plan.AdjustedStress != 210 {
			t.Errorf("AdjustedStress = %d, want 210", plan.AdjustedStress)
		}
	})

	t.Run("fatigued scales volume down", func(t *testing.T) {
		plan := GenerateAdaptivePlan(4, 360, Readiness{Status: StatusFatigued, Multiplier: 0.85}, 300)
		if plan.TotalDuration != 306 {
			t.Errorf("TotalDuration = %d, want 306", plan.TotalDuration)
		}
		if plan.AdjustedStress != 255 {
			t.Errorf("AdjustedStress = %d, want 255", plan.AdjustedStress)
		}
		if plan.Sessions[0].Name != "Recovery Spin" || plan.Sessions[0].Zone != "Z1" {
			t.Errorf("first session = %+v", plan.Sessions[0])
		}
		// round(306/4) = 77 minutes, round(77/60 × 0.4 × 100) = 51
		if plan.Sessions[0].DurationMinutes != 77 || plan.Sessions[0].EstimatedStress != 51 {
			t.Errorf("first session = %+v", plan.Sessions[0])
		}
	})

	t.Run("fresh template", func(t *testing.T) {
		plan := GenerateAdaptivePlan(4, 240, Readiness{Status: StatusFresh, Multiplier: 1.1}, 280)
		if plan.Sessions[3].Name != "VO2Max Intervals" || plan.Sessions[3].Category != VO2Max {
			t.Errorf("last session = %+v", plan.Sessions[3])
		}
	})

	t.Run("more sessions than template slots cycle", func(t *testing.T) {
		plan := GenerateAdaptivePlan(6, 360, balanced, 300)
		if len(plan.Sessions) != 6 {
			t.Fatalf("expected 6 sessions, got %d", len(plan.Sessions))
		}
		if plan.Sessions[4].Name != plan.Sessions[0].Name || plan.Sessions[5].Name != plan.Sessions[1].Name {
			t.Errorf("sessions 5-6 should repeat 1-2: %+v", plan.Sessions)
		}
	})

	t.Run("zero sessions", func(t *testing.T) {
		plan := GenerateAdaptivePlan(0, 300, balanced, 300)
		if len(plan.Sessions) != 0 || plan.TotalStress != 0 {
			t.Errorf("expected empty plan, got %+v", plan)
		}
	})
}

func TestGenerateAdaptivePlan_DurationDrift(t *testing.T) {
	statuses := []Readiness{
		{Status: StatusFresh, Multiplier: 1.1},
		{Status: StatusFresh, Multiplier: 1.05},
		{Status: StatusBalanced, Multiplier: 1.0},
		{Status: StatusFatigued, Multiplier: 0.85},
	}

	for _, r := range statuses {
		for n := 1; n <= 7; n++ {
			for _, minutes := range []int{45, 181, 300, 437, 600} {
				plan := GenerateAdaptivePlan(n, minutes, r, 300)
				sum := 0
				for _, s := range plan.Sessions {
					sum += s.DurationMinutes
				}
				drift := sum - plan.TotalDuration
				if drift < 0 {
					drift = -drift
				}
				if drift > n {
					t.Errorf("n=%d minutes=%d status=%s: sum %d vs adjusted %d", n, minutes, r.Status, sum, plan.TotalDuration)
				}
			}
		}
	}
}
