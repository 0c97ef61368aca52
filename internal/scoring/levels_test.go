package scoring

import "testing"

func TestLevelForSparks(t *testing.T) {
	cases := []struct {
		name      string
		sparks    float64
		wantLevel int
		wantName  string
	}{
		{"zero_sparks", 0, 1, "Pulse"},
		{"below_first_threshold", 999, 1, "Pulse"},
		{"exactly_first_threshold", 1000, 2, "Rhythm"},
		{"mid_tier", 7500, 3, "Harmony"},
		{"fourth_tier", 15000, 4, "Melody"},
		{"max_tier", 50000, 5, "Resonance"},
		{"beyond_max", 250000, 5, "Resonance"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := LevelForSparks(tc.sparks)
			if info.Level != tc.wantLevel {
				t.Errorf("level(%f) = %d, want %d", tc.sparks, info.Level, tc.wantLevel)
			}
			if info.Name != tc.wantName {
				t.Errorf("name(%f) = %s, want %s", tc.sparks, info.Name, tc.wantName)
			}
		})
	}

	t.Run("level_is_non_decreasing_in_sparks", func(t *testing.T) {
		prev := 0
		for s := 0.0; s <= 60000; s += 250 {
			level := LevelForSparks(s).Level
			if level < prev {
				t.Fatalf("level decreased from %d to %d at sparks=%f", prev, level, s)
			}
			prev = level
		}
	})

	t.Run("progress_within_bracket", func(t *testing.T) {
		info := LevelForSparks(3000)
		// Level 2 bracket runs 1000 to 5000; 3000 is halfway.
		if info.Progress != 50 {
			t.Errorf("expected progress 50, got %f", info.Progress)
		}
	})

	t.Run("max_level_reports_full_progress", func(t *testing.T) {
		if info := LevelForSparks(50000); info.Progress != 100 {
			t.Errorf("expected 100%% at max level, got %f", info.Progress)
		}
	})
}

func TestResolveLevel(t *testing.T) {
	t.Run("level_never_regresses", func(t *testing.T) {
		// Administrative reduction below the level-3 threshold keeps level 3.
		info := ResolveLevel(3, 2000)
		if info.Level != 3 {
			t.Errorf("expected level held at 3, got %d", info.Level)
		}
		if info.Progress != 0 {
			t.Errorf("expected progress clamped to 0 below bracket, got %f", info.Progress)
		}
	})

	t.Run("level_advances_when_sparks_allow", func(t *testing.T) {
		info := ResolveLevel(2, 16000)
		if info.Level != 4 {
			t.Errorf("expected level 4, got %d", info.Level)
		}
	})
}
