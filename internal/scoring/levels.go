package scoring

import "math"

// LevelInfo describes a creator's reputation tier.
type LevelInfo struct {
	Level         int     `json:"level"`
	Name          string  `json:"name"`
	Progress      float64 `json:"progress"`
	Threshold     float64 `json:"threshold"`
	NextThreshold float64 `json:"next_threshold"`
}

// levelTable is the single canonical tier table: cumulative-Sparks thresholds
// for the five reputation levels.
var levelTable = []struct {
	Name      string
	Threshold float64
}{
	{"Pulse", 0},
	{"Rhythm", 1000},
	{"Harmony", 5000},
	{"Melody", 15000},
	{"Resonance", 50000},
}

// MaxLevel is the highest reachable reputation tier.
const MaxLevel = 5

// LevelForSparks returns the highest level whose threshold the given Sparks
// total meets, with progress through the current bracket clamped to [0, 100].
// The max level always reports 100% progress.
func LevelForSparks(sparks float64) LevelInfo {
	level := 1
	for i := range levelTable {
		if sparks >= levelTable[i].Threshold {
			level = i + 1
		}
	}
	return levelAt(level, sparks)
}

// ResolveLevel applies the monotonic level policy: a level, once reached,
// never regresses even if Sparks are administratively reduced below its
// threshold. Progress is still recomputed from the current Sparks total.
func ResolveLevel(currentLevel int, sparks float64) LevelInfo {
	info := LevelForSparks(sparks)
	if currentLevel > info.Level {
		return levelAt(currentLevel, sparks)
	}
	return info
}

func levelAt(level int, sparks float64) LevelInfo {
	threshold := levelTable[level-1].Threshold
	info := LevelInfo{
		Level:     level,
		Name:      levelTable[level-1].Name,
		Threshold: threshold,
	}

	if level >= MaxLevel {
		info.NextThreshold = threshold
		info.Progress = 100
		return info
	}

	next := levelTable[level].Threshold
	info.NextThreshold = next
	progress := 100 * (sparks - threshold) / (next - threshold)
	info.Progress = math.Min(math.Max(progress, 0), 100)
	return info
}
