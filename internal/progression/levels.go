package progression

import (
	"fmt"
	"math"

	"chd/internal/structures"
)

// LevelState is the level-progression slice of a user document.
type LevelState struct {
	Level          int
	CurrentLevelXP int
	XPToNextLevel  int
}

// Threshold returns the XP required to clear the given level:
// floor(baseXpPerLevel * multiplier^(level-1)).
func Threshold(level int, curve structures.LevelCurve) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(float64(curve.BaseXPPerLevel) * math.Pow(curve.Multiplier, float64(level-1))))
}

// Advance applies an XP gain to a level state, looping over thresholds so a
// single large award can clear several levels at once. The level never
// decreases. The curve must be validated (multiplier > 1) at startup; the
// loop terminates because thresholds grow strictly with level.
func Advance(state LevelState, xpGain int, curve structures.LevelCurve) LevelState {
	if state.Level < 1 {
		state.Level = 1
	}
	if state.XPToNextLevel <= 0 {
		state.XPToNextLevel = Threshold(state.Level, curve)
	}
	if xpGain < 0 {
		xpGain = 0
	}

	state.CurrentLevelXP += xpGain
	for state.CurrentLevelXP >= state.XPToNextLevel {
		state.CurrentLevelXP -= state.XPToNextLevel
		state.Level++
		state.XPToNextLevel = Threshold(state.Level, curve)
	}
	return state
}

// ValidateCurve rejects non-increasing level curves. Called once at startup;
// a bad curve is a fatal configuration error, not a per-event one.
func ValidateCurve(curve structures.LevelCurve) error {
	if curve.BaseXPPerLevel < 1 {
		return fmt.Errorf("level curve: baseXpPerLevel must be >= 1, got %d", curve.BaseXPPerLevel)
	}
	if curve.Multiplier <= 1 {
		return fmt.Errorf("level curve: multiplier must be > 1, got %g", curve.Multiplier)
	}
	return nil
}
