package edge

// Streak describes a run of consecutive games on the same side of a line,
// counted backwards from the most recent game.
type Streak struct {
	Count  int  `json:"count"`
	Type   Pick `json:"type,omitempty"`
	Active bool `json:"active"`
}

// CalculateStreak walks the game log from the most recent game backwards
// and counts consecutive results on the same side of the line. A game
// landing exactly on the line breaks the streak. The streak is active once
// it reaches minStreak games.
func CalculateStreak(observations []float64, line float64, minStreak int) Streak {
	if minStreak < 1 {
		minStreak = 1
	}
	if len(observations) == 0 {
		return Streak{}
	}

	var streakType Pick
	count := 0
	for i := len(observations) - 1; i >= 0; i-- {
		v := observations[i]

		var hit Pick
		switch {
		case v > line:
			hit = PickOver
		case v < line:
			hit = PickUnder
		default:
			// Exactly on the line.
			return Streak{Count: count, Type: streakType, Active: count >= minStreak}
		}

		if count == 0 {
			streakType = hit
			count = 1
		} else if hit == streakType {
			count++
		} else {
			break
		}
	}

	return Streak{Count: count, Type: streakType, Active: count >= minStreak}
}
