package risk

// Level is the categorical verdict for an analyzed message
type Level string

const (
	LevelTrusted    Level = "trusted"
	LevelBenign     Level = "benign"
	LevelAmbiguous  Level = "ambiguous"
	LevelSuspicious Level = "suspicious"
	LevelMalicious  Level = "malicious"
	LevelCritical   Level = "critical"
)

// Levels lists the verdicts from least to most severe
var Levels = []Level{
	LevelTrusted,
	LevelBenign,
	LevelAmbiguous,
	LevelSuspicious,
	LevelMalicious,
	LevelCritical,
}

// Order returns the severity rank of the level (0 = Trusted).
// Unknown levels rank as Ambiguous.
func (l Level) Order() int {
	for i, level := range Levels {
		if l == level {
			return i
		}
	}
	return LevelAmbiguous.Order()
}

// Exceeds returns true if l is strictly more severe than other
func (l Level) Exceeds(other Level) bool {
	return l.Order() > other.Order()
}

// ParseLevel converts a string to a Level, defaulting to Ambiguous for
// unrecognized input.
func ParseLevel(s string) Level {
	for _, level := range Levels {
		if Level(s) == level {
			return level
		}
	}
	return LevelAmbiguous
}

// scoreBands maps contiguous score ranges to verdicts. Upper bounds are
// exclusive except the final band, which includes 1.0.
var scoreBands = []struct {
	Level Level
	Min   float64
	Max   float64
}{
	{LevelTrusted, 0.00, 0.15},
	{LevelBenign, 0.15, 0.35},
	{LevelAmbiguous, 0.35, 0.55},
	{LevelSuspicious, 0.55, 0.75},
	{LevelMalicious, 0.75, 0.90},
	{LevelCritical, 0.90, 1.0},
}

// LevelForScore maps a risk score in [0,1] to its verdict band
func LevelForScore(score float64) Level {
	if score >= 1.0 {
		return LevelCritical
	}
	for _, b := range scoreBands {
		if score >= b.Min && score < b.Max {
			return b.Level
		}
	}
	return LevelTrusted
}

// DemoteTowardAmbiguous returns the verdict one step closer to Ambiguous.
// Ambiguous is the fixpoint and demotes to itself; a gate can therefore
// never move a verdict more than one band per assessment.
func DemoteTowardAmbiguous(l Level) Level {
	order := l.Order()
	pivot := LevelAmbiguous.Order()
	switch {
	case order > pivot:
		return Levels[order-1]
	case order < pivot:
		return Levels[order+1]
	default:
		return l
	}
}
