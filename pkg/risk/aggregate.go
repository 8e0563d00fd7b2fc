package risk

import (
	"fmt"
	"math"
	"sort"
)

// weightSumTolerance absorbs float rounding when checking that category
// weights sum to 1.0.
const weightSumTolerance = 1e-9

// DefaultSaturation is the contribution at which a category reads as fully
// risky. A lone confident signal (e.g. shortened URL at 0.9 x 0.7) should
// saturate its category rather than leave headroom only a second,
// impossible signal could fill.
const DefaultSaturation = 0.4

// AggregateConfig carries the tunables for signal fusion. The zero value is
// not usable; start from DefaultAggregateConfig.
type AggregateConfig struct {
	// Weights maps each category to its share of the final score.
	// Must cover all five categories and sum to exactly 1.0.
	Weights map[Category]float64

	// Gates is the minimum aggregate confidence required to hold each
	// verdict without demotion. Ambiguous needs no gate.
	Gates map[Level]float64

	// EmptyConfidence is reported when no signals fire at all:
	// confidently benign.
	EmptyConfidence float64

	// TopSignals is how many of the strongest signals feed the
	// confidence mean.
	TopSignals int

	// Saturation normalizes each category's best contribution before
	// weighting: value/Saturation clamped to [-1,1]. Must be in (0,1].
	Saturation float64
}

// DefaultAggregateConfig returns the tuned production values.
func DefaultAggregateConfig() AggregateConfig {
	weights := make(map[Category]float64, len(Categories))
	for _, c := range Categories {
		weights[c] = DefaultCategoryWeight(c)
	}
	return AggregateConfig{
		Weights: weights,
		Gates: map[Level]float64{
			LevelTrusted:    0.8, // High confidence required to wave a message through
			LevelBenign:     0.6,
			LevelAmbiguous:  0.0, // Fixpoint: any confidence acceptable
			LevelSuspicious: 0.5,
			LevelMalicious:  0.7,
			LevelCritical:   0.9, // Very high confidence required before blocking
		},
		EmptyConfidence: 0.9,
		TopSignals:      3,
		Saturation:      DefaultSaturation,
	}
}

// Validate checks the fusion invariants. Called once at startup; aggregation
// itself can no longer fail afterwards.
func (c AggregateConfig) Validate() error {
	var sum float64
	for _, cat := range Categories {
		w, ok := c.Weights[cat]
		if !ok {
			return fmt.Errorf("aggregate config: missing weight for category %q", cat)
		}
		if w < 0 || w > 1 {
			return fmt.Errorf("aggregate config: weight for %q is %v, want [0,1]", cat, w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("aggregate config: category weights sum to %v, want 1.0", sum)
	}
	for _, level := range Levels {
		g, ok := c.Gates[level]
		if !ok {
			return fmt.Errorf("aggregate config: missing confidence gate for level %q", level)
		}
		if g < 0 || g > 1 {
			return fmt.Errorf("aggregate config: gate for %q is %v, want [0,1]", level, g)
		}
	}
	if c.EmptyConfidence < 0 || c.EmptyConfidence > 1 {
		return fmt.Errorf("aggregate config: empty confidence %v, want [0,1]", c.EmptyConfidence)
	}
	if c.TopSignals < 1 {
		return fmt.Errorf("aggregate config: top signals %d, want >= 1", c.TopSignals)
	}
	if c.Saturation <= 0 || c.Saturation > 1 {
		return fmt.Errorf("aggregate config: saturation %v, want (0,1]", c.Saturation)
	}
	return nil
}

// Outcome is the fused verdict before explanation.
type Outcome struct {
	Score      float64
	Confidence float64
	Level      Level

	// Demoted is set when the confidence gate pulled the verdict one
	// step toward Ambiguous.
	Demoted bool
}

// Aggregator fuses heterogeneous detector signals into a single calibrated
// verdict. Safe for concurrent use: it holds only read-only configuration.
type Aggregator struct {
	cfg AggregateConfig
}

// NewAggregator validates the configuration and returns a ready aggregator.
func NewAggregator(cfg AggregateConfig) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{cfg: cfg}, nil
}

// Aggregate combines all signals into a continuous score, an aggregate
// confidence, and a gated categorical verdict. Deterministic: identical
// signal slices always produce an identical outcome.
func (a *Aggregator) Aggregate(signals []Signal) Outcome {
	score := a.weightedScore(signals)
	confidence := a.confidence(signals)
	level, demoted := a.Gate(score, confidence)
	return Outcome{
		Score:      score,
		Confidence: confidence,
		Level:      level,
		Demoted:    demoted,
	}
}

// Gate maps a score to its verdict band and applies the confidence gate:
// when confidence falls below the band's minimum, the verdict moves exactly
// one step toward Ambiguous. A single application, never cascaded.
func (a *Aggregator) Gate(score, confidence float64) (Level, bool) {
	implied := LevelForScore(score)
	gate := a.cfg.Gates[implied]
	if confidence >= gate {
		return implied, false
	}
	demoted := DemoteTowardAmbiguous(implied)
	if demoted == implied {
		return implied, false
	}
	return demoted, true
}

// weightedScore takes the maximum contribution per category, saturates it
// into a full-band category value, then combines the five values through the
// fixed weighted sum. Categories with no signals contribute zero, and the
// sum is clamped rather than renormalized by the weight mass present, so
// sparse evidence cannot inflate the score.
func (a *Aggregator) weightedScore(signals []Signal) float64 {
	if len(signals) == 0 {
		return 0
	}
	best := make(map[Category]float64, len(Categories))
	seen := make(map[Category]bool, len(Categories))
	for _, s := range signals {
		c := s.Contribution()
		if !seen[s.Category] || c > best[s.Category] {
			best[s.Category] = c
			seen[s.Category] = true
		}
	}
	// Fixed iteration order keeps float summation bit-identical across runs.
	var total float64
	for _, cat := range Categories {
		if seen[cat] {
			total += a.saturate(best[cat]) * a.cfg.Weights[cat]
		}
	}
	return clamp(total, 0, 1)
}

// saturate maps a raw contribution onto [-1,1] with full risk reached at
// the saturation point. Sign is preserved so risk-reducing signals keep
// pulling the sum down.
func (a *Aggregator) saturate(contribution float64) float64 {
	return clamp(contribution/a.cfg.Saturation, -1, 1)
}

// confidence is the mean confidence of the strongest signals by contribution
// magnitude. Fewer signals than TopSignals means all of them count; no
// signals at all reports the confidently-benign default.
func (a *Aggregator) confidence(signals []Signal) float64 {
	if len(signals) == 0 {
		return a.cfg.EmptyConfidence
	}
	ranked := make([]Signal, len(signals))
	copy(ranked, signals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].Contribution()) > math.Abs(ranked[j].Contribution())
	})
	n := a.cfg.TopSignals
	if len(ranked) < n {
		n = len(ranked)
	}
	var sum float64
	for _, s := range ranked[:n] {
		sum += s.Confidence
	}
	return clamp(sum/float64(n), 0, 1)
}
