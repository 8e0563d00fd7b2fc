package risk

import "time"

// HistoryWindow is the maximum number of trailing conversation entries any
// detector reads; older entries are ignored, never an error.
const HistoryWindow = 5

// ConversationEntry is one prior message in the conversation window.
// Owned by the caller; the engine reads it and never stores it.
type ConversationEntry struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Assessment is the complete verdict for one analyzed message. It is
// constructed once per analysis call and never mutated afterwards; the
// engine keeps no copy.
type Assessment struct {
	// ID is assigned by the serving layer for audit correlation.
	// The engine itself never reads it.
	ID string `json:"id,omitempty"`

	// Level is the categorical verdict after confidence gating
	Level Level `json:"level"`

	// Score is the aggregated continuous risk (0.0 - 1.0)
	Score float64 `json:"score"`

	// Confidence is the aggregate certainty in the verdict (0.0 - 1.0)
	Confidence float64 `json:"confidence"`

	// Signals holds every emitted signal in detector execution order:
	// semantic, intent, linguistic, technical, contextual
	Signals []Signal `json:"signals"`

	// Reasoning is the ordered human-readable explanation
	Reasoning []string `json:"reasoning"`

	// Recommendations are action strings derived purely from Level
	Recommendations []string `json:"recommendations"`

	// LatencyMs is wall-clock analysis time, set by the serving layer.
	// Excluded from idempotence: two runs on identical input differ only here.
	LatencyMs int64 `json:"latency_ms"`
}

// TopSignal returns the signal with the largest absolute contribution,
// or nil when the assessment is signal-free.
func (a *Assessment) TopSignal() *Signal {
	var top *Signal
	var best float64
	for i := range a.Signals {
		c := a.Signals[i].Contribution()
		if c < 0 {
			c = -c
		}
		if top == nil || c > best {
			top = &a.Signals[i]
			best = c
		}
	}
	return top
}

// IsActionable returns true for verdicts that warrant user-facing caution
func (a *Assessment) IsActionable() bool {
	return a.Level.Exceeds(LevelAmbiguous)
}
