// Package detect implements the five signal detectors that feed risk
// aggregation: semantic patterns, intent classification, linguistic markers,
// technical artifacts and conversation context.
//
// Every detector is a pure function of its input: same Input, same signals,
// no I/O, no shared mutable state. That keeps single-message assessment
// deterministic and lets the engine fan detectors out concurrently without
// coordination.
package detect

import (
	"github.com/mindfort-ai/bulwark/pkg/risk"
)

// Input carries everything a detector may inspect for one message. Text is
// the raw message body; Links are pre-extracted URLs; History holds prior
// messages from the same conversation, oldest first. Links and History are
// optional and detectors that do not use them ignore them.
type Input struct {
	Text    string
	Links   []string
	History []risk.ConversationEntry
}

// Detector is the contract each detection family implements.
//
// Implementations:
//   - SemanticDetector:   phrase tables for rhetorical manipulation
//   - IntentDetector:     winner-take-all purpose classification
//   - LinguisticDetector: counting-based surface markers
//   - TechnicalDetector:  link artifacts and numeric patterns
//   - ContextualDetector: escalation across the conversation window
type Detector interface {
	// Category identifies which detection family this is. Exactly one
	// detector exists per category.
	Category() risk.Category

	// Detect inspects the input and returns zero or more signals. Returned
	// signals always satisfy the detector's category and the global
	// confidence floor; a detector that finds nothing returns nil rather
	// than an error.
	Detect(in Input) []risk.Signal
}

// signalName renders the canonical signal name, e.g. "Semantic: Urgency
// Pressure" or "Technical: Shortened URL".
func signalName(c risk.Category, title string) string {
	return c.Label() + ": " + title
}
