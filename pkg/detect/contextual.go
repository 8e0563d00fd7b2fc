package detect

import (
	"fmt"

	"github.com/mindfort-ai/bulwark/pkg/match"
	"github.com/mindfort-ai/bulwark/pkg/patterns"
	"github.com/mindfort-ai/bulwark/pkg/risk"
)

const (
	escalationSeverity = 0.7
	repeatConfidence   = 0.8
	repeatSeverity     = 0.6
)

// escalationCurve maps the number of urgency-bearing messages in the window
// to confidence.
var escalationCurve = match.CountCurve(0.2, 0.9)

// ContextualDetector looks across the conversation window instead of at a
// single message: urgency building up over consecutive messages, and the
// same request being pushed again and again. With no history it finds
// nothing; single-message patterns belong to the other detectors.
type ContextualDetector struct {
	reg     *patterns.Registry
	matcher *match.Matcher
}

// NewContextualDetector builds the detector on the given tables and matcher.
func NewContextualDetector(reg *patterns.Registry, m *match.Matcher) *ContextualDetector {
	return &ContextualDetector{reg: reg, matcher: m}
}

func (d *ContextualDetector) Category() risk.Category {
	return risk.CategoryContextual
}

func (d *ContextualDetector) Detect(in Input) []risk.Signal {
	if len(in.History) == 0 {
		return nil
	}
	window := in.History
	if len(window) > risk.HistoryWindow {
		window = window[len(window)-risk.HistoryWindow:]
	}
	table := d.reg.Contextual()

	var signals []risk.Signal

	// Urgency escalation: how many messages in the window, current
	// included, push urgency.
	urgent := 0
	for _, entry := range window {
		if d.containsAny(entry.Text, table.UrgencyIndicators) {
			urgent++
		}
	}
	if d.containsAny(in.Text, table.UrgencyIndicators) {
		urgent++
	}
	if urgent >= table.EscalationMin {
		conf := escalationCurve.Confidence(urgent)
		if conf >= risk.MinConfidence {
			signals = append(signals, risk.NewSignal(risk.CategoryContextual,
				signalName(risk.CategoryContextual, "Urgency Escalation"),
				conf, escalationSeverity,
				fmt.Sprintf("urgency in %d of the last %d messages", urgent, len(window)+1)))
		}
	}

	// Repeated requests: the sender keeps asking for something.
	prior := 0
	for _, entry := range window {
		if d.containsAny(entry.Text, table.RequestVerbs) {
			prior++
		}
	}
	if prior >= table.RepeatMin && d.containsAny(in.Text, table.RequestVerbs) {
		signals = append(signals, risk.NewSignal(risk.CategoryContextual,
			signalName(risk.CategoryContextual, "Repeated Requests"),
			repeatConfidence, repeatSeverity,
			fmt.Sprintf("requests repeated across %d prior messages", prior)))
	}
	return signals
}

func (d *ContextualDetector) containsAny(text string, indicators []string) bool {
	return d.matcher.Match(text, indicators).Count() > 0
}
