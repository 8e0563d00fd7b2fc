package detect

import (
	"github.com/mindfort-ai/bulwark/pkg/match"
	"github.com/mindfort-ai/bulwark/pkg/patterns"
	"github.com/mindfort-ai/bulwark/pkg/risk"
)

// SemanticDetector matches rhetorical manipulation patterns: urgency
// pressure, authority imitation, reward framing and the rest of the semantic
// tables. Each pattern that clears the confidence floor yields one signal;
// patterns are independent, so a message can trigger several.
type SemanticDetector struct {
	reg     *patterns.Registry
	matcher *match.Matcher
}

// NewSemanticDetector builds the detector on the given tables and matcher.
func NewSemanticDetector(reg *patterns.Registry, m *match.Matcher) *SemanticDetector {
	return &SemanticDetector{reg: reg, matcher: m}
}

func (d *SemanticDetector) Category() risk.Category {
	return risk.CategorySemantic
}

func (d *SemanticDetector) Detect(in Input) []risk.Signal {
	var signals []risk.Signal
	for _, p := range d.reg.Semantic() {
		res := d.matcher.Match(in.Text, p.Phrases)
		conf := res.Confidence(p.Curve)
		if conf < risk.MinConfidence {
			continue
		}
		sig := risk.NewSignal(risk.CategorySemantic, signalName(risk.CategorySemantic, p.Title), conf, p.Severity)
		for _, phrase := range res.Matched {
			sig.AddEvidence("matched phrase: " + phrase)
		}
		signals = append(signals, sig)
	}
	return signals
}
