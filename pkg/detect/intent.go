package detect

import (
	"github.com/mindfort-ai/bulwark/pkg/match"
	"github.com/mindfort-ai/bulwark/pkg/patterns"
	"github.com/mindfort-ai/bulwark/pkg/risk"
)

// IntentThreshold is the confidence a purpose classification must exceed
// before the detector commits to it. Below this the message's purpose is
// treated as undetermined and no intent signal is emitted.
const IntentThreshold = 0.4

// IntentDetector classifies the communicative purpose of a message.
// Winner-take-all: every profile is scored, but at most one signal is
// emitted, for the best-scoring profile. Ties resolve by table order, which
// ranks profiles from highest risk to lowest, so an ambiguous message reads
// as its most dangerous plausible purpose.
type IntentDetector struct {
	reg     *patterns.Registry
	matcher *match.Matcher
	curve   match.Curve
}

// NewIntentDetector builds the detector on the given tables and matcher.
func NewIntentDetector(reg *patterns.Registry, m *match.Matcher) *IntentDetector {
	return &IntentDetector{reg: reg, matcher: m, curve: match.DefaultCurve()}
}

func (d *IntentDetector) Category() risk.Category {
	return risk.CategoryIntent
}

func (d *IntentDetector) Detect(in Input) []risk.Signal {
	var (
		winner   *patterns.IntentProfile
		winRes   match.Result
		bestConf float64
	)
	profiles := d.reg.Intents()
	for i := range profiles {
		p := &profiles[i]
		res := d.matcher.Match(in.Text, p.Indicators)
		conf := res.Confidence(d.curve)
		// Strictly greater: on equal confidence the earlier profile wins,
		// and earlier means higher risk.
		if conf > bestConf {
			winner, winRes, bestConf = p, res, conf
		}
	}
	if winner == nil || bestConf <= IntentThreshold {
		return nil
	}
	sig := risk.NewSignal(risk.CategoryIntent, signalName(risk.CategoryIntent, winner.Title), bestConf, winner.RiskModifier)
	for _, ind := range winRes.Matched {
		sig.AddEvidence("indicator: " + ind)
	}
	return []risk.Signal{sig}
}
