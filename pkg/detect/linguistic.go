package detect

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mindfort-ai/bulwark/pkg/match"
	"github.com/mindfort-ai/bulwark/pkg/patterns"
	"github.com/mindfort-ai/bulwark/pkg/risk"
)

// minShoutLen keeps short uppercase tokens like "PM", "OK" or "US" from
// counting as shouting.
const minShoutLen = 3

// LinguisticDetector counts surface-level markers: urgency vocabulary,
// emotional superlatives, shouting (exclamation marks and ALL-CAPS words)
// and stacked authority terms. Unlike the semantic detector it counts every
// occurrence, so repetition raises confidence.
type LinguisticDetector struct {
	reg     *patterns.Registry
	matcher *match.Matcher
}

// NewLinguisticDetector builds the detector on the given tables and matcher.
func NewLinguisticDetector(reg *patterns.Registry, m *match.Matcher) *LinguisticDetector {
	return &LinguisticDetector{reg: reg, matcher: m}
}

func (d *LinguisticDetector) Category() risk.Category {
	return risk.CategoryLinguistic
}

func (d *LinguisticDetector) Detect(in Input) []risk.Signal {
	var signals []risk.Signal
	for _, f := range d.reg.Linguistic() {
		count := 0
		for _, ind := range f.Indicators {
			count += d.matcher.Count(in.Text, ind)
		}
		if f.ID == patterns.LinguisticShouting {
			count += capsWordCount(in.Text)
		}
		if count == 0 || count < f.MinCount {
			continue
		}
		conf := f.Curve.Confidence(count)
		if conf < risk.MinConfidence {
			continue
		}
		sig := risk.NewSignal(risk.CategoryLinguistic, signalName(risk.CategoryLinguistic, f.Title), conf, f.Severity,
			fmt.Sprintf("%d %s markers", count, strings.ToLower(f.Title)))
		signals = append(signals, sig)
	}
	return signals
}

// capsWordCount counts fully uppercase words of minShoutLen or more letters
// in the raw text. Runs on the raw form because normalization lowercases.
func capsWordCount(text string) int {
	n := 0
	for _, word := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if len([]rune(word)) < minShoutLen {
			continue
		}
		upper := true
		for _, r := range word {
			if !unicode.IsUpper(r) {
				upper = false
				break
			}
		}
		if upper {
			n++
		}
	}
	return n
}
