// Package explain renders assessments for humans: ranked signals, ordered
// reasoning lines and per-level action recommendations. Everything here is a
// pure function of its inputs, so explaining the same outcome twice yields
// identical text.
package explain

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mindfort-ai/bulwark/pkg/risk"
)

// Rank orders signals by descending absolute contribution. Ties resolve by
// category priority, then by emission order, so the ranking never depends on
// anything but the signals themselves.
func Rank(signals []risk.Signal) []risk.Signal {
	out := make([]risk.Signal, len(signals))
	copy(out, signals)
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := math.Abs(out[i].Contribution()), math.Abs(out[j].Contribution())
		if ci != cj {
			return ci > cj
		}
		return out[i].Category.Priority() < out[j].Category.Priority()
	})
	return out
}

// Reasoning builds the ordered explanation for one assessment: the leading
// concern, the category spread, then any gating and confidence caveats.
func Reasoning(signals []risk.Signal, confidence float64, demoted bool) []string {
	if len(signals) == 0 {
		return []string{"No risk signals detected - appears to be normal communication"}
	}

	var lines []string

	top := Rank(signals)[0]
	lines = append(lines, fmt.Sprintf("Primary concern: %s (confidence: %.0f%%, severity: %.0f%%)",
		top.Name, top.Confidence*100, top.Severity*100))

	counts := make(map[risk.Category]int, len(risk.Categories))
	for _, sig := range signals {
		counts[sig.Category]++
	}
	if len(counts) > 1 {
		parts := make([]string, 0, len(counts))
		for _, cat := range risk.Categories {
			if n := counts[cat]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s: %d", cat, n))
			}
		}
		lines = append(lines, fmt.Sprintf("Risk signals detected across %d categories: %s",
			len(counts), strings.Join(parts, ", ")))
	}

	if demoted {
		lines = append(lines, "Risk level demoted one step due to low-confidence evidence")
	}
	if confidence < 0.5 {
		lines = append(lines, "Low confidence assessment - consider human review")
	}
	if confidence > 0.8 {
		lines = append(lines, "High confidence assessment based on strong signal alignment")
	}
	return lines
}

// Recommendations returns the action list for a verdict. Pure lookup: the
// same level always yields the same actions, and callers get a fresh slice.
func Recommendations(level risk.Level) []string {
	switch level {
	case risk.LevelCritical:
		return []string{
			"BLOCK this message immediately",
			"Report to platform administrators",
			"Warn other users about this sender",
		}
	case risk.LevelMalicious:
		return []string{
			"Do not respond or click any links",
			"Report the message as spam/phishing",
			"Verify sender identity through official channels",
		}
	case risk.LevelSuspicious:
		return []string{
			"Exercise caution",
			"Verify independently before taking action",
			"Check for official contact methods",
		}
	case risk.LevelAmbiguous:
		return []string{
			"Request additional context",
			"Use secondary verification methods",
			"Consider human review if high-value action",
		}
	default: // Trusted and Benign carry the same guidance
		return []string{
			"Proceed normally",
			"No special precautions needed",
		}
	}
}
