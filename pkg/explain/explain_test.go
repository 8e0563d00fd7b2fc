package explain

import (
	"reflect"
	"strings"
	"testing"

	"github.com/mindfort-ai/bulwark/pkg/risk"
)

func TestRankOrdersByContribution(t *testing.T) {
	signals := []risk.Signal{
		risk.NewSignal(risk.CategoryLinguistic, "weak", 0.3, 0.4),
		risk.NewSignal(risk.CategoryTechnical, "strong", 0.9, 0.7),
		risk.NewSignal(risk.CategorySemantic, "middle", 0.6, 0.9),
	}

	ranked := Rank(signals)
	wantOrder := []string{"strong", "middle", "weak"}
	for i, name := range wantOrder {
		if ranked[i].Name != name {
			t.Fatalf("rank %d = %s, want %s (%+v)", i, ranked[i].Name, name, ranked)
		}
	}
}

func TestRankNegativeContributionByMagnitude(t *testing.T) {
	signals := []risk.Signal{
		risk.NewSignal(risk.CategoryIntent, "mild", 0.5, 0.2),
		risk.NewSignal(risk.CategorySemantic, "warning", 0.8, -0.4),
	}

	ranked := Rank(signals)
	if ranked[0].Name != "warning" {
		t.Errorf("risk-reducing signal with larger magnitude should rank first, got %s", ranked[0].Name)
	}
}

func TestRankTieBreaksByCategoryPriority(t *testing.T) {
	// Equal contributions: 0.6*0.5 == 0.5*0.6.
	signals := []risk.Signal{
		risk.NewSignal(risk.CategoryTechnical, "tech", 0.6, 0.5),
		risk.NewSignal(risk.CategorySemantic, "sem", 0.5, 0.6),
	}

	ranked := Rank(signals)
	if ranked[0].Name != "sem" {
		t.Errorf("semantic should outrank technical on ties, got %s first", ranked[0].Name)
	}
}

func TestRankStableWithinCategory(t *testing.T) {
	signals := []risk.Signal{
		risk.NewSignal(risk.CategorySemantic, "first", 0.5, 0.6),
		risk.NewSignal(risk.CategorySemantic, "second", 0.6, 0.5),
	}

	ranked := Rank(signals)
	if ranked[0].Name != "first" || ranked[1].Name != "second" {
		t.Errorf("equal signals should keep emission order, got %s then %s", ranked[0].Name, ranked[1].Name)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	signals := []risk.Signal{
		risk.NewSignal(risk.CategoryLinguistic, "a", 0.3, 0.4),
		risk.NewSignal(risk.CategoryTechnical, "b", 0.9, 0.7),
	}
	_ = Rank(signals)

	if signals[0].Name != "a" || signals[1].Name != "b" {
		t.Errorf("input slice reordered: %+v", signals)
	}
}

func TestReasoningEmptySignals(t *testing.T) {
	lines := Reasoning(nil, 0.9, false)

	want := []string{"No risk signals detected - appears to be normal communication"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("got %v, want %v", lines, want)
	}
}

func TestReasoningPrimaryConcern(t *testing.T) {
	signals := []risk.Signal{
		risk.NewSignal(risk.CategoryTechnical, "Technical: Shortened URL", 0.9, 0.7),
	}
	lines := Reasoning(signals, 0.6, false)

	if len(lines) == 0 {
		t.Fatal("no reasoning lines")
	}
	want := "Primary concern: Technical: Shortened URL (confidence: 90%, severity: 70%)"
	if lines[0] != want {
		t.Errorf("got %q, want %q", lines[0], want)
	}
}

func TestReasoningCategoryBreakdown(t *testing.T) {
	signals := []risk.Signal{
		risk.NewSignal(risk.CategoryTechnical, "t1", 0.9, 0.7),
		risk.NewSignal(risk.CategorySemantic, "s1", 0.5, 0.8),
		risk.NewSignal(risk.CategorySemantic, "s2", 0.5, 0.6),
	}
	lines := Reasoning(signals, 0.6, false)

	var breakdown string
	for _, line := range lines {
		if strings.HasPrefix(line, "Risk signals detected across") {
			breakdown = line
		}
	}
	if breakdown == "" {
		t.Fatalf("no category breakdown in %v", lines)
	}
	if !strings.Contains(breakdown, "across 2 categories") {
		t.Errorf("wrong category count: %q", breakdown)
	}
	// Category order, not signal order: semantic listed before technical.
	if !strings.Contains(breakdown, "semantic: 2, technical: 1") {
		t.Errorf("breakdown out of order: %q", breakdown)
	}
}

func TestReasoningSingleCategoryNoBreakdown(t *testing.T) {
	signals := []risk.Signal{
		risk.NewSignal(risk.CategorySemantic, "s1", 0.5, 0.8),
		risk.NewSignal(risk.CategorySemantic, "s2", 0.5, 0.6),
	}
	for _, line := range Reasoning(signals, 0.6, false) {
		if strings.HasPrefix(line, "Risk signals detected across") {
			t.Errorf("breakdown emitted for single category: %q", line)
		}
	}
}

func TestReasoningDemotionNote(t *testing.T) {
	signals := []risk.Signal{
		risk.NewSignal(risk.CategorySemantic, "s", 0.4, 0.9),
	}

	withNote := Reasoning(signals, 0.6, true)
	found := false
	for _, line := range withNote {
		if strings.Contains(line, "demoted one step") {
			found = true
		}
	}
	if !found {
		t.Errorf("demotion note missing from %v", withNote)
	}

	withoutNote := Reasoning(signals, 0.6, false)
	for _, line := range withoutNote {
		if strings.Contains(line, "demoted") {
			t.Errorf("unexpected demotion note: %q", line)
		}
	}
}

func TestReasoningConfidenceNotes(t *testing.T) {
	signals := []risk.Signal{
		risk.NewSignal(risk.CategorySemantic, "s", 0.4, 0.9),
	}

	testCases := []struct {
		name       string
		confidence float64
		wantLow    bool
		wantHigh   bool
	}{
		{"low", 0.3, true, false},
		{"middle", 0.6, false, false},
		{"high", 0.9, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lines := Reasoning(signals, tc.confidence, false)
			var gotLow, gotHigh bool
			for _, line := range lines {
				if strings.Contains(line, "Low confidence") {
					gotLow = true
				}
				if strings.Contains(line, "High confidence") {
					gotHigh = true
				}
			}
			if gotLow != tc.wantLow || gotHigh != tc.wantHigh {
				t.Errorf("confidence %v: low=%v high=%v, want low=%v high=%v",
					tc.confidence, gotLow, gotHigh, tc.wantLow, tc.wantHigh)
			}
		})
	}
}

func TestRecommendationsPerLevel(t *testing.T) {
	testCases := []struct {
		level     risk.Level
		wantFirst string
	}{
		{risk.LevelCritical, "BLOCK this message immediately"},
		{risk.LevelMalicious, "Do not respond or click any links"},
		{risk.LevelSuspicious, "Exercise caution"},
		{risk.LevelAmbiguous, "Request additional context"},
		{risk.LevelBenign, "Proceed normally"},
		{risk.LevelTrusted, "Proceed normally"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.level), func(t *testing.T) {
			recs := Recommendations(tc.level)
			if len(recs) == 0 {
				t.Fatal("no recommendations")
			}
			if recs[0] != tc.wantFirst {
				t.Errorf("first recommendation = %q, want %q", recs[0], tc.wantFirst)
			}
		})
	}
}

func TestRecommendationsReturnFreshSlices(t *testing.T) {
	first := Recommendations(risk.LevelCritical)
	first[0] = "mutated"

	second := Recommendations(risk.LevelCritical)
	if second[0] == "mutated" {
		t.Error("recommendation slices are shared between calls")
	}
}
