package match

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "URGENT Action Required", "urgent action required"},
		{"collapses_whitespace", "verify\t your\n\n account ", "verify your account"},
		{"folds_fullwidth", "ＵＲＧＥＮＴ", "urgent"},
		{"folds_smart_quote", "don’t click", "don't click"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("Don't click this link!!! It's fake.")
	want := []string{"don't", "click", "this", "link", "it's", "fake"}
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCurveConfidence(t *testing.T) {
	curve := DefaultCurve()
	tests := []struct {
		count int
		want  float64
	}{
		{0, 0},
		{1, 0.5},
		{2, 0.7},
		{3, 0.9},
		{4, 0.95},
		{10, 0.95},
	}
	for _, tt := range tests {
		if got := curve.Confidence(tt.count); got != tt.want {
			t.Errorf("Confidence(%d) = %f, want %f", tt.count, got, tt.want)
		}
	}

	urgency := CountCurve(0.3, 0.9)
	if got := urgency.Confidence(2); got != 0.6 {
		t.Errorf("count curve Confidence(2) = %f, want 0.6", got)
	}
	if got := urgency.Confidence(5); got != 0.9 {
		t.Errorf("count curve Confidence(5) = %f, want cap 0.9", got)
	}
}

func TestCurveMonotonic(t *testing.T) {
	curves := []Curve{DefaultCurve(), CountCurve(0.3, 0.9), CountCurve(0.4, 0.8), CountCurve(0.25, 0.85)}
	for _, curve := range curves {
		prev := 0.0
		for count := 0; count <= 20; count++ {
			got := curve.Confidence(count)
			if got < prev {
				t.Fatalf("curve %+v not monotonic: Confidence(%d)=%f < %f", curve, count, got, prev)
			}
			if got < 0 || got > 1 {
				t.Fatalf("curve %+v out of bounds at count %d: %f", curve, count, got)
			}
			prev = got
		}
	}
}

func TestCurveValidate(t *testing.T) {
	if err := DefaultCurve().Validate(); err != nil {
		t.Fatalf("default curve must validate: %v", err)
	}
	bad := []Curve{
		{Base: -0.1, Step: 0.2, Cap: 0.9},
		{Base: 0.3, Step: -0.2, Cap: 0.9},
		{Base: 0.3, Step: 0.2, Cap: 1.5},
	}
	for _, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("expected validation error for %+v", c)
		}
	}
}

func TestMatchBasics(t *testing.T) {
	m := NewMatcher(DefaultNegationWindow)
	phrases := []string{"act now", "limited time", "verify your account"}

	res := m.Match("ACT NOW! This limited time offer expires soon", phrases)
	if res.Count() != 2 {
		t.Fatalf("expected 2 matches, got %d: %v", res.Count(), res.Matched)
	}
	if res.Matched[0] != "act now" || res.Matched[1] != "limited time" {
		t.Fatalf("matches out of phrase-set order: %v", res.Matched)
	}

	res = m.Match("nothing interesting here", phrases)
	if res.Count() != 0 || len(res.Negated) != 0 {
		t.Fatalf("expected no matches, got %+v", res)
	}
}

func TestMatchTokenGapVariant(t *testing.T) {
	m := NewMatcher(DefaultNegationWindow)
	res := m.Match("please verify your bank account today", []string{"verify your account"})
	if res.Count() != 1 {
		t.Fatalf("expected gap-tolerant match, got %+v", res)
	}

	// Two filler tokens exceed the allowed gap.
	res = m.Match("verify your very own savings account", []string{"verify your account"})
	if res.Count() != 0 {
		t.Fatalf("expected no match across a two-token gap, got %+v", res)
	}
}

func TestMatchPhraseCountsOnce(t *testing.T) {
	m := NewMatcher(DefaultNegationWindow)
	res := m.Match("act now, act now, act now", []string{"act now"})
	if res.Count() != 1 {
		t.Fatalf("repeated phrase must count once, got %d", res.Count())
	}
}

func TestMatchNegation(t *testing.T) {
	m := NewMatcher(DefaultNegationWindow)

	res := m.Match("don't click this suspicious link", []string{"click", "suspicious link"})
	if res.Count() != 0 {
		t.Fatalf("expected negation to discard matches, got %v", res.Matched)
	}
	if len(res.Negated) != 2 {
		t.Fatalf("expected 2 negated phrases, got %v", res.Negated)
	}

	// Marker beyond the look-back window no longer negates.
	res = m.Match("never mind all that, you should click here", []string{"click here"})
	if res.Count() != 1 {
		t.Fatalf("expected match outside negation window, got %+v", res)
	}

	// One clean occurrence outweighs a negated one.
	res = m.Match("don't click spam, but click this official link", []string{"click"})
	if res.Count() != 1 {
		t.Fatalf("expected clean occurrence to survive, got %+v", res)
	}
}

func TestMatchNegationProperty(t *testing.T) {
	m := NewMatcher(DefaultNegationWindow)
	phrases := []string{"urgent", "act now", "verify your account"}
	for _, p := range phrases {
		bare := m.Match("please "+p+" today", []string{p})
		if bare.Count() != 1 {
			t.Fatalf("bare phrase %q must match", p)
		}
		for _, neg := range []string{"not", "never", "don't"} {
			negated := m.Match("please "+neg+" "+p+" today", []string{p})
			if negated.Count() != 0 {
				t.Errorf("%s %s must not match, got %v", neg, p, negated.Matched)
			}
		}
	}
}

func TestCountOccurrences(t *testing.T) {
	m := NewMatcher(DefaultNegationWindow)
	tests := []struct {
		name      string
		text      string
		indicator string
		want      int
	}{
		{"counts_every_occurrence", "urgent reply urgent action", "urgent", 2},
		{"token_boundaries", "I know nothing about it", "now", 0},
		{"negated_occurrence_skipped", "this is not urgent, but that one is urgent", "urgent", 1},
		{"exclamation_literal", "Wow!!! Great!", "!", 4},
		{"multiword_indicator", "give me your password, give me the code", "give me", 2},
		{"absent", "calm message", "hurry", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Count(tt.text, tt.indicator); got != tt.want {
				t.Errorf("Count(%q, %q) = %d, want %d", tt.text, tt.indicator, got, tt.want)
			}
		})
	}
}

func TestMatcherDeterministic(t *testing.T) {
	m := NewMatcher(DefaultNegationWindow)
	text := "URGENT: verify your account now, don't ignore this limited time offer!"
	phrases := []string{"verify your account", "limited time", "urgent", "ignore"}
	first := m.Match(text, phrases)
	for i := 0; i < 20; i++ {
		got := m.Match(text, phrases)
		if strings.Join(got.Matched, "|") != strings.Join(first.Matched, "|") ||
			strings.Join(got.Negated, "|") != strings.Join(first.Negated, "|") {
			t.Fatalf("matcher not deterministic: %+v vs %+v", got, first)
		}
	}
}

func BenchmarkMatch(b *testing.B) {
	m := NewMatcher(DefaultNegationWindow)
	text := "URGENT: Your account will be suspended! Verify your identity now at bit.ly/abc before the deadline expires"
	phrases := []string{
		"verify your identity", "account will be suspended", "act now",
		"limited time", "urgent", "deadline", "click here", "claim your prize",
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Match(text, phrases)
	}
}
