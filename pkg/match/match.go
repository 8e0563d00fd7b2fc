package match

import "fmt"

// DefaultNegationWindow is how many tokens back the matcher scans for a
// negation marker before a matched phrase.
const DefaultNegationWindow = 3

// TokenGap is the slack allowed between consecutive phrase tokens when a
// phrase is matched as a token sequence rather than a literal substring:
// "verify your account" still matches "verify your bank account".
const TokenGap = 1

// NegationMarkers discard a phrase occurrence outright when one appears
// within the look-back window. Negated urgency is not urgency.
var NegationMarkers = []string{
	"not", "never", "avoid",
	"don't", "dont",
	"doesn't", "doesnt",
	"isn't", "isnt",
	"aren't", "arent",
	"won't", "wont",
	"can't", "cant", "cannot",
	"shouldn't", "shouldnt",
	"wouldn't", "wouldnt",
}

// Curve maps a distinct-match count to a confidence value:
// min(Base + Step*count, Cap), zero when nothing matched. Monotonic
// non-decreasing in count as long as Step >= 0, which Validate enforces.
type Curve struct {
	Base float64
	Step float64
	Cap  float64
}

// DefaultCurve is the shared phrase-set curve: a single match lands at
// 0.5, each further distinct phrase adds 0.2, capped at 0.95.
func DefaultCurve() Curve {
	return Curve{Base: 0.3, Step: 0.2, Cap: 0.95}
}

// CountCurve builds the linguistic-family shape min(count*k, cap).
func CountCurve(k, cap float64) Curve {
	return Curve{Base: 0, Step: k, Cap: cap}
}

// Confidence applies the curve to a match count.
func (c Curve) Confidence(count int) float64 {
	if count <= 0 {
		return 0
	}
	v := c.Base + c.Step*float64(count)
	if v > c.Cap {
		v = c.Cap
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Validate checks the curve invariants: bounded in [0,1] and monotonic.
func (c Curve) Validate() error {
	if c.Base < 0 || c.Base > 1 {
		return fmt.Errorf("curve: base %v, want [0,1]", c.Base)
	}
	if c.Step < 0 {
		return fmt.Errorf("curve: step %v, want >= 0", c.Step)
	}
	if c.Cap < 0 || c.Cap > 1 {
		return fmt.Errorf("curve: cap %v, want [0,1]", c.Cap)
	}
	return nil
}

// Result reports which phrases of a candidate set were found in a text.
type Result struct {
	// Matched holds phrases found in at least one non-negated position,
	// in phrase-set order. Each phrase counts once.
	Matched []string

	// Negated holds phrases found only in negated positions; they count
	// for nothing.
	Negated []string
}

// Count returns the number of distinct matched phrases.
func (r Result) Count() int {
	return len(r.Matched)
}

// Confidence applies a curve to the distinct-match count.
func (r Result) Confidence(c Curve) float64 {
	return c.Confidence(r.Count())
}

// Matcher is the shared phrase-containment primitive used by every
// detector. Stateless apart from its window; safe for concurrent use.
type Matcher struct {
	window int
}

// NewMatcher builds a matcher with the given negation look-back window.
// Non-positive windows fall back to DefaultNegationWindow.
func NewMatcher(window int) *Matcher {
	if window <= 0 {
		window = DefaultNegationWindow
	}
	return &Matcher{window: window}
}

// Match scans text for each candidate phrase. A phrase counts once no
// matter how often it occurs. An occurrence preceded by a negation marker
// within the look-back window is discarded; only when every occurrence is
// negated does the phrase land in Negated.
func (m *Matcher) Match(text string, phrases []string) Result {
	tokens := Tokens(text)
	var res Result
	for _, phrase := range phrases {
		pt := Tokens(phrase)
		if len(pt) == 0 {
			continue
		}
		starts := findOccurrences(tokens, pt)
		if len(starts) == 0 {
			continue
		}
		clean := false
		for _, start := range starts {
			if !m.negatedAt(tokens, start) {
				clean = true
				break
			}
		}
		if clean {
			res.Matched = append(res.Matched, phrase)
		} else {
			res.Negated = append(res.Negated, phrase)
		}
	}
	return res
}

// Count tallies non-negated occurrences of a single indicator. Word
// indicators count as token sequences (every occurrence, not distinct);
// punctuation indicators such as "!" count literally in the normalized
// text.
func (m *Matcher) Count(text, indicator string) int {
	normalized := Normalize(text)
	pt := tokenize(Normalize(indicator))
	if len(pt) == 0 {
		return countLiteral(normalized, Normalize(indicator))
	}
	tokens := tokenize(normalized)
	var n int
	for _, start := range findOccurrences(tokens, pt) {
		if !m.negatedAt(tokens, start) {
			n++
		}
	}
	return n
}

// negatedAt reports whether a negation marker sits within the look-back
// window before token index start.
func (m *Matcher) negatedAt(tokens []string, start int) bool {
	lo := start - m.window
	if lo < 0 {
		lo = 0
	}
	for i := lo; i < start; i++ {
		for _, marker := range NegationMarkers {
			if tokens[i] == marker {
				return true
			}
		}
	}
	return false
}

// findOccurrences returns every token index where the phrase begins.
func findOccurrences(tokens, phrase []string) []int {
	var starts []int
	for i := range tokens {
		if matchesAt(tokens, phrase, i) {
			starts = append(starts, i)
		}
	}
	return starts
}

// matchesAt checks a phrase anchored at start, allowing up to TokenGap
// filler tokens between consecutive phrase words.
func matchesAt(tokens, phrase []string, start int) bool {
	if tokens[start] != phrase[0] {
		return false
	}
	pos := start
	for pi := 1; pi < len(phrase); pi++ {
		found := false
		for gap := 1; gap <= TokenGap+1; gap++ {
			next := pos + gap
			if next >= len(tokens) {
				break
			}
			if tokens[next] == phrase[pi] {
				pos = next
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// countLiteral counts non-overlapping occurrences of a literal fragment,
// used for punctuation indicators that tokenization strips.
func countLiteral(normalized, fragment string) int {
	if fragment == "" {
		return 0
	}
	var n int
	for i := 0; i+len(fragment) <= len(normalized); {
		if normalized[i:i+len(fragment)] == fragment {
			n++
			i += len(fragment)
			continue
		}
		i++
	}
	return n
}
