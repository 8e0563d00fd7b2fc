package risk

// Category identifies which detection family produced a signal
type Category string

const (
	CategorySemantic   Category = "semantic"   // Rhetorical manipulation patterns
	CategoryIntent     Category = "intent"     // Communicative purpose classification
	CategoryLinguistic Category = "linguistic" // Surface-level behavioral markers
	CategoryTechnical  Category = "technical"  // Links, domains, numeric artifacts
	CategoryContextual Category = "contextual" // Cross-message conversation patterns
)

// Categories lists every detection family in canonical order. The order is
// load-bearing: detectors execute and merge in this order, and the explainer
// uses it to break contribution ties.
var Categories = []Category{
	CategorySemantic,
	CategoryIntent,
	CategoryLinguistic,
	CategoryTechnical,
	CategoryContextual,
}

// Priority returns the canonical rank of the category (0 = highest).
// Unknown categories rank last.
func (c Category) Priority() int {
	for i, cat := range Categories {
		if c == cat {
			return i
		}
	}
	return len(Categories)
}

// Label returns the display form used as the prefix of signal names,
// e.g. "Semantic: Urgency Pressure".
func (c Category) Label() string {
	switch c {
	case CategorySemantic:
		return "Semantic"
	case CategoryIntent:
		return "Intent"
	case CategoryLinguistic:
		return "Linguistic"
	case CategoryTechnical:
		return "Technical"
	case CategoryContextual:
		return "Contextual"
	default:
		return string(c)
	}
}

// MinConfidence is the floor below which detectors suppress a match entirely
// instead of emitting a weak signal.
const MinConfidence = 0.3

// Signal represents one typed, independent piece of evidence about message
// risk. This is the universal format every detection family produces.
type Signal struct {
	// Category identifies the detection family that produced this signal
	Category Category `json:"category"`

	// Name is a short human-readable identifier (e.g. "Semantic: Urgency Pressure")
	Name string `json:"name"`

	// Confidence is the certainty that the pattern is genuinely present (0.0 - 1.0)
	Confidence float64 `json:"confidence"`

	// Severity is how dangerous the pattern is if actually present (-1.0 - 1.0).
	// Negative severity marks a risk-reducing signal, e.g. educational intent.
	Severity float64 `json:"severity"`

	// Evidence holds the literal matched spans or derived facts
	// (e.g. "Found 3 urgency indicators")
	Evidence []string `json:"evidence,omitempty"`
}

// Contribution is the signal's share of overall risk: confidence * severity.
// Negative for risk-reducing signals. Derived on demand, never stored.
func (s Signal) Contribution() float64 {
	return s.Confidence * s.Severity
}

// IsRiskReducing returns true if the signal pulls the score down rather than up
func (s Signal) IsRiskReducing() bool {
	return s.Severity < 0
}

// NewSignal creates a signal with confidence and severity clamped to their
// documented ranges.
func NewSignal(category Category, name string, confidence, severity float64, evidence ...string) Signal {
	return Signal{
		Category:   category,
		Name:       name,
		Confidence: clamp(confidence, 0, 1),
		Severity:   clamp(severity, -1, 1),
		Evidence:   evidence,
	}
}

// AddEvidence appends a fact to the signal's evidence list
func (s *Signal) AddEvidence(fact string) {
	s.Evidence = append(s.Evidence, fact)
}

// DefaultCategoryWeight returns the aggregation weight for a detection family.
// The five weights sum to exactly 1.0; AggregateConfig.Validate enforces this
// for any override.
func DefaultCategoryWeight(c Category) float64 {
	switch c {
	case CategorySemantic:
		return 0.30
	case CategoryIntent:
		return 0.25
	case CategoryLinguistic:
		return 0.20
	case CategoryTechnical:
		return 0.15
	case CategoryContextual:
		return 0.10
	default:
		return 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
