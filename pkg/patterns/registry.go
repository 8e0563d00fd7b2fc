// Package patterns provides the centralized phrase-table registry for risk
// detection. Every table is built once and shared read-only across all
// detectors and requests.
//
// Design principles:
// - BUILD ONCE: the default registry is constructed a single time at first use
// - IMMUTABLE: tables never change after construction; detectors receive a
//   registry by injection and share it freely across goroutines
// - CLOSED SETS: pattern identifiers are enumerated constants so exhaustive
//   handling stays checkable
// - OVERRIDABLE: tests and deployments build alternates via NewRegistry or a
//   YAML overlay (see loader.go)
package patterns

import (
	"fmt"
	"sync"

	"github.com/mindfort-ai/bulwark/pkg/match"
)

// SemanticID names one rhetorical-manipulation pattern
type SemanticID string

const (
	SemanticUrgencyPressure       SemanticID = "urgency_pressure"
	SemanticAuthorityImitation    SemanticID = "authority_imitation"
	SemanticEmotionalManipulation SemanticID = "emotional_manipulation"
	SemanticInformationRequests   SemanticID = "information_requests"
	SemanticObligationCreation    SemanticID = "obligation_creation"
	SemanticRewardFraming         SemanticID = "reward_framing"
	SemanticReassurance           SemanticID = "reassurance_negation"
)

// IntentID names one mutually exclusive communicative purpose
type IntentID string

const (
	IntentPrizeLottery       IntentID = "prize_lottery"
	IntentTechnicalSupport   IntentID = "technical_support"
	IntentAccountMaintenance IntentID = "account_maintenance"
	IntentSecurityAlert      IntentID = "security_alert"
	IntentTransactional      IntentID = "transactional"
	IntentEducational        IntentID = "educational"
)

// LinguisticID names one surface-marker indicator family
type LinguisticID string

const (
	LinguisticUrgency   LinguisticID = "urgency_language"
	LinguisticEmotional LinguisticID = "emotional_appeals"
	LinguisticShouting  LinguisticID = "excessive_punctuation"
	LinguisticAuthority LinguisticID = "authority_tone"
)

// SemanticPattern is one fixed phrase set with a fixed severity. Patterns
// fire independently; there is no mutual exclusion between them.
type SemanticPattern struct {
	ID       SemanticID
	Title    string // Rendered into the signal name, e.g. "Urgency Pressure"
	Phrases  []string
	Severity float64 // Negative for risk-reducing patterns
	Curve    match.Curve
}

// IntentProfile is one candidate communicative purpose. Exactly one intent
// signal is emitted per message, winner-take-all.
type IntentProfile struct {
	ID         IntentID
	Title      string
	Indicators []string

	// RiskModifier becomes the emitted signal's severity.
	// Negative for benign purposes such as educational content.
	RiskModifier float64
}

// LinguisticFamily is one indicator family counted over the whole text.
type LinguisticFamily struct {
	ID         LinguisticID
	Title      string
	Indicators []string
	Curve      match.Curve // min(count*k, cap) shape
	Severity   float64

	// MinCount suppresses the family below a floor: authority words are
	// common enough that a single hit means nothing.
	MinCount int
}

// TechnicalTable holds the domain lists the technical detector consults.
type TechnicalTable struct {
	Shorteners     []string
	SuspiciousTLDs []string
}

// ContextualTable holds the cross-message lists and thresholds.
type ContextualTable struct {
	UrgencyIndicators []string
	RequestVerbs      []string

	// EscalationMin is the number of urgency-bearing window entries
	// required before escalation fires.
	EscalationMin int

	// RepeatMin is the number of prior request-bearing entries required
	// before repeated-requests fires.
	RepeatMin int
}

// Tables bundles every default or override table for registry construction.
type Tables struct {
	Semantic   []SemanticPattern
	Intents    []IntentProfile // Slice order is the tie-break priority, highest risk first
	Linguistic []LinguisticFamily
	Technical  TechnicalTable
	Contextual ContextualTable
}

// Registry holds all validated phrase tables. Read-only after construction;
// accessors return internal slices that callers must not modify.
type Registry struct {
	tables Tables
}

// global singleton - initialized once at first use
var (
	defaultRegistry *Registry
	initOnce        sync.Once
)

// Default returns the registry built from the shipped tables.
// Thread-safe and guaranteed to be valid.
func Default() *Registry {
	initOnce.Do(func() {
		r, err := NewRegistry(DefaultTables())
		if err != nil {
			// Shipped tables are covered by tests; reaching this is a bug.
			panic(fmt.Sprintf("patterns: default tables invalid: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// NewRegistry validates the tables and wraps them in a registry.
func NewRegistry(t Tables) (*Registry, error) {
	if err := validateTables(t); err != nil {
		return nil, err
	}
	return &Registry{tables: t}, nil
}

// Semantic returns every rhetorical pattern in registration order.
func (r *Registry) Semantic() []SemanticPattern {
	return r.tables.Semantic
}

// Intents returns the intent profiles in tie-break priority order:
// when two intents score identically, the earlier profile wins.
func (r *Registry) Intents() []IntentProfile {
	return r.tables.Intents
}

// IntentPriority returns the documented tie-break ordering.
func (r *Registry) IntentPriority() []IntentID {
	out := make([]IntentID, len(r.tables.Intents))
	for i, p := range r.tables.Intents {
		out[i] = p.ID
	}
	return out
}

// Linguistic returns the indicator families in registration order.
func (r *Registry) Linguistic() []LinguisticFamily {
	return r.tables.Linguistic
}

// Technical returns the domain lists.
func (r *Registry) Technical() TechnicalTable {
	return r.tables.Technical
}

// Contextual returns the conversation-window lists and thresholds.
func (r *Registry) Contextual() ContextualTable {
	return r.tables.Contextual
}

// TotalPatterns returns the count of phrase-backed patterns across the
// semantic, intent, and linguistic tables.
func (r *Registry) TotalPatterns() int {
	return len(r.tables.Semantic) + len(r.tables.Intents) + len(r.tables.Linguistic)
}

// validateTables enforces every table invariant at construction time so
// detection never has to re-check them per message.
func validateTables(t Tables) error {
	if len(t.Semantic) == 0 {
		return fmt.Errorf("patterns: no semantic patterns")
	}
	seenSemantic := make(map[SemanticID]bool, len(t.Semantic))
	for _, p := range t.Semantic {
		if seenSemantic[p.ID] {
			return fmt.Errorf("patterns: duplicate semantic pattern %q", p.ID)
		}
		seenSemantic[p.ID] = true
		if len(p.Phrases) == 0 {
			return fmt.Errorf("patterns: semantic pattern %q has no phrases", p.ID)
		}
		if p.Severity < -1 || p.Severity > 1 {
			return fmt.Errorf("patterns: semantic pattern %q severity %v, want [-1,1]", p.ID, p.Severity)
		}
		if err := p.Curve.Validate(); err != nil {
			return fmt.Errorf("patterns: semantic pattern %q: %w", p.ID, err)
		}
	}

	if len(t.Intents) == 0 {
		return fmt.Errorf("patterns: no intent profiles")
	}
	seenIntent := make(map[IntentID]bool, len(t.Intents))
	for _, p := range t.Intents {
		if seenIntent[p.ID] {
			return fmt.Errorf("patterns: duplicate intent profile %q", p.ID)
		}
		seenIntent[p.ID] = true
		if len(p.Indicators) == 0 {
			return fmt.Errorf("patterns: intent profile %q has no indicators", p.ID)
		}
		if p.RiskModifier < -1 || p.RiskModifier > 1 {
			return fmt.Errorf("patterns: intent profile %q risk modifier %v, want [-1,1]", p.ID, p.RiskModifier)
		}
	}

	if len(t.Linguistic) == 0 {
		return fmt.Errorf("patterns: no linguistic families")
	}
	seenFamily := make(map[LinguisticID]bool, len(t.Linguistic))
	for _, f := range t.Linguistic {
		if seenFamily[f.ID] {
			return fmt.Errorf("patterns: duplicate linguistic family %q", f.ID)
		}
		seenFamily[f.ID] = true
		if len(f.Indicators) == 0 {
			return fmt.Errorf("patterns: linguistic family %q has no indicators", f.ID)
		}
		if f.Severity < -1 || f.Severity > 1 {
			return fmt.Errorf("patterns: linguistic family %q severity %v, want [-1,1]", f.ID, f.Severity)
		}
		if f.MinCount < 0 {
			return fmt.Errorf("patterns: linguistic family %q min count %d, want >= 0", f.ID, f.MinCount)
		}
		if err := f.Curve.Validate(); err != nil {
			return fmt.Errorf("patterns: linguistic family %q: %w", f.ID, err)
		}
	}

	if len(t.Technical.Shorteners) == 0 {
		return fmt.Errorf("patterns: no shortener domains")
	}
	if len(t.Technical.SuspiciousTLDs) == 0 {
		return fmt.Errorf("patterns: no suspicious TLDs")
	}

	if len(t.Contextual.UrgencyIndicators) == 0 {
		return fmt.Errorf("patterns: no contextual urgency indicators")
	}
	if len(t.Contextual.RequestVerbs) == 0 {
		return fmt.Errorf("patterns: no contextual request verbs")
	}
	if t.Contextual.EscalationMin < 1 {
		return fmt.Errorf("patterns: contextual escalation min %d, want >= 1", t.Contextual.EscalationMin)
	}
	if t.Contextual.RepeatMin < 1 {
		return fmt.Errorf("patterns: contextual repeat min %d, want >= 1", t.Contextual.RepeatMin)
	}
	return nil
}
