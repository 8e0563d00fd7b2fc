package detect

import (
	"sync"

	"github.com/mindfort-ai/bulwark/pkg/match"
	"github.com/mindfort-ai/bulwark/pkg/patterns"
	"github.com/mindfort-ai/bulwark/pkg/risk"
)

// Engine runs the full detector set over one input. Detectors share a
// registry and matcher and run concurrently; results merge in canonical
// category order so the output is deterministic for a given input.
type Engine struct {
	detectors []Detector
}

// NewEngine wires the five detectors onto the given registry. A
// non-positive negation window falls back to the default.
func NewEngine(reg *patterns.Registry, negationWindow int) *Engine {
	m := match.NewMatcher(negationWindow)
	return &Engine{
		detectors: []Detector{
			NewSemanticDetector(reg, m),
			NewIntentDetector(reg, m),
			NewLinguisticDetector(reg, m),
			NewTechnicalDetector(reg),
			NewContextualDetector(reg, m),
		},
	}
}

// Run fans the detectors out and concatenates their signals in detector
// order, preserving each detector's own emission order.
func (e *Engine) Run(in Input) []risk.Signal {
	results := make([][]risk.Signal, len(e.detectors))
	var wg sync.WaitGroup
	wg.Add(len(e.detectors))
	for i, d := range e.detectors {
		go func(i int, d Detector) {
			defer wg.Done()
			results[i] = d.Detect(in)
		}(i, d)
	}
	wg.Wait()

	var merged []risk.Signal
	for _, sigs := range results {
		merged = append(merged, sigs...)
	}
	return merged
}

// Detectors returns the configured detector set in execution order.
func (e *Engine) Detectors() []Detector {
	out := make([]Detector, len(e.detectors))
	copy(out, e.detectors)
	return out
}
