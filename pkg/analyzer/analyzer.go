// Package analyzer is the front door for message risk assessment: it wires
// the detector engine, the aggregator and the explainer into one call.
package analyzer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mindfort-ai/bulwark/pkg/detect"
	"github.com/mindfort-ai/bulwark/pkg/explain"
	"github.com/mindfort-ai/bulwark/pkg/links"
	"github.com/mindfort-ai/bulwark/pkg/match"
	"github.com/mindfort-ai/bulwark/pkg/patterns"
	"github.com/mindfort-ai/bulwark/pkg/risk"
)

// Analyzer assesses messages. Safe for concurrent use; all state is
// immutable after construction.
type Analyzer struct {
	engine *detect.Engine
	agg    *risk.Aggregator
}

// New builds an analyzer from explicit parts. The aggregate config is
// validated here, so an analyzer that constructs will never produce an
// out-of-contract assessment.
func New(reg *patterns.Registry, cfg risk.AggregateConfig, negationWindow int) (*Analyzer, error) {
	agg, err := risk.NewAggregator(cfg)
	if err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}
	return &Analyzer{
		engine: detect.NewEngine(reg, negationWindow),
		agg:    agg,
	}, nil
}

// NewDefault builds an analyzer on the shipped tables, default weights and
// default negation window.
func NewDefault() *Analyzer {
	a, err := New(patterns.Default(), risk.DefaultAggregateConfig(), match.DefaultNegationWindow)
	if err != nil {
		// Shipped defaults are covered by tests; reaching this is a bug.
		panic(fmt.Sprintf("analyzer: default configuration invalid: %v", err))
	}
	return a
}

// Analyze runs the full pipeline over one input. Pure: identical input
// yields an identical Assessment, with ID and latency left unset.
func (a *Analyzer) Analyze(in detect.Input) risk.Assessment {
	if len(in.History) > risk.HistoryWindow {
		in.History = in.History[len(in.History)-risk.HistoryWindow:]
	}
	signals := a.engine.Run(in)
	outcome := a.agg.Aggregate(signals)
	return risk.Assessment{
		Level:           outcome.Level,
		Score:           outcome.Score,
		Confidence:      outcome.Confidence,
		Signals:         signals,
		Reasoning:       explain.Reasoning(signals, outcome.Confidence, outcome.Demoted),
		Recommendations: explain.Recommendations(outcome.Level),
	}
}

// AnalyzeText assesses a bare message with no conversation history,
// extracting links from the text itself.
func (a *Analyzer) AnalyzeText(text string) risk.Assessment {
	return a.Analyze(detect.Input{Text: text, Links: links.Extract(text)})
}

// Assess is the serving-layer entry point: the same verdict as Analyze,
// stamped with an audit ID and measured wall-clock latency.
func (a *Analyzer) Assess(in detect.Input) risk.Assessment {
	start := time.Now()
	out := a.Analyze(in)
	out.ID = uuid.NewString()
	out.LatencyMs = time.Since(start).Milliseconds()
	return out
}
