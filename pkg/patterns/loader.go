package patterns

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Overlay is the on-disk extension format. Deployments can append phrases to
// the shipped tables without recompiling; entries reference tables by ID and
// are purely additive. Severities, curves and thresholds stay compiled in.
type Overlay struct {
	Semantic   map[string]PhraseOverlay `yaml:"semantic"`
	Intents    map[string]PhraseOverlay `yaml:"intents"`
	Linguistic map[string]PhraseOverlay `yaml:"linguistic"`
	Technical  *TechnicalOverlay        `yaml:"technical"`
	Contextual *ContextualOverlay       `yaml:"contextual"`
}

// PhraseOverlay appends phrases to one named table.
type PhraseOverlay struct {
	Phrases []string `yaml:"phrases"`
}

// TechnicalOverlay appends to the link heuristic tables.
type TechnicalOverlay struct {
	Shorteners     []string `yaml:"shorteners"`
	SuspiciousTLDs []string `yaml:"suspicious_tlds"`
}

// ContextualOverlay appends to the conversation-window tables.
type ContextualOverlay struct {
	UrgencyIndicators []string `yaml:"urgency_indicators"`
	RequestVerbs      []string `yaml:"request_verbs"`
}

// Load builds a registry from the shipped tables plus the overlay file at
// path. An empty path returns the default registry.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern overlay: %w", err)
	}
	var ov Overlay
	if err := yaml.Unmarshal(raw, &ov); err != nil {
		return nil, fmt.Errorf("parse pattern overlay %s: %w", path, err)
	}
	tables, err := applyOverlay(DefaultTables(), ov)
	if err != nil {
		return nil, fmt.Errorf("apply pattern overlay %s: %w", path, err)
	}
	return NewRegistry(tables)
}

func applyOverlay(t Tables, ov Overlay) (Tables, error) {
	for id, o := range ov.Semantic {
		idx := -1
		for i := range t.Semantic {
			if string(t.Semantic[i].ID) == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return t, fmt.Errorf("unknown semantic pattern %q", id)
		}
		t.Semantic[idx].Phrases = appendUnique(t.Semantic[idx].Phrases, o.Phrases)
	}
	for id, o := range ov.Intents {
		idx := -1
		for i := range t.Intents {
			if string(t.Intents[i].ID) == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return t, fmt.Errorf("unknown intent profile %q", id)
		}
		t.Intents[idx].Indicators = appendUnique(t.Intents[idx].Indicators, o.Phrases)
	}
	for id, o := range ov.Linguistic {
		idx := -1
		for i := range t.Linguistic {
			if string(t.Linguistic[i].ID) == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return t, fmt.Errorf("unknown linguistic family %q", id)
		}
		t.Linguistic[idx].Indicators = appendUnique(t.Linguistic[idx].Indicators, o.Phrases)
	}
	if ov.Technical != nil {
		t.Technical.Shorteners = appendUnique(t.Technical.Shorteners, ov.Technical.Shorteners)
		t.Technical.SuspiciousTLDs = appendUnique(t.Technical.SuspiciousTLDs, ov.Technical.SuspiciousTLDs)
	}
	if ov.Contextual != nil {
		t.Contextual.UrgencyIndicators = appendUnique(t.Contextual.UrgencyIndicators, ov.Contextual.UrgencyIndicators)
		t.Contextual.RequestVerbs = appendUnique(t.Contextual.RequestVerbs, ov.Contextual.RequestVerbs)
	}
	return t, nil
}

func appendUnique(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, s := range base {
		seen[s] = struct{}{}
	}
	for _, s := range extra {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		base = append(base, s)
	}
	return base
}
