package merge

import (
	"strings"

	"menumerge/internal/config"
)

// Position selectors refer to the entity's side of a matched pair.
const (
	SelectorA = "a"
	SelectorB = "b"
)

// Rules controls field resolution and quality scoring.
type Rules struct {
	// Checklist entries may list alternatives separated by "|".
	Checklist         []string
	Precision         int
	DefaultPrecedence []string
	FieldPrecedence   map[string][]string
}

// DefaultRules mirrors the repository configuration defaults.
func DefaultRules() Rules {
	return RulesFromConfig(config.Default().Merge)
}

// RulesFromConfig maps the merge configuration section.
func RulesFromConfig(m config.Merge) Rules {
	fields := make(map[string][]string, len(m.FieldPrecedence))
	for field, order := range m.FieldPrecedence {
		fields[field] = append([]string(nil), order...)
	}
	return Rules{
		Checklist:         append([]string(nil), m.RequiredFieldsChecklist...),
		Precision:         m.QualityPrecision,
		DefaultPrecedence: append([]string(nil), m.DefaultPrecedence...),
		FieldPrecedence:   fields,
	}
}

func (r Rules) precedence(field string) []string {
	if order := r.FieldPrecedence[field]; len(order) > 0 {
		return order
	}
	if len(r.DefaultPrecedence) > 0 {
		return r.DefaultPrecedence
	}
	return []string{SelectorB, SelectorA}
}

func parseChecklist(entries []string) [][]string {
	out := make([][]string, 0, len(entries))
	for _, entry := range entries {
		var alts []string
		for _, alt := range strings.Split(entry, "|") {
			if alt = strings.TrimSpace(alt); alt != "" {
				alts = append(alts, alt)
			}
		}
		if len(alts) > 0 {
			out = append(out, alts)
		}
	}
	return out
}
