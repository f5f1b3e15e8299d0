package merge

import (
	"math"
	"sort"

	"menumerge/internal/entity"
	"menumerge/internal/matching"
)

// Merger resolves fields and scores record completeness.
type Merger struct {
	rules     Rules
	checklist [][]string
}

// New constructs a Merger.
func New(rules Rules) *Merger {
	return &Merger{rules: rules, checklist: parseChecklist(rules.Checklist)}
}

// Merge fuses a matched pair into one record.
func (m *Merger) Merge(match entity.MatchResult, a, b entity.SourceEntity) entity.MergedRecord {
	inputs := []entity.SourceEntity{a, b}

	names := make(map[string]struct{})
	for _, e := range inputs {
		for _, name := range e.FieldNames() {
			names[name] = struct{}{}
		}
	}
	fields := make(map[string]entity.FieldValue, len(names))
	for name := range names {
		if fv, ok := m.resolve(name, inputs); ok {
			fields[name] = fv
		}
	}

	sourceIDs := map[string]string{a.OriginTag: a.SourceID}
	if _, taken := sourceIDs[b.OriginTag]; taken {
		sourceIDs[b.OriginTag+":b"] = b.SourceID
	} else {
		sourceIDs[b.OriginTag] = b.SourceID
	}

	return entity.MergedRecord{
		ID:              "merged_" + a.SourceID + "_" + b.SourceID,
		DataSources:     sortedSet(a.OriginTag, b.OriginTag),
		SourceIDs:       sourceIDs,
		Fields:          fields,
		QualityScore:    m.Quality(fields),
		MatchConfidence: match.Confidence,
	}
}

// MergeSingleton promotes an unmatched entity to a record of its own.
func (m *Merger) MergeSingleton(e entity.SourceEntity) entity.MergedRecord {
	fields := make(map[string]entity.FieldValue)
	for _, name := range e.FieldNames() {
		value, _ := e.Field(name)
		fields[name] = entity.FieldValue{Value: value, Source: e.OriginTag}
	}
	return entity.MergedRecord{
		ID:           e.OriginTag + "_only_" + e.SourceID,
		DataSources:  []string{e.OriginTag},
		SourceIDs:    map[string]string{e.OriginTag: e.SourceID},
		Fields:       fields,
		QualityScore: m.Quality(fields),
	}
}

// MergeAll merges every match of res and promotes its unmatched entities.
// Output order: matches in set A order, then unmatched A, then unmatched B.
func (m *Merger) MergeAll(res matching.Result, setA, setB []entity.SourceEntity) []entity.MergedRecord {
	indexA := make(map[entity.Key]entity.SourceEntity, len(setA))
	for _, e := range setA {
		indexA[e.Key()] = e
	}
	indexB := make(map[entity.Key]entity.SourceEntity, len(setB))
	for _, e := range setB {
		indexB[e.Key()] = e
	}

	records := make([]entity.MergedRecord, 0, len(res.Matches)+len(res.UnmatchedA)+len(res.UnmatchedB))
	for _, match := range res.Matches {
		records = append(records, m.Merge(match, indexA[match.EntityA], indexB[match.EntityB]))
	}
	for _, e := range res.UnmatchedA {
		records = append(records, m.MergeSingleton(e))
	}
	for _, e := range res.UnmatchedB {
		records = append(records, m.MergeSingleton(e))
	}
	return records
}

// resolve walks the field's selectors, then any untried inputs in pair
// order, and returns the first populated value.
func (m *Merger) resolve(field string, inputs []entity.SourceEntity) (entity.FieldValue, bool) {
	tried := make([]bool, len(inputs))
	try := func(i int) (entity.FieldValue, bool) {
		if tried[i] {
			return entity.FieldValue{}, false
		}
		tried[i] = true
		value, ok := inputs[i].Field(field)
		if !ok {
			return entity.FieldValue{}, false
		}
		return entity.FieldValue{Value: value, Source: inputs[i].OriginTag}, true
	}

	for _, sel := range m.rules.precedence(field) {
		switch sel {
		case SelectorA:
			if fv, ok := try(0); ok {
				return fv, true
			}
		case SelectorB:
			if fv, ok := try(1); ok {
				return fv, true
			}
		default:
			for i, e := range inputs {
				if e.OriginTag != sel {
					continue
				}
				if fv, ok := try(i); ok {
					return fv, true
				}
			}
		}
	}
	for i := range inputs {
		if fv, ok := try(i); ok {
			return fv, true
		}
	}
	return entity.FieldValue{}, false
}

// Quality returns the share of checklist entries with a populated field,
// rounded to the configured precision.
func (m *Merger) Quality(fields map[string]entity.FieldValue) float64 {
	if len(m.checklist) == 0 {
		return 0
	}
	present := 0
	for _, alts := range m.checklist {
		for _, name := range alts {
			if fv, ok := fields[name]; ok && entity.Populated(fv.Value) {
				present++
				break
			}
		}
	}
	return round(float64(present)/float64(len(m.checklist)), m.rules.Precision)
}

func round(value float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(value*scale) / scale
}

func sortedSet(values ...string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
