package scoring

import (
	"golang.org/x/sync/errgroup"

	"menumerge/internal/entity"
	"menumerge/internal/geo"
	"menumerge/internal/textutil"
)

// Pair is one cell of the scored cross product.
type Pair struct {
	Result entity.MatchResult
	Viable bool
	// Gated is set when the pair was disqualified by the distance gate.
	Gated bool
}

// Scorer evaluates entity pairs under a fixed Policy. It holds no mutable
// state and is safe for concurrent use.
type Scorer struct {
	policy Policy
}

// New returns a Scorer. Out-of-range policy values fall back to defaults.
func New(policy Policy) *Scorer {
	return &Scorer{policy: policy.normalized()}
}

// Policy returns the effective policy.
func (s *Scorer) Policy() Policy {
	return s.policy
}

// features are the per-entity signal inputs, computed once per entity.
type features struct {
	key    entity.Key
	name   string
	phone  string
	coords *entity.Coordinates
}

func extract(e entity.SourceEntity) features {
	f := features{
		key:   e.Key(),
		name:  textutil.NormalizeName(e.Name),
		phone: textutil.NormalizePhone(e.Phone),
	}
	if e.Coordinates.Valid() {
		f.coords = e.Coordinates
	}
	return f
}

// Score evaluates one pair. The boolean reports whether the pair is a viable
// match: not excluded by the distance gate and at or above the minimum
// confidence.
func (s *Scorer) Score(a, b entity.SourceEntity) (entity.MatchResult, bool) {
	p := s.scorePair(extract(a), extract(b))
	return p.Result, p.Viable
}

func (s *Scorer) scorePair(a, b features) Pair {
	result := entity.MatchResult{EntityA: a.key, EntityB: b.key}

	if distance, ok := geo.Distance(a.coords, b.coords); ok {
		d := distance
		result.GeoDistanceM = &d
		if distance > s.policy.GeoDistanceThresholdM {
			return Pair{Result: result, Gated: true}
		}
		result.GeoScore = max(0, 1-distance/s.policy.GeoDistanceThresholdM)
	}

	result.NameSimilarity = textutil.LevenshteinSimilarity(a.name, b.name)
	result.PhoneMatch = a.phone != "" && a.phone == b.phone

	phone := 0.0
	if result.PhoneMatch {
		phone = 1
	}
	confidence := result.NameSimilarity*s.policy.NameWeight +
		phone*s.policy.PhoneWeight +
		result.GeoScore*s.policy.GeoWeight
	result.Confidence = min(1, max(0, confidence))

	return Pair{Result: result, Viable: result.Confidence >= s.policy.MinMatchConfidence}
}

// ScoreAll scores the full cross product of setA and setB. Row i holds the
// pairs for setA[i] in setB order. Rows are computed by up to workers
// goroutines; each row is written to its own slot so the output does not
// depend on scheduling.
func (s *Scorer) ScoreAll(setA, setB []entity.SourceEntity, workers int) [][]Pair {
	rows := make([][]Pair, len(setA))
	if len(setA) == 0 {
		return rows
	}

	fb := make([]features, len(setB))
	for j, e := range setB {
		fb[j] = extract(e)
	}

	scoreRow := func(i int) {
		fa := extract(setA[i])
		row := make([]Pair, len(fb))
		for j := range fb {
			row[j] = s.scorePair(fa, fb[j])
		}
		rows[i] = row
	}

	if workers <= 1 || len(setA) == 1 {
		for i := range setA {
			scoreRow(i)
		}
		return rows
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range setA {
		i := i
		g.Go(func() error {
			scoreRow(i)
			return nil
		})
	}
	_ = g.Wait()
	return rows
}
