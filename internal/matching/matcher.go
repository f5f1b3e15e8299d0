package matching

import (
	"fmt"

	"menumerge/internal/config"
	"menumerge/internal/entity"
	"menumerge/internal/scoring"
)

// Result is the outcome of one Match call. Slices are never nil.
type Result struct {
	Matches    []entity.MatchResult
	UnmatchedA []entity.SourceEntity
	UnmatchedB []entity.SourceEntity
	// ViablePairs counts scored pairs that cleared the gate and the minimum confidence.
	ViablePairs int
	// GatedPairs counts pairs excluded by the distance gate.
	GatedPairs int
}

// Options configures a Matcher.
type Options struct {
	Assignment string
	Workers    int
}

// Matcher links two entity sets.
type Matcher struct {
	scorer     *scoring.Scorer
	assignment string
	workers    int
}

// New constructs a Matcher. An empty assignment selects the greedy strategy.
func New(scorer *scoring.Scorer, opts Options) *Matcher {
	if scorer == nil {
		scorer = scoring.New(scoring.DefaultPolicy())
	}
	assignment := opts.Assignment
	if assignment == "" {
		assignment = config.AssignmentGreedy
	}
	return &Matcher{scorer: scorer, assignment: assignment, workers: max(1, opts.Workers)}
}

// NewFromConfig builds a Matcher from the matching configuration section.
func NewFromConfig(cfg *config.Config) *Matcher {
	return New(scoring.New(scoring.PolicyFromConfig(cfg.Matching)), Options{
		Assignment: cfg.Matching.Assignment,
		Workers:    cfg.Matching.Workers,
	})
}

// Assignment reports the active strategy name.
func (m *Matcher) Assignment() string {
	return m.assignment
}

// Match validates both sets, scores every pair, and assigns partners.
// Matches are ordered by their set A position; unmatched entities keep input order.
func (m *Matcher) Match(setA, setB []entity.SourceEntity) (Result, error) {
	if err := entity.ValidateEntities("set_a", setA); err != nil {
		return Result{}, fmt.Errorf("match: %w", err)
	}
	if err := entity.ValidateEntities("set_b", setB); err != nil {
		return Result{}, fmt.Errorf("match: %w", err)
	}

	rows := m.scorer.ScoreAll(setA, setB, m.workers)

	var assign []int
	switch m.assignment {
	case config.AssignmentGreedy:
		assign = greedyAssign(rows, len(setB))
	case config.AssignmentOptimal:
		assign = optimalAssign(rows, len(setB))
	default:
		return Result{}, fmt.Errorf("match: unsupported assignment %q", m.assignment)
	}

	result := Result{
		Matches:    []entity.MatchResult{},
		UnmatchedA: []entity.SourceEntity{},
		UnmatchedB: []entity.SourceEntity{},
	}
	for _, row := range rows {
		for _, p := range row {
			if p.Viable {
				result.ViablePairs++
			}
			if p.Gated {
				result.GatedPairs++
			}
		}
	}

	claimed := make([]bool, len(setB))
	for i, j := range assign {
		if j < 0 {
			result.UnmatchedA = append(result.UnmatchedA, setA[i])
			continue
		}
		claimed[j] = true
		result.Matches = append(result.Matches, rows[i][j].Result)
	}
	for j, e := range setB {
		if !claimed[j] {
			result.UnmatchedB = append(result.UnmatchedB, e)
		}
	}
	return result, nil
}
