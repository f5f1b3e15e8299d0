package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"menumerge/internal/aggregate"
	"menumerge/internal/config"
	"menumerge/internal/entity"
	"menumerge/internal/history"
	"menumerge/internal/logging"
	"menumerge/internal/matching"
	"menumerge/internal/merge"
)

// Service coordinates matching, merging, aggregation, and run history.
type Service struct {
	store      *history.Store
	logger     *slog.Logger
	matcher    *matching.Matcher
	merger     *merge.Merger
	aggregator *aggregate.Aggregator
}

// NewService constructs a service from configuration. store may be nil to
// skip run history.
func NewService(cfg *config.Config, store *history.Store, logger *slog.Logger) *Service {
	return NewServiceWithDependencies(
		store, logger,
		matching.NewFromConfig(cfg),
		merge.New(merge.RulesFromConfig(cfg.Merge)),
		aggregate.NewFromConfig(cfg),
	)
}

// NewServiceWithDependencies allows injecting collaborators (used in tests).
func NewServiceWithDependencies(store *history.Store, logger *slog.Logger, matcher *matching.Matcher, merger *merge.Merger, aggregator *aggregate.Aggregator) *Service {
	return &Service{
		store:      store,
		logger:     logging.NewComponentLogger(logger, "reconcile"),
		matcher:    matcher,
		merger:     merger,
		aggregator: aggregator,
	}
}

// RestaurantInput names and carries the two provider sets for one run.
type RestaurantInput struct {
	LabelA string
	LabelB string
	SetA   []entity.SourceEntity
	SetB   []entity.SourceEntity
}

// RestaurantReport is the outcome of a linkage run.
type RestaurantReport struct {
	RunID       string                `json:"run_id"`
	Assignment  string                `json:"assignment"`
	Stats       merge.Stats           `json:"stats"`
	ViablePairs int                   `json:"viable_pairs"`
	GatedPairs  int                   `json:"gated_pairs"`
	Matches     []entity.MatchResult  `json:"matches"`
	Records     []entity.MergedRecord `json:"records"`
}

// ReconcileRestaurants links setA to setB and merges the result.
func (s *Service) ReconcileRestaurants(ctx context.Context, in RestaurantInput) (*RestaurantReport, error) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, s.logger)

	logger.Info(
		"restaurant reconciliation started",
		logging.String("input_a", in.LabelA),
		logging.String("input_b", in.LabelB),
		logging.Int("set_a", len(in.SetA)),
		logging.Int("set_b", len(in.SetB)),
		logging.String("assignment", s.matcher.Assignment()),
	)
	s.warnDegraded(logger, "set_a", in.SetA)
	s.warnDegraded(logger, "set_b", in.SetB)

	res, err := s.matcher.Match(in.SetA, in.SetB)
	if err != nil {
		return nil, fmt.Errorf("reconcile restaurants: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.logDecisions(logger, res)

	records := s.merger.MergeAll(res, in.SetA, in.SetB)
	stats := merge.Summarize(res, records)
	report := &RestaurantReport{
		RunID:       runID,
		Assignment:  s.matcher.Assignment(),
		Stats:       stats,
		ViablePairs: res.ViablePairs,
		GatedPairs:  res.GatedPairs,
		Matches:     res.Matches,
		Records:     records,
	}

	logger.Info(
		"restaurant reconciliation complete",
		logging.Int("records", stats.TotalRecords),
		logging.Int("matches", stats.Matches),
		logging.Int("unmatched_a", stats.UnmatchedA),
		logging.Int("unmatched_b", stats.UnmatchedB),
		logging.Float64("match_rate", stats.MatchRate),
		logging.Float64("average_confidence", stats.AverageConfidence),
		logging.Float64("average_quality", stats.AverageQuality),
		logging.Int("gated_pairs", res.GatedPairs),
	)

	if s.store != nil {
		_, err := s.store.RecordRestaurantRun(ctx, history.RestaurantRun{
			ID:         runID,
			InputA:     in.LabelA,
			InputB:     in.LabelB,
			Assignment: report.Assignment,
			Summary:    summaryOf(stats),
			Records:    records,
		})
		s.logPersist(logger, err)
	}
	return report, nil
}

// MenuInput carries candidates for one page. Cap <= 0 keeps every item.
type MenuInput struct {
	Label      string
	Candidates []entity.ExtractionCandidate
	Cap        int
}

// MenuReport is the outcome of a menu fusion run.
type MenuReport struct {
	RunID      string                       `json:"run_id"`
	Candidates int                          `json:"candidates"`
	Groups     int                          `json:"groups"`
	Items      []entity.ExtractionCandidate `json:"items"`
}

// AggregateMenu collapses candidates into a ranked, capped item list.
func (s *Service) AggregateMenu(ctx context.Context, in MenuInput) (*MenuReport, error) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, s.logger)

	logger.Info(
		"menu aggregation started",
		logging.String("input", in.Label),
		logging.Int("candidates", len(in.Candidates)),
		logging.Int("cap", in.Cap),
	)

	groups, err := s.aggregator.Groups(in.Candidates)
	if err != nil {
		return nil, fmt.Errorf("aggregate menu: %w", err)
	}
	items, err := s.aggregator.Aggregate(in.Candidates, in.Cap)
	if err != nil {
		return nil, fmt.Errorf("aggregate menu: %w", err)
	}
	if dropped := len(groups) - len(items); dropped > 0 {
		logger.Debug(
			"menu items dropped by cap",
			logging.Args(append(
				logging.DecisionAttrs("aggregation_cap", "truncated", fmt.Sprintf("cap %d", in.Cap)),
				logging.Int("dropped", dropped),
			)...)...,
		)
	}

	logger.Info(
		"menu aggregation complete",
		logging.Int("groups", len(groups)),
		logging.Int("items", len(items)),
	)

	if s.store != nil {
		_, err := s.store.RecordMenuRun(ctx, history.MenuRun{ID: runID, Input: in.Label, Items: items})
		s.logPersist(logger, err)
	}
	return &MenuReport{RunID: runID, Candidates: len(in.Candidates), Groups: len(groups), Items: items}, nil
}

func (s *Service) logDecisions(logger *slog.Logger, res matching.Result) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for _, m := range res.Matches {
		attrs := logging.DecisionAttrs("entity_match", "linked", fmt.Sprintf("confidence %.2f", m.Confidence))
		attrs = append(attrs,
			logging.String("entity_a", m.EntityA.String()),
			logging.String("entity_b", m.EntityB.String()),
			logging.Float64("name_similarity", m.NameSimilarity),
			logging.Bool("phone_match", m.PhoneMatch),
			logging.Float64("geo_score", m.GeoScore),
		)
		if m.GeoDistanceM != nil {
			attrs = append(attrs, logging.Float64("geo_distance_m", *m.GeoDistanceM))
		}
		logger.Debug("match decision", logging.Args(attrs...)...)
	}
	for _, e := range res.UnmatchedA {
		s.logSingleton(logger, "set_a", e)
	}
	for _, e := range res.UnmatchedB {
		s.logSingleton(logger, "set_b", e)
	}
}

func (s *Service) logSingleton(logger *slog.Logger, set string, e entity.SourceEntity) {
	attrs := logging.DecisionAttrs("entity_match", "singleton", "no viable partner")
	attrs = append(attrs,
		logging.String("set", set),
		logging.String("entity", e.Key().String()),
	)
	logger.Debug("match decision", logging.Args(attrs...)...)
}

func (s *Service) warnDegraded(logger *slog.Logger, set string, entities []entity.SourceEntity) {
	var noCoords, noPhone, noName int
	for _, e := range entities {
		if !e.Coordinates.Valid() {
			noCoords++
		}
		if _, ok := e.Field(entity.FieldPhone); !ok {
			noPhone++
		}
		if _, ok := e.Field(entity.FieldName); !ok {
			noName++
		}
	}
	if noCoords == 0 && noPhone == 0 && noName == 0 {
		return
	}
	logging.WarnWithContext(logger, "input set has degraded signals", "degraded_input",
		logging.String("set", set),
		logging.Int("missing_coordinates", noCoords),
		logging.Int("missing_phone", noPhone),
		logging.Int("missing_name", noName),
		logging.String(logging.FieldImpact, "affected pairs score on the remaining signals"),
	)
}

func (s *Service) logPersist(logger *slog.Logger, err error) {
	if err == nil {
		logger.Debug("run recorded", logging.String("history", s.store.Path()))
		return
	}
	logging.WarnWithContext(logger, "failed to record run history", "history_write_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check data_dir permissions and disk space"),
		logging.String(logging.FieldImpact, "run output is returned but not listed in history"),
	)
}

func summaryOf(stats merge.Stats) history.Summary {
	return history.Summary{
		TotalRecords:      stats.TotalRecords,
		Matches:           stats.Matches,
		UnmatchedA:        stats.UnmatchedA,
		UnmatchedB:        stats.UnmatchedB,
		MatchRate:         stats.MatchRate,
		AverageConfidence: stats.AverageConfidence,
		AverageQuality:    stats.AverageQuality,
	}
}
