package aggregate

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"menumerge/internal/config"
	"menumerge/internal/entity"
	"menumerge/internal/textutil"
)

const defaultMinKeyLength = 2

// Group is the set of candidates sharing one normalized name, in input order.
type Group struct {
	Key     string                       `json:"key"`
	Members []entity.ExtractionCandidate `json:"members"`
}

// Options configures an Aggregator.
type Options struct {
	// MinKeyLength drops candidates whose normalized name is shorter, in runes.
	// Zero keeps every non-empty key.
	MinKeyLength int
}

// Aggregator groups and collapses extraction candidates.
type Aggregator struct {
	minKeyLength int
}

// New constructs an Aggregator.
func New(opts Options) *Aggregator {
	return &Aggregator{minKeyLength: max(0, opts.MinKeyLength)}
}

// NewFromConfig builds an Aggregator from the aggregation configuration section.
func NewFromConfig(cfg *config.Config) *Aggregator {
	return New(Options{MinKeyLength: cfg.Aggregation.MinKeyLength})
}

// Default returns an Aggregator with the stock two-rune key floor.
func Default() *Aggregator {
	return New(Options{MinKeyLength: defaultMinKeyLength})
}

// Groups validates candidates and partitions them by normalized name.
// Groups are ordered by the position of their first member.
func (a *Aggregator) Groups(candidates []entity.ExtractionCandidate) ([]Group, error) {
	if err := entity.ValidateCandidates(candidates); err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	groups := make([]Group, 0)
	index := make(map[string]int)
	for _, c := range candidates {
		key := textutil.NormalizeName(c.RawName)
		if key == "" || utf8.RuneCountInString(key) < a.minKeyLength {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Members = append(groups[i].Members, c)
	}
	return groups, nil
}

// Aggregate collapses each group to its winning candidate and returns the
// winners by confidence descending, truncated to limit. A limit <= 0 keeps
// every group.
func (a *Aggregator) Aggregate(candidates []entity.ExtractionCandidate, limit int) ([]entity.ExtractionCandidate, error) {
	groups, err := a.Groups(candidates)
	if err != nil {
		return nil, err
	}

	out := make([]entity.ExtractionCandidate, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.collapse())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// collapse picks the member with the highest (confidence, distinct sources)
// and widens it with the rest of the group.
func (g Group) collapse() entity.ExtractionCandidate {
	best := 0
	for i := 1; i < len(g.Members); i++ {
		c, w := g.Members[i], g.Members[best]
		if c.Confidence > w.Confidence ||
			(c.Confidence == w.Confidence && len(tagSet(c.OriginTags)) > len(tagSet(w.OriginTags))) {
			best = i
		}
	}
	winner := g.Members[best]

	union := make(map[string]struct{})
	for _, m := range g.Members {
		for tag := range tagSet(m.OriginTags) {
			union[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(union))
	for tag := range union {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	winner.OriginTags = tags

	donors := make([]entity.ExtractionCandidate, len(g.Members))
	copy(donors, g.Members)
	sort.SliceStable(donors, func(i, j int) bool {
		return donors[i].Confidence > donors[j].Confidence
	})
	for _, d := range donors {
		if winner.Price == "" {
			winner.Price = d.Price
		}
		if winner.Description == "" {
			winner.Description = d.Description
		}
		if winner.Category == "" {
			winner.Category = d.Category
		}
	}
	return winner
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if tag != "" {
			set[tag] = struct{}{}
		}
	}
	return set
}
