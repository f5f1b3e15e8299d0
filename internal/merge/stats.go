package merge

import (
	"menumerge/internal/entity"
	"menumerge/internal/matching"
)

// Stats summarizes one linkage run.
type Stats struct {
	TotalRecords int `json:"total_records"`
	Matches      int `json:"matches"`
	UnmatchedA   int `json:"unmatched_a"`
	UnmatchedB   int `json:"unmatched_b"`
	// MatchRate is matches as a percentage of the smaller input set.
	MatchRate         float64        `json:"match_rate"`
	AverageConfidence float64        `json:"average_confidence"`
	AverageQuality    float64        `json:"average_quality"`
	SourceCounts      map[string]int `json:"source_counts"`
}

// Summarize computes run statistics from a match result and its merged records.
func Summarize(res matching.Result, records []entity.MergedRecord) Stats {
	stats := Stats{
		TotalRecords: len(records),
		Matches:      len(res.Matches),
		UnmatchedA:   len(res.UnmatchedA),
		UnmatchedB:   len(res.UnmatchedB),
		SourceCounts: make(map[string]int),
	}

	smaller := min(stats.Matches+stats.UnmatchedA, stats.Matches+stats.UnmatchedB)
	if smaller > 0 {
		stats.MatchRate = round(float64(stats.Matches)/float64(smaller)*100, 1)
	}

	if stats.Matches > 0 {
		var total float64
		for _, m := range res.Matches {
			total += m.Confidence
		}
		stats.AverageConfidence = round(total/float64(stats.Matches), 2)
	}

	if len(records) > 0 {
		var total float64
		for _, r := range records {
			total += r.QualityScore
			for _, src := range r.DataSources {
				stats.SourceCounts[src]++
			}
		}
		stats.AverageQuality = round(total/float64(len(records)), 2)
	}
	return stats
}
