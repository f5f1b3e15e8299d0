package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"menumerge/internal/entity"
	"menumerge/internal/merge"
)

func formatFloat(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}

func formatConfidence(v float64) string {
	if v == 0 {
		return "-"
	}
	return formatFloat(v, 2)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func statsPairs(stats merge.Stats) [][2]string {
	pairs := [][2]string{
		{"Records", strconv.Itoa(stats.TotalRecords)},
		{"Matches", strconv.Itoa(stats.Matches)},
		{"Unmatched A", strconv.Itoa(stats.UnmatchedA)},
		{"Unmatched B", strconv.Itoa(stats.UnmatchedB)},
		{"Match rate", formatFloat(stats.MatchRate, 1) + "%"},
		{"Avg confidence", formatFloat(stats.AverageConfidence, 2)},
		{"Avg quality", formatFloat(stats.AverageQuality, 2)},
	}
	origins := make([]string, 0, len(stats.SourceCounts))
	for origin := range stats.SourceCounts {
		origins = append(origins, origin)
	}
	sort.Strings(origins)
	for _, origin := range origins {
		pairs = append(pairs, [2]string{"Source " + origin, strconv.Itoa(stats.SourceCounts[origin])})
	}
	return pairs
}

func recordRows(records []entity.MergedRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ID,
			valueOrDash(r.Name()),
			strings.Join(r.DataSources, ","),
			formatFloat(r.QualityScore, 2),
			formatConfidence(r.MatchConfidence),
		})
	}
	return rows
}

func renderRecords(records []entity.MergedRecord) string {
	return renderTable(
		[]string{"ID", "Name", "Sources", "Quality", "Confidence"},
		recordRows(records),
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	)
}

func renderMenuItems(items []entity.ExtractionCandidate) string {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.RawName,
			valueOrDash(item.Price),
			valueOrDash(item.Category),
			formatFloat(item.Confidence, 2),
			strings.Join(item.OriginTags, ","),
		})
	}
	return renderTable(
		[]string{"#", "Item", "Price", "Category", "Confidence", "Sources"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignRight, alignLeft},
	)
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
