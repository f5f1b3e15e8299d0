package matching

import (
	"sort"

	"menumerge/internal/scoring"
)

// greedyAssign walks rows in order and gives each its highest-confidence
// viable column not already claimed. Equal confidences fall back to column
// order. The returned slice maps row to column, or -1 when unmatched.
func greedyAssign(rows [][]scoring.Pair, cols int) []int {
	assign := make([]int, len(rows))
	claimed := make([]bool, cols)
	for i, row := range rows {
		assign[i] = -1
		candidates := make([]int, 0, len(row))
		for j, p := range row {
			if p.Viable {
				candidates = append(candidates, j)
			}
		}
		sort.SliceStable(candidates, func(x, y int) bool {
			return row[candidates[x]].Result.Confidence > row[candidates[y]].Result.Confidence
		})
		for _, j := range candidates {
			if claimed[j] {
				continue
			}
			claimed[j] = true
			assign[i] = j
			break
		}
	}
	return assign
}
