package matching

import (
	"math"

	"menumerge/internal/scoring"
)

// optimalAssign computes the maximum-weight bipartite assignment over viable
// pairs. Cost is 1 - confidence for viable cells; every other cell, including
// padding that squares the matrix, carries padCost so it is only chosen when
// no viable partner remains. Assignments landing on such cells are dropped.
func optimalAssign(rows [][]scoring.Pair, cols int) []int {
	n := len(rows)
	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}
	if n == 0 || cols == 0 {
		return assign
	}

	const padCost = 2.0
	size := max(n, cols)
	cost := make([][]float64, size)
	for i := 0; i < size; i++ {
		cost[i] = make([]float64, size)
		for j := 0; j < size; j++ {
			cost[i][j] = padCost
		}
	}
	for i, row := range rows {
		for j, p := range row {
			if !p.Viable {
				continue
			}
			cost[i][j] = max(0, 1-p.Result.Confidence)
		}
	}

	for i, j := range hungarian(cost) {
		if i >= n || j < 0 || j >= cols {
			continue
		}
		if rows[i][j].Viable {
			assign[i] = j
		}
	}
	return assign
}

// hungarian solves the assignment problem for a square cost matrix
// (minimization) using the O(n^3) potentials formulation. It returns the
// column assigned to each row.
func hungarian(cost [][]float64) []int {
	n := len(cost)
	if n == 0 || len(cost[0]) != n {
		return nil
	}

	// Potentials and matching are 1-indexed; column 0 is a virtual source.
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)
	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				if cur := cost[i0-1][j-1] - u[i0] - v[j]; cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}
	for j := 1; j <= n; j++ {
		if p[j] > 0 {
			assign[p[j]-1] = j - 1
		}
	}
	return assign
}
