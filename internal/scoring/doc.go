// Package scoring computes the per-pair similarity signals used to link
// restaurant records across providers.
//
// A Scorer combines three independent signals (normalized-name edit
// similarity, exact phone agreement, and proximity within a distance gate)
// into one weighted confidence. Pairs farther apart than the gate never
// become viable regardless of how well their names or phones agree.
package scoring
