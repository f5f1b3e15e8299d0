// Package aggregate fuses menu item candidates produced by several
// extraction strategies run against the same page.
//
// Candidates whose names normalize to the same key describe one menu item.
// Each group collapses to its strongest candidate, which then carries the
// union of every strategy that observed the item.
package aggregate
