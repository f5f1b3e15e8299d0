// Package merge builds authoritative restaurant records from matched pairs
// and unmatched singletons.
//
// Every output field is resolved independently through an ordered list of
// selectors ("a", "b", or a provider origin tag); the first populated value
// wins and is stamped with the provider that supplied it. A completeness
// checklist turns the resolved fields into a quality score, and Summarize
// reports run-level linkage statistics.
package merge
