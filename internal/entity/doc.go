// Package entity defines the records exchanged between the matching core and
// its collaborators.
//
// SourceEntity and ExtractionCandidate are read-only inputs supplied by data
// providers and page extraction strategies. MatchResult is a transient scoring
// outcome used only to drive assignment, and MergedRecord is the durable output
// handed back to callers. Optional values are explicit: pointers for
// coordinates and distances, empty strings for absent text.
//
// Input validation lives here as well so every entry point (matcher,
// aggregator, file loaders) rejects contract violations the same way.
package entity
