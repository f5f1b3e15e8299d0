// Package textutil provides the text canonicalization shared by restaurant
// linkage and menu candidate fusion.
//
// The primary use cases are:
//   - Normalizing free-text venue and dish names into comparison keys
//   - Computing edit-distance similarity between normalized names
//   - Reducing phone numbers to comparable digit strings
//
// Every function here is pure: identical input always yields identical output,
// which the matcher and aggregator rely on for deterministic grouping.
package textutil
