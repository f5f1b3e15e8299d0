// Package sources loads provider restaurant exports and menu extraction
// candidates from JSON files into entity types.
//
// Restaurant files carry an optional file-level origin tag and a list under
// "restaurants" or "all_restaurants". Known keys map onto SourceEntity
// fields; everything else is kept as an attribute for merging.
package sources
