// Package history persists reconciliation runs in a local SQLite database.
//
// Each run is identified by a random UUID and stores its summary statistics
// alongside the merged restaurant records or fused menu items it produced, so
// earlier outputs can be listed and inspected from the CLI. The schema is
// versioned through embedded SQL migrations applied on Open.
package history
