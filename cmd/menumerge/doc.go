// Package main hosts the menumerge CLI entrypoint and command graph.
//
// The Cobra-based command tree loads provider exports and extraction
// candidates from disk, runs them through the reconcile service, and renders
// the outcome as tables or JSON. It centralizes configuration resolution,
// logging setup, and history store access so subcommands stay declarative.
package main
