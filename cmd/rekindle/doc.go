// Package main hosts the rekindle CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into
// settings-store scaffolding, validation, kernel runs, and output-store
// inspection. It centralizes configuration resolution and structured
// logging setup so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the
// library packages first, then surface it through dedicated commands or
// flags here.
package main
