// Package orchestrator wires the loader → store → renderer → output pipeline
// and mounts controllers on rendered trees, providing dependency injection
// friendly helpers for consumers that prefer a single entry point.
package orchestrator
