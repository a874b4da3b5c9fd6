// Package logging provides a minimal logging interface and adapters for the
// actormesh runtime.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the registry, runtimes and domain actors use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - RuntimeLogger with contextual helpers for component and runtime ids
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
