// Package pkg provides shared utilities for the mk66clk clock driver.
//
// This package contains common functionality used across the register
// model, state machine, and manager packages, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error types for clock hardware faults
//   - Component identifiers for log filtering
//
// # Logging
//
// The logging subsystem wraps [log/slog] with clock-specific context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentClock, "system clock changed", "core_hz", hz)
//
// # Errors
//
// Clock driver errors are defined as sentinel values:
//
//	if errors.Is(err, pkg.ErrClockFault) {
//	    // A status bit never flipped; the hardware is suspect.
//	}
package pkg
