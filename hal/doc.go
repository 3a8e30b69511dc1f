// Package hal defines the register-level hardware abstraction for the
// MK66 clock tree.
//
// The driver packages (mcg, osc, smc, clock) never touch memory-mapped I/O
// directly; they operate on the Register8/Register32 interfaces and the
// block structs defined here. On target silicon the interfaces are satisfied
// by volatile memory-mapped registers; on a host they are satisfied by the
// simulated backend in hal/sim, which is what the tests and the clkplan
// tool use.
//
// All field updates are read-modify-write so unrelated bits in a control
// register are never disturbed, and every busy-poll goes through Poll8,
// which is bounded by PollBudget and surfaces pkg.ErrClockFault rather
// than hanging on dead hardware.
package hal
