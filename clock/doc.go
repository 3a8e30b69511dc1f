// Package clock is the system clock manager for the MK66 clock tree.
//
// A Manager owns the whole reconfiguration: it validates the request,
// raises the bus and flash dividers and escalates the run mode ahead of an
// upshift, walks the MCG mode graph one verified transition at a time,
// then relaxes the dividers and run mode after a downshift. Peripheral
// drivers consult the Manager's frequency getters instead of recomputing
// the tree themselves.
package clock
