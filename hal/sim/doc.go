// Package sim provides an in-memory model of the MK66 clock hardware.
//
// The model implements the hal register interfaces over plain bytes and
// keeps its status registers consistent with the control state after every
// write, so the driver's poll loops behave exactly as they do on silicon
// that settles instantly. It additionally counts register writes and can
// freeze its status registers, which the tests use to verify write-free
// idempotence and bounded polling.
//
// The register layout constants here are declared from the reference
// manual, independently of the driver packages: the device models the
// chip, the drivers program it, and the tests check that the two agree.
package sim
