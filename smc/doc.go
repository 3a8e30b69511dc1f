// Package smc drives the MK66 system mode controller's run-mode
// transitions between normal run and high-speed run.
//
// The power mode protection register is one-time-writable after reset;
// the Controller tracks that in software and refuses a second unlock
// instead of silently issuing a write the hardware would ignore.
package smc
