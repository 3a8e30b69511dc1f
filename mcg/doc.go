// Package mcg drives the MK66 multipurpose clock generator through its
// legal mode transitions.
//
// The MCG has eight documented configurations (FEI, FEE, FBI, FBE, PBE,
// PEE, BLPI, BLPE) and a directed legality graph between them: not every
// pair is adjacent, PLL modes are reachable only through the external
// bypass, and the external reference select cannot change while an
// external mode is active. Driver.Step performs exactly one edge of that
// graph toward a Target and confirms it by polling the status register;
// callers walk multi-hop routes by calling Step until Reached reports the
// target satisfied.
//
// PLL and FLL output frequencies come from fixed hardware tables.
// Requests outside the tables fail before any register is written.
package mcg
