// Package models defines the core domain models for the bill splitter.
//
// Members of a group are identified by their registered email address, which
// doubles as the key of the group's balance map. Monetary amounts are plain
// float64 values that are only ever written back after rounding to two
// decimals (see the ledger package), so stored values never accumulate
// binary-float drift beyond the 0.01 tolerance.
package models
