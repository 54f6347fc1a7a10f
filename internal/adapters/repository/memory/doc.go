// Package memory provides mutex-guarded in-memory implementations of the
// repository ports. They back unit tests and local wiring; each port method
// keeps the same atomicity contract the Postgres adapter gets from
// single-statement updates, just under a store mutex instead.
package memory
