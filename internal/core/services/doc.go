// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The selection engine (quota, partition, selector, reconciler,
// assembler, builder) is pure: given the same pool, weights and seed
// it produces the same list. All I/O happens in the orchestrator and
// the adapters it calls.
package services
