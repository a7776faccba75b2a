// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for a list build to run end to end:
//
//   - RecordSource: materialises the eligible record pool
//   - WeightSource: supplies the region population weight table
//   - RegionMapStore: area-code to region lookup table persistence
//   - ListExporter: writes the assembled list for the dialer
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Notifier: status email delivery. Without it, runs are silent.
//   - RunStore: run history persistence. Without it, no audit trail.
//   - SchedulerStore: scheduler crash recovery. Only needed in daemon mode.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
