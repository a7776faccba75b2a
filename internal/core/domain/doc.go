// Package domain defines the core business entities for ListIQ.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: A contactable record from the pool
//   - RegionID / RegionWeight: Region identity and population weight
//   - RunConfig: Parameters for one list build
//   - RunReport: The audit summary of a completed build
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
