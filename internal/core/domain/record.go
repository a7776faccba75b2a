package domain

import "time"

// Record is one candidate contact entity in the selection pool.
// The core never mutates Payload; it only annotates region and
// selection provenance.
type Record struct {
	// ID is the unique identifier for the record.
	ID string

	// LocalitySignal is the raw token used for region resolution,
	// typically the leading digits of a phone number.
	LocalitySignal string

	// CreatedAt is when the record entered the upstream system.
	CreatedAt time.Time

	// Payload holds opaque upstream fields, passed through unchanged.
	Payload map[string]string

	// Region is the resolved region, annotated by the builder.
	Region RegionID

	// Recent marks records created within the recency window,
	// annotated by the temporal partitioner.
	Recent bool

	// Duplicate marks reconciler-introduced copies for audit.
	Duplicate bool
}

// Clone returns a copy of the record suitable for duplication.
// Payload is shared, not copied: the core treats it as immutable.
func (r Record) Clone() Record {
	return r
}

// SelectionResult is the final ordered call list plus its run report.
type SelectionResult struct {
	// Records is the assembled output, in final shuffled order.
	// Length equals the configured target total unless the combined
	// pool was insufficient; the report carries the shortfall.
	Records []Record

	// Report summarises the run for audit and notification.
	Report RunReport
}
