package domain

// RegionID is a canonical region identifier, typically a two-letter
// state abbreviation.
type RegionID string

// RegionUnresolved is the pseudo-region for records whose locality
// signal has no entry in the region map. It participates in selection
// only when the weight table carries an explicit entry for it.
const RegionUnresolved RegionID = "UNRESOLVED"

// String returns the string representation.
func (r RegionID) String() string {
	return string(r)
}

// IsUnresolved reports whether the region is the unresolved sentinel.
func (r RegionID) IsUnresolved() bool {
	return r == RegionUnresolved
}

// RegionWeight pairs a region with its population fraction.
// Weights need not sum to 1; the quota calculator normalises them.
// The slice order given by the caller is significant: it is the stable
// tie-break order for remainder assignment.
type RegionWeight struct {
	// Region is the canonical region identifier.
	Region RegionID

	// Weight is the non-negative population fraction.
	Weight float64
}

// Quota is a region's share of the global target.
type Quota struct {
	// Region is the region this quota belongs to.
	Region RegionID

	// Target is the number of records to select for the region.
	Target int

	// Allocated is the running tally of records selected so far.
	// It never exceeds Target during normal selection; only the
	// reconciler may push the aggregate past per-region targets,
	// and only via tagged historical duplicates.
	Allocated int
}

// Remaining returns how many slots the quota still has open.
func (q Quota) Remaining() int {
	if q.Allocated >= q.Target {
		return 0
	}
	return q.Target - q.Allocated
}
