package domain

import (
	"fmt"
	"sort"
	"time"
)

// RunReport summarises one list build for audit and notification.
type RunReport struct {
	// RunID is the unique identifier for the run.
	RunID string

	// StartedAt is when the build started.
	StartedAt time.Time

	// FinishedAt is when the build completed.
	FinishedAt time.Time

	// Target is the configured global target total.
	Target int

	// Selected is the final output length. Equals Target unless the
	// pool was insufficient.
	Selected int

	// Shortfall is Target - Selected when the pool was insufficient,
	// zero otherwise.
	Shortfall int

	// Duplicates is the number of reconciler-introduced copies.
	Duplicates int

	// RecentCount is the number of recent-tagged records in the output.
	RecentCount int

	// UnresolvedExcluded is the number of pool records excluded because
	// their locality signal resolved to no region and the weight table
	// carried no explicit unresolved entry.
	UnresolvedExcluded int

	// UnweightedExcluded is the number of pool records excluded because
	// their region, while resolved, has no weight table entry and so
	// receives no quota.
	UnweightedExcluded int

	// PerRegion maps each region to its output record count.
	PerRegion map[RegionID]int
}

// RecentShare returns the fraction of output records that are recent.
func (r RunReport) RecentShare() float64 {
	if r.Selected == 0 {
		return 0
	}
	return float64(r.RecentCount) / float64(r.Selected)
}

// Regions returns the report's regions sorted by identifier, for
// stable rendering.
func (r RunReport) Regions() []RegionID {
	regions := make([]RegionID, 0, len(r.PerRegion))
	for region := range r.PerRegion {
		regions = append(regions, region)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i] < regions[j] })
	return regions
}

// StepStatus records the outcome of one pipeline step for the status
// notification, matching the step-by-step report the job has always
// mailed out.
type StepStatus struct {
	// Step is the step name, e.g. "Record Pool Fetch".
	Step string

	// Status is "Success" or a "Failed: ..." message.
	Status string
}

// StepTrace is the ordered list of step statuses for one run.
type StepTrace []StepStatus

// Succeed appends a successful step.
func (t *StepTrace) Succeed(step string) {
	*t = append(*t, StepStatus{Step: step, Status: "Success"})
}

// Fail appends a failed step.
func (t *StepTrace) Fail(step string, err error) {
	*t = append(*t, StepStatus{Step: step, Status: fmt.Sprintf("Failed: %v", err)})
}

// HasFailure reports whether any step failed.
func (t StepTrace) HasFailure() bool {
	for _, s := range t {
		if s.Status != "Success" {
			return true
		}
	}
	return false
}
