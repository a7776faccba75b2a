package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunReport_RecentShare(t *testing.T) {
	report := RunReport{Selected: 4000, RecentCount: 2800}
	assert.InDelta(t, 0.7, report.RecentShare(), 1e-9)
}

func TestRunReport_RecentShare_EmptyRun(t *testing.T) {
	report := RunReport{}
	assert.Zero(t, report.RecentShare())
}

func TestRunReport_Regions_Sorted(t *testing.T) {
	report := RunReport{
		PerRegion: map[RegionID]int{"TX": 3, "AL": 1, "FL": 2},
	}

	assert.Equal(t, []RegionID{"AL", "FL", "TX"}, report.Regions())
}

func TestRunReport_Regions_Empty(t *testing.T) {
	report := RunReport{}
	assert.Empty(t, report.Regions())
}

func TestStepTrace_Succeed(t *testing.T) {
	var trace StepTrace
	trace.Succeed("Record Pool Fetch")

	assert.Len(t, trace, 1)
	assert.Equal(t, "Record Pool Fetch", trace[0].Step)
	assert.Equal(t, "Success", trace[0].Status)
	assert.False(t, trace.HasFailure())
}

func TestStepTrace_Fail(t *testing.T) {
	var trace StepTrace
	trace.Succeed("Record Pool Fetch")
	trace.Fail("Export File", errors.New("disk full"))

	assert.Len(t, trace, 2)
	assert.Equal(t, "Failed: disk full", trace[1].Status)
	assert.True(t, trace.HasFailure())
}

func TestStepTrace_OrderPreserved(t *testing.T) {
	var trace StepTrace
	steps := []string{"Region Mapping Data", "Population Weight Table", "Record Pool Fetch", "List Generation"}
	for _, s := range steps {
		trace.Succeed(s)
	}

	for i, s := range steps {
		assert.Equal(t, s, trace[i].Step)
	}
}

func TestRecord_Clone_SharesPayload(t *testing.T) {
	rec := Record{
		ID:      "r1",
		Payload: map[string]string{"phone": "5125551234"},
	}

	clone := rec.Clone()
	clone.Duplicate = true

	assert.False(t, rec.Duplicate)
	assert.Equal(t, rec.ID, clone.ID)
	// Payload is shared by contract.
	assert.Equal(t, rec.Payload, clone.Payload)
}

func TestRegionID_IsUnresolved(t *testing.T) {
	assert.True(t, RegionUnresolved.IsUnresolved())
	assert.False(t, RegionID("TX").IsUnresolved())
	assert.Equal(t, "TX", RegionID("TX").String())
}
