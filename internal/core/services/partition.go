package services

import (
	"time"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
)

// Partition splits a region's candidates into recent and historical
// sets. A record is recent iff now - CreatedAt <= window, with a single
// captured now for the whole run so the boundary is consistent across
// regions. No record is discarded: the two slices partition the input
// exactly, and each record is tagged with its temporal class.
func Partition(records []domain.Record, now time.Time, window time.Duration) (recent, historical []domain.Record) {
	for _, rec := range records {
		if now.Sub(rec.CreatedAt) <= window {
			rec.Recent = true
			recent = append(recent, rec)
		} else {
			rec.Recent = false
			historical = append(historical, rec)
		}
	}
	return recent, historical
}
