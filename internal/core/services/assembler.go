package services

import (
	"math/rand"

	"github.com/listiq-labs/listiq-cli/internal/core/domain"
)

// Assemble performs the run's single full shuffle over the reconciled
// set. Upstream steps leave the list grouped region by region and
// recent-before-historical; this unbiased permutation is the only step
// allowed to change relative order, and it exists to erase exactly
// that grouping.
func Assemble(records []domain.Record, rng *rand.Rand) []domain.Record {
	out := make([]domain.Record, len(records))
	copy(out, records)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
