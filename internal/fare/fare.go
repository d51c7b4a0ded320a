// Package fare computes trip fares with incremental tiered pricing:
// each successive distance slice is billed at its own per-km rate, so
// the fare is continuous at slice boundaries.
package fare

import (
	"math"

	"github.com/b3nnytran/ride-sharing/internal/models"
)

const (
	firstSliceKm   = 1.0 // first kilometre
	secondSliceKm  = 3.0 // 2nd through 4th kilometre
	firstSliceRate = 10000.0
	secondSliceRate = 15000.0
	remainderRate  = 12000.0
)

// Calculate returns the fare for a trip of the given length. Distances
// at or below zero cost nothing.
func Calculate(distanceKm float64) float64 {
	if distanceKm <= 0 {
		return 0
	}
	remaining := distanceKm
	total := 0.0

	slice := math.Min(remaining, firstSliceKm)
	total += slice * firstSliceRate
	remaining -= slice

	if remaining > 0 {
		slice = math.Min(remaining, secondSliceKm)
		total += slice * secondSliceRate
		remaining -= slice
	}

	if remaining > 0 {
		total += remaining * remainderRate
	}

	return models.Round2(total)
}
