// Package distance resolves the scalar distance between a user and a
// rider. Two provider variants exist: a static in-process matrix with a
// bounded random fallback (matching service) and a lookup over the
// persisted distance relation (rider service), optionally fronted by a
// Redis cache.
package distance

import (
	"context"
	"errors"
)

// ErrNoDistance reports that no explicit distance entry exists for the
// pair. Matrix-backed providers never return it; relation-backed
// providers use it to exclude the rider from matching.
var ErrNoDistance = errors.New("no distance entry for user/rider pair")

type Provider interface {
	Distance(ctx context.Context, userID, riderID int64) (float64, error)
}
