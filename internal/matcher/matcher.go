// Package matcher selects the nearest available rider for a user.
package matcher

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/b3nnytran/ride-sharing/internal/distance"
	"github.com/b3nnytran/ride-sharing/internal/models"
	"github.com/b3nnytran/ride-sharing/internal/observability"
)

// ErrNoRiderAvailable reports an empty candidate set. It is an expected
// outcome, not a failure of the matching pipeline.
var ErrNoRiderAvailable = errors.New("no available riders")

// AvailabilityFilter lists riders currently eligible for matching.
type AvailabilityFilter interface {
	ListAvailable(ctx context.Context) ([]models.Rider, error)
}

type Service struct {
	Riders   AvailabilityFilter
	Distance distance.Provider

	mu  sync.Mutex
	rnd *rand.Rand
}

// New builds a matcher. rnd breaks distance ties; passing a seeded
// source makes tie resolution deterministic in tests, nil gets a
// time-seeded one.
func New(riders AvailabilityFilter, provider distance.Provider, rnd *rand.Rand) *Service {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{Riders: riders, Distance: provider, rnd: rnd}
}

type candidate struct {
	riderID int64
	dist    float64
}

// FindNearestRider returns the available rider with the minimum
// distance to the user. Riders whose distance is unknown to a
// relation-backed provider are not candidates. Ties on the exact
// minimum value are broken uniformly at random.
func (s *Service) FindNearestRider(ctx context.Context, userID int64) (models.Match, error) {
	riders, err := s.Riders.ListAvailable(ctx)
	if err != nil {
		return models.Match{}, fmt.Errorf("list available riders: %w", err)
	}
	if len(riders) == 0 {
		observability.MatchMissesTotal.Inc()
		return models.Match{}, ErrNoRiderAvailable
	}

	cands := make([]candidate, 0, len(riders))
	for _, r := range riders {
		d, err := s.Distance.Distance(ctx, userID, r.ID)
		if errors.Is(err, distance.ErrNoDistance) {
			continue
		}
		if err != nil {
			return models.Match{}, fmt.Errorf("distance to rider %d: %w", r.ID, err)
		}
		cands = append(cands, candidate{riderID: r.ID, dist: d})
	}
	if len(cands) == 0 {
		observability.MatchMissesTotal.Inc()
		return models.Match{}, ErrNoRiderAvailable
	}

	min := cands[0].dist
	for _, c := range cands[1:] {
		if c.dist < min {
			min = c.dist
		}
	}

	// exact equality on the stored value, not epsilon-tolerant
	tie := cands[:0:0]
	for _, c := range cands {
		if c.dist == min {
			tie = append(tie, c)
		}
	}

	chosen := tie[0]
	if len(tie) > 1 {
		chosen = tie[s.pick(len(tie))]
	}

	observability.MatchesTotal.Inc()
	return models.Match{RiderID: chosen.riderID, DistanceKm: chosen.dist}, nil
}

func (s *Service) pick(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}
