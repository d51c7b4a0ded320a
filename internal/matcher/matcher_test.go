package matcher

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/b3nnytran/ride-sharing/internal/distance"
	"github.com/b3nnytran/ride-sharing/internal/models"
)

type fakeRiders struct {
	riders []models.Rider
	err    error
}

func (f *fakeRiders) ListAvailable(ctx context.Context) ([]models.Rider, error) {
	return f.riders, f.err
}

type fakeDistances struct{ dists map[int64]float64 }

func (f *fakeDistances) Distance(ctx context.Context, userID, riderID int64) (float64, error) {
	d, ok := f.dists[riderID]
	if !ok {
		return 0, distance.ErrNoDistance
	}
	return d, nil
}

func riders(ids ...int64) []models.Rider {
	out := make([]models.Rider, len(ids))
	for i, id := range ids {
		out[i] = models.Rider{ID: id, Status: models.RiderAvailable}
	}
	return out
}

func TestFindNearestRiderPicksMinimum(t *testing.T) {
	s := New(
		&fakeRiders{riders: riders(1, 2, 3)},
		&fakeDistances{dists: map[int64]float64{1: 5.2, 2: 1.4, 3: 9.9}},
		rand.New(rand.NewSource(1)),
	)
	m, err := s.FindNearestRider(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.RiderID != 2 || m.DistanceKm != 1.4 {
		t.Fatalf("got rider=%d dist=%v, want rider=2 dist=1.4", m.RiderID, m.DistanceKm)
	}
}

func TestFindNearestRiderNoRiders(t *testing.T) {
	s := New(&fakeRiders{}, &fakeDistances{}, nil)
	if _, err := s.FindNearestRider(context.Background(), 1); !errors.Is(err, ErrNoRiderAvailable) {
		t.Fatalf("expected ErrNoRiderAvailable, got %v", err)
	}
}

func TestFindNearestRiderSkipsUnknownDistances(t *testing.T) {
	// rider 2 has no distance entry and must not be a candidate even
	// though it is available
	s := New(
		&fakeRiders{riders: riders(1, 2)},
		&fakeDistances{dists: map[int64]float64{1: 7.0}},
		nil,
	)
	m, err := s.FindNearestRider(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.RiderID != 1 {
		t.Fatalf("got rider=%d, want 1", m.RiderID)
	}
}

func TestFindNearestRiderAllUnknown(t *testing.T) {
	s := New(&fakeRiders{riders: riders(1, 2)}, &fakeDistances{}, nil)
	if _, err := s.FindNearestRider(context.Background(), 1); !errors.Is(err, ErrNoRiderAvailable) {
		t.Fatalf("expected ErrNoRiderAvailable, got %v", err)
	}
}

func TestFindNearestRiderTieBreakUniform(t *testing.T) {
	s := New(
		&fakeRiders{riders: riders(1, 2, 3)},
		&fakeDistances{dists: map[int64]float64{1: 2.0, 2: 2.0, 3: 8.0}},
		rand.New(rand.NewSource(42)),
	)
	counts := map[int64]int{}
	for i := 0; i < 2000; i++ {
		m, err := s.FindNearestRider(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.RiderID == 3 {
			t.Fatalf("rider 3 is not in the tie set")
		}
		counts[m.RiderID]++
	}
	for _, id := range []int64{1, 2} {
		if counts[id] < 800 {
			t.Fatalf("tie-break skewed: counts=%v", counts)
		}
	}
}

func TestFindNearestRiderListError(t *testing.T) {
	s := New(&fakeRiders{err: errors.New("boom")}, &fakeDistances{}, nil)
	if _, err := s.FindNearestRider(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
}
