package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/b3nnytran/ride-sharing/internal/models"
)

func TestCreateRideForcesPending(t *testing.T) {
	s := NewMemoryRideStore()
	r, err := s.CreateRide(context.Background(), models.Ride{
		UserID: 1, RiderID: 2, Status: models.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != models.StatusPending {
		t.Fatalf("status = %q, want Pending", r.Status)
	}
	if r.ID == 0 || r.CreatedAt.IsZero() || r.UpdatedAt.IsZero() {
		t.Fatalf("bookkeeping fields not set: %+v", r)
	}
}

func TestUpdateRideStatus(t *testing.T) {
	s := NewMemoryRideStore()
	ctx := context.Background()
	r, _ := s.CreateRide(ctx, models.Ride{UserID: 1, RiderID: 2})

	upd, err := s.UpdateRideStatus(ctx, r.ID, models.StatusInProgress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Status != models.StatusInProgress {
		t.Fatalf("status = %q, want In Progress", upd.Status)
	}

	// any member of the set is reachable from any other
	if _, err := s.UpdateRideStatus(ctx, r.ID, models.StatusPending); err != nil {
		t.Fatalf("back to Pending: %v", err)
	}
}

func TestUpdateRideStatusInvalid(t *testing.T) {
	s := NewMemoryRideStore()
	ctx := context.Background()
	r, _ := s.CreateRide(ctx, models.Ride{UserID: 1, RiderID: 2})

	if _, err := s.UpdateRideStatus(ctx, r.ID, models.RideStatus("Teleported")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("got %v, want ErrInvalidStatus", err)
	}
	got, _ := s.GetRide(ctx, r.ID)
	if got.Status != models.StatusPending {
		t.Fatalf("record mutated by rejected update: %q", got.Status)
	}
}

func TestUpdateRideStatusNotFound(t *testing.T) {
	s := NewMemoryRideStore()
	if _, err := s.UpdateRideStatus(context.Background(), 99, models.StatusCompleted); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListRidesByParty(t *testing.T) {
	s := NewMemoryRideStore()
	ctx := context.Background()
	s.CreateRide(ctx, models.Ride{UserID: 1, RiderID: 10})
	s.CreateRide(ctx, models.Ride{UserID: 2, RiderID: 10})
	s.CreateRide(ctx, models.Ride{UserID: 1, RiderID: 11})

	byUser, err := s.ListRidesByUser(ctx, 1)
	if err != nil || len(byUser) != 2 {
		t.Fatalf("ListRidesByUser = (%d, %v), want 2 rides", len(byUser), err)
	}
	byRider, err := s.ListRidesByRider(ctx, 10)
	if err != nil || len(byRider) != 2 {
		t.Fatalf("ListRidesByRider = (%d, %v), want 2 rides", len(byRider), err)
	}
}

func TestListRidesWindow(t *testing.T) {
	s := NewMemoryRideStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		s.CreateRide(ctx, models.Ride{UserID: 1, RiderID: 2})
	}
	page, err := s.ListRides(ctx, 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 2 || page[0].ID != 3 || page[1].ID != 4 {
		t.Fatalf("window wrong: %+v", page)
	}
}
