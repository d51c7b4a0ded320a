// Package booking orchestrates the ride request pipeline: match a
// rider, compute the fare, persist the ride, then fan out best-effort
// side effects (event publishing, rider notification, payment hold).
package booking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/b3nnytran/ride-sharing/internal/dispatch"
	"github.com/b3nnytran/ride-sharing/internal/events"
	"github.com/b3nnytran/ride-sharing/internal/fare"
	"github.com/b3nnytran/ride-sharing/internal/models"
	"github.com/b3nnytran/ride-sharing/internal/observability"
	"github.com/b3nnytran/ride-sharing/internal/payments"
	"github.com/b3nnytran/ride-sharing/internal/storage"
)

// MatchClient asks the matching service for the nearest rider.
// Implementations return matcher.ErrNoRiderAvailable when matching
// found no candidate and wrap ErrMatchingUnavailable on transport
// failure.
type MatchClient interface {
	Match(ctx context.Context, userID int64) (models.Match, error)
}

// RiderClaimer reserves a matched rider before the ride is persisted.
// ErrConflict means the rider was taken by a concurrent booking.
type RiderClaimer interface {
	Claim(ctx context.Context, riderID int64) error
}

type EventPublisher interface {
	PublishRideEvent(ctx context.Context, ev events.RideEvent) error
}

type OfferDispatcher interface {
	Offer(riderID int64, offer dispatch.RideOffer) error
}

type Service struct {
	Matching MatchClient
	Rides    storage.RideStore

	// Claims enables the reservation step. Nil preserves the
	// original unreserved behavior: between matching and ride
	// creation nothing stops a concurrent request from matching the
	// same rider.
	Claims RiderClaimer

	Events   EventPublisher         // nil: no event stream
	Dispatch OfferDispatcher        // nil: no rider push
	Payments *payments.Coordinator  // nil: no payment holds
	Log      *slog.Logger
}

// RequestRide books a ride for the user. The returned ride carries the
// generated id, the computed fare and status Pending. There is no
// compensating action: a persisted ride is never rolled back when a
// later side effect fails.
func (s *Service) RequestRide(ctx context.Context, userID int64, pickup, dropoff string) (models.Ride, error) {
	m, err := s.Matching.Match(ctx, userID)
	if err != nil {
		return models.Ride{}, err
	}

	if s.Claims != nil {
		if err := s.Claims.Claim(ctx, m.RiderID); err != nil {
			return models.Ride{}, fmt.Errorf("claim rider %d: %w", m.RiderID, err)
		}
	}

	ride, err := s.Rides.CreateRide(ctx, models.Ride{
		UserID:          userID,
		RiderID:         m.RiderID,
		PickupLocation:  pickup,
		DropoffLocation: dropoff,
		DistanceKm:      models.Round2(m.DistanceKm),
		FareAmount:      fare.Calculate(m.DistanceKm),
	})
	if err != nil {
		return models.Ride{}, fmt.Errorf("persist ride: %w", err)
	}
	observability.RidesCreatedTotal.Inc()
	s.Log.Info("ride created", "ride_id", ride.ID, "user_id", userID, "rider_id", ride.RiderID,
		"distance_km", ride.DistanceKm, "fare_amount", ride.FareAmount)

	if s.Events != nil {
		if err := s.Events.PublishRideEvent(ctx, events.RideRequested(ride)); err != nil {
			s.Log.Warn("publish ride event failed", "ride_id", ride.ID, "error", err)
		}
	}
	if s.Dispatch != nil {
		_ = s.Dispatch.Offer(ride.RiderID, dispatch.RideOffer{
			RideID:          ride.ID,
			UserID:          ride.UserID,
			PickupLocation:  ride.PickupLocation,
			DropoffLocation: ride.DropoffLocation,
			DistanceKm:      ride.DistanceKm,
			FareAmount:      ride.FareAmount,
		})
	}
	if s.Payments != nil {
		s.Payments.HoldFare(ctx, ride.ID, ride.FareAmount)
	}

	return ride, nil
}

// UpdateStatus applies a status change and drives the payment hold
// accordingly: capture on Completed, release on Canceled.
func (s *Service) UpdateStatus(ctx context.Context, rideID int64, status models.RideStatus) (models.Ride, error) {
	ride, err := s.Rides.UpdateRideStatus(ctx, rideID, status)
	if err != nil {
		return models.Ride{}, err
	}
	observability.RideStatusUpdates.WithLabelValues(string(ride.Status)).Inc()

	if s.Events != nil {
		if err := s.Events.PublishRideEvent(ctx, events.RideStatusChanged(ride)); err != nil {
			s.Log.Warn("publish ride event failed", "ride_id", ride.ID, "error", err)
		}
	}
	if s.Payments != nil {
		switch ride.Status {
		case models.StatusCompleted:
			s.Payments.Capture(ctx, ride.ID)
		case models.StatusCanceled:
			s.Payments.Release(ctx, ride.ID)
		}
	}
	return ride, nil
}
