package payments

import (
	"context"
	"log/slog"
	"math"
	"sync"
)

// Coordinator ties payment holds to rides. It tracks the open
// PaymentIntent per ride in memory; a hold that cannot be captured or
// released after a restart is reconciled out of band.
type Coordinator struct {
	client   *StripeClient
	currency string
	log      *slog.Logger

	mu      sync.Mutex
	intents map[int64]string
}

func NewCoordinator(client *StripeClient, currency string, log *slog.Logger) *Coordinator {
	return &Coordinator{
		client:   client,
		currency: currency,
		log:      log,
		intents:  make(map[int64]string),
	}
}

// HoldFare places a manual-capture hold for the ride's fare.
// Failures are logged, not propagated: the ride exists regardless.
func (c *Coordinator) HoldFare(ctx context.Context, rideID int64, amount float64) {
	id, err := c.client.Hold(ctx, int64(math.Round(amount)), c.currency)
	if err != nil {
		c.log.Warn("payment hold failed", "ride_id", rideID, "error", err)
		return
	}
	c.mu.Lock()
	c.intents[rideID] = id
	c.mu.Unlock()
	c.log.Info("payment held", "ride_id", rideID, "payment_intent", id)
}

// Capture settles the hold when the ride completes.
func (c *Coordinator) Capture(ctx context.Context, rideID int64) {
	if id, ok := c.take(rideID); ok {
		if err := c.client.Capture(ctx, id); err != nil {
			c.log.Warn("payment capture failed", "ride_id", rideID, "payment_intent", id, "error", err)
		}
	}
}

// Release cancels the hold when the ride is canceled.
func (c *Coordinator) Release(ctx context.Context, rideID int64) {
	if id, ok := c.take(rideID); ok {
		if err := c.client.Cancel(ctx, id); err != nil {
			c.log.Warn("payment release failed", "ride_id", rideID, "payment_intent", id, "error", err)
		}
	}
}

func (c *Coordinator) take(rideID int64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.intents[rideID]
	if ok {
		delete(c.intents, rideID)
	}
	return id, ok
}
