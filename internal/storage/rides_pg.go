package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/b3nnytran/ride-sharing/internal/models"
)

type PostgresRideStore struct {
	db *sql.DB
}

func NewPostgresRideStore(db *sql.DB) *PostgresRideStore {
	return &PostgresRideStore{db: db}
}

const rideColumns = `id, user_id, rider_id, pickup_location, dropoff_location, distance_km, fare_amount, status, created_at, updated_at`

func (p *PostgresRideStore) CreateRide(ctx context.Context, r models.Ride) (models.Ride, error) {
	// status is forced to Pending here, not taken from the caller
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO rides(user_id, rider_id, pickup_location, dropoff_location, distance_km, fare_amount, status)
		 VALUES($1,$2,$3,$4,$5,$6,'Pending') RETURNING `+rideColumns,
		r.UserID, r.RiderID, r.PickupLocation, r.DropoffLocation, r.DistanceKm, r.FareAmount,
	).Scan(&r.ID, &r.UserID, &r.RiderID, &r.PickupLocation, &r.DropoffLocation,
		&r.DistanceKm, &r.FareAmount, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return models.Ride{}, err
	}
	return r, nil
}

func (p *PostgresRideStore) GetRide(ctx context.Context, id int64) (models.Ride, error) {
	return scanRide(p.db.QueryRowContext(ctx,
		`SELECT `+rideColumns+` FROM rides WHERE id=$1`, id))
}

func (p *PostgresRideStore) ListRides(ctx context.Context, offset, limit int) ([]models.Ride, error) {
	if limit <= 0 {
		limit = 100
	}
	return p.queryRides(ctx,
		`SELECT `+rideColumns+` FROM rides ORDER BY id OFFSET $1 LIMIT $2`, offset, limit)
}

func (p *PostgresRideStore) ListRidesByUser(ctx context.Context, userID int64) ([]models.Ride, error) {
	return p.queryRides(ctx,
		`SELECT `+rideColumns+` FROM rides WHERE user_id=$1 ORDER BY id`, userID)
}

func (p *PostgresRideStore) ListRidesByRider(ctx context.Context, riderID int64) ([]models.Ride, error) {
	return p.queryRides(ctx,
		`SELECT `+rideColumns+` FROM rides WHERE rider_id=$1 ORDER BY id`, riderID)
}

func (p *PostgresRideStore) UpdateRideStatus(ctx context.Context, id int64, status models.RideStatus) (models.Ride, error) {
	if !status.Valid() {
		return models.Ride{}, ErrInvalidStatus
	}
	return scanRide(p.db.QueryRowContext(ctx,
		`UPDATE rides SET status=$2, updated_at=now() WHERE id=$1 RETURNING `+rideColumns,
		id, string(status)))
}

func (p *PostgresRideStore) queryRides(ctx context.Context, query string, args ...any) ([]models.Ride, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Ride
	for rows.Next() {
		var r models.Ride
		if err := rows.Scan(&r.ID, &r.UserID, &r.RiderID, &r.PickupLocation, &r.DropoffLocation,
			&r.DistanceKm, &r.FareAmount, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRide(row *sql.Row) (models.Ride, error) {
	var r models.Ride
	err := row.Scan(&r.ID, &r.UserID, &r.RiderID, &r.PickupLocation, &r.DropoffLocation,
		&r.DistanceKm, &r.FareAmount, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ride{}, ErrNotFound
	}
	if err != nil {
		return models.Ride{}, err
	}
	return r, nil
}
