package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/b3nnytran/ride-sharing/internal/models"
)

type PostgresRiderStore struct {
	db *sql.DB
}

func NewPostgresRiderStore(db *sql.DB) *PostgresRiderStore {
	return &PostgresRiderStore{db: db}
}

const riderColumns = `id, user_id, vehicle_type, license_plate, rating, status, created_at`

func (p *PostgresRiderStore) CreateRider(ctx context.Context, r models.Rider) (models.Rider, error) {
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO riders(user_id, vehicle_type, license_plate) VALUES($1,$2,$3)
		 RETURNING `+riderColumns,
		r.UserID, r.VehicleType, r.LicensePlate,
	).Scan(&r.ID, &r.UserID, &r.VehicleType, &r.LicensePlate, &r.Rating, &r.Status, &r.CreatedAt)
	if isUniqueViolation(err) {
		return models.Rider{}, ErrConflict
	}
	if err != nil {
		return models.Rider{}, err
	}
	return r, nil
}

func (p *PostgresRiderStore) GetRider(ctx context.Context, id int64) (models.Rider, error) {
	return scanRider(p.db.QueryRowContext(ctx,
		`SELECT `+riderColumns+` FROM riders WHERE id=$1`, id))
}

func (p *PostgresRiderStore) ListRiders(ctx context.Context, offset, limit int) ([]models.Rider, error) {
	if limit <= 0 {
		limit = 100
	}
	return p.queryRiders(ctx,
		`SELECT `+riderColumns+` FROM riders ORDER BY id OFFSET $1 LIMIT $2`, offset, limit)
}

func (p *PostgresRiderStore) UpdateRider(ctx context.Context, id int64, upd RiderUpdate) (models.Rider, error) {
	r, err := scanRider(p.db.QueryRowContext(ctx,
		`UPDATE riders SET
			vehicle_type = COALESCE($2, vehicle_type),
			license_plate = COALESCE($3, license_plate),
			status = COALESCE($4, status)
		 WHERE id=$1 RETURNING `+riderColumns,
		id, upd.VehicleType, upd.LicensePlate, (*string)(upd.Status)))
	if isUniqueViolation(err) {
		return models.Rider{}, ErrConflict
	}
	return r, err
}

func (p *PostgresRiderStore) ListAvailable(ctx context.Context) ([]models.Rider, error) {
	return p.queryRiders(ctx,
		`SELECT `+riderColumns+` FROM riders WHERE status='Available' ORDER BY id`)
}

func (p *PostgresRiderStore) ClaimRider(ctx context.Context, id int64) (models.Rider, error) {
	r, err := scanRider(p.db.QueryRowContext(ctx,
		`UPDATE riders SET status='Busy' WHERE id=$1 AND status='Available' RETURNING `+riderColumns, id))
	if errors.Is(err, ErrNotFound) {
		// distinguish a missing rider from a lost claim race
		if _, gerr := p.GetRider(ctx, id); gerr != nil {
			return models.Rider{}, gerr
		}
		return models.Rider{}, ErrConflict
	}
	return r, err
}

func (p *PostgresRiderStore) UpsertDistance(ctx context.Context, e models.DistanceEntry) (models.DistanceEntry, error) {
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO distance_matrix(user_id, rider_id, distance_km) VALUES($1,$2,$3)
		 ON CONFLICT (user_id, rider_id) DO UPDATE SET distance_km = EXCLUDED.distance_km
		 RETURNING id`,
		e.UserID, e.RiderID, e.DistanceKm,
	).Scan(&e.ID)
	if err != nil {
		return models.DistanceEntry{}, err
	}
	return e, nil
}

func (p *PostgresRiderStore) ListDistances(ctx context.Context, offset, limit int) ([]models.DistanceEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, user_id, rider_id, distance_km FROM distance_matrix ORDER BY id OFFSET $1 LIMIT $2`,
		offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.DistanceEntry
	for rows.Next() {
		var e models.DistanceEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.RiderID, &e.DistanceKm); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (p *PostgresRiderStore) DistanceBetween(ctx context.Context, userID, riderID int64) (float64, bool, error) {
	var d float64
	err := p.db.QueryRowContext(ctx,
		`SELECT distance_km FROM distance_matrix WHERE user_id=$1 AND rider_id=$2`,
		userID, riderID).Scan(&d)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return d, true, nil
}

func (p *PostgresRiderStore) queryRiders(ctx context.Context, query string, args ...any) ([]models.Rider, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Rider
	for rows.Next() {
		var r models.Rider
		if err := rows.Scan(&r.ID, &r.UserID, &r.VehicleType, &r.LicensePlate, &r.Rating, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRider(row *sql.Row) (models.Rider, error) {
	var r models.Rider
	err := row.Scan(&r.ID, &r.UserID, &r.VehicleType, &r.LicensePlate, &r.Rating, &r.Status, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Rider{}, ErrNotFound
	}
	if err != nil {
		return models.Rider{}, err
	}
	return r, nil
}
