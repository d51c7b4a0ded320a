package models

import "time"

// User is a ride-requesting customer. Identity is owned by the user
// service; other services reference users by id only.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phone_number"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Rider is a driver available to be matched to ride requests.
type Rider struct {
	ID           int64       `json:"id"`
	UserID       int64       `json:"user_id"`
	VehicleType  string      `json:"vehicle_type"`
	LicensePlate string      `json:"license_plate"`
	Rating       float64     `json:"rating"`
	Status       RiderStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

// DistanceEntry is a known distance between a user and a rider.
// Exactly one entry exists per (user_id, rider_id) pair.
type DistanceEntry struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"user_id"`
	RiderID    int64   `json:"rider_id"`
	DistanceKm float64 `json:"distance_km"`
}

type Ride struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	RiderID         int64      `json:"rider_id"`
	PickupLocation  string     `json:"pickup_location"`
	DropoffLocation string     `json:"dropoff_location"`
	DistanceKm      float64    `json:"distance_km"`
	FareAmount      float64    `json:"fare_amount"`
	Status          RideStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Match is the outcome of a nearest-rider selection.
type Match struct {
	RiderID    int64   `json:"rider_id"`
	DistanceKm float64 `json:"distance_km"`
}
