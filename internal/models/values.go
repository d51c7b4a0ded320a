package models

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

// RideStatus is the lifecycle state of a ride. Only membership in the
// allowed set is enforced; the ledger accepts any allowed target state
// from any current state.
type RideStatus string

const (
	StatusPending    RideStatus = "Pending"
	StatusInProgress RideStatus = "In Progress"
	StatusCompleted  RideStatus = "Completed"
	StatusCanceled   RideStatus = "Canceled"
)

func (s RideStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

var ErrInvalidRideStatus = errors.New("ride status must be one of Pending, In Progress, Completed, Canceled")

func ParseRideStatus(v string) (RideStatus, error) {
	s := RideStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRideStatus, v)
	}
	return s, nil
}

// RiderStatus marks whether a rider can be matched.
type RiderStatus string

const (
	RiderAvailable RiderStatus = "Available"
	RiderBusy      RiderStatus = "Busy"
)

func (s RiderStatus) Valid() bool {
	return s == RiderAvailable || s == RiderBusy
}

var ErrInvalidRiderStatus = errors.New("rider status must be Available or Busy")

func ParseRiderStatus(v string) (RiderStatus, error) {
	s := RiderStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRiderStatus, v)
	}
	return s, nil
}

var (
	licensePlateRe = regexp.MustCompile(`^[A-Z0-9-]{5,10}$`)
	phoneNumberRe  = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

	ErrInvalidLicensePlate = errors.New("license plate must be 5-10 uppercase letters, digits or hyphens")
	ErrInvalidPhoneNumber  = errors.New("phone number must be 10-15 digits with an optional leading +")
)

// ParseLicensePlate validates a plate on construction so handlers and
// stores never see a malformed value.
func ParseLicensePlate(v string) (string, error) {
	if !licensePlateRe.MatchString(v) {
		return "", fmt.Errorf("%w: %q", ErrInvalidLicensePlate, v)
	}
	return v, nil
}

func ParsePhoneNumber(v string) (string, error) {
	if !phoneNumberRe.MatchString(v) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhoneNumber, v)
	}
	return v, nil
}

// Round2 rounds monetary and distance values to the 2-decimal
// precision they are persisted with.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
