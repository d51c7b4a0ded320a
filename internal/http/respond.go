package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/b3nnytran/ride-sharing/internal/booking"
	"github.com/b3nnytran/ride-sharing/internal/matcher"
	"github.com/b3nnytran/ride-sharing/internal/models"
	"github.com/b3nnytran/ride-sharing/internal/storage"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondDomainError maps sentinel errors from the domain packages to
// response codes. Unknown errors become opaque 500s so internals never
// leak past the boundary.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, storage.ErrConflict):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, storage.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidRideStatus),
		errors.Is(err, models.ErrInvalidRiderStatus),
		errors.Is(err, models.ErrInvalidLicensePlate),
		errors.Is(err, models.ErrInvalidPhoneNumber):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, matcher.ErrNoRiderAvailable):
		respondError(w, http.StatusNotFound, "no available riders found")
	case errors.Is(err, booking.ErrMatchingUnavailable):
		respondError(w, http.StatusServiceUnavailable, "matching unavailable")
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
