package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/b3nnytran/ride-sharing/internal/matcher"
	"github.com/b3nnytran/ride-sharing/internal/models"
	"github.com/b3nnytran/ride-sharing/internal/storage"
)

// ErrMatchingUnavailable reports that the matching service could not be
// reached or answered with an unexpected status. Surfaced as 503 at the
// booking boundary, distinct from the 404 of a no-riders outcome.
var ErrMatchingUnavailable = errors.New("matching service unavailable")

// HTTPMatchClient calls the matching service's match endpoint.
type HTTPMatchClient struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPMatchClient(baseURL string) *HTTPMatchClient {
	return &HTTPMatchClient{BaseURL: baseURL, Client: &http.Client{Timeout: 5 * time.Second}}
}

func (c *HTTPMatchClient) Match(ctx context.Context, userID int64) (models.Match, error) {
	body, err := json.Marshal(map[string]int64{"user_id": userID})
	if err != nil {
		return models.Match{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/v1/match", bytes.NewReader(body))
	if err != nil {
		return models.Match{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return models.Match{}, fmt.Errorf("%w: %v", ErrMatchingUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return models.Match{}, matcher.ErrNoRiderAvailable
	case resp.StatusCode != http.StatusOK:
		return models.Match{}, fmt.Errorf("%w: status %d", ErrMatchingUnavailable, resp.StatusCode)
	}

	var m models.Match
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return models.Match{}, fmt.Errorf("%w: decode: %v", ErrMatchingUnavailable, err)
	}
	return m, nil
}

// HTTPRiderClaimer reserves a rider through the rider service's claim
// endpoint.
type HTTPRiderClaimer struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPRiderClaimer(baseURL string) *HTTPRiderClaimer {
	return &HTTPRiderClaimer{BaseURL: baseURL, Client: &http.Client{Timeout: 5 * time.Second}}
}

func (c *HTTPRiderClaimer) Claim(ctx context.Context, riderID int64) error {
	url := fmt.Sprintf("%s/api/v1/riders/%d/claim", c.BaseURL, riderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("rider service: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusConflict:
		return storage.ErrConflict
	case http.StatusNotFound:
		return storage.ErrNotFound
	default:
		return fmt.Errorf("rider service: unexpected status %d", resp.StatusCode)
	}
}
