package matcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/b3nnytran/ride-sharing/internal/models"
)

// RiderServiceClient implements AvailabilityFilter over the rider
// service's HTTP listing endpoint. The full roster is fetched and
// filtered here; availability is a property of the rider record, not
// of the listing call.
type RiderServiceClient struct {
	BaseURL string
	Client  *http.Client
}

func NewRiderServiceClient(baseURL string) *RiderServiceClient {
	return &RiderServiceClient{BaseURL: baseURL, Client: &http.Client{Timeout: 5 * time.Second}}
}

func (c *RiderServiceClient) ListAvailable(ctx context.Context) ([]models.Rider, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/v1/riders", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rider service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rider service: unexpected status %d", resp.StatusCode)
	}
	var riders []models.Rider
	if err := json.NewDecoder(resp.Body).Decode(&riders); err != nil {
		return nil, fmt.Errorf("rider service: decode: %w", err)
	}
	out := riders[:0]
	for _, r := range riders {
		if r.Status == models.RiderAvailable {
			out = append(out, r)
		}
	}
	return out, nil
}
