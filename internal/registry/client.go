package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fuelquota-platform/fuelquota/internal/config"
)

// Validator answers whether an owner or vehicle exists in the external
// traffic-department registry.
type Validator interface {
	ValidateOwner(ctx context.Context, nic string) (bool, error)
	ValidateVehicle(ctx context.Context, vehicleNumber, chassisNumber string) (bool, error)
}

// Client talks to the traffic-department validation API. When the registry
// is unreachable and assumeValidOnError is set, validation degrades to
// accepting the input rather than blocking registration.
type Client struct {
	baseURL            string
	apiKey             string
	assumeValidOnError bool
	httpClient         *http.Client
}

func NewClient(cfg config.RegistryConfig) *Client {
	return &Client{
		baseURL:            cfg.BaseURL,
		apiKey:             cfg.APIKey,
		assumeValidOnError: cfg.AssumeValidOnError,
		httpClient:         &http.Client{Timeout: 10 * time.Second},
	}
}

type validationResponse struct {
	Valid bool `json:"valid"`
}

func (c *Client) ValidateOwner(ctx context.Context, nic string) (bool, error) {
	return c.validate(ctx, "/validate-owner", map[string]string{"nic": nic})
}

func (c *Client) ValidateVehicle(ctx context.Context, vehicleNumber, chassisNumber string) (bool, error) {
	return c.validate(ctx, "/validate-vehicle", map[string]string{
		"vehicle_number": vehicleNumber,
		"chassis_number": chassisNumber,
	})
}

func (c *Client) validate(ctx context.Context, path string, payload map[string]string) (bool, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("marshaling registry request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("building registry request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.degraded(path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return c.degraded(path, fmt.Errorf("registry returned status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	var out validationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return c.degraded(path, fmt.Errorf("decoding registry response: %w", err))
	}
	return out.Valid, nil
}

// degraded applies the configured unreachable-registry policy. A definitive
// "not valid" answer never goes through here, only transport-level failures.
func (c *Client) degraded(path string, err error) (bool, error) {
	if c.assumeValidOnError {
		slog.Warn("registry unreachable, assuming valid", "path", path, "error", err)
		return true, nil
	}
	return false, fmt.Errorf("registry validation failed: %w", err)
}
