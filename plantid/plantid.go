package plantid

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"plant-identification-service/metrics"
	"plant-identification-service/models"
)

const providerName = "plant.id"

// detailFields selects which suggestion details the provider includes.
const detailFields = "local_name,description,treatment,common_names"

const maxResponseBytes = 4 << 20

type healthRequest struct {
	Images []string `json:"images"`
	Health string   `json:"health"`
}

// Client calls the Plant.id (Kindwise) HTTP API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a Plant.id client.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// AssessHealth submits one image for a disease-only health assessment and
// returns the raw provider JSON. The image travels base64-encoded in the
// JSON body; the key in the Api-Key header.
func (c *Client) AssessHealth(ctx context.Context, image []byte) ([]byte, error) {
	reqBody := healthRequest{
		Images: []string{base64.StdEncoding.EncodeToString(image)},
		Health: "only",
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/identification?details=%s", c.baseURL, url.QueryEscape(detailFields))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.ProviderCallDurationSeconds.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues(providerName, "transport_error").Inc()
		return nil, &models.ProviderError{Provider: providerName, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues(providerName, "transport_error").Inc()
		return nil, &models.ProviderError{Provider: providerName, Message: "failed to read response body: " + err.Error(), Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.ProviderCallsTotal.WithLabelValues(providerName, "api_error").Inc()
		return nil, models.NewProviderError(providerName, resp.StatusCode, body)
	}

	metrics.ProviderCallsTotal.WithLabelValues(providerName, "success").Inc()
	return body, nil
}
