package plantnet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"plant-identification-service/metrics"
	"plant-identification-service/models"
)

const providerName = "plantnet"

const (
	defaultFilename  = "image.jpg"
	maxResponseBytes = 4 << 20
)

// Client calls a PlantNet-style HTTP API. The same client shape serves the
// species API and the disease API; they differ only in base URL and key.
type Client struct {
	apiKey  string
	baseURL string
	project string
	client  *http.Client
}

// NewClient creates a PlantNet client. project selects the identification
// project and is only used by Identify.
func NewClient(apiKey, baseURL, project string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(baseURL, "/"),
		project: project,
		client:  &http.Client{Timeout: timeout},
	}
}

// Identify submits one image for species identification and returns the
// raw provider JSON. organs is filtered to the accepted tags and only the
// first surviving tag is transmitted: the endpoint requires exactly as
// many organ values as image parts, and there is exactly one image part.
func (c *Client) Identify(ctx context.Context, image []byte, filename string, organs []string) ([]byte, error) {
	organ := models.NormalizeOrgans(organs)[0]

	body, contentType, err := encodeImageForm(image, filename, organ)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/identify/%s?api-key=%s", c.baseURL, url.PathEscape(c.project), url.QueryEscape(c.apiKey))
	return c.post(ctx, endpoint, contentType, body)
}

// IdentifyDisease submits one image to the disease identification
// endpoint. The organ travels as a query parameter here, not a form field.
func (c *Client) IdentifyDisease(ctx context.Context, image []byte, filename, organ string) ([]byte, error) {
	body, contentType, err := encodeImageForm(image, filename, "")
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/diseases/identify?api-key=%s&organ=%s", c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(organ))
	return c.post(ctx, endpoint, contentType, body)
}

// Species fetches one page of the species catalog.
func (c *Client) Species(ctx context.Context, page, pageSize int, lang string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/species?lang=%s&pageSize=%d&page=%d&api-key=%s",
		c.baseURL, url.QueryEscape(lang), pageSize, page, url.QueryEscape(c.apiKey))
	return c.get(ctx, endpoint)
}

// Diseases fetches the disease catalog.
func (c *Client) Diseases(ctx context.Context) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/diseases?api-key=%s", c.baseURL, url.QueryEscape(c.apiKey))
	return c.get(ctx, endpoint)
}

// encodeImageForm builds a multipart body with one "images" part declared
// as image/jpeg. When organ is non-empty it is written as the "organs"
// form field, ahead of the image part in the order the endpoint is known
// to accept.
func encodeImageForm(image []byte, filename, organ string) (*bytes.Buffer, string, error) {
	if filename == "" {
		filename = defaultFilename
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if organ != "" {
		if err := writer.WriteField("organs", organ); err != nil {
			return nil, "", fmt.Errorf("failed to write organs field: %w", err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`, escapeQuotes(filename)))
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("failed to write image data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func (c *Client) post(ctx context.Context, endpoint, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req)
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req)
}

// do performs a single exchange. Transport failures and timeouts surface
// immediately as a ProviderError; there is no retry.
func (c *Client) do(req *http.Request) ([]byte, error) {
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
