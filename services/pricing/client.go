package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"homely/models"

	"go.uber.org/zap"
)

// Client calls the external pricing preview endpoints. One operation per
// booking mode; each returns the normalized, variant-tagged preview.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a pricing client against the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// PreviewSingle previews one occurrence.
func (c *Client) PreviewSingle(ctx context.Context, req SingleRequest) (*models.PricePreview, error) {
	return c.post(ctx, "/v1/preview/single", req)
}

// PreviewMulti previews a composed list of occurrence timestamps.
func (c *Client) PreviewMulti(ctx context.Context, req MultiRequest) (*models.PricePreview, error) {
	return c.post(ctx, "/v1/preview/multi", req)
}

// PreviewRecurring previews a recurrence config. The server owns the
// authoritative occurrence expansion.
func (c *Client) PreviewRecurring(ctx context.Context, req RecurringRequest) (*models.PricePreview, error) {
	return c.post(ctx, "/v1/preview/recurring", req)
}

func (c *Client) post(ctx context.Context, path string, payload any) (*models.PricePreview, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("pricing request failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	var decoded previewResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return normalize(&decoded), nil
}
