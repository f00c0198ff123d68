package orders

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

// Client calls the external submission endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an orders client against the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Submit posts the assembled payload. On success it returns the order
// receipt; on failure it returns a *SubmissionError carrying the most
// specific server message, ErrRecurringTimeout for a recurring 504, or a
// transport-level sentinel.
func (c *Client) Submit(ctx context.Context, payload *models.SubmissionPayload) (*models.OrderReceipt, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal payload: %v", ErrInternal, err)
	}

	url := c.baseURL + "/v1/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("submission request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		var receipt models.OrderReceipt
		if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
			return nil, fmt.Errorf("%w: failed to decode receipt: %v", ErrInternal, err)
		}
		return &receipt, nil
	}

	// A gateway timeout on a recurring series may mean the order was
	// partially created server-side. Never hand the caller a retryable
	// error for that case.
	if resp.StatusCode == http.StatusGatewayTimeout && payload.Recurrence != nil {
		return nil, ErrRecurringTimeout
	}

	raw, _ := io.ReadAll(resp.Body)
	return nil, parseSubmissionError(resp.StatusCode, raw)
}

// parseSubmissionError decodes the structured failure body. An unstructured
// body still yields a SubmissionError so the caller gets the generic
// fallback message rather than raw transport text.
func parseSubmissionError(status int, raw []byte) error {
	subErr := &SubmissionError{Status: status}
	if err := json.Unmarshal(raw, subErr); err != nil {
		return &SubmissionError{Status: status}
	}
	return subErr
}
