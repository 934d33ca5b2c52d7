package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultBaseURL is the Resend API root.
const DefaultBaseURL = "https://api.resend.com"

// maxErrorBody caps how much of a rejected response is kept for logging.
const maxErrorBody = 64 << 10

// Message is one email handed to the provider.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`

	// IdempotencyKey is sent as a header, not in the body.
	IdempotencyKey string `json:"-"`
}

// SendResult is the provider's acknowledgement of an accepted email.
type SendResult struct {
	ID string `json:"id"`
}

// APIError is returned when the provider answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	// Name is the provider's error code, e.g. "validation_error", when the
	// body carried one.
	Name string
	Body string
}

func (e *APIError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("mailer: provider rejected email: %s (%s)", e.Status, e.Name)
	}
	return fmt.Sprintf("mailer: provider rejected email: %s", e.Status)
}

// keyReusedName is the code the provider answers with when an idempotency key
// it has already accepted arrives with a different payload.
const keyReusedName = "invalid_idempotent_request"

// IsKeyReused reports whether err is the provider refusing a payload because
// its idempotency key was already used for an earlier, accepted email.
func IsKeyReused(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.StatusCode == http.StatusConflict &&
		apiErr.Name == keyReusedName
}

// Client sends emails through the Resend HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// NewClient returns a Client. A nil hc uses http.DefaultClient, which carries
// no timeout of its own; the request context bounds each call.
func NewClient(baseURL, apiKey string, hc *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		hc:      hc,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Send posts msg to the provider. A non-2xx answer yields *APIError; transport
// and decoding failures are returned wrapped.
func (c *Client) Send(ctx context.Context, msg Message) (*SendResult, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("mailer: not configured")
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("mailer: encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("mailer: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if msg.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", msg.IdempotencyKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mailer: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var detail struct {
			Name string `json:"name"`
		}
		_ = json.Unmarshal(body, &detail)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Name:       detail.Name,
			Body:       string(body),
		}
	}

	var result SendResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("mailer: decode response: %w", err)
	}
	return &result, nil
}
